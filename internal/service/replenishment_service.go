package service

import (
	"context"
	"strings"
	"time"

	"github.com/w4l-ops/fba-replenish/internal/domain"
	"github.com/w4l-ops/fba-replenish/internal/report"
	"github.com/w4l-ops/fba-replenish/internal/repository/postgres"
)

type ReplenishmentService struct {
	repo postgres.ReplenishmentRepository
}

func NewReplenishmentService(repo postgres.ReplenishmentRepository) *ReplenishmentService {
	return &ReplenishmentService{repo: repo}
}

func (s *ReplenishmentService) IngestWorksheet(ctx context.Context, runDate time.Time, ws *report.Worksheet) error {
	snapshot := domain.Snapshot{
		RunDate: runDate,
		Rows:    make([]domain.ReplenishmentRow, 0, len(ws.Rows)),
	}
	for _, row := range ws.Rows {
		snapshot.Rows = append(snapshot.Rows, toDomainRow(runDate, row))
	}
	return s.repo.ReplaceSnapshot(ctx, snapshot)
}

func (s *ReplenishmentService) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.GetLatestSnapshot(ctx)
}

func (s *ReplenishmentService) Snapshot(ctx context.Context, runDate time.Time) ([]domain.ReplenishmentRow, error) {
	return s.repo.GetSnapshot(ctx, runDate)
}

func (s *ReplenishmentService) AvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	return s.repo.GetAvailableDates(ctx, limit)
}

func toDomainRow(runDate time.Time, row *report.Row) domain.ReplenishmentRow {
	return domain.ReplenishmentRow{
		RunDate:          runDate,
		FBASKU:           row.FBASKU,
		MerchantSKUs:     strings.Join(row.MerchantSKUs, ","),
		Title:            row.Title,
		ASIN:             row.ASIN,
		PartNumber:       row.PartNumber,
		Price:            row.Price,
		OnHand:           row.OnHand,
		Inbound:          row.Inbound,
		Shipped1W:        row.Weekly[0],
		Shipped2W:        row.Weekly[1],
		Shipped3W:        row.Weekly[2],
		Shipped4W:        row.Weekly[3],
		Sales30D:         row.Sales[0],
		Sales60D:         row.Sales[1],
		Sales90D:         row.Sales[2],
		Sales12M:         row.Sales[3],
		Sales2Yr:         row.Sales[4],
		MerchantSales30D: row.MerchantSales30,
		MerchantSales12M: row.MerchantSales12M,
		Forecast:         row.Forecast,
		Recommended:      row.Recommended,
	}
}
