package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w4l-ops/fba-replenish/internal/domain"
	"github.com/w4l-ops/fba-replenish/internal/report"
)

// captureRepo records the snapshot handed to the warehouse.
type captureRepo struct {
	snapshot domain.Snapshot
	replaced int
}

func (r *captureRepo) EnsureSchema(ctx context.Context) error { return nil }

func (r *captureRepo) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	r.snapshot = snapshot
	r.replaced++
	return nil
}

func (r *captureRepo) GetSnapshot(ctx context.Context, runDate time.Time) ([]domain.ReplenishmentRow, error) {
	return r.snapshot.Rows, nil
}

func (r *captureRepo) GetLatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	s := r.snapshot
	return &s, nil
}

func (r *captureRepo) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	return []time.Time{r.snapshot.RunDate}, nil
}

func TestIngestWorksheetKeepsAllStandaloneRows(t *testing.T) {
	repo := &captureRepo{}
	svc := NewReplenishmentService(repo)

	// Standalone merchant rows share the "-" FBA SKU; every one of them must
	// reach the warehouse as its own row.
	ws := &report.Worksheet{Rows: []*report.Row{
		{FBASKU: "X1", MerchantSKUs: []string{"X1M"}},
		{FBASKU: report.NoFBASKU, MerchantSKUs: []string{"Y2M"}},
		{FBASKU: report.NoFBASKU, MerchantSKUs: []string{"W5M"}},
	}}
	runDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.IngestWorksheet(context.Background(), runDate, ws))

	require.Len(t, repo.snapshot.Rows, 3)
	assert.Equal(t, runDate, repo.snapshot.RunDate)

	var standalone []string
	for _, row := range repo.snapshot.Rows {
		if row.FBASKU == report.NoFBASKU {
			standalone = append(standalone, row.MerchantSKUs)
		}
	}
	assert.Equal(t, []string{"Y2M", "W5M"}, standalone)
}

func TestIngestWorksheetIsIdempotentPerRunDate(t *testing.T) {
	repo := &captureRepo{}
	svc := NewReplenishmentService(repo)

	ws := &report.Worksheet{Rows: []*report.Row{
		{FBASKU: "X1", MerchantSKUs: []string{"X1M"}},
	}}
	runDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.IngestWorksheet(context.Background(), runDate, ws))
	require.NoError(t, svc.IngestWorksheet(context.Background(), runDate, ws))

	// Snapshots replace whole runs rather than merging into them.
	assert.Equal(t, 2, repo.replaced)
	require.Len(t, repo.snapshot.Rows, 1)
}
