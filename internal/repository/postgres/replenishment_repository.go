package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/w4l-ops/fba-replenish/internal/domain"
)

type ReplenishmentRepository interface {
	EnsureSchema(ctx context.Context) error
	ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	GetSnapshot(ctx context.Context, runDate time.Time) ([]domain.ReplenishmentRow, error)
	GetLatestSnapshot(ctx context.Context) (*domain.Snapshot, error)
	GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error)
}

type replenishmentRepository struct {
	db *DB
}

func NewReplenishmentRepository(db *DB) ReplenishmentRepository {
	return &replenishmentRepository{db: db}
}

// Standalone merchant rows all share the "-" FBA SKU, so worksheet rows have
// no natural per-SKU key. Snapshots are therefore keyed by run date alone and
// replaced wholesale; there is no per-row conflict clause anywhere.
const createTableQuery = `
	CREATE TABLE IF NOT EXISTS replenishment_rows (
		id BIGSERIAL PRIMARY KEY,
		run_date DATE NOT NULL,
		fba_sku TEXT NOT NULL,
		merchant_skus TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		asin TEXT NOT NULL DEFAULT '',
		part_number TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION,
		on_hand DOUBLE PRECISION NOT NULL DEFAULT 0,
		inbound DOUBLE PRECISION NOT NULL DEFAULT 0,
		shipped_1w DOUBLE PRECISION,
		shipped_2w DOUBLE PRECISION,
		shipped_3w DOUBLE PRECISION,
		shipped_4w DOUBLE PRECISION,
		sales_30d DOUBLE PRECISION NOT NULL DEFAULT 0,
		sales_60d DOUBLE PRECISION NOT NULL DEFAULT 0,
		sales_90d DOUBLE PRECISION NOT NULL DEFAULT 0,
		sales_12m DOUBLE PRECISION NOT NULL DEFAULT 0,
		sales_2yr DOUBLE PRECISION NOT NULL DEFAULT 0,
		merchant_sales_30d DOUBLE PRECISION NOT NULL DEFAULT 0,
		merchant_sales_12m DOUBLE PRECISION NOT NULL DEFAULT 0,
		wma_forecast DOUBLE PRECISION NOT NULL DEFAULT 0,
		recommended_shipment DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const createIndexQuery = `
	CREATE INDEX IF NOT EXISTS replenishment_rows_run_date_idx
		ON replenishment_rows (run_date)
`

// EnsureSchema creates the snapshot table idempotently; there is no
// migrations directory, the seeder bootstraps its own storage.
func (r *replenishmentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("ensure snapshot table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createIndexQuery); err != nil {
		return fmt.Errorf("ensure snapshot index: %w", err)
	}
	return nil
}

const insertRowQuery = `
	INSERT INTO replenishment_rows (
		run_date, fba_sku, merchant_skus, title, asin, part_number, price,
		on_hand, inbound,
		shipped_1w, shipped_2w, shipped_3w, shipped_4w,
		sales_30d, sales_60d, sales_90d, sales_12m, sales_2yr,
		merchant_sales_30d, merchant_sales_12m,
		wma_forecast, recommended_shipment
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
	)
`

// ReplaceSnapshot writes one run's rows in a single transaction, clearing
// any earlier rows for the same run date first so re-seeding is idempotent
// and no row can shadow another.
func (r *replenishmentRepository) ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM replenishment_rows WHERE run_date = $1`, snapshot.RunDate); err != nil {
			return fmt.Errorf("clear snapshot for %s: %w",
				snapshot.RunDate.Format("2006-01-02"), err)
		}

		stmt, err := tx.PrepareContext(ctx, insertRowQuery)
		if err != nil {
			return fmt.Errorf("prepare snapshot insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range snapshot.Rows {
			_, err := stmt.ExecContext(ctx,
				snapshot.RunDate, row.FBASKU, row.MerchantSKUs, row.Title, row.ASIN,
				row.PartNumber, row.Price, row.OnHand, row.Inbound,
				row.Shipped1W, row.Shipped2W, row.Shipped3W, row.Shipped4W,
				row.Sales30D, row.Sales60D, row.Sales90D, row.Sales12M, row.Sales2Yr,
				row.MerchantSales30D, row.MerchantSales12M,
				row.Forecast, row.Recommended,
			)
			if err != nil {
				return fmt.Errorf("insert row %s for %s: %w",
					row.FBASKU, snapshot.RunDate.Format("2006-01-02"), err)
			}
		}
		return nil
	})
}

const selectRowsQuery = `
	SELECT
		id, run_date, fba_sku, merchant_skus, title, asin, part_number, price,
		on_hand, inbound,
		shipped_1w, shipped_2w, shipped_3w, shipped_4w,
		sales_30d, sales_60d, sales_90d, sales_12m, sales_2yr,
		merchant_sales_30d, merchant_sales_12m,
		wma_forecast, recommended_shipment
	FROM replenishment_rows
	WHERE run_date = $1
	ORDER BY recommended_shipment DESC, sales_30d DESC, merchant_sales_30d DESC
`

func (r *replenishmentRepository) GetSnapshot(ctx context.Context, runDate time.Time) ([]domain.ReplenishmentRow, error) {
	var rows []domain.ReplenishmentRow
	if err := r.db.SelectContext(ctx, &rows, selectRowsQuery, runDate); err != nil {
		return nil, fmt.Errorf("error getting snapshot rows: %w", err)
	}
	return rows, nil
}

// ErrNoSnapshots is returned when the warehouse holds no runs yet.
var ErrNoSnapshots = errors.New("no replenishment snapshots stored")

func (r *replenishmentRepository) GetLatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var runDate time.Time
	err := r.db.GetContext(ctx, &runDate,
		`SELECT run_date FROM replenishment_rows ORDER BY run_date DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshots
	}
	if err != nil {
		return nil, fmt.Errorf("error getting latest run date: %w", err)
	}

	rows, err := r.GetSnapshot(ctx, runDate)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{RunDate: runDate, Rows: rows}, nil
}

func (r *replenishmentRepository) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT DISTINCT run_date
		FROM replenishment_rows
		ORDER BY run_date DESC
		LIMIT $1
	`

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, limit); err != nil {
		return nil, fmt.Errorf("error getting available dates: %w", err)
	}
	return dates, nil
}
