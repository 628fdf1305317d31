package resources

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

// WorksheetFetcher is what the refresher needs from the spreadsheet side;
// satisfied by SheetsService.
type WorksheetFetcher interface {
	FetchWorksheet(ctx context.Context, spreadsheetID, worksheetName string) ([][]string, error)
}

// Refresher keeps the local mapping CSV current: cache first, spreadsheet on
// a miss, persisted to the data dir either way.
type Refresher struct {
	fetcher WorksheetFetcher
	cache   MappingCache
	cfg     config.SheetsConfig
	path    string
}

func NewRefresher(fetcher WorksheetFetcher, cache MappingCache, cfg config.SheetsConfig, dataDir string) *Refresher {
	return &Refresher{
		fetcher: fetcher,
		cache:   cache,
		cfg:     cfg,
		path:    MappingPath(dataDir),
	}
}

// Refresh updates the persisted mapping CSV and returns its path. A cache
// read failure falls through to the spreadsheet; a cache write failure only
// warns, since the CSV on disk is the load-bearing artifact.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	rows, hit, err := r.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("mapping cache read failed, fetching worksheet")
	}
	if !hit {
		rows, err = r.fetcher.FetchWorksheet(ctx, r.cfg.SpreadsheetID, r.cfg.WorksheetName)
		if err != nil {
			return "", fmt.Errorf("refresh sku mapping: %w", err)
		}
		if err := r.cache.Set(ctx, rows); err != nil {
			log.Warn().Err(err).Msg("mapping cache write failed")
		}
	} else {
		log.Info().Int("rows", len(rows)).Msg("sku mapping served from cache")
	}

	if err := SaveMappingCSV(rows, r.path); err != nil {
		return "", fmt.Errorf("refresh sku mapping: %w", err)
	}
	log.Info().Str("path", r.path).Int("rows", len(rows)).Msg("sku mapping refreshed")
	return r.path, nil
}
