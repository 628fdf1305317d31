package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/w4l-ops/fba-replenish/internal/config"
	"github.com/w4l-ops/fba-replenish/internal/exports"
	"github.com/w4l-ops/fba-replenish/internal/report"
	"github.com/w4l-ops/fba-replenish/internal/resources"
	"github.com/w4l-ops/fba-replenish/internal/share"
	"github.com/w4l-ops/fba-replenish/internal/storage"
	"github.com/w4l-ops/fba-replenish/pkg/logger"
)

func runWorksheet(c *cli.Context) error {
	cfg := config.Load()
	if err := validateConfig(cfg, c.String("region")); err != nil {
		return err
	}

	region := cfg.Report.Region
	if v := c.String("region"); v != "" {
		region = v
	}
	exportsDir := cfg.Report.ExportsDir
	if v := c.String("exports-dir"); v != "" {
		exportsDir = v
	}

	mappingPath := resources.MappingPath(cfg.Report.DataDir)
	if !c.Bool("skip-refresh") {
		path, err := refreshMapping(c.Context, cfg)
		if err != nil {
			return err
		}
		mappingPath = path
	}

	mappingTable, err := resources.LoadMappingCSV(mappingPath)
	if err != nil {
		return fmt.Errorf("load sku mapping: %w", err)
	}
	partNumbers, err := resources.PartNumberMap(mappingTable, region)
	if err != nil {
		return err
	}
	supersessions, err := resources.SupersessionMap(mappingTable, region)
	if err != nil {
		return err
	}
	logger.Log.Info().
		Str("region", region).
		Int("part_numbers", len(partNumbers)).
		Int("supersessions", len(supersessions)).
		Msg("sku mapping loaded")

	src, err := exports.NewLoader(exportsDir, cfg.Columns).Load()
	if err != nil {
		return fmt.Errorf("load exports from %s: %w", exportsDir, err)
	}

	builder := report.NewBuilder(cfg, partNumbers, supersessions)
	ws, err := builder.Build(src)
	if err != nil {
		return err
	}

	runDate := time.Now().Format("2006-01-02")
	worksheetPath := filepath.Join(cfg.Report.ResultsDir, fmt.Sprintf("replenishment_%s.csv", runDate))
	if err := report.WriteWorksheetCSV(ws, worksheetPath); err != nil {
		return err
	}
	logger.Log.Info().
		Str("path", worksheetPath).
		Int("rows", len(ws.Rows)).
		Int("inconsistent_skus", len(ws.Inconsistent)).
		Msg("replenishment worksheet written")

	candidates, err := builder.PotentialUnmapped(src.Listings)
	if err != nil {
		return err
	}
	if len(candidates) > 0 {
		candidatesPath := filepath.Join(cfg.Report.ResultsDir, fmt.Sprintf("potential_unmapped_%s.csv", runDate))
		if err := report.WriteUnmappedCandidatesCSV(candidates, candidatesPath); err != nil {
			return err
		}
		logger.Log.Info().Str("path", candidatesPath).Int("rows", len(candidates)).
			Msg("potential unmapped listings written for review")
	}

	if c.Bool("debug-artifacts") {
		artifactPath := filepath.Join(cfg.Report.DataDir, "fba_sku_asin.json")
		if err := report.WriteSKUASINJSON(ws.Mapping, artifactPath); err != nil {
			return err
		}
		logger.Log.Debug().Str("path", artifactPath).Msg("sku-asin artifact written")
	}

	return nil
}

func validateConfig(cfg *config.Config, regionOverride string) error {
	if err := cfg.Columns.Validate(); err != nil {
		return err
	}
	if err := cfg.Forecast.Validate(); err != nil {
		return err
	}
	region := cfg.Report.Region
	if regionOverride != "" {
		region = regionOverride
	}
	return resources.ValidateRegion(region)
}

func fetchMapping(c *cli.Context) error {
	cfg := config.Load()
	path, err := refreshMapping(c.Context, cfg)
	if err != nil {
		return err
	}
	logger.Log.Info().Str("path", path).Msg("sku mapping fetched")
	return nil
}

func refreshMapping(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Sheets.CredentialsJSON == "" {
		return "", fmt.Errorf("GOOGLE_SHEETS_CREDENTIALS_JSON is not set; use --skip-refresh to reuse the persisted mapping")
	}

	sheetsSvc, err := resources.NewSheetsService(ctx, cfg.Sheets.CredentialsJSON)
	if err != nil {
		return "", err
	}
	cache, err := resources.NewMappingCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("mapping cache unavailable, continuing without it")
		cache = resources.NewNoopMappingCache()
	}
	return resources.NewRefresher(sheetsSvc, cache, cfg.Sheets, cfg.Report.DataDir).Refresh(ctx)
}

func downloadBundle(c *cli.Context) error {
	cfg := config.Load()
	exportsDir := cfg.Report.ExportsDir
	if v := c.String("exports-dir"); v != "" {
		exportsDir = v
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}
	_, err = storage.DownloadPrefix(c.Context, client, c.String("prefix"), exportsDir)
	return err
}

func serveResults(c *cli.Context) error {
	cfg := config.Load()
	port := cfg.Report.SharePort
	if v := c.String("port"); v != "" {
		port = v
	}

	srv := share.NewServer(cfg.Report.ResultsDir, port)

	go func() {
		logger.Log.Info().Str("port", port).Str("dir", cfg.Report.ResultsDir).
			Msg("serving results directory")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("results server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down results server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
