package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/w4l-ops/fba-replenish/internal/report"
	"github.com/w4l-ops/fba-replenish/internal/repository/postgres"
	"github.com/w4l-ops/fba-replenish/internal/service"
	"github.com/w4l-ops/fba-replenish/pkg/logger"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load produced replenishment worksheets into the warehouse",
		Commands: []*cli.Command{
			{
				Name:  "worksheet",
				Usage: "Seed one worksheet CSV as a snapshot",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Worksheet CSV produced by the report command",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "run-date",
						Usage: "Snapshot date (YYYY-MM-DD); derived from the filename when omitted",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedWorksheet,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed command failed")
	}
}

func seedWorksheet(c *cli.Context) error {
	db := c.Context.Value(dbKey).(*postgres.DB)
	path := c.String("file")

	runDate, err := resolveRunDate(c.String("run-date"), path)
	if err != nil {
		return err
	}

	ws, err := report.ReadWorksheetCSV(path)
	if err != nil {
		return err
	}

	ctx := c.Context
	repo := postgres.NewReplenishmentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := service.NewReplenishmentService(repo).IngestWorksheet(ctx, runDate, ws); err != nil {
		return err
	}

	logger.Log.Info().
		Str("file", path).
		Str("run_date", runDate.Format("2006-01-02")).
		Int("rows", len(ws.Rows)).
		Msg("worksheet snapshot seeded")
	return nil
}

// resolveRunDate prefers the explicit flag, then a replenishment_YYYY-MM-DD
// filename, then today.
func resolveRunDate(flag, path string) (time.Time, error) {
	if flag != "" {
		d, err := time.Parse("2006-01-02", flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid run-date %q: %w", flag, err)
		}
		return d, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.LastIndexByte(base, '_'); idx >= 0 {
		if d, err := time.Parse("2006-01-02", base[idx+1:]); err == nil {
			return d, nil
		}
	}
	return time.Now().Truncate(24 * time.Hour), nil
}
