package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/w4l-ops/fba-replenish/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "report",
		Usage: "Generate the FBA replenishment worksheet from marketplace exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Build the replenishment worksheet from the local exports directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "exports-dir",
						Usage:   "Directory holding the export report folders",
						EnvVars: []string{"REPORT_EXPORTS_DIR"},
					},
					&cli.StringFlag{
						Name:    "region",
						Usage:   "Marketplace region for the part-number mapping",
						EnvVars: []string{"REPORT_REGION"},
					},
					&cli.BoolFlag{
						Name:  "skip-refresh",
						Usage: "Use the persisted mapping CSV instead of refreshing it first",
					},
					&cli.BoolFlag{
						Name:  "debug-artifacts",
						Usage: "Also write the fba_sku -> asin mapping JSON to the data dir",
					},
				},
				Action: runWorksheet,
			},
			{
				Name:   "fetch-mapping",
				Usage:  "Refresh the canonical part-number mapping from the spreadsheet",
				Action: fetchMapping,
			},
			{
				Name:  "download",
				Usage: "Download an export bundle from object storage into the exports directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prefix",
						Usage:    "Bucket prefix of the export bundle",
						Required: true,
						EnvVars:  []string{"REPORT_BUNDLE_PREFIX"},
					},
					&cli.StringFlag{
						Name:    "exports-dir",
						Usage:   "Destination directory for the bundle",
						EnvVars: []string{"REPORT_EXPORTS_DIR"},
					},
				},
				Action: downloadBundle,
			},
			{
				Name:  "serve-results",
				Usage: "Serve the results directory over HTTP for spreadsheet imports",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Usage:   "Port to listen on",
						EnvVars: []string{"REPORT_SHARE_PORT"},
					},
				},
				Action: serveResults,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("report command failed")
	}
}
