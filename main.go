package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aistudio/smart-extractor/internal/history"
	"github.com/aistudio/smart-extractor/internal/run"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "smart-extractor",
		Usage: "Classify web resources, extract their content, and file them as markdown",
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Process a resource manifest into the knowledge tree",
				Action: run.ExtractAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Value:   "data/resources-raw/resources-raw.json",
						Usage:   "Input JSON file with resources",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "knowledge",
						Usage:   "Output directory for extracted content",
					},
					&cli.DurationFlag{
						Name:    "timeout",
						Aliases: []string{"t"},
						Value:   30 * time.Second,
						Usage:   "HTTP request timeout",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Enable verbose logging",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "yaml",
						Usage: "Run summary format printed to stdout: yaml or json",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the run-history database (default: next to the binary)",
					},
					&cli.BoolFlag{
						Name:  "no-db",
						Usage: "Disable run-history recording",
					},
				},
			},
			{
				Name:      "runs",
				Usage:     "Show run history, or per-resource results for one run",
				ArgsUsage: "[run-id]",
				Action:    history.RunsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "Maximum number of runs to list",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the run-history database (default: next to the binary)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
