package history

import (
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/aistudio/smart-extractor/pkg/db"
	"github.com/urfave/cli/v2"
)

// RunsAction lists recent runs. With a run ID argument it shows the
// per-resource outcomes for that run instead.
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if c.Args().Len() > 0 {
		runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", c.Args().First(), err)
		}
		return showRun(database, runID)
	}

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-20s %-6s %-8s %-8s %-30s\n",
		"ID", "Started", "Finished", "URLs", "Success", "Failed", "Input")
	fmt.Println(strings.Repeat("-", 104))

	for _, r := range runs {
		finished := "-"
		if r.FinishedAt.Valid {
			finished = r.FinishedAt.Time.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-6d %-20s %-20s %-6d %-8d %-8d %-30s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			finished,
			r.URLCount,
			r.SuccessCount,
			r.FailedCount,
			r.InputFile,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'smart-extractor runs <id>' to see per-resource results\n")

	return nil
}

func showRun(database *dbpkg.DB, runID int64) error {
	resources, err := database.RunResources(runID)
	if err != nil {
		return fmt.Errorf("failed to get run resources: %w", err)
	}

	if len(resources) == 0 {
		fmt.Printf("Run %d has no recorded resources\n", runID)
		return nil
	}

	fmt.Printf("%-10s %-14s %-12s %-7s %-50s\n", "Status", "Type", "Extractor", "Words", "URL")
	fmt.Println(strings.Repeat("-", 98))

	for _, r := range resources {
		fmt.Printf("%-10s %-14s %-12s %-7d %-50s\n",
			r.Status, r.ResourceType, r.Extractor, r.WordCount, r.URL)
		if r.ErrorMessage != "" {
			fmt.Printf("           error: %s\n", r.ErrorMessage)
		}
		if r.OutputFile != "" {
			fmt.Printf("           saved: %s\n", r.OutputFile)
		}
	}

	fmt.Printf("\nTotal: %d resources\n", len(resources))
	return nil
}
