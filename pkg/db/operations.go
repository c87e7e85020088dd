package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Run represents one batch execution.
type Run struct {
	RunID        int64
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	InputFile    string
	OutputDir    string
	URLCount     int
	SuccessCount int
	FailedCount  int
}

// RunResource is the recorded outcome for one URL within a run.
type RunResource struct {
	URL          string
	ResourceType string
	Status       string
	ErrorMessage string
	OutputFile   string
	Extractor    string
	WordCount    int
}

// InsertURL inserts a URL with its classification, returning the url_id.
// If the URL already exists, returns the existing url_id and refreshes
// the stored resource type.
func (db *DB) InsertURL(rawURL, resourceType string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	// Check if URL already exists
	var existingID int64
	err = db.QueryRow("SELECT url_id FROM urls WHERE original_url = ?", rawURL).Scan(&existingID)
	if err == nil {
		if resourceType != "" {
			if _, err := db.Exec("UPDATE urls SET resource_type = ? WHERE url_id = ?", resourceType, existingID); err != nil {
				return 0, fmt.Errorf("failed to update resource type: %w", err)
			}
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO urls (original_url, domain, resource_type)
		VALUES (?, ?, ?)
	`, rawURL, parsed.Host, resourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// StartRun records the beginning of a batch, returning the run_id.
func (db *DB) StartRun(inputFile, outputDir string, urlCount int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (input_file, output_dir, url_count)
		VALUES (?, ?, ?)
	`, inputFile, outputDir, urlCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun closes out a run with its final counts.
func (db *DB) FinishRun(runID int64, successCount, failedCount int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, success_count = ?, failed_count = ?
		WHERE run_id = ?
	`, successCount, failedCount, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordResource records the outcome for one URL within a run.
func (db *DB) RecordResource(runID, urlID int64, status, errorMessage, outputFile, extractor string, wordCount int) error {
	_, err := db.Exec(`
		INSERT INTO run_resources (run_id, url_id, status, error_message, output_file, extractor, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url_id) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			output_file = excluded.output_file,
			extractor = excluded.extractor,
			word_count = excluded.word_count
	`, runID, urlID, status, errorMessage, outputFile, extractor, wordCount)
	if err != nil {
		return fmt.Errorf("failed to record resource: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT run_id, started_at, finished_at, input_file, output_dir,
		       url_count, success_count, failed_count
		FROM runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.InputFile,
			&r.OutputDir, &r.URLCount, &r.SuccessCount, &r.FailedCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResources returns the per-URL outcomes for a run, in insertion order.
func (db *DB) RunResources(runID int64) ([]RunResource, error) {
	rows, err := db.Query(`
		SELECT u.original_url, COALESCE(u.resource_type, ''),
		       rr.status, COALESCE(rr.error_message, ''),
		       COALESCE(rr.output_file, ''), COALESCE(rr.extractor, ''),
		       rr.word_count
		FROM run_resources rr
		JOIN urls u ON u.url_id = rr.url_id
		WHERE rr.run_id = ?
		ORDER BY rr.id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run resources: %w", err)
	}
	defer rows.Close()

	var resources []RunResource
	for rows.Next() {
		var r RunResource
		if err := rows.Scan(&r.URL, &r.ResourceType, &r.Status, &r.ErrorMessage,
			&r.OutputFile, &r.Extractor, &r.WordCount); err != nil {
			return nil, fmt.Errorf("failed to scan run resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}
