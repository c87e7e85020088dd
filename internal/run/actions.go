package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aistudio/smart-extractor/models"
	"github.com/aistudio/smart-extractor/pkg/analytics"
	"github.com/aistudio/smart-extractor/pkg/db"
	"github.com/aistudio/smart-extractor/pkg/detector"
	"github.com/aistudio/smart-extractor/pkg/extractors"
	"github.com/aistudio/smart-extractor/pkg/fetcher"
	"github.com/aistudio/smart-extractor/pkg/language"
	"github.com/aistudio/smart-extractor/pkg/loader"
	"github.com/aistudio/smart-extractor/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const summaryFilename = "_run-summary.yaml"

// report is the run summary printed to stdout and written next to the
// extracted documents.
type report struct {
	StartedAt   string         `yaml:"started_at" json:"started_at"`
	FinishedAt  string         `yaml:"finished_at" json:"finished_at"`
	ElapsedSecs float64        `yaml:"elapsed_seconds" json:"elapsed_seconds"`
	InputFile   string         `yaml:"input_file" json:"input_file"`
	OutputDir   string         `yaml:"output_dir" json:"output_dir"`
	Total       int            `yaml:"total" json:"total"`
	Successful  int            `yaml:"successful" json:"successful"`
	Failed      int            `yaml:"failed" json:"failed"`
	Types       map[string]int `yaml:"types,omitempty" json:"types,omitempty"`
	SavedBytes  int64          `yaml:"saved_bytes" json:"saved_bytes"`
	TopKeywords []string       `yaml:"top_keywords,omitempty" json:"top_keywords,omitempty"`
}

// ExtractAction is the entry point for the extract command.
func ExtractAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := models.RunConfig{
		InputFile: c.String("input"),
		OutputDir: c.String("output"),
		Timeout:   c.Duration("timeout"),
		DBPath:    c.String("db"),
		Verbose:   c.Bool("verbose"),
	}

	resources, loaderStats, err := loader.New().LoadAndValidate(cfg.InputFile)
	if err != nil {
		if errors.Is(err, loader.ErrManifestNotFound) {
			logger.Error("input manifest not found", "path", cfg.InputFile)
		} else {
			logger.Error("failed to load manifest", "path", cfg.InputFile, "error", err)
		}
		os.Exit(2)
	}

	logger.Info("loaded resources", "total", loaderStats.Total, "valid", loaderStats.Valid,
		"invalid", loaderStats.Invalid, "duplicates", loaderStats.Duplicates, "dropped", loaderStats.Dropped)

	if len(resources) == 0 {
		logger.Error("no valid resources to process", "path", cfg.InputFile)
		os.Exit(2)
	}

	manager, err := storage.NewManager(cfg.OutputDir, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(2)
	}

	f := fetcher.NewFetcher(cfg.Timeout)
	lang := language.New()
	fallback := extractors.NewFallback(f, lang)
	registry := extractors.NewRegistry(
		extractors.NewReadability(f, lang, fallback),
		fallback,
	)

	// Run history is best-effort. A broken database never fails a run.
	var database *db.DB
	var runID int64
	if !c.Bool("no-db") {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("failed to open database, run history disabled", "error", err)
			database = nil
		} else {
			defer database.Close()
			runID, err = database.StartRun(cfg.InputFile, cfg.OutputDir, len(resources))
			if err != nil {
				logger.Warn("failed to record run start", "error", err)
				database = nil
			}
		}
	}

	pipeline := &Pipeline{
		Detector: detector.New(),
		Registry: registry,
		Storage:  manager,
		Analyzer: analytics.New(),
		Logger:   logger,
		Database: database,
		RunID:    runID,
	}
	stats := pipeline.Process(resources)

	if database != nil {
		if err := database.FinishRun(runID, stats.Successful, stats.Failed); err != nil {
			logger.Warn("failed to record run end", "error", err)
		}
	}

	if err := manager.FlushLog(); err != nil {
		logger.Warn("failed to persist processing log", "error", err)
	}

	logSummary(logger, cfg, stats, pipeline)
	if err := emitReport(cfg, stats, pipeline, c.String("format")); err != nil {
		logger.Warn("failed to write run summary", "error", err)
	}

	// Returning an ExitCoder lets deferred cleanup (the database close
	// in particular) run before the process exits.
	if code := exitCode(stats); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// exitCode maps run outcomes to the process exit status: 0 when every
// resource succeeded, 1 for a partial run, 2 when nothing succeeded.
func exitCode(stats models.RunStats) int {
	switch {
	case stats.Successful == 0:
		return 2
	case stats.Failed > 0:
		return 1
	}
	return 0
}

func logSummary(logger *slog.Logger, cfg models.RunConfig, stats models.RunStats, pipeline *Pipeline) {
	storageStats := pipeline.Storage.Stats()
	logger.Info("run complete",
		"total", stats.Total,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"elapsed", stats.Elapsed().Round(time.Millisecond).String(),
		"output_dir", cfg.OutputDir,
		"saved_bytes", storageStats.TotalBytes,
	)

	for rtype, count := range pipeline.Detector.Stats() {
		if count > 0 {
			logger.Info("detected type", "type", rtype, "count", count)
		}
	}

	if keywords := pipeline.Analyzer.TopKeywords(10); len(keywords) > 0 {
		words := make([]string, len(keywords))
		for i, k := range keywords {
			words[i] = k.String()
		}
		logger.Info("top keywords", "keywords", words)
	}
}

// emitReport prints the run summary to stdout in the requested format
// and writes the YAML copy into the output tree.
func emitReport(cfg models.RunConfig, stats models.RunStats, pipeline *Pipeline, format string) error {
	r := buildReport(cfg, stats, pipeline)

	var out []byte
	var err error
	switch strings.ToLower(format) {
	case "json":
		out, err = json.MarshalIndent(r, "", "  ")
	default:
		out, err = yaml.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	fmt.Println(string(out))

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	path := filepath.Join(pipeline.Storage.BaseDir(), summaryFilename)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}

func buildReport(cfg models.RunConfig, stats models.RunStats, pipeline *Pipeline) report {
	types := make(map[string]int)
	for rtype, count := range pipeline.Detector.Stats() {
		if count > 0 {
			types[string(rtype)] = count
		}
	}

	var keywords []string
	for _, k := range pipeline.Analyzer.TopKeywords(25) {
		keywords = append(keywords, k.String())
	}

	r := report{
		StartedAt:   stats.StartTime.Format(time.RFC3339),
		FinishedAt:  stats.EndTime.Format(time.RFC3339),
		ElapsedSecs: stats.Elapsed().Seconds(),
		InputFile:   cfg.InputFile,
		OutputDir:   cfg.OutputDir,
		Total:       stats.Total,
		Successful:  stats.Successful,
		Failed:      stats.Failed,
		Types:       types,
		SavedBytes:  pipeline.Storage.Stats().TotalBytes,
		TopKeywords: keywords,
	}
	return r
}
