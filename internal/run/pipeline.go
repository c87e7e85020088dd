package run

import (
	"log/slog"
	"time"

	"github.com/aistudio/smart-extractor/models"
	"github.com/aistudio/smart-extractor/pkg/analytics"
	"github.com/aistudio/smart-extractor/pkg/db"
	"github.com/aistudio/smart-extractor/pkg/detector"
	"github.com/aistudio/smart-extractor/pkg/extractors"
	"github.com/aistudio/smart-extractor/pkg/storage"
)

// Pipeline processes a batch of resources one at a time, in input order.
// Every per-resource failure is contained: it is logged, recorded, and
// the loop moves on to the next resource.
type Pipeline struct {
	Detector *detector.Detector
	Registry *extractors.Registry
	Storage  *storage.Manager
	Analyzer *analytics.Analyzer
	Logger   *slog.Logger

	// Database is optional. When set, URL classifications and per-resource
	// outcomes are recorded best-effort; recording errors never fail a run.
	Database *db.DB
	RunID    int64
}

// Process runs the classify, extract, save sequence for each resource.
func (p *Pipeline) Process(resources []models.Resource) models.RunStats {
	stats := models.RunStats{
		Total:     len(resources),
		StartTime: time.Now(),
	}

	for i, resource := range resources {
		p.Logger.Info("processing resource", "index", i+1, "total", len(resources), "url", resource.URL)

		rtype, meta := p.Detector.Classify(resource.URL)
		p.Logger.Debug("classified resource", "url", resource.URL, "type", rtype)

		urlID := p.recordURL(resource.URL, rtype)

		content, extractorName, err := p.extract(resource.URL, rtype, meta)
		if err != nil {
			p.Logger.Error("extraction failed", "url", resource.URL, "type", rtype, "error", err)
			p.Storage.RecordFailure(resource.URL, err)
			p.recordOutcome(urlID, models.StatusFailed, err.Error(), "", "", 0)
			stats.Failed++
			continue
		}

		path, ok := p.Storage.Save(content, rtype, resource.URL)
		if !ok {
			p.recordOutcome(urlID, models.StatusFailed, "storage failure", "", extractorName, content.Meta.WordCount)
			stats.Failed++
			continue
		}

		if p.Analyzer != nil {
			p.Analyzer.Observe(content.Content)
		}
		p.recordOutcome(urlID, models.StatusCompleted, "", path, extractorName, content.Meta.WordCount)
		stats.Successful++
	}

	stats.EndTime = time.Now()
	return stats
}

func (p *Pipeline) extract(url string, rtype models.ResourceType, meta models.TypeMetadata) (*models.ExtractedContent, string, error) {
	extractor, err := p.Registry.For(url, rtype)
	if err != nil {
		return nil, "", err
	}
	content, err := extractor.Extract(url, meta)
	if err != nil {
		return nil, extractor.Name(), err
	}
	return content, extractor.Name(), nil
}

func (p *Pipeline) recordURL(url string, rtype models.ResourceType) int64 {
	if p.Database == nil {
		return 0
	}
	urlID, err := p.Database.InsertURL(url, string(rtype))
	if err != nil {
		p.Logger.Warn("failed to record URL in database", "url", url, "error", err)
		return 0
	}
	return urlID
}

func (p *Pipeline) recordOutcome(urlID int64, status, errorMessage, outputFile, extractor string, wordCount int) {
	if p.Database == nil || urlID == 0 {
		return
	}
	if err := p.Database.RecordResource(p.RunID, urlID, status, errorMessage, outputFile, extractor, wordCount); err != nil {
		p.Logger.Warn("failed to record resource outcome", "error", err)
	}
}
