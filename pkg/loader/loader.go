// Package loader ingests resource manifests: JSON files listing URLs to
// process. Manifests are hand-edited and frequently malformed (multiple
// concatenated arrays instead of one), so loading degrades to a recovery
// parse rather than failing outright.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aistudio/smart-extractor/models"
)

// ErrManifestNotFound is returned when the manifest path does not exist.
// It is the only loader error that aborts a run.
var ErrManifestNotFound = errors.New("manifest not found")

// Stats summarizes one load pass.
type Stats struct {
	Total      int // entries parsed from the file, recovered or not
	Valid      int
	Invalid    int
	Duplicates int
	Dropped    int // unrecoverable fragments during recovery parsing
}

// Loader reads, validates, and deduplicates manifest entries.
type Loader struct {
	stats Stats
}

func New() *Loader {
	return &Loader{}
}

// Load reads the manifest at path and returns its raw entries in file order.
// A manifest that fails strict JSON parsing is recovered fragment by
// fragment; fragments that cannot be recovered are dropped and counted,
// never surfaced as an error.
func (l *Loader) Load(path string) ([]models.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	entries, ok := parseStrict(data)
	if !ok {
		var dropped int
		entries, dropped = parseMultiArray(string(data))
		l.stats.Dropped += dropped
	}

	l.stats.Total += len(entries)
	return entries, nil
}

// parseStrict attempts to parse the whole file as a single JSON document:
// either an array of entries or one entry wrapped as a singleton.
func parseStrict(data []byte) ([]models.Resource, bool) {
	var list []models.Resource
	if err := json.Unmarshal(data, &list); err == nil {
		return list, true
	}

	var single models.Resource
	if err := json.Unmarshal(data, &single); err == nil {
		return []models.Resource{single}, true
	}

	return nil, false
}

// parseMultiArray recovers entries from a manifest containing multiple
// concatenated JSON arrays. The raw text is split on each closing-array
// delimiter, every fragment is re-bracketed into a syntactically valid
// array, and fragments are parsed independently. Returns the recovered
// entries plus the number of fragments that could not be recovered.
func parseMultiArray(content string) ([]models.Resource, int) {
	var entries []models.Resource
	var dropped int

	for _, part := range strings.Split(content, "]") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.HasSuffix(part, "]") {
			part += "]"
		}
		if !strings.HasPrefix(part, "[") {
			part = "[" + part
		}

		var list []models.Resource
		if err := json.Unmarshal([]byte(part), &list); err == nil {
			entries = append(entries, list...)
			continue
		}

		// Last resort: strip the brackets and try the fragment as a
		// single object.
		obj := strings.TrimSpace(strings.Trim(part, "[]"))
		if obj != "" {
			var single models.Resource
			if err := json.Unmarshal([]byte(obj), &single); err == nil {
				entries = append(entries, single)
				continue
			}
		}

		dropped++
	}

	return entries, dropped
}

// Validate filters entries down to those with a usable URL: non-empty
// after trimming and starting with http:// or https://. Returns the kept
// entries and the number rejected.
func (l *Loader) Validate(entries []models.Resource) ([]models.Resource, int) {
	valid := make([]models.Resource, 0, len(entries))
	invalid := 0

	for _, e := range entries {
		u := strings.TrimSpace(e.URL)
		if u == "" || !(strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) {
			invalid++
			continue
		}
		valid = append(valid, e)
	}

	l.stats.Valid += len(valid)
	l.stats.Invalid += invalid
	return valid, invalid
}

// Deduplicate removes entries sharing a normalized URL. First occurrence
// wins; order is preserved.
func (l *Loader) Deduplicate(entries []models.Resource) ([]models.Resource, int) {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]models.Resource, 0, len(entries))
	duplicates := 0

	for _, e := range entries {
		key := e.NormalizedURL()
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, e)
	}

	l.stats.Duplicates += duplicates
	return unique, duplicates
}

// LoadAndValidate runs load, validate, and deduplicate in order and
// returns the final entries plus a stats snapshot.
func (l *Loader) LoadAndValidate(path string) ([]models.Resource, Stats, error) {
	entries, err := l.Load(path)
	if err != nil {
		return nil, l.stats, err
	}

	valid, _ := l.Validate(entries)
	unique, _ := l.Deduplicate(valid)

	return unique, l.stats, nil
}

// Stats returns a snapshot of the loader's counters.
func (l *Loader) Stats() Stats {
	return l.stats
}
