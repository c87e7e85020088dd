package models

import "time"

// RunConfig holds runtime configuration for a pipeline run.
// All values come from CLI flags, not external config files.
type RunConfig struct {
	InputFile string
	OutputDir string
	Timeout   time.Duration
	DBPath    string
	Verbose   bool
}
