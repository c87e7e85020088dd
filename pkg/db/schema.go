package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- URLs table: every resource ever seen, with its classification
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    domain TEXT NOT NULL,
    resource_type TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);
CREATE INDEX IF NOT EXISTS idx_urls_type ON urls(resource_type);

-- Runs: one row per batch execution
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    input_file TEXT,
    output_dir TEXT,
    url_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Run resources: per-URL outcome within a run
CREATE TABLE IF NOT EXISTS run_resources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    url_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    error_message TEXT,
    output_file TEXT,
    extractor TEXT,
    word_count INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE,
    UNIQUE(run_id, url_id)
);

CREATE INDEX IF NOT EXISTS idx_run_resources_run ON run_resources(run_id);
CREATE INDEX IF NOT EXISTS idx_run_resources_url ON run_resources(url_id);
CREATE INDEX IF NOT EXISTS idx_run_resources_status ON run_resources(status);
`
