package db

import (
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestInsertURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id, err := db.InsertURL("https://github.com/acme/widgets", "github-repo")
	if err != nil {
		t.Fatalf("InsertURL() error = %v", err)
	}
	if id == 0 {
		t.Fatal("InsertURL() returned 0 url_id")
	}

	var domain, rtype string
	err = db.QueryRow("SELECT domain, resource_type FROM urls WHERE url_id = ?", id).Scan(&domain, &rtype)
	if err != nil {
		t.Fatalf("querying inserted URL: %v", err)
	}
	if domain != "github.com" {
		t.Errorf("domain = %q, want github.com", domain)
	}
	if rtype != "github-repo" {
		t.Errorf("resource_type = %q, want github-repo", rtype)
	}
}

func TestInsertURL_Existing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id1, err := db.InsertURL("https://example.com/post", "article")
	if err != nil {
		t.Fatalf("InsertURL() error = %v", err)
	}
	id2, err := db.InsertURL("https://example.com/post", "blog-post")
	if err != nil {
		t.Fatalf("InsertURL() second call error = %v", err)
	}

	if id1 != id2 {
		t.Errorf("url_id differs for same URL: %d vs %d", id1, id2)
	}

	var rtype string
	if err := db.QueryRow("SELECT resource_type FROM urls WHERE url_id = ?", id1).Scan(&rtype); err != nil {
		t.Fatal(err)
	}
	if rtype != "blog-post" {
		t.Errorf("resource_type = %q, want refreshed blog-post", rtype)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.StartRun("resources.json", "knowledge", 2)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	okID, err := db.InsertURL("https://example.com/good", "article")
	if err != nil {
		t.Fatal(err)
	}
	badID, err := db.InsertURL("https://example.com/bad", "article")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.RecordResource(runID, okID, "completed", "", "knowledge/articles/good.md", "readability", 120); err != nil {
		t.Fatalf("RecordResource() error = %v", err)
	}
	if err := db.RecordResource(runID, badID, "failed", "fetch failed: 404", "", "", 0); err != nil {
		t.Fatalf("RecordResource() error = %v", err)
	}

	if err := db.FinishRun(runID, 1, 1); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}

	run := runs[0]
	if run.RunID != runID {
		t.Errorf("RunID = %d, want %d", run.RunID, runID)
	}
	if run.URLCount != 2 || run.SuccessCount != 1 || run.FailedCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", run.URLCount, run.SuccessCount, run.FailedCount)
	}
	if !run.FinishedAt.Valid {
		t.Error("FinishedAt not set after FinishRun")
	}
	if run.InputFile != "resources.json" {
		t.Errorf("InputFile = %q", run.InputFile)
	}

	resources, err := db.RunResources(runID)
	if err != nil {
		t.Fatalf("RunResources() error = %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("len(resources) = %d, want 2", len(resources))
	}
	if resources[0].URL != "https://example.com/good" || resources[0].Status != "completed" {
		t.Errorf("first resource = %+v", resources[0])
	}
	if resources[0].Extractor != "readability" || resources[0].WordCount != 120 {
		t.Errorf("first resource extractor/wordcount = %q/%d", resources[0].Extractor, resources[0].WordCount)
	}
	if resources[1].Status != "failed" || resources[1].ErrorMessage == "" {
		t.Errorf("second resource = %+v", resources[1])
	}
}

func TestRecordResource_Upsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.StartRun("resources.json", "knowledge", 1)
	if err != nil {
		t.Fatal(err)
	}
	urlID, err := db.InsertURL("https://example.com/retry", "article")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.RecordResource(runID, urlID, "failed", "timeout", "", "", 0); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordResource(runID, urlID, "completed", "", "knowledge/articles/retry.md", "fallback", 42); err != nil {
		t.Fatalf("upsert RecordResource() error = %v", err)
	}

	resources, err := db.RunResources(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(resources) != 1 {
		t.Fatalf("len = %d, want 1 after upsert", len(resources))
	}
	if resources[0].Status != "completed" || resources[0].WordCount != 42 {
		t.Errorf("resource = %+v, want completed/42", resources[0])
	}
}

func TestListRuns_Limit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 5; i++ {
		if _, err := db.StartRun("resources.json", "knowledge", 1); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	// Newest first.
	if runs[0].RunID < runs[1].RunID || runs[1].RunID < runs[2].RunID {
		t.Errorf("runs not newest-first: %d, %d, %d", runs[0].RunID, runs[1].RunID, runs[2].RunID)
	}
}
