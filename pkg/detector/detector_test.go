package detector

import (
	"testing"

	"github.com/aistudio/smart-extractor/models"
)

func TestClassify_GithubRepo(t *testing.T) {
	d := New()

	rtype, meta := d.Classify("https://github.com/acme/widgets/issues/3")
	if rtype != models.TypeGithubRepo {
		t.Fatalf("Classify() type = %q, want %q", rtype, models.TypeGithubRepo)
	}
	if meta["owner"] != "acme" {
		t.Errorf("meta[owner] = %q, want %q", meta["owner"], "acme")
	}
	if meta["repo"] != "widgets" {
		t.Errorf("meta[repo] = %q, want %q", meta["repo"], "widgets")
	}
	if meta["full_name"] != "acme/widgets" {
		t.Errorf("meta[full_name] = %q, want %q", meta["full_name"], "acme/widgets")
	}
}

func TestClassify_GithubProfileIsNotRepo(t *testing.T) {
	d := New()

	// A bare profile URL has only one path segment.
	rtype, _ := d.Classify("https://github.com/acme")
	if rtype == models.TypeGithubRepo {
		t.Errorf("Classify() type = %q for profile URL, want non-repo", rtype)
	}
}

func TestClassify_Youtube(t *testing.T) {
	tests := []struct {
		url     string
		videoID string
	}{
		{"https://youtu.be/abc123", "abc123"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=x&v=zzz", "zzz"},
	}

	for _, tt := range tests {
		d := New()
		rtype, meta := d.Classify(tt.url)
		if rtype != models.TypeYoutubeVideo {
			t.Errorf("Classify(%q) type = %q, want %q", tt.url, rtype, models.TypeYoutubeVideo)
		}
		if meta["video_id"] != tt.videoID {
			t.Errorf("Classify(%q) video_id = %q, want %q", tt.url, meta["video_id"], tt.videoID)
		}
	}
}

func TestClassify_YoutubeWithoutVideoID(t *testing.T) {
	d := New()

	rtype, meta := d.Classify("https://www.youtube.com/watch")
	if rtype != models.TypeYoutubeVideo {
		t.Fatalf("Classify() type = %q, want %q", rtype, models.TypeYoutubeVideo)
	}
	if _, ok := meta["video_id"]; ok {
		t.Errorf("meta[video_id] present for URL without v parameter: %q", meta["video_id"])
	}
}

func TestClassify_BlogIndicators(t *testing.T) {
	urls := []string{
		"https://medium.com/@someone/a-post",
		"https://dev.to/user/my-first-post",
		"https://example.substack.com/p/newsletter",
		"https://blog.example.com/announcement",
		"https://example.com/blog/2024/release",
		"https://example.com/post/hello",
		"https://example.com/article/deep-dive",
	}

	for _, u := range urls {
		d := New()
		rtype, _ := d.Classify(u)
		if rtype != models.TypeBlogPost {
			t.Errorf("Classify(%q) type = %q, want %q", u, rtype, models.TypeBlogPost)
		}
	}
}

func TestClassify_DefaultsToArticle(t *testing.T) {
	d := New()

	rtype, meta := d.Classify("https://news.example.com/story/12345")
	if rtype != models.TypeArticle {
		t.Fatalf("Classify() type = %q, want %q", rtype, models.TypeArticle)
	}
	if meta["domain"] != "news.example.com" {
		t.Errorf("meta[domain] = %q, want %q", meta["domain"], "news.example.com")
	}
}

func TestClassify_IsTotal(t *testing.T) {
	// Classification never fails, even on garbage.
	inputs := []string{
		"",
		"   ",
		"not a url",
		"://broken",
		"https://",
	}

	known := map[models.ResourceType]bool{
		models.TypeGithubRepo:   true,
		models.TypeYoutubeVideo: true,
		models.TypeBlogPost:     true,
		models.TypeArticle:      true,
		models.TypeUnknown:      true,
	}

	for _, in := range inputs {
		d := New()
		rtype, _ := d.Classify(in)
		if !known[rtype] {
			t.Errorf("Classify(%q) returned unknown category %q", in, rtype)
		}
	}
}

func TestStats(t *testing.T) {
	d := New()

	d.Classify("https://github.com/acme/widgets")
	d.Classify("https://youtu.be/abc")
	d.Classify("https://example.com/page")
	d.Classify("https://example.org/other")

	stats := d.Stats()
	if stats[models.TypeGithubRepo] != 1 {
		t.Errorf("stats[github-repo] = %d, want 1", stats[models.TypeGithubRepo])
	}
	if stats[models.TypeYoutubeVideo] != 1 {
		t.Errorf("stats[youtube-video] = %d, want 1", stats[models.TypeYoutubeVideo])
	}
	if stats[models.TypeArticle] != 2 {
		t.Errorf("stats[article] = %d, want 2", stats[models.TypeArticle])
	}

	// Snapshot is a copy; mutating it must not affect the detector.
	stats[models.TypeArticle] = 99
	if d.Stats()[models.TypeArticle] != 2 {
		t.Error("Stats() returned a live reference, want a copy")
	}
}
