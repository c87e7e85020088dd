// Package fetcher retrieves HTML documents over HTTP.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent identifies the pipeline to origin servers.
const UserAgent = "Mozilla/5.0 (compatible; SmartExtractor/1.0)"

// DefaultTimeout bounds a single fetch; a hung request consumes at most
// this budget before the client gives up.
const DefaultTimeout = 30 * time.Second

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// GetBytes fetches a URL and returns the response body.
// Non-2xx responses return a *StatusError.
func (f *Fetcher) GetBytes(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// GetDocument fetches a URL and parses the body as an HTML document.
func (f *Fetcher) GetDocument(url string) (*goquery.Document, error) {
	body, err := f.GetBytes(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
