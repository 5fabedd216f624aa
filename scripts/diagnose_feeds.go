// Command diagnose_feeds probes a running guardian-rss server section by section
// and reports whether each feed is served and parses as RSS.
//
// Usage:
//
//	GUARDIAN_RSS_URL=http://localhost:8080 go run ./scripts business world uk-news
//
// With no arguments the sections are read from WARM_SECTIONS.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"guardian-rss/pkg/config"
)

// Diagnostic statuses.
const (
	StatusOK          = "OK"
	StatusHTTPError   = "HTTP_ERROR"
	StatusParseError  = "PARSE_ERROR"
	StatusEmpty       = "EMPTY"
	StatusTimeout     = "TIMEOUT"
	StatusContentType = "BAD_CONTENT_TYPE"
)

// FeedDiagnostic represents the diagnostic result for a single section.
type FeedDiagnostic struct {
	Section      string `json:"section"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	HTTPCode     int    `json:"http_code"`
	Cache        string `json:"cache,omitempty"` // X-Cache header
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	Title        string `json:"title,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	baseURL := strings.TrimRight(config.GetEnvString("GUARDIAN_RSS_URL", "http://localhost:8080"), "/")
	timeout := config.GetEnvDuration("DIAGNOSE_TIMEOUT", 30*time.Second)

	sections := os.Args[1:]
	if len(sections) == 0 {
		sections = config.GetEnvStringList("WARM_SECTIONS", nil)
	}
	if len(sections) == 0 {
		log.Fatal("no sections given: pass them as arguments or set WARM_SECTIONS")
	}

	log.Printf("Diagnosing %d sections against %s...\n", len(sections), baseURL)

	client := &http.Client{}
	diagnostics := make([]FeedDiagnostic, 0, len(sections))
	for i, section := range sections {
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(sections), section)
		diagnostics = append(diagnostics, diagnoseSection(client, baseURL, section, timeout))
	}

	printReport(os.Stdout, diagnostics)
	generateJSONReport(diagnostics)

	for _, d := range diagnostics {
		if d.Status != StatusOK {
			os.Exit(1)
		}
	}
}

func diagnoseSection(client *http.Client, baseURL, section string, timeout time.Duration) FeedDiagnostic {
	diag := FeedDiagnostic{
		Section: section,
		URL:     baseURL + "/" + section,
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, diag.URL, nil)
	if err != nil {
		diag.Status = StatusHTTPError
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("User-Agent", "guardian-rss-diagnostic/1.0")

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(startTime).Milliseconds()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			diag.Status = StatusTimeout
			diag.ErrorMessage = fmt.Sprintf("Request timeout after %v", timeout)
		} else {
			diag.Status = StatusHTTPError
			diag.ErrorMessage = err.Error()
		}
		return diag
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	diag.Cache = resp.Header.Get("X-Cache")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		diag.Status = StatusHTTPError
		diag.ErrorMessage = err.Error()
		return diag
	}

	if resp.StatusCode != http.StatusOK {
		diag.Status = StatusHTTPError
		diag.ErrorMessage = errorMessage(resp.StatusCode, body)
		return diag
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/rss+xml" {
		diag.Status = StatusContentType
		diag.ErrorMessage = fmt.Sprintf("unexpected Content-Type %q", ct)
		return diag
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		diag.Status = StatusParseError
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.Title = feed.Title
	diag.ItemCount = len(feed.Items)
	if diag.ItemCount == 0 {
		diag.Status = StatusEmpty
		diag.ErrorMessage = "Feed has no items"
		return diag
	}
	diag.LatestDate = feed.Items[0].Published

	diag.Status = StatusOK
	return diag
}

// errorMessage extracts the message of a JSON error body, falling back to the status text.
func errorMessage(code int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("HTTP %d: %s", code, payload.Error)
	}
	return fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
}

func printReport(w io.Writer, diagnostics []FeedDiagnostic) {
	statusCount := make(map[string]int)
	for _, d := range diagnostics {
		statusCount[d.Status]++
	}

	_, _ = fmt.Fprintf(w, "===============================================\n")
	_, _ = fmt.Fprintf(w, "Section Feed Diagnostic Report\n")
	_, _ = fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Total Sections: %d\n", len(diagnostics))
	_, _ = fmt.Fprintf(w, "===============================================\n\n")

	statuses := make([]string, 0, len(statusCount))
	for status := range statusCount {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	_, _ = fmt.Fprintf(w, "STATUS BREAKDOWN:\n")
	for _, status := range statuses {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", status, statusCount[status])
	}
	_, _ = fmt.Fprintf(w, "\n")

	for _, d := range diagnostics {
		_, _ = fmt.Fprintf(w, "Section: %s [%s]\n", d.Section, d.Status)
		_, _ = fmt.Fprintf(w, "  URL: %s\n", d.URL)
		if d.Status == StatusOK {
			_, _ = fmt.Fprintf(w, "  Items: %d | Latest: %s | Cache: %s\n", d.ItemCount, d.LatestDate, d.Cache)
		} else {
			_, _ = fmt.Fprintf(w, "  HTTP: %d | Error: %s\n", d.HTTPCode, d.ErrorMessage)
		}
		_, _ = fmt.Fprintf(w, "  Response: %dms\n\n", d.ResponseTime)
	}
}

func generateJSONReport(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_diagnostic_report.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}

	log.Println("JSON report generated: feed_diagnostic_report.json")
}
