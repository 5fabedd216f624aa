package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Business | The Guardian</title>
<item><title>Markets rally</title><link>https://www.theguardian.com/business/1</link>
<pubDate>Mon, 19 Oct 2026 09:00:00 +0000</pubDate></item>
</channel></rss>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/business":
			w.Header().Set("Content-Type", "application/rss+xml")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write([]byte(sampleFeed))
		case "/empty":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(`<rss version="2.0"><channel><title>x</title></channel></rss>`))
		case "/garbage":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte("not a feed"))
		case "/html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(sampleFeed))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"The requested section does not exist"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiagnoseSection(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		section    string
		wantStatus string
		wantErr    string
	}{
		{"business", StatusOK, ""},
		{"empty", StatusEmpty, "no items"},
		{"garbage", StatusParseError, ""},
		{"html", StatusContentType, "text/html"},
		{"nope", StatusHTTPError, "HTTP 404: The requested section does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			diag := diagnoseSection(srv.Client(), srv.URL, tt.section, 5*time.Second)

			assert.Equal(t, tt.wantStatus, diag.Status)
			assert.Equal(t, srv.URL+"/"+tt.section, diag.URL)
			if tt.wantErr != "" {
				assert.Contains(t, diag.ErrorMessage, tt.wantErr)
			}
		})
	}
}

func TestDiagnoseSection_OKDetails(t *testing.T) {
	srv := newServer(t)

	diag := diagnoseSection(srv.Client(), srv.URL, "business", 5*time.Second)

	assert.Equal(t, 1, diag.ItemCount)
	assert.Equal(t, "HIT", diag.Cache)
	assert.Equal(t, "Business | The Guardian", diag.Title)
	assert.Equal(t, "Mon, 19 Oct 2026 09:00:00 +0000", diag.LatestDate)
}

func TestDiagnoseSection_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	diag := diagnoseSection(srv.Client(), srv.URL, "business", 50*time.Millisecond)

	assert.Equal(t, StatusTimeout, diag.Status)
}

func TestErrorMessage_NonJSONBody(t *testing.T) {
	assert.Equal(t, "HTTP 502: Bad Gateway", errorMessage(http.StatusBadGateway, []byte("<html>")))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, []FeedDiagnostic{
		{Section: "business", Status: StatusOK, ItemCount: 3, Cache: "MISS"},
		{Section: "nope", Status: StatusHTTPError, HTTPCode: 404, ErrorMessage: "HTTP 404"},
	})

	out := buf.String()
	assert.Contains(t, out, "Total Sections: 2")
	assert.Contains(t, out, "HTTP_ERROR: 1")
	assert.Contains(t, out, "OK: 1")
	assert.Contains(t, out, "Items: 3 | Latest:  | Cache: MISS")
}
