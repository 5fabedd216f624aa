// Package guardian is the client of The Guardian content API.
//
// Every FetchSection call issues at most one HTTP request. Failures are
// classified into *feed.UpstreamError kinds and are never retried.
package guardian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"guardian-rss/internal/domain/entity"
	"guardian-rss/internal/observability/metrics"
	"guardian-rss/internal/observability/tracing"
	"guardian-rss/internal/resilience/circuitbreaker"
	"guardian-rss/internal/usecase/feed"
)

// showFields lists the article fields requested from the API.
const showFields = "headline,trailText,thumbnail,shortUrl"

// ErrCircuitOpen is wrapped in the UpstreamError returned while the circuit is open.
var ErrCircuitOpen = errors.New("content API circuit breaker is open")

// searchResponse mirrors the subset of the content API payload that is rendered.
type searchResponse struct {
	Response struct {
		Status  string         `json:"status"`
		Message string         `json:"message"`
		Results []searchResult `json:"results"`
	} `json:"response"`
}

type searchResult struct {
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Headline  string `json:"headline"`
		TrailText string `json:"trailText"`
		ShortURL  string `json:"shortUrl"`
	} `json:"fields"`
}

// Client fetches section article lists. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

var _ feed.Upstream = (*Client)(nil)

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	if cfg.RateLimitRPS > 0 {
		// burst 1: 待機はするが追加のリクエストは発生しない
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	if cfg.CircuitBreakerEnabled {
		cbCfg := circuitbreaker.GuardianAPIConfig()
		cbCfg.IsSuccessful = countsAsSuccess
		c.breaker = circuitbreaker.New(cbCfg)
	}

	return c, nil
}

// Breaker returns the circuit breaker guarding the API, nil when disabled.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// countsAsSuccess keeps caller-side outcomes (unknown section, empty results,
// rejected key, cancelled request) from tripping the circuit.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	return feed.KindOf(err) != feed.KindUnexpected
}

// FetchSection returns the articles of section in API order.
// All failures are *feed.UpstreamError.
func (c *Client) FetchSection(ctx context.Context, section entity.Section) ([]entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "guardian.FetchSection")
	defer span.End()
	span.SetAttributes(attribute.String("guardian.section", section.String()))

	start := time.Now()
	articles, err := c.execute(ctx, section)
	elapsed := time.Since(start)

	if err != nil {
		kind := feed.KindOf(err)
		metrics.RecordGuardianRequest(kind.String(), elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		return nil, err
	}

	metrics.RecordGuardianRequest("ok", elapsed)
	span.SetAttributes(attribute.Int("guardian.results", len(articles)))
	return articles, nil
}

func (c *Client) execute(ctx context.Context, section entity.Section) ([]entity.Article, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, feed.NewUpstreamError(feed.KindUnexpected, 0, fmt.Errorf("rate limiter: %w", err))
		}
	}

	if c.breaker == nil {
		return c.fetch(ctx, section)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, section)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, feed.NewUpstreamError(feed.KindUnexpected, 0, fmt.Errorf("%w: %v", ErrCircuitOpen, err))
		}
		return nil, err
	}
	return result.([]entity.Article), nil
}

func (c *Client) fetch(ctx context.Context, section entity.Section) ([]entity.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sectionURL(section), nil)
	if err != nil {
		return nil, feed.NewUpstreamError(feed.KindUnexpected, 0, fmt.Errorf("build request: %w", redact(err)))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, feed.NewUpstreamError(feed.KindUnexpected, 0, redact(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := classifyStatus(resp.StatusCode); err != nil {
		// ボディは接続再利用のために読み捨てる
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.cfg.MaxBodySize))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return nil, feed.NewUpstreamError(feed.KindUnexpected, resp.StatusCode, fmt.Errorf("read body: %w", redact(err)))
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return nil, feed.NewUpstreamError(feed.KindUnexpected, resp.StatusCode,
			fmt.Errorf("response body exceeds %d bytes", c.cfg.MaxBodySize))
	}

	return decodeArticles(resp.StatusCode, body)
}

// sectionURL builds the search URL. section is already restricted to [a-z-].
func (c *Client) sectionURL(section entity.Section) string {
	q := url.Values{}
	q.Set("api-key", c.cfg.APIKey)
	q.Set("format", "json")
	q.Set("show-fields", showFields)
	return c.cfg.BaseURL + "/" + url.PathEscape(section.String()) + "?" + q.Encode()
}

// classifyStatus maps non-200 responses onto upstream kinds.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return &feed.UpstreamError{Kind: feed.KindNotFound, StatusCode: status, Err: feed.ErrSectionNotFound}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &feed.UpstreamError{Kind: feed.KindConfiguration, StatusCode: status,
			Err: fmt.Errorf("content API rejected the API key")}
	case status >= 400 && status < 500:
		return &feed.UpstreamError{Kind: feed.KindClientError, StatusCode: status,
			Err: fmt.Errorf("content API returned %d", status)}
	default:
		return &feed.UpstreamError{Kind: feed.KindUnexpected, StatusCode: status,
			Err: fmt.Errorf("content API returned %d", status)}
	}
}

func decodeArticles(status int, body []byte) ([]entity.Article, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, feed.NewUpstreamError(feed.KindUnexpected, status, fmt.Errorf("decode response: %w", err))
	}

	if payload.Response.Status == "error" {
		return nil, &feed.UpstreamError{
			Kind:       feed.KindAPIError,
			StatusCode: status,
			Message:    payload.Response.Message,
		}
	}

	if len(payload.Response.Results) == 0 {
		return nil, &feed.UpstreamError{Kind: feed.KindEmptyResults, StatusCode: status, Err: feed.ErrNoArticles}
	}

	articles := make([]entity.Article, 0, len(payload.Response.Results))
	for i, r := range payload.Response.Results {
		published, err := time.Parse(time.RFC3339, r.WebPublicationDate)
		if err != nil {
			return nil, feed.NewUpstreamError(feed.KindUnexpected, status,
				fmt.Errorf("result %d: invalid webPublicationDate %q: %w", i, r.WebPublicationDate, err))
		}
		articles = append(articles, entity.Article{
			Headline:    r.Fields.Headline,
			TrailText:   r.Fields.TrailText,
			ShortURL:    r.Fields.ShortURL,
			PublishedAt: published,
		})
	}
	return articles, nil
}

// redact removes the API key from URLs embedded in transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: urlErr.Err}
	}
	return err
}

// RedactURL replaces the api-key query value of raw.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid url]"
	}
	q := u.Query()
	if q.Has("api-key") {
		q.Set("api-key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
