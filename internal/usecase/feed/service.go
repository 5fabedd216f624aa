package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guardian-rss/internal/domain/entity"
	"guardian-rss/internal/observability/logging"
	"guardian-rss/internal/observability/metrics"
	"guardian-rss/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// CacheKeyPrefix is prepended to the section name to build the cache key.
	CacheKeyPrefix = "guardian_feed_"

	// DefaultTTL is how long a rendered feed stays in the cache.
	DefaultTTL = 10 * time.Minute
)

// Cache is the feed cache gateway. Lookup reports store failures as misses;
// Store and Evict never fail from the caller's point of view.
type Cache interface {
	Lookup(ctx context.Context, key string) ([]byte, bool)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration)
	Evict(ctx context.Context, key string)
}

// Upstream fetches the article list of a section from the content API.
// Failures are returned as *UpstreamError.
type Upstream interface {
	FetchSection(ctx context.Context, section entity.Section) ([]entity.Article, error)
}

// Renderer turns an article list into an RSS document. It must be deterministic.
type Renderer interface {
	Render(articles []entity.Article, section entity.Section) ([]byte, error)
}

// Config holds the optional settings of the Service.
type Config struct {
	TTL    time.Duration    // cache lifetime of a rendered feed, DefaultTTL when zero
	Logger *slog.Logger     // slog.Default() when nil
	Now    func() time.Time // time.Now when nil
}

// Service is the cache-aside fetch-and-render pipeline.
// It holds no mutable state of its own; the cache is the only shared state.
type Service struct {
	cache    Cache
	upstream Upstream
	renderer Renderer
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new feed Service with the provided dependencies.
//
// Parameters:
//   - cache: Feed cache gateway
//   - upstream: Content API client (carries the API key)
//   - renderer: RSS renderer
//   - cfg: Optional TTL, logger and clock
//
// Example:
//
//	svc := feed.NewService(gateway, guardianClient, rss.NewRenderer(), feed.Config{TTL: 10 * time.Minute})
//	doc, err := svc.Handle(ctx, "business")
func NewService(cache Cache, upstream Upstream, renderer Renderer, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		cache:    cache,
		upstream: upstream,
		renderer: renderer,
		ttl:      cfg.TTL,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// CacheKey returns the cache key of a section.
func CacheKey(section entity.Section) string {
	return CacheKeyPrefix + section.String()
}

// Handle serves the feed of the raw section name.
// It validates the name, returns the cached document verbatim on a hit and
// otherwise fetches, renders and caches a fresh document.
//
// Errors:
//   - *entity.ValidationError (ErrInvalidSection) when raw is rejected
//   - *UpstreamError for every content API failure, including empty results
//   - ErrRenderFailed when rendering fails
func (s *Service) Handle(ctx context.Context, raw string) (*entity.FeedDocument, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "feed.Handle")
	defer span.End()

	logger := logging.WithRequestID(ctx, s.logger)
	logger.Info("feed requested", slog.String("section", raw))

	section, err := entity.ParseSection(raw)
	if err != nil {
		metrics.RecordFeedRequest("rejected")
		span.SetStatus(codes.Error, "invalid section")
		return nil, err
	}
	span.SetAttributes(attribute.String("feed.section", section.String()))

	if body, ok := s.cache.Lookup(ctx, CacheKey(section)); ok {
		metrics.RecordFeedRequest("cache_hit")
		span.SetAttributes(attribute.Bool("feed.cache_hit", true))
		return &entity.FeedDocument{
			Section:   section,
			Body:      body,
			FromCache: true,
		}, nil
	}
	span.SetAttributes(attribute.Bool("feed.cache_hit", false))

	doc, err := s.Refresh(ctx, section)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
		return nil, err
	}
	return doc, nil
}

// Refresh fetches and renders the section and unconditionally overwrites its cache entry.
// Nothing is written to the cache when the fetch or the render fails. A section the
// content API no longer knows is evicted so a stale feed is not served for it.
func (s *Service) Refresh(ctx context.Context, section entity.Section) (*entity.FeedDocument, error) {
	logger := logging.WithRequestID(ctx, s.logger)

	articles, err := s.upstream.FetchSection(ctx, section)
	if err == nil && len(articles) == 0 {
		err = &UpstreamError{Kind: KindEmptyResults, Err: ErrNoArticles}
	}
	if err != nil {
		if KindOf(err) == KindNotFound {
			s.cache.Evict(ctx, CacheKey(section))
		}
		s.recordFailure(logger, section, err)
		return nil, err
	}

	start := time.Now()
	body, err := s.renderer.Render(articles, section)
	metrics.RecordFeedRender(time.Since(start))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRenderFailed, err)
		s.recordFailure(logger, section, err)
		return nil, err
	}

	s.cache.Store(ctx, CacheKey(section), body, s.ttl)
	metrics.RecordFeedRequest("served")

	return &entity.FeedDocument{
		Section:     section,
		Body:        body,
		GeneratedAt: s.now(),
	}, nil
}

// recordFailure counts the failure and logs the ones callers only see as a generic message.
func (s *Service) recordFailure(logger *slog.Logger, section entity.Section, err error) {
	kind := KindOf(err)
	metrics.RecordFeedRequest(kind.String())

	switch kind {
	case KindUnexpected:
		logger.Error("error fetching feed for section",
			slog.String("section", section.String()),
			slog.Any("error", err))
	case KindConfiguration:
		logger.Error("content API rejected the configured API key",
			slog.String("section", section.String()),
			slog.Any("error", err))
	default:
		logger.Debug("feed not served",
			slog.String("section", section.String()),
			slog.String("reason", kind.String()))
	}
}
