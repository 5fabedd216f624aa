package feed

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"guardian-rss/internal/domain/entity"
	"guardian-rss/internal/observability/metrics"

	"golang.org/x/sync/errgroup"
)

// defaultWarmParallelism bounds concurrent upstream calls made by a warm run.
const defaultWarmParallelism = 2

// WarmStats contains statistics about a warm run.
type WarmStats struct {
	Sections  int
	Refreshed int64
	Skipped   int64 // names rejected by ParseSection
	Failed    int64
	Duration  time.Duration
}

// Warmer re-renders a fixed list of sections into the cache ahead of requests.
// Each section goes through Service.Refresh, the same path a cache miss takes.
type Warmer struct {
	svc         *Service
	parallelism int
	logger      *slog.Logger
}

// NewWarmer creates a Warmer. parallelism <= 0 selects the default.
func NewWarmer(svc *Service, parallelism int, logger *slog.Logger) *Warmer {
	if parallelism <= 0 {
		parallelism = defaultWarmParallelism
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmer{svc: svc, parallelism: parallelism, logger: logger}
}

// Warm refreshes every section. A failing section does not stop the run;
// the returned error is only non-nil when ctx is cancelled.
func (w *Warmer) Warm(ctx context.Context, sections []string) (*WarmStats, error) {
	start := time.Now()
	stats := &WarmStats{Sections: len(sections)}
	var refreshed, skipped, failed atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(w.parallelism)

	for _, raw := range sections {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			section, err := entity.ParseSection(raw)
			if err != nil {
				skipped.Add(1)
				w.logger.Warn("skipping invalid section in warm list", slog.String("section", raw))
				return nil
			}

			if _, err := w.svc.Refresh(egCtx, section); err != nil {
				failed.Add(1)
				metrics.RecordFeedWarm("failure")
				w.logger.Warn("section warm failed",
					slog.String("section", raw),
					slog.String("reason", KindOf(err).String()))
				return nil
			}
			refreshed.Add(1)
			metrics.RecordFeedWarm("success")
			return nil
		})
	}

	err := eg.Wait()

	stats.Refreshed = refreshed.Load()
	stats.Skipped = skipped.Load()
	stats.Failed = failed.Load()
	stats.Duration = time.Since(start)

	w.logger.Info("feed warm completed",
		slog.Int("sections", stats.Sections),
		slog.Int64("refreshed", stats.Refreshed),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return stats, err
}
