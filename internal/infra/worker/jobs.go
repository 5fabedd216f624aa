package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"guardian-rss/internal/handler/http/respond"
	"guardian-rss/internal/usecase/feed"
)

// Job names used in logs and metric labels.
const (
	JobWarm  = "warm"
	JobPurge = "purge"
)

// Warmer re-renders a list of sections.
type Warmer interface {
	Warm(ctx context.Context, sections []string) (*feed.WarmStats, error)
}

// Purger removes expired cache entries.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Jobs runs the scheduled warm and purge jobs.
// A nil Warmer or an empty section list disables warming.
type Jobs struct {
	Warmer   Warmer
	Purger   Purger
	Sections []string
	Timeout  time.Duration
	Metrics  *WorkerMetrics
	Logger   *slog.Logger
}

// Schedule registers both jobs on c. Each tick purges, then warms.
func (j *Jobs) Schedule(c *cron.Cron, schedule string) error {
	_, err := c.AddFunc(schedule, func() {
		j.RunPurge(context.Background())
		j.RunWarm(context.Background())
	})
	return err
}

// RunWarm executes one warm run bounded by Timeout.
func (j *Jobs) RunWarm(ctx context.Context) {
	if j.Warmer == nil || len(j.Sections) == 0 {
		return
	}

	j.run(ctx, JobWarm, func(ctx context.Context) error {
		stats, err := j.Warmer.Warm(ctx, j.Sections)
		if err != nil {
			return err
		}
		j.Logger.Info("warm job completed",
			slog.Int("sections", stats.Sections),
			slog.Int64("refreshed", stats.Refreshed),
			slog.Int64("failed", stats.Failed))
		return nil
	})
}

// RunPurge executes one purge run bounded by Timeout.
func (j *Jobs) RunPurge(ctx context.Context) {
	if j.Purger == nil {
		return
	}

	j.run(ctx, JobPurge, func(ctx context.Context) error {
		n, err := j.Purger.Purge(ctx)
		if err != nil {
			return err
		}
		j.Logger.Info("purge job completed", slog.Int64("purged", n))
		return nil
	})
}

func (j *Jobs) run(ctx context.Context, job string, fn func(context.Context) error) {
	start := time.Now()
	j.Logger.Info("cron job started", slog.String("job", job))

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	err := fn(ctx)
	j.Metrics.RecordJobDuration(job, time.Since(start).Seconds())
	if err != nil {
		j.Metrics.RecordJobRun(job, "failure")
		j.Logger.Error("cron job failed",
			slog.String("job", job),
			slog.String("error", respond.SanitizeError(err)))
		return
	}

	j.Metrics.RecordJobRun(job, "success")
	j.Metrics.RecordLastSuccess(job)
}
