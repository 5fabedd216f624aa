package feed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-rss/internal/domain/entity"
	"guardian-rss/internal/usecase/feed"
)

// sectionUpstream fails for the sections listed in failing.
type sectionUpstream struct {
	stubUpstream
	failing map[entity.Section]error
}

func (u *sectionUpstream) FetchSection(ctx context.Context, section entity.Section) ([]entity.Article, error) {
	articles, _ := u.stubUpstream.FetchSection(ctx, section)
	if err, ok := u.failing[section]; ok {
		return nil, err
	}
	return articles, nil
}

func TestWarmer_Warm(t *testing.T) {
	cache := newStubCache()
	upstream := &sectionUpstream{
		stubUpstream: stubUpstream{articles: oneArticle()},
		failing: map[entity.Section]error{
			"sport": &feed.UpstreamError{Kind: feed.KindNotFound, StatusCode: 404},
		},
	}
	svc := feed.NewService(cache, upstream, &stubRenderer{}, feed.Config{})
	w := feed.NewWarmer(svc, 2, nil)

	stats, err := w.Warm(context.Background(), []string{"business", "World", "sport", "uk-news"})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Sections)
	assert.Equal(t, int64(2), stats.Refreshed)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Equal(t, int64(1), stats.Failed)

	assert.Contains(t, cache.data, "guardian_feed_business")
	assert.Contains(t, cache.data, "guardian_feed_uk-news")
	assert.NotContains(t, cache.data, "guardian_feed_sport")
	assert.Equal(t, 3, upstream.callCount(), "invalid names never reach upstream")
}

func TestWarmer_OverwritesStaleEntries(t *testing.T) {
	cache := newStubCache()
	cache.data["guardian_feed_world"] = []byte("stale")
	svc := feed.NewService(cache, &stubUpstream{articles: oneArticle()}, &stubRenderer{}, feed.Config{})

	_, err := feed.NewWarmer(svc, 0, nil).Warm(context.Background(), []string{"world"})
	require.NoError(t, err)

	assert.Equal(t, "rss:world|Markets rally", string(cache.data["guardian_feed_world"]))
}

func TestWarmer_CancelledContext(t *testing.T) {
	upstream := &stubUpstream{articles: oneArticle()}
	svc := feed.NewService(newStubCache(), upstream, &stubRenderer{}, feed.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := feed.NewWarmer(svc, 1, nil).Warm(ctx, []string{"business", "world"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, stats.Refreshed)
	assert.Zero(t, upstream.callCount())
}

func TestWarmer_EmptyList(t *testing.T) {
	svc := feed.NewService(newStubCache(), &stubUpstream{}, &stubRenderer{}, feed.Config{})

	stats, err := feed.NewWarmer(svc, 1, nil).Warm(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Sections)
}
