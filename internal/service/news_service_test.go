package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

func newNewsService(t *testing.T, state *memory.State, bus domain.SignalBus) *NewsService {
	t.Helper()
	return NewNewsService(newTestFetcher(t, state, bus), state, bus, quietLogger())
}

func TestNewsListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newNewsService(t, seededState(), nil)

	page, err := svc.List(ctx, NewsQuery{Category: "technology"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].ID)
	assert.Equal(t, domain.SentimentNeutral, page.Items[0].Label)

	page, err = svc.List(ctx, NewsQuery{Query: "federal"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.SentimentBullish, page.Items[0].Label)

	page, err = svc.List(ctx, NewsQuery{ListOpts: domain.ListOpts{Offset: 10}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
}

func TestNewsFeedCapsMarkets(t *testing.T) {
	svc := newNewsService(t, seededState(), nil)

	page, err := svc.Feed(context.Background(), domain.ListOpts{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	for _, item := range page.Items {
		assert.LessOrEqual(t, len(item.Markets), 2, "article %s", item.ID)
	}

	// Explicitly linked market leads.
	require.NotEmpty(t, page.Items[1].Markets)
	assert.Equal(t, "4", page.Items[1].Markets[0].ID)

	ids := []string{}
	for _, m := range page.Items[2].Markets {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"4", "5"}, ids)
}

func TestNewsGetRelated(t *testing.T) {
	ctx := context.Background()
	svc := newNewsService(t, seededState(), nil)

	d, err := svc.Get(ctx, "2")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(d.RelatedMarkets), 3)
	require.NotEmpty(t, d.RelatedMarkets)
	assert.Equal(t, "4", d.RelatedMarkets[0].ID)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	svc := newNewsService(t, seededState(), nil)

	require.NoError(t, svc.Bookmark(ctx, "3"))
	require.NoError(t, svc.Bookmark(ctx, "3"))
	require.NoError(t, svc.Bookmark(ctx, "1"))

	got := svc.Bookmarks(ctx)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.True(t, a.Bookmarked)
	}

	d, err := svc.Get(ctx, "3")
	require.NoError(t, err)
	assert.True(t, d.Bookmarked)

	require.NoError(t, svc.Unbookmark(ctx, "3"))
	require.NoError(t, svc.Unbookmark(ctx, "3"))
	assert.Len(t, svc.Bookmarks(ctx), 1)

	assert.ErrorIs(t, svc.Bookmark(ctx, "missing"), domain.ErrNotFound)
}

func TestNewsIngest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := memory.NewSignalBus()
	ch, err := bus.Subscribe(ctx, domain.ChannelNews)
	require.NoError(t, err)

	svc := newNewsService(t, seededState(), bus)
	// Warm the cache so Ingest must invalidate it.
	_, err = svc.List(ctx, NewsQuery{})
	require.NoError(t, err)
	drain(ch)

	fresh := domain.NewsArticle{
		ID:          "rss-1",
		Title:       "Chiefs clinch top seed",
		Category:    "Sports",
		PublishedAt: testNow.Add(time.Hour),
	}
	assert.Equal(t, 1, svc.Ingest(ctx, []domain.NewsArticle{fresh}))
	assert.Equal(t, 0, svc.Ingest(ctx, []domain.NewsArticle{fresh}))
	assert.Equal(t, 0, svc.Ingest(ctx, nil))

	page, err := svc.List(ctx, NewsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, "rss-1", page.Items[0].ID)

	select {
	case msg := <-ch:
		assert.Contains(t, string(msg), "news_ingested")
	case <-time.After(time.Second):
		t.Fatal("no ingest event")
	}
}

func TestNewsIngestRetention(t *testing.T) {
	ctx := context.Background()
	svc := newNewsService(t, seededState(), nil).WithRetention(10)
	require.NoError(t, svc.Bookmark(ctx, "1"))

	for round := range 500 {
		batch := make([]domain.NewsArticle, 20)
		for i := range batch {
			batch[i] = domain.NewsArticle{
				ID:          fmt.Sprintf("rss-%d-%d", round, i),
				Title:       "Wire story",
				Category:    "Finance",
				PublishedAt: testNow.Add(time.Duration(round*20+i) * time.Second),
			}
		}
		svc.Ingest(ctx, batch)
	}

	page, err := svc.List(ctx, NewsQuery{ListOpts: domain.ListOpts{Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total, "retention plus the bookmarked article")
	assert.Equal(t, "rss-499-19", page.Items[0].ID)
	assert.Len(t, svc.Bookmarks(ctx), 1)
}

func drain(ch <-chan []byte) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
