package service

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"
	"inkwell/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	pageViews  *fakePageViewRepo
	engagement *fakeEngagementRepo
	stats      *fakeStatsRepo
	svc        AnalyticsService
}

func newAnalyticsFixture(t *testing.T, redisClient *redis.Client) *analyticsFixture {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	f := &analyticsFixture{
		pageViews:  &fakePageViewRepo{},
		engagement: &fakeEngagementRepo{},
		stats:      newFakeStatsRepo(),
	}
	statsService := NewStatsService(f.pageViews, f.engagement, f.stats, &fakeArticleRepo{}, newFakeAuthorRepo(), newFakeMonetizationRepo(), nil, log)
	f.svc = NewAnalyticsService(f.pageViews, f.engagement, statsService, redisClient, log)
	return f
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log, err := logger.New("error")
	require.NoError(t, err)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRecordPageView(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	view, err := f.svc.RecordPageView(ctx, &domain.PageViewInput{
		ArticleID: "art-1",
		IPAddress: "1.2.3.4",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "art-1", view.ArticleID)
	assert.Equal(t, view.CreatedAt.Truncate(24*time.Hour), view.ViewDate)
	require.Len(t, f.pageViews.views, 1)

	// Ingestion refreshed the article's materialized stats
	stored := f.stats.articleStats["art-1"]
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.TotalViews)
}

func TestRecordPageView_MissingArticleID(t *testing.T) {
	f := newAnalyticsFixture(t, nil)

	_, err := f.svc.RecordPageView(context.Background(), &domain.PageViewInput{})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Empty(t, f.pageViews.views)
}

func TestRecordPageView_AppendFailureSkipsRefresh(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	f.pageViews.insertErr = assert.AnError

	_, err := f.svc.RecordPageView(context.Background(), &domain.PageViewInput{
		ArticleID: "art-1",
		IPAddress: "1.1.1.1",
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeInternal, appErr.Type)

	// nothing was appended, so nothing gets recomputed
	assert.Empty(t, f.pageViews.views)
	assert.Equal(t, 0, f.stats.articleUpserts)
}

func TestRecordEngagement_AppendFailureSkipsRefresh(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	f.engagement.insertErr = assert.AnError

	_, err := f.svc.RecordEngagement(context.Background(), &domain.EngagementInput{
		ActionType: "like",
		TargetID:   "art-1",
		TargetType: "article",
	})
	require.Error(t, err)

	assert.Empty(t, f.engagement.events)
	assert.Equal(t, 0, f.stats.articleUpserts)
}

func TestRecordPageView_RateLimited(t *testing.T) {
	_, client := newTestRedis(t)
	f := newAnalyticsFixture(t, client)
	ctx := context.Background()

	input := &domain.PageViewInput{ArticleID: "art-1", IPAddress: "9.9.9.9"}

	for i := 0; i < PageViewRateLimitRequests; i++ {
		_, err := f.svc.RecordPageView(ctx, input)
		require.NoError(t, err, "request %d within the budget", i+1)
	}

	_, err := f.svc.RecordPageView(ctx, input)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeRateLimit, appErr.Type)

	// The rejected request never reached the ledger
	assert.Len(t, f.pageViews.views, PageViewRateLimitRequests)

	// A different address is unaffected
	_, err = f.svc.RecordPageView(ctx, &domain.PageViewInput{ArticleID: "art-1", IPAddress: "8.8.8.8"})
	assert.NoError(t, err)
}

func TestRecordPageView_RateLimitWindowExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	f := newAnalyticsFixture(t, client)
	ctx := context.Background()

	_, err := f.svc.RecordPageView(ctx, &domain.PageViewInput{ArticleID: "art-1", IPAddress: "9.9.9.9"})
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, redis.TTLPageviewRateLimit, mr.TTL(keys[0]))

	// An expired window opens a fresh budget
	mr.FastForward(redis.TTLPageviewRateLimit)
	assert.False(t, mr.Exists(keys[0]))
}

func TestRecordPageView_RateLimiterDegradesOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	f := newAnalyticsFixture(t, client)

	mr.Close()

	_, err := f.svc.RecordPageView(context.Background(), &domain.PageViewInput{
		ArticleID: "art-1",
		IPAddress: "9.9.9.9",
	})
	assert.NoError(t, err, "Redis being down must not block ingestion")
	assert.Len(t, f.pageViews.views, 1)
}

func TestRecordEngagement(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	event, err := f.svc.RecordEngagement(ctx, &domain.EngagementInput{
		ActorWallet: "0xabc",
		ActionType:  "like",
		TargetID:    "art-1",
		TargetType:  "article",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.ActionLike, event.ActionType)
	assert.Equal(t, domain.TargetArticle, event.TargetType)
	require.Len(t, f.engagement.events, 1)

	// The article's stats were refreshed with the new like
	stored := f.stats.articleStats["art-1"]
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.TotalLikes)
}

func TestRecordEngagement_InvalidAction(t *testing.T) {
	f := newAnalyticsFixture(t, nil)

	_, err := f.svc.RecordEngagement(context.Background(), &domain.EngagementInput{
		ActionType: "upvote",
		TargetID:   "art-1",
		TargetType: "article",
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "upvote", appErr.Details["action_type"])

	// Rejected input leaves the ledger untouched
	assert.Empty(t, f.engagement.events)
}

func TestRecordEngagement_InvalidTarget(t *testing.T) {
	f := newAnalyticsFixture(t, nil)

	_, err := f.svc.RecordEngagement(context.Background(), &domain.EngagementInput{
		ActionType: "like",
		TargetID:   "x",
		TargetType: "post",
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Empty(t, f.engagement.events)
}

func TestGetArticlePageViews(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.RecordPageView(ctx, &domain.PageViewInput{ArticleID: "art-1"})
		require.NoError(t, err)
	}
	_, err := f.svc.RecordPageView(ctx, &domain.PageViewInput{ArticleID: "art-2"})
	require.NoError(t, err)

	views, err := f.svc.GetArticlePageViews(ctx, "art-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, err = f.svc.GetArticlePageViews(ctx, "art-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestGetUserEngagement(t *testing.T) {
	f := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.RecordEngagement(ctx, &domain.EngagementInput{
		ActorWallet: "0xabc",
		ActionType:  "share",
		TargetID:    "art-1",
		TargetType:  "article",
	})
	require.NoError(t, err)

	events, err := f.svc.GetUserEngagement(ctx, "0xabc", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionShare, events[0].ActionType)

	events, err = f.svc.GetUserEngagement(ctx, "0xother", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 20, normalizeLimit(0))
	assert.Equal(t, 20, normalizeLimit(-5))
	assert.Equal(t, 35, normalizeLimit(35))
	assert.Equal(t, 100, normalizeLimit(500))
}
