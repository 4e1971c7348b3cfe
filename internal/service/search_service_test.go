package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

func newSearchService(t *testing.T) (SearchService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewSearchService(db, nil), db
}

func TestSearchAcrossEntities(t *testing.T) {
	svc, db := newSearchService(t)
	ctx := context.Background()
	seedUser(t, db, "starfan")
	artist := seedArtist(t, db, "starset")
	seedSong(t, db, "starlight", artist.ID)
	require.NoError(t, db.Create(&model.Playlist{UserID: seedUser(t, db, "owner").ID, Title: "star mix"}).Error)

	res, err := svc.Search(ctx, 0, "star", 10)
	require.NoError(t, err)
	assert.Len(t, res.Songs, 1)
	assert.Len(t, res.Artists, 1)
	assert.Len(t, res.Playlists, 1)
	assert.Len(t, res.Users, 1)
	assert.Empty(t, res.Albums)
}

func TestSearchEmptyKeyword(t *testing.T) {
	svc, _ := newSearchService(t)

	_, err := svc.Search(context.Background(), 0, "   ", 10)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))
}

func TestSearchRecordsHistoryAndTrend(t *testing.T) {
	svc, db := newSearchService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	_, err := svc.Search(ctx, alice.ID, "muse", 10)
	require.NoError(t, err)
	_, err = svc.Search(ctx, alice.ID, "muse", 10)
	require.NoError(t, err)
	// Anonymous search bumps the trend but leaves no history.
	_, err = svc.Search(ctx, 0, "muse", 10)
	require.NoError(t, err)

	history, err := svc.ListHistory(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	var trend model.SearchTrend
	require.NoError(t, db.First(&trend, "keyword = ?", "muse").Error)
	assert.EqualValues(t, 3, trend.Count)

	require.NoError(t, svc.ClearHistory(ctx, alice.ID))
	history, err = svc.ListHistory(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHotKeywordsOrdering(t *testing.T) {
	svc, db := newSearchService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.SearchTrend{Keyword: "rare", Count: 1}).Error)
	require.NoError(t, db.Create(&model.SearchTrend{Keyword: "popular", Count: 9}).Error)

	hot, err := svc.HotKeywords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 2)
	assert.Equal(t, "popular", hot[0].Keyword)
	assert.EqualValues(t, 9, hot[0].Count)
}

func TestHotKeywordsRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	db := setupTestDB(t)
	svc := NewSearchService(db, rdb)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.SearchTrend{Keyword: "muse", Count: 5}).Error)

	hot, err := svc.HotKeywords(ctx, 1)
	require.NoError(t, err)
	require.Len(t, hot, 1)
	assert.True(t, mr.Exists(hotKeywordsKey))

	// Cache is served even after the backing row changes.
	require.NoError(t, db.Model(&model.SearchTrend{}).Where("keyword = ?", "muse").
		Update("count", 50).Error)
	hot, err = svc.HotKeywords(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, hot[0].Count)

	// A new search invalidates the cache.
	_, err = svc.Search(ctx, 0, "muse", 5)
	require.NoError(t, err)
	assert.False(t, mr.Exists(hotKeywordsKey))
}
