package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

func newSongService(t *testing.T) (SongService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewSongService(db), db
}

func TestCreateSongWithStatAndTags(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	artist := seedArtist(t, db, "muse")
	tag := &model.Tag{Name: "rock"}
	require.NoError(t, db.Create(tag).Error)

	song, err := svc.CreateSong(ctx, CreateSongInput{
		Title:    "anthem",
		ArtistID: artist.ID,
		Duration: 215,
		TagIDs:   []int64{tag.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, song.Stat)
	assert.EqualValues(t, 0, song.Stat.PlayCount)
	require.Len(t, song.Tags, 1)
	assert.Equal(t, "rock", song.Tags[0].Name)
}

func TestCreateSongMissingArtist(t *testing.T) {
	svc, _ := newSongService(t)

	_, err := svc.CreateSong(context.Background(), CreateSongInput{Title: "x", ArtistID: 9999})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestPlaySongIncrementsAndRecordsHistory(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "track", artist.ID)

	_, err := svc.PlaySong(ctx, alice.ID, song.ID)
	require.NoError(t, err)
	_, err = svc.PlaySong(ctx, alice.ID, song.ID)
	require.NoError(t, err)
	// Anonymous play counts but leaves no history.
	_, err = svc.PlaySong(ctx, 0, song.ID)
	require.NoError(t, err)

	var stat model.SongStat
	require.NoError(t, db.First(&stat, "song_id = ?", song.ID).Error)
	assert.EqualValues(t, 3, stat.PlayCount)

	var history int64
	require.NoError(t, db.Model(&model.UserHistory{}).Where("user_id = ?", alice.ID).Count(&history).Error)
	assert.EqualValues(t, 2, history)
}

func TestListSongsFilters(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	muse := seedArtist(t, db, "muse")
	other := seedArtist(t, db, "other")
	seedSong(t, db, "starlight", muse.ID)
	seedSong(t, db, "sunburn", muse.ID)
	seedSong(t, db, "stardust", other.ID)

	list, total, err := svc.ListSongs(ctx, SongFilter{Keyword: "star"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = svc.ListSongs(ctx, SongFilter{Keyword: "star", ArtistID: muse.ID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "starlight", list[0].Title)
}

func TestHotSongsOrderedByPlayCount(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	artist := seedArtist(t, db, "muse")
	quiet := seedSong(t, db, "quiet", artist.ID)
	loud := seedSong(t, db, "loud", artist.ID)

	_, err := svc.PlaySong(ctx, 0, quiet.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.PlaySong(ctx, 0, loud.ID)
		require.NoError(t, err)
	}

	hot, err := svc.HotSongs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hot, 2)
	assert.Equal(t, "loud", hot[0].Title)
}

func TestDeleteSongRemovesJoins(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	artist := seedArtist(t, db, "muse")
	tag := &model.Tag{Name: "rock"}
	require.NoError(t, db.Create(tag).Error)

	song, err := svc.CreateSong(ctx, CreateSongInput{Title: "gone", ArtistID: artist.ID, TagIDs: []int64{tag.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSong(ctx, song.ID))

	_, err = svc.GetSong(ctx, song.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))

	var n int64
	require.NoError(t, db.Model(&model.SongTag{}).Where("song_id = ?", song.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.SongStat{}).Where("song_id = ?", song.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestRecommendedSongsByFavoriteTags(t *testing.T) {
	svc, db := newSongService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	rock := &model.Tag{Name: "rock"}
	jazz := &model.Tag{Name: "jazz"}
	require.NoError(t, db.Create(rock).Error)
	require.NoError(t, db.Create(jazz).Error)

	fav, err := svc.CreateSong(ctx, CreateSongInput{Title: "fav", ArtistID: artist.ID, TagIDs: []int64{rock.ID}})
	require.NoError(t, err)
	similar, err := svc.CreateSong(ctx, CreateSongInput{Title: "similar", ArtistID: artist.ID, TagIDs: []int64{rock.ID}})
	require.NoError(t, err)
	_, err = svc.CreateSong(ctx, CreateSongInput{Title: "unrelated", ArtistID: artist.ID, TagIDs: []int64{jazz.ID}})
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.UserFavorite{UserID: alice.ID, SongID: fav.ID}).Error)

	recs, err := svc.RecommendedSongs(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, similar.ID, recs[0].ID)
}
