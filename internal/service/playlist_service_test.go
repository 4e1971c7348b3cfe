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

func newPlaylistService(t *testing.T) (PlaylistService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewPlaylistService(db), db
}

func TestPlaylistLifecycle(t *testing.T) {
	svc, db := newPlaylistService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	p, err := svc.CreatePlaylist(ctx, alice.ID, CreatePlaylistInput{Title: "road trip"})
	require.NoError(t, err)
	require.NotNil(t, p.Creator)
	assert.Equal(t, "alice", p.Creator.Username)

	title := "long road trip"
	updated, err := svc.UpdatePlaylist(ctx, p.ID, alice.ID, UpdatePlaylistInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	require.NoError(t, svc.DeletePlaylist(ctx, p.ID, alice.ID))
	_, err = svc.GetPlaylist(ctx, p.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestPlaylistOwnerOnly(t *testing.T) {
	svc, db := newPlaylistService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	p, err := svc.CreatePlaylist(ctx, alice.ID, CreatePlaylistInput{Title: "mine"})
	require.NoError(t, err)

	title := "hijacked"
	_, err = svc.UpdatePlaylist(ctx, p.ID, bob.ID, UpdatePlaylistInput{Title: &title})
	assert.Equal(t, errs.EFORBIDDEN, errs.Kind(err))

	err = svc.DeletePlaylist(ctx, p.ID, bob.ID)
	assert.Equal(t, errs.EFORBIDDEN, errs.Kind(err))
}

func TestPlaylistSongs(t *testing.T) {
	svc, db := newPlaylistService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	s1 := seedSong(t, db, "one", artist.ID)
	s2 := seedSong(t, db, "two", artist.ID)

	p, err := svc.CreatePlaylist(ctx, alice.ID, CreatePlaylistInput{Title: "mix"})
	require.NoError(t, err)

	require.NoError(t, svc.AddSong(ctx, p.ID, alice.ID, s1.ID))
	require.NoError(t, svc.AddSong(ctx, p.ID, alice.ID, s2.ID))

	err = svc.AddSong(ctx, p.ID, alice.ID, s1.ID)
	assert.Equal(t, errs.ECONFLICT, errs.Kind(err))

	songs, total, err := svc.ListSongs(ctx, p.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, songs, 2)
	assert.Equal(t, "one", songs[0].Title)

	require.NoError(t, svc.RemoveSong(ctx, p.ID, alice.ID, s1.ID))
	err = svc.RemoveSong(ctx, p.ID, alice.ID, s1.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestCollectPlaylist(t *testing.T) {
	svc, db := newPlaylistService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	p, err := svc.CreatePlaylist(ctx, alice.ID, CreatePlaylistInput{Title: "mix"})
	require.NoError(t, err)

	// Own playlists cannot be collected.
	err = svc.Collect(ctx, alice.ID, p.ID)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))

	require.NoError(t, svc.Collect(ctx, bob.ID, p.ID))
	err = svc.Collect(ctx, bob.ID, p.ID)
	assert.Equal(t, errs.ECONFLICT, errs.Kind(err))

	require.NoError(t, svc.Uncollect(ctx, bob.ID, p.ID))
	err = svc.Uncollect(ctx, bob.ID, p.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestDeletePlaylistCleansJoins(t *testing.T) {
	svc, db := newPlaylistService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "one", artist.ID)

	p, err := svc.CreatePlaylist(ctx, alice.ID, CreatePlaylistInput{Title: "mix"})
	require.NoError(t, err)
	require.NoError(t, svc.AddSong(ctx, p.ID, alice.ID, song.ID))
	require.NoError(t, svc.Collect(ctx, bob.ID, p.ID))

	require.NoError(t, svc.DeletePlaylist(ctx, p.ID, alice.ID))

	var n int64
	require.NoError(t, db.Model(&model.PlaylistSong{}).Where("playlist_id = ?", p.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.UserCollect{}).Where("playlist_id = ?", p.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
