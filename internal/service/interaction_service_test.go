package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

func newInteractionService(t *testing.T) (InteractionService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewInteractionService(db, repository.NewLikeRepository(db), repository.NewCommentRepository(db))
	return svc, db
}

func commentCountOf(t *testing.T, db *gorm.DB, songID int64) int64 {
	t.Helper()
	var stat model.SongStat
	require.NoError(t, db.First(&stat, "song_id = ?", songID).Error)
	return stat.CommentCount
}

func TestAddLikeAndRemoveLike(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	note := seedNote(t, db, alice.ID, "hello")

	require.NoError(t, svc.AddLike(ctx, alice.ID, TargetNote, note.ID))

	// Duplicate like conflicts.
	err := svc.AddLike(ctx, alice.ID, TargetNote, note.ID)
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.Kind(err))

	stats, err := svc.LikeStats(ctx, TargetNote, []int64{note.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats[note.ID])

	require.NoError(t, svc.RemoveLike(ctx, alice.ID, TargetNote, note.ID))
	stats, err = svc.LikeStats(ctx, TargetNote, []int64{note.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats[note.ID])
}

func TestAddLikeInvalidKind(t *testing.T) {
	svc, db := newInteractionService(t)
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "song", artist.ID)

	// Songs are favorited, not liked.
	err := svc.AddLike(context.Background(), alice.ID, TargetSong, song.ID)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))
}

func TestAddLikeMissingTarget(t *testing.T) {
	svc, db := newInteractionService(t)
	alice := seedUser(t, db, "alice")

	err := svc.AddLike(context.Background(), alice.ID, TargetNote, 9999)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestRemoveLikeNotLiked(t *testing.T) {
	svc, db := newInteractionService(t)
	alice := seedUser(t, db, "alice")
	note := seedNote(t, db, alice.ID, "hello")

	err := svc.RemoveLike(context.Background(), alice.ID, TargetNote, note.ID)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestAddCommentBumpsSongCounter(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "song", artist.ID)

	top, err := svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "great track", nil)
	require.NoError(t, err)
	require.NotNil(t, top.User)
	assert.Equal(t, "alice", top.User.Username)
	assert.EqualValues(t, 1, commentCountOf(t, db, song.ID))

	// Replies never touch the counter.
	_, err = svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "agreed", &top.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, commentCountOf(t, db, song.ID))
}

func TestAddCommentOnNoteDoesNotTouchSongStats(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	note := seedNote(t, db, alice.ID, "hello")

	_, err := svc.AddComment(ctx, alice.ID, TargetNote, note.ID, "nice", nil)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&model.SongStat{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestAddCommentReplyTargetMismatch(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "song", artist.ID)
	note := seedNote(t, db, alice.ID, "hello")

	top, err := svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "great", nil)
	require.NoError(t, err)

	// Reply pointing at a different target is rejected.
	_, err = svc.AddComment(ctx, alice.ID, TargetNote, note.ID, "reply", &top.ID)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))
}

func TestAddCommentEmptyContent(t *testing.T) {
	svc, db := newInteractionService(t)
	alice := seedUser(t, db, "alice")
	note := seedNote(t, db, alice.ID, "hello")

	_, err := svc.AddComment(context.Background(), alice.ID, TargetNote, note.ID, "   ", nil)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))
}

func TestDeleteCommentCascadesOneLevel(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "song", artist.ID)

	top, err := svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "top", nil)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, bob.ID, TargetSong, song.ID, "reply", &top.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, commentCountOf(t, db, song.ID))

	require.NoError(t, svc.DeleteComment(ctx, top.ID, alice.ID))

	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	assert.EqualValues(t, 0, commentCountOf(t, db, song.ID))
}

func TestDeleteCommentForbidden(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	note := seedNote(t, db, alice.ID, "hello")

	comment, err := svc.AddComment(ctx, alice.ID, TargetNote, note.ID, "mine", nil)
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, comment.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, errs.EFORBIDDEN, errs.Kind(err))
}

func TestDeleteReplyKeepsCounter(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	artist := seedArtist(t, db, "muse")
	song := seedSong(t, db, "song", artist.ID)

	top, err := svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "top", nil)
	require.NoError(t, err)
	reply, err := svc.AddComment(ctx, alice.ID, TargetSong, song.ID, "reply", &top.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, reply.ID, alice.ID))
	assert.EqualValues(t, 1, commentCountOf(t, db, song.ID))
}

func TestListCommentsWithReplyPreview(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	note := seedNote(t, db, alice.ID, "hello")

	top, err := svc.AddComment(ctx, alice.ID, TargetNote, note.ID, "top", nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := svc.AddComment(ctx, alice.ID, TargetNote, note.ID, fmt.Sprintf("reply %d", i), &top.ID)
		require.NoError(t, err)
	}

	list, total, err := svc.ListComments(ctx, TargetNote, note.ID, 1, 10)
	require.NoError(t, err)
	// Only top-level comments are counted.
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Replies, replyPreviewLimit)
}

func TestBatchCheckLiked(t *testing.T) {
	svc, db := newInteractionService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	n1 := seedNote(t, db, alice.ID, "one")
	n2 := seedNote(t, db, alice.ID, "two")

	require.NoError(t, svc.AddLike(ctx, alice.ID, TargetNote, n1.ID))

	result, err := svc.BatchCheckLiked(ctx, alice.ID, TargetNote, []int64{n1.ID, n2.ID})
	require.NoError(t, err)
	assert.True(t, result[n1.ID])
	assert.False(t, result[n2.ID])
}
