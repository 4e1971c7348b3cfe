package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/repository"
)

func newRelationshipService(t *testing.T) (RelationshipService, func(string) int64) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewRelationshipService(repository.NewFollowRepository(db), repository.NewUserRepository(db))
	mkUser := func(name string) int64 { return seedUser(t, db, name).ID }
	return svc, mkUser
}

func TestFollowAndUnfollow(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice, bob := mkUser("alice"), mkUser("bob")

	require.NoError(t, svc.Follow(ctx, alice, bob))

	following, err := svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, following)

	// Direction matters.
	following, err = svc.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, svc.Unfollow(ctx, alice, bob))
	following, err = svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowSelf(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	alice := mkUser("alice")

	err := svc.Follow(context.Background(), alice, alice)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.Kind(err))
}

func TestFollowDuplicate(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice, bob := mkUser("alice"), mkUser("bob")

	require.NoError(t, svc.Follow(ctx, alice, bob))
	err := svc.Follow(ctx, alice, bob)
	require.Error(t, err)
	assert.Equal(t, errs.ECONFLICT, errs.Kind(err))
}

func TestFollowMissingUser(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	alice := mkUser("alice")

	err := svc.Follow(context.Background(), alice, 9999)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestUnfollowWithoutEdge(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	alice, bob := mkUser("alice"), mkUser("bob")

	err := svc.Unfollow(context.Background(), alice, bob)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.Kind(err))
}

func TestListFollowingAndFollowers(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice := mkUser("alice")
	bob := mkUser("bob")
	carol := mkUser("carol")

	require.NoError(t, svc.Follow(ctx, alice, bob))
	require.NoError(t, svc.Follow(ctx, alice, carol))
	require.NoError(t, svc.Follow(ctx, bob, alice))

	following, total, err := svc.ListFollowing(ctx, alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, following, 2)
	for _, entry := range following {
		assert.NotZero(t, entry.User.ID)
		assert.NotEmpty(t, entry.User.Username)
	}

	followers, total, err := svc.ListFollowers(ctx, alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].User.Username)

	stats, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.FollowingCount)
	assert.EqualValues(t, 1, stats.FollowersCount)
}

func TestMutualFriends(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice := mkUser("alice")
	bob := mkUser("bob")
	carol := mkUser("carol")

	// alice <-> bob mutual; alice -> carol one-way.
	require.NoError(t, svc.Follow(ctx, alice, bob))
	require.NoError(t, svc.Follow(ctx, bob, alice))
	require.NoError(t, svc.Follow(ctx, alice, carol))

	friends, total, err := svc.MutualFriends(ctx, alice, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].User.Username)
}

func TestBatchIsFollowing(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice := mkUser("alice")
	bob := mkUser("bob")
	carol := mkUser("carol")

	require.NoError(t, svc.Follow(ctx, alice, bob))

	result, err := svc.BatchIsFollowing(ctx, alice, []int64{bob, carol, 9999})
	require.NoError(t, err)
	assert.True(t, result[bob])
	assert.False(t, result[carol])
	assert.False(t, result[9999])
}

func TestListFollowingPagination(t *testing.T) {
	svc, mkUser := newRelationshipService(t)
	ctx := context.Background()
	alice := mkUser("alice")
	for i := 0; i < 5; i++ {
		target := mkUser(string(rune('b' + i)))
		require.NoError(t, svc.Follow(ctx, alice, target))
	}

	page1, total, err := svc.ListFollowing(ctx, alice, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := svc.ListFollowing(ctx, alice, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}
