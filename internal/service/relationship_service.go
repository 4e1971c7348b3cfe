package service

import (
	"context"
	"time"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

// FollowEntry is one row of a following/followers/mutual listing.
type FollowEntry struct {
	ID        int64             `json:"id"`
	User      model.UserProfile `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
}

type FollowStats struct {
	FollowingCount int64 `json:"following_count"`
	FollowersCount int64 `json:"followers_count"`
}

// RelationshipService maintains the directed follow graph.
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error)
	ListFollowers(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error)
	Stats(ctx context.Context, userID int64) (FollowStats, error)
	MutualFriends(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error)
	BatchIsFollowing(ctx context.Context, followerID int64, targetIDs []int64) (map[int64]bool, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return errs.Errorf(errs.EINVALID, "cannot follow yourself")
	}
	exists, err := s.userRepo.Exists(ctx, followedID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.Errorf(errs.ENOTFOUND, "user not found")
	}
	following, err := s.followRepo.Exists(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if following {
		return errs.Errorf(errs.ECONFLICT, "already following this user")
	}
	return s.followRepo.Create(ctx, followerID, followedID)
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	deleted, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.Errorf(errs.ENOTFOUND, "not following this user")
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followedID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.followRepo.ListFollowing(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return followEntries(items, func(f *model.Follow) *model.User { return f.Followed }), total, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.followRepo.ListFollowers(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return followEntries(items, func(f *model.Follow) *model.User { return f.Follower }), total, nil
}

func (s *relationshipService) Stats(ctx context.Context, userID int64) (FollowStats, error) {
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return FollowStats{}, err
	}
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return FollowStats{}, err
	}
	return FollowStats{FollowingCount: following, FollowersCount: followers}, nil
}

func (s *relationshipService) MutualFriends(ctx context.Context, userID int64, page, pageSize int) ([]FollowEntry, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	items, total, err := s.followRepo.ListMutual(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return followEntries(items, func(f *model.Follow) *model.User { return f.Followed }), total, nil
}

func (s *relationshipService) BatchIsFollowing(ctx context.Context, followerID int64, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	ids, err := s.followRepo.ListFollowedIn(ctx, followerID, targetIDs)
	if err != nil {
		return nil, err
	}
	followed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		followed[id] = struct{}{}
	}
	for _, id := range targetIDs {
		_, ok := followed[id]
		result[id] = ok
	}
	return result, nil
}

func followEntries(items []*model.Follow, other func(*model.Follow) *model.User) []FollowEntry {
	res := make([]FollowEntry, 0, len(items))
	for _, f := range items {
		entry := FollowEntry{ID: f.ID, CreatedAt: f.CreatedAt}
		if u := other(f); u != nil {
			entry.User = u.Profile()
		}
		res = append(res, entry)
	}
	return res
}
