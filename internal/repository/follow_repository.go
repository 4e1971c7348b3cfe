package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID int64) error
	// Delete reports whether an edge was actually removed.
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	ListFollowing(ctx context.Context, followerID int64, offset, limit int) ([]*model.Follow, int64, error)
	ListFollowers(ctx context.Context, followedID int64, offset, limit int) ([]*model.Follow, int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	ListMutual(ctx context.Context, userID int64, offset, limit int) ([]*model.Follow, int64, error)
	ListFollowedIn(ctx context.Context, followerID int64, followedIDs []int64) ([]int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followedID int64) error {
	f := &model.Follow{FollowerID: followerID, FollowedID: followedID}
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID int64, offset, limit int) ([]*model.Follow, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Follow
	err := q.Preload("Followed").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followedID int64, offset, limit int) ([]*model.Follow, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Follow{}).Where("followed_id = ?", followedID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Follow
	err := q.Preload("Follower").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("followed_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

// ListMutual returns the user's follow edges whose reverse edge also exists.
// Recomputed per call via a self-join; there is no cached mutual table.
func (r *followRepository) ListMutual(ctx context.Context, userID int64, offset, limit int) ([]*model.Follow, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Follow{}).
		Joins("JOIN follows r ON r.follower_id = follows.followed_id AND r.followed_id = follows.follower_id").
		Where("follows.follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Follow
	err := base.Preload("Followed").
		Order("follows.created_at DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *followRepository) ListFollowedIn(ctx context.Context, followerID int64, followedIDs []int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id IN ?", followerID, followedIDs).
		Pluck("followed_id", &ids).Error
	return ids, err
}
