package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/model"
)

// TargetCount is one row of a grouped like count.
type TargetCount struct {
	TargetID int64
	Count    int64
}

type LikeRepository interface {
	Find(ctx context.Context, userID int64, likeType string, targetID int64) (*model.Like, error)
	ListByUser(ctx context.Context, userID int64, likeType string, offset, limit int) ([]*model.Like, int64, error)
	CountByTargets(ctx context.Context, likeType string, targetIDs []int64) ([]TargetCount, error)
	ListLikedIn(ctx context.Context, userID int64, likeType string, targetIDs []int64) ([]int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Find(ctx context.Context, userID int64, likeType string, targetID int64) (*model.Like, error) {
	var like model.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND target_id = ?", userID, likeType, targetID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID int64, likeType string, offset, limit int) ([]*model.Like, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Like{}).Where("user_id = ?", userID)
	if likeType != "" {
		q = q.Where("type = ?", likeType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Like
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

func (r *likeRepository) CountByTargets(ctx context.Context, likeType string, targetIDs []int64) ([]TargetCount, error) {
	var rows []TargetCount
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("target_id, COUNT(id) AS count").
		Where("type = ? AND target_id IN ?", likeType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	return rows, err
}

func (r *likeRepository) ListLikedIn(ctx context.Context, userID int64, likeType string, targetIDs []int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND type = ? AND target_id IN ?", userID, likeType, targetIDs).
		Pluck("target_id", &ids).Error
	return ids, err
}

type CommentRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListTopLevel returns top-level comments newest first, each with its
	// author and up to replyLimit direct replies oldest first.
	ListTopLevel(ctx context.Context, commentType string, targetID int64, offset, limit, replyLimit int) ([]*model.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, commentType string, targetID int64, offset, limit, replyLimit int) ([]*model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("type = ? AND target_id = ? AND parent_id IS NULL", commentType, targetID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Comment
	err := q.Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	if err != nil {
		return nil, 0, err
	}
	// Reply preview is loaded per comment: a per-parent LIMIT cannot be
	// expressed with a single Preload across all rows.
	for _, c := range res {
		var replies []model.Comment
		err := r.db.WithContext(ctx).
			Where("parent_id = ?", c.ID).
			Preload("User").
			Order("created_at ASC").Limit(replyLimit).
			Find(&replies).Error
		if err != nil {
			return nil, 0, err
		}
		c.Replies = replies
	}
	return res, total, nil
}
