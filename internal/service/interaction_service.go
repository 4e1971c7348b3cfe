package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

// replyPreviewLimit caps the replies embedded under each top-level comment.
const replyPreviewLimit = 3

// InteractionService manages polymorphic likes and comments, and keeps the
// song comment counter in step with top-level song comments. Like counts are
// never denormalized; LikeStats derives them from the rows.
type InteractionService interface {
	AddLike(ctx context.Context, userID int64, kind TargetKind, targetID int64) error
	RemoveLike(ctx context.Context, userID int64, kind TargetKind, targetID int64) error
	ListUserLikes(ctx context.Context, userID int64, kind TargetKind, page, pageSize int) ([]*model.Like, int64, error)
	AddComment(ctx context.Context, userID int64, kind TargetKind, targetID int64, content string, parentID *int64) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) error
	ListComments(ctx context.Context, kind TargetKind, targetID int64, page, pageSize int) ([]*model.Comment, int64, error)
	LikeStats(ctx context.Context, kind TargetKind, targetIDs []int64) (map[int64]int64, error)
	BatchCheckLiked(ctx context.Context, userID int64, kind TargetKind, targetIDs []int64) (map[int64]bool, error)
}

type interactionService struct {
	db          *gorm.DB
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	checker     targetChecker
}

func NewInteractionService(db *gorm.DB, likeRepo repository.LikeRepository, commentRepo repository.CommentRepository) InteractionService {
	return &interactionService{
		db:          db,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		checker:     targetChecker{db: db},
	}
}

func (s *interactionService) AddLike(ctx context.Context, userID int64, kind TargetKind, targetID int64) error {
	if !likeKinds[kind] {
		return errs.Errorf(errs.EINVALID, "invalid like type %q", kind)
	}
	if err := s.checker.exists(ctx, kind, targetID); err != nil {
		return err
	}
	_, err := s.likeRepo.Find(ctx, userID, string(kind), targetID)
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "already liked")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	like := &model.Like{UserID: userID, Type: string(kind), TargetID: targetID}
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *interactionService) RemoveLike(ctx context.Context, userID int64, kind TargetKind, targetID int64) error {
	if !likeKinds[kind] {
		return errs.Errorf(errs.EINVALID, "invalid like type %q", kind)
	}
	if err := s.checker.exists(ctx, kind, targetID); err != nil {
		return err
	}
	like, err := s.likeRepo.Find(ctx, userID, string(kind), targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "not liked yet")
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Like{}, like.ID).Error
}

func (s *interactionService) ListUserLikes(ctx context.Context, userID int64, kind TargetKind, page, pageSize int) ([]*model.Like, int64, error) {
	if kind != "" && !likeKinds[kind] {
		return nil, 0, errs.Errorf(errs.EINVALID, "invalid like type %q", kind)
	}
	_, pageSize, offset := normalizePage(page, pageSize)
	return s.likeRepo.ListByUser(ctx, userID, string(kind), offset, pageSize)
}

func (s *interactionService) AddComment(ctx context.Context, userID int64, kind TargetKind, targetID int64, content string, parentID *int64) (*model.Comment, error) {
	if !commentKinds[kind] {
		return nil, errs.Errorf(errs.EINVALID, "invalid comment type %q", kind)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.Errorf(errs.EINVALID, "comment content must not be empty")
	}
	if err := s.checker.exists(ctx, kind, targetID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.Errorf(errs.ENOTFOUND, "parent comment not found")
			}
			return nil, err
		}
		// Replies must stay on the parent's target.
		if parent.Type != string(kind) || parent.TargetID != targetID {
			return nil, errs.Errorf(errs.EINVALID, "reply target does not match parent comment")
		}
	}

	comment := &model.Comment{
		UserID:   userID,
		Type:     string(kind),
		TargetID: targetID,
		Content:  content,
		ParentID: parentID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		// Only top-level song comments feed the counter.
		if kind == TargetSong && parentID == nil {
			return bumpCommentCount(tx, targetID, +1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var created model.Comment
	if err := s.db.WithContext(ctx).Preload("User").First(&created, comment.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *interactionService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "comment not found")
		}
		return err
	}
	if comment.UserID != userID {
		return errs.Errorf(errs.EFORBIDDEN, "cannot delete another user's comment")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single-level cascade: only direct replies go with the comment.
		if err := tx.Where("parent_id = ?", commentID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Comment{}, commentID).Error; err != nil {
			return err
		}
		if comment.Type == string(TargetSong) && comment.ParentID == nil {
			return bumpCommentCount(tx, comment.TargetID, -1)
		}
		return nil
	})
}

func (s *interactionService) ListComments(ctx context.Context, kind TargetKind, targetID int64, page, pageSize int) ([]*model.Comment, int64, error) {
	if !commentKinds[kind] {
		return nil, 0, errs.Errorf(errs.EINVALID, "invalid comment type %q", kind)
	}
	if err := s.checker.exists(ctx, kind, targetID); err != nil {
		return nil, 0, err
	}
	_, pageSize, offset := normalizePage(page, pageSize)
	return s.commentRepo.ListTopLevel(ctx, string(kind), targetID, offset, pageSize, replyPreviewLimit)
}

func (s *interactionService) LikeStats(ctx context.Context, kind TargetKind, targetIDs []int64) (map[int64]int64, error) {
	stats := make(map[int64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return stats, nil
	}
	rows, err := s.likeRepo.CountByTargets(ctx, string(kind), targetIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats[row.TargetID] = row.Count
	}
	for _, id := range targetIDs {
		if _, ok := stats[id]; !ok {
			stats[id] = 0
		}
	}
	return stats, nil
}

func (s *interactionService) BatchCheckLiked(ctx context.Context, userID int64, kind TargetKind, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	ids, err := s.likeRepo.ListLikedIn(ctx, userID, string(kind), targetIDs)
	if err != nil {
		return nil, err
	}
	liked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	for _, id := range targetIDs {
		_, ok := liked[id]
		result[id] = ok
	}
	return result, nil
}

// bumpCommentCount adjusts a song's comment counter in place. The stat row
// is created on first use; decrements floor at zero.
func bumpCommentCount(tx *gorm.DB, songID int64, delta int) error {
	if delta > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.SongStat{SongID: songID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.SongStat{}).Where("song_id = ?", songID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	}
	return tx.Model(&model.SongStat{}).
		Where("song_id = ? AND comment_count > 0", songID).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
}
