package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

// maxNoteImages caps attachments per note.
const maxNoteImages = 9

type CreateNoteInput struct {
	Content   string
	SongID    *int64
	ImageURLs []string
}

// NoteService manages short user posts with optional images and song
// attachments. The feed is a reverse-chronological global list plus a
// following-only variant.
type NoteService interface {
	CreateNote(ctx context.Context, userID int64, in CreateNoteInput) (*model.Note, error)
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	DeleteNote(ctx context.Context, id, userID int64) error
	ListNotes(ctx context.Context, page, pageSize int) ([]*model.Note, int64, error)
	ListUserNotes(ctx context.Context, userID int64, page, pageSize int) ([]*model.Note, int64, error)
	ListFollowingNotes(ctx context.Context, userID int64, page, pageSize int) ([]*model.Note, int64, error)
}

type noteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) NoteService {
	return &noteService{db: db}
}

func (s *noteService) CreateNote(ctx context.Context, userID int64, in CreateNoteInput) (*model.Note, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, errs.Errorf(errs.EINVALID, "note content must not be empty")
	}
	if len(in.ImageURLs) > maxNoteImages {
		return nil, errs.Errorf(errs.EINVALID, "a note carries at most %d images", maxNoteImages)
	}
	if in.SongID != nil {
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&model.Song{}).
			Where("id = ?", *in.SongID).Count(&cnt).Error; err != nil {
			return nil, err
		}
		if cnt == 0 {
			return nil, errs.Errorf(errs.ENOTFOUND, "song not found")
		}
	}

	note := &model.Note{UserID: userID, SongID: in.SongID, Content: in.Content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		for i, url := range in.ImageURLs {
			img := &model.NoteImage{NoteID: note.ID, URL: url, Sort: i}
			if err := tx.Create(img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetNote(ctx, note.ID)
}

func (s *noteService) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	var note model.Note
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Song").Preload("Song.Artist").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort") }).
		First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "note not found")
		}
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes the note with its images, likes, and comment tree.
func (s *noteService) DeleteNote(ctx context.Context, id, userID int64) error {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return errs.Errorf(errs.EFORBIDDEN, "cannot delete another user's note")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&model.NoteImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("type = ? AND target_id = ?", TargetNote, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("type = ? AND target_id = ?", TargetNote, id).
			Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Note{}, id).Error
	})
}

func (s *noteService) ListNotes(ctx context.Context, page, pageSize int) ([]*model.Note, int64, error) {
	return s.listNotes(ctx, s.db.WithContext(ctx).Model(&model.Note{}), page, pageSize)
}

func (s *noteService) ListUserNotes(ctx context.Context, userID int64, page, pageSize int) ([]*model.Note, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Note{}).Where("user_id = ?", userID)
	return s.listNotes(ctx, q, page, pageSize)
}

func (s *noteService) ListFollowingNotes(ctx context.Context, userID int64, page, pageSize int) ([]*model.Note, int64, error) {
	followed := s.db.Model(&model.Follow{}).
		Select("followed_id").Where("follower_id = ?", userID)
	q := s.db.WithContext(ctx).Model(&model.Note{}).Where("user_id IN (?)", followed)
	return s.listNotes(ctx, q, page, pageSize)
}

func (s *noteService) listNotes(ctx context.Context, q *gorm.DB, page, pageSize int) ([]*model.Note, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var notes []*model.Note
	err := q.Preload("User").Preload("Song").Preload("Song.Artist").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort") }).
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&notes).Error
	return notes, total, err
}
