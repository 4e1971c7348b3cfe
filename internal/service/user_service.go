package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
)

const bcryptCost = 12

// UpdateProfileInput carries optional profile changes; nil means keep.
type UpdateProfileInput struct {
	Username   *string
	Email      *string
	Avatar     *string
	Background *string
}

// UserService covers accounts plus the per-user song shelves
// (favorites, collected playlists, play history).
type UserService interface {
	Register(ctx context.Context, username, password string, email *string) (*model.User, error)
	Login(ctx context.Context, login, password string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetProfile(ctx context.Context, id int64) (model.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
	FavoriteSong(ctx context.Context, userID, songID int64) error
	UnfavoriteSong(ctx context.Context, userID, songID int64) error
	ListFavorites(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserFavorite, int64, error)
	ListCollects(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserCollect, int64, error)
	ListHistory(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserHistory, int64, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, username, password string, email *string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 2 {
		return nil, errs.Errorf(errs.EINVALID, "username must be at least 2 characters")
	}
	if len(password) < 6 {
		return nil, errs.Errorf(errs.EINVALID, "password must be at least 6 characters")
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, errs.Errorf(errs.ECONFLICT, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if email != nil && *email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, *email); err == nil {
			return nil, errs.Errorf(errs.ECONFLICT, "email already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: username, Password: string(hash), Email: email}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "invalid username or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "invalid username or password")
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "user not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, id int64) (model.UserProfile, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return model.UserProfile{}, err
	}
	return u.Profile(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*model.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil && *in.Username != u.Username {
		if _, err := s.userRepo.FindByUsername(ctx, *in.Username); err == nil {
			return nil, errs.Errorf(errs.ECONFLICT, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		u.Username = *in.Username
	}
	if in.Email != nil && (u.Email == nil || *in.Email != *u.Email) {
		if _, err := s.userRepo.FindByEmail(ctx, *in.Email); err == nil {
			return nil, errs.Errorf(errs.ECONFLICT, "email already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		u.Email = in.Email
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Background != nil {
		u.Background = *in.Background
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)) != nil {
		return errs.Errorf(errs.EINVALID, "old password is incorrect")
	}
	if len(newPassword) < 6 {
		return errs.Errorf(errs.EINVALID, "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return s.userRepo.Update(ctx, u)
}

// FavoriteSong adds the song to the user's favorites and bumps the song's
// like counter in the same transaction.
func (s *userService) FavoriteSong(ctx context.Context, userID, songID int64) error {
	var song model.Song
	if err := s.db.WithContext(ctx).First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "song not found")
		}
		return err
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&model.UserFavorite{}).
		Where("user_id = ? AND song_id = ?", userID, songID).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errs.Errorf(errs.ECONFLICT, "song already in favorites")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.UserFavorite{UserID: userID, SongID: songID}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.SongStat{SongID: songID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.SongStat{}).Where("song_id = ?", songID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (s *userService) UnfavoriteSong(ctx context.Context, userID, songID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND song_id = ?", userID, songID).
			Delete(&model.UserFavorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ENOTFOUND, "song not in favorites")
		}
		return tx.Model(&model.SongStat{}).
			Where("song_id = ? AND like_count > 0", songID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
}

func (s *userService) ListFavorites(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserFavorite, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.UserFavorite{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.UserFavorite
	err := q.Preload("Song").Preload("Song.Artist").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&res).Error
	return res, total, err
}

func (s *userService) ListCollects(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserCollect, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.UserCollect{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.UserCollect
	err := q.Preload("Playlist").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&res).Error
	return res, total, err
}

func (s *userService) ListHistory(ctx context.Context, userID int64, page, pageSize int) ([]*model.UserHistory, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.UserHistory{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.UserHistory
	err := q.Preload("Song").Preload("Song.Artist").
		Order("play_time DESC").Offset(offset).Limit(pageSize).
		Find(&res).Error
	return res, total, err
}
