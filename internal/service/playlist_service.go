package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

type CreatePlaylistInput struct {
	Title       string
	Description string
	CoverURL    string
}

type UpdatePlaylistInput struct {
	Title       *string
	Description *string
	CoverURL    *string
}

// PlaylistService manages user playlists. Mutations are owner-only; collects
// let other users bookmark a playlist.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, userID int64, in CreatePlaylistInput) (*model.Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (*model.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID int64, page, pageSize int) ([]*model.Playlist, int64, error)
	UpdatePlaylist(ctx context.Context, id, userID int64, in UpdatePlaylistInput) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, id, userID int64) error
	AddSong(ctx context.Context, playlistID, userID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, userID, songID int64) error
	ListSongs(ctx context.Context, playlistID int64, page, pageSize int) ([]*model.Song, int64, error)
	Collect(ctx context.Context, userID, playlistID int64) error
	Uncollect(ctx context.Context, userID, playlistID int64) error
}

type playlistService struct {
	db *gorm.DB
}

func NewPlaylistService(db *gorm.DB) PlaylistService {
	return &playlistService{db: db}
}

func (s *playlistService) CreatePlaylist(ctx context.Context, userID int64, in CreatePlaylistInput) (*model.Playlist, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errs.Errorf(errs.EINVALID, "playlist title must not be empty")
	}
	p := &model.Playlist{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		CoverURL:    in.CoverURL,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return s.GetPlaylist(ctx, p.ID)
}

func (s *playlistService) GetPlaylist(ctx context.Context, id int64) (*model.Playlist, error) {
	var p model.Playlist
	err := s.db.WithContext(ctx).Preload("Creator").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "playlist not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *playlistService) ListUserPlaylists(ctx context.Context, userID int64, page, pageSize int) ([]*model.Playlist, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.Playlist{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var lists []*model.Playlist
	err := q.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&lists).Error
	return lists, total, err
}

func (s *playlistService) UpdatePlaylist(ctx context.Context, id, userID int64, in UpdatePlaylistInput) (*model.Playlist, error) {
	p, err := s.ownedPlaylist(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errs.Errorf(errs.EINVALID, "playlist title must not be empty")
		}
		p.Title = title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CoverURL != nil {
		p.CoverURL = *in.CoverURL
	}
	if err := s.db.WithContext(ctx).Omit("Creator", "Songs").Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) DeletePlaylist(ctx context.Context, id, userID int64) error {
	if _, err := s.ownedPlaylist(ctx, id, userID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&model.UserCollect{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, id).Error
	})
}

func (s *playlistService) AddSong(ctx context.Context, playlistID, userID, songID int64) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return err
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&model.Song{}).
		Where("id = ?", songID).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return errs.Errorf(errs.ENOTFOUND, "song not found")
	}
	if err := s.db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errs.Errorf(errs.ECONFLICT, "song already in playlist")
	}
	return s.db.WithContext(ctx).
		Create(&model.PlaylistSong{PlaylistID: playlistID, SongID: songID}).Error
}

func (s *playlistService) RemoveSong(ctx context.Context, playlistID, userID, songID int64) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "song not in playlist")
	}
	return nil
}

func (s *playlistService) ListSongs(ctx context.Context, playlistID int64, page, pageSize int) ([]*model.Song, int64, error) {
	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return nil, 0, err
	}
	_, pageSize, offset := normalizePage(page, pageSize)
	entries := s.db.Model(&model.PlaylistSong{}).
		Select("song_id").Where("playlist_id = ?", playlistID)
	q := s.db.WithContext(ctx).Model(&model.Song{}).Where("songs.id IN (?)", entries)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var songs []*model.Song
	err := q.Preload("Artist").Preload("Stat").
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id AND playlist_songs.playlist_id = ?", playlistID).
		Order("playlist_songs.created_at").
		Offset(offset).Limit(pageSize).Find(&songs).Error
	return songs, total, err
}

func (s *playlistService) Collect(ctx context.Context, userID, playlistID int64) error {
	p, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	if p.UserID == userID {
		return errs.Errorf(errs.EINVALID, "cannot collect your own playlist")
	}
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&model.UserCollect{}).
		Where("user_id = ? AND playlist_id = ?", userID, playlistID).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return errs.Errorf(errs.ECONFLICT, "playlist already collected")
	}
	return s.db.WithContext(ctx).
		Create(&model.UserCollect{UserID: userID, PlaylistID: playlistID}).Error
}

func (s *playlistService) Uncollect(ctx context.Context, userID, playlistID int64) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND playlist_id = ?", userID, playlistID).
		Delete(&model.UserCollect{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "playlist not collected")
	}
	return nil
}

// ownedPlaylist loads the playlist and enforces ownership.
func (s *playlistService) ownedPlaylist(ctx context.Context, id, userID int64) (*model.Playlist, error) {
	p, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errs.Errorf(errs.EFORBIDDEN, "not the playlist owner")
	}
	return p, nil
}
