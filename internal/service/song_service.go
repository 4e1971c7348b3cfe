package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
)

// SongFilter narrows catalog listings. Zero values mean no filter.
type SongFilter struct {
	Keyword  string
	ArtistID int64
	AlbumID  int64
	TagID    int64
}

type CreateSongInput struct {
	Title    string
	ArtistID int64
	AlbumID  *int64
	Duration int
	AudioURL string
	CoverURL string
	TagIDs   []int64
}

type UpdateSongInput struct {
	Title    *string
	AlbumID  *int64
	Duration *int
	AudioURL *string
	CoverURL *string
	TagIDs   []int64
}

// SongService manages the song catalog and playback accounting.
type SongService interface {
	ListSongs(ctx context.Context, filter SongFilter, page, pageSize int) ([]*model.Song, int64, error)
	GetSong(ctx context.Context, id int64) (*model.Song, error)
	CreateSong(ctx context.Context, in CreateSongInput) (*model.Song, error)
	UpdateSong(ctx context.Context, id int64, in UpdateSongInput) (*model.Song, error)
	DeleteSong(ctx context.Context, id int64) error
	PlaySong(ctx context.Context, userID, songID int64) (*model.Song, error)
	HotSongs(ctx context.Context, limit int) ([]*model.Song, error)
	RecommendedSongs(ctx context.Context, userID int64, limit int) ([]*model.Song, error)
	ListArtists(ctx context.Context, keyword string, page, pageSize int) ([]*model.Artist, int64, error)
	GetArtist(ctx context.Context, id int64) (*model.Artist, error)
	ListAlbums(ctx context.Context, artistID int64, page, pageSize int) ([]*model.Album, int64, error)
	GetAlbum(ctx context.Context, id int64) (*model.Album, []*model.Song, error)
}

type songService struct {
	db *gorm.DB
}

func NewSongService(db *gorm.DB) SongService {
	return &songService{db: db}
}

func (s *songService) ListSongs(ctx context.Context, filter SongFilter, page, pageSize int) ([]*model.Song, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.Song{})
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		q = q.Where("title LIKE ?", "%"+kw+"%")
	}
	if filter.ArtistID > 0 {
		q = q.Where("artist_id = ?", filter.ArtistID)
	}
	if filter.AlbumID > 0 {
		q = q.Where("album_id = ?", filter.AlbumID)
	}
	if filter.TagID > 0 {
		q = q.Where("id IN (?)", s.db.Model(&model.SongTag{}).
			Select("song_id").Where("tag_id = ?", filter.TagID))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var songs []*model.Song
	err := q.Preload("Artist").Preload("Album").Preload("Stat").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&songs).Error
	return songs, total, err
}

func (s *songService) GetSong(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	err := s.db.WithContext(ctx).
		Preload("Artist").Preload("Album").Preload("Stat").Preload("Tags").
		First(&song, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "song not found")
		}
		return nil, err
	}
	return &song, nil
}

func (s *songService) CreateSong(ctx context.Context, in CreateSongInput) (*model.Song, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errs.Errorf(errs.EINVALID, "song title must not be empty")
	}
	var artist model.Artist
	if err := s.db.WithContext(ctx).First(&artist, in.ArtistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "artist not found")
		}
		return nil, err
	}
	if in.AlbumID != nil {
		var album model.Album
		if err := s.db.WithContext(ctx).First(&album, *in.AlbumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.Errorf(errs.ENOTFOUND, "album not found")
			}
			return nil, err
		}
	}

	song := &model.Song{
		Title:    in.Title,
		ArtistID: in.ArtistID,
		AlbumID:  in.AlbumID,
		Duration: in.Duration,
		AudioURL: in.AudioURL,
		CoverURL: in.CoverURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(song).Error; err != nil {
			return err
		}
		// Every song carries a stat row from birth.
		if err := tx.Create(&model.SongStat{SongID: song.ID}).Error; err != nil {
			return err
		}
		return replaceSongTags(tx, song.ID, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSong(ctx, song.ID)
}

func (s *songService) UpdateSong(ctx context.Context, id int64, in UpdateSongInput) (*model.Song, error) {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errs.Errorf(errs.EINVALID, "song title must not be empty")
		}
		song.Title = title
	}
	if in.AlbumID != nil {
		song.AlbumID = in.AlbumID
	}
	if in.Duration != nil {
		song.Duration = *in.Duration
	}
	if in.AudioURL != nil {
		song.AudioURL = *in.AudioURL
	}
	if in.CoverURL != nil {
		song.CoverURL = *in.CoverURL
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Artist", "Album", "Stat", "Tags").Save(song).Error; err != nil {
			return err
		}
		if in.TagIDs != nil {
			if err := tx.Where("song_id = ?", id).Delete(&model.SongTag{}).Error; err != nil {
				return err
			}
			return replaceSongTags(tx, id, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSong(ctx, id)
}

func (s *songService) DeleteSong(ctx context.Context, id int64) error {
	if _, err := s.GetSong(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&model.SongTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&model.SongStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Song{}, id).Error
	})
}

// PlaySong records a playback: history row appended and the play counter
// bumped in one transaction. userID 0 means an anonymous listener.
func (s *songService) PlaySong(ctx context.Context, userID, songID int64) (*model.Song, error) {
	song, err := s.GetSong(ctx, songID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if userID > 0 {
			if err := tx.Create(&model.UserHistory{UserID: userID, SongID: songID}).Error; err != nil {
				return err
			}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.SongStat{SongID: songID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.SongStat{}).Where("song_id = ?", songID).
			UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return song, nil
}

func (s *songService) HotSongs(ctx context.Context, limit int) ([]*model.Song, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var songs []*model.Song
	err := s.db.WithContext(ctx).Model(&model.Song{}).
		Joins("JOIN song_stats ON song_stats.song_id = songs.id").
		Order("song_stats.play_count DESC").
		Preload("Artist").Preload("Stat").
		Limit(limit).Find(&songs).Error
	return songs, err
}

// RecommendedSongs picks songs sharing tags with the user's recent favorites,
// excluding songs already favorited. Falls back to the hot list when the user
// has no favorites or the tag pool runs dry.
func (s *songService) RecommendedSongs(ctx context.Context, userID int64, limit int) ([]*model.Song, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if userID <= 0 {
		return s.HotSongs(ctx, limit)
	}
	favSongs := s.db.Model(&model.UserFavorite{}).
		Select("song_id").Where("user_id = ?", userID)
	favTags := s.db.Model(&model.SongTag{}).
		Select("tag_id").Where("song_id IN (?)", favSongs)

	var songs []*model.Song
	err := s.db.WithContext(ctx).Model(&model.Song{}).
		Where("id IN (?)", s.db.Model(&model.SongTag{}).
			Select("song_id").Where("tag_id IN (?)", favTags)).
		Where("id NOT IN (?)", favSongs).
		Preload("Artist").Preload("Stat").
		Order("created_at DESC").
		Limit(limit).Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return s.HotSongs(ctx, limit)
	}
	return songs, nil
}

func (s *songService) ListArtists(ctx context.Context, keyword string, page, pageSize int) ([]*model.Artist, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.Artist{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		q = q.Where("name LIKE ?", "%"+kw+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var artists []*model.Artist
	err := q.Order("id").Offset(offset).Limit(pageSize).Find(&artists).Error
	return artists, total, err
}

func (s *songService) GetArtist(ctx context.Context, id int64) (*model.Artist, error) {
	var artist model.Artist
	if err := s.db.WithContext(ctx).First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "artist not found")
		}
		return nil, err
	}
	return &artist, nil
}

func (s *songService) ListAlbums(ctx context.Context, artistID int64, page, pageSize int) ([]*model.Album, int64, error) {
	_, pageSize, offset := normalizePage(page, pageSize)
	q := s.db.WithContext(ctx).Model(&model.Album{})
	if artistID > 0 {
		q = q.Where("artist_id = ?", artistID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var albums []*model.Album
	err := q.Preload("Artist").Order("publish_time DESC").
		Offset(offset).Limit(pageSize).Find(&albums).Error
	return albums, total, err
}

func (s *songService) GetAlbum(ctx context.Context, id int64) (*model.Album, []*model.Song, error) {
	var album model.Album
	if err := s.db.WithContext(ctx).Preload("Artist").First(&album, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.Errorf(errs.ENOTFOUND, "album not found")
		}
		return nil, nil, err
	}
	var songs []*model.Song
	err := s.db.WithContext(ctx).Where("album_id = ?", id).
		Preload("Stat").Order("id").Find(&songs).Error
	if err != nil {
		return nil, nil, err
	}
	return &album, songs, nil
}

func replaceSongTags(tx *gorm.DB, songID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		var cnt int64
		if err := tx.Model(&model.Tag{}).Where("id = ?", tagID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return errs.Errorf(errs.ENOTFOUND, "tag %d not found", tagID)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.SongTag{SongID: songID, TagID: tagID}).Error; err != nil {
			return err
		}
	}
	return nil
}
