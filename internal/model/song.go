package model

import "time"

// Song catalog entry. AlbumID is optional (singles).
type Song struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(255);index:idx_song_title;not null"`
	ArtistID  int64     `json:"artist_id" gorm:"index:idx_song_artist;not null"`
	AlbumID   *int64    `json:"album_id,omitempty" gorm:"index:idx_song_album"`
	Duration  int       `json:"duration"`
	AudioURL  string    `json:"audio_url" gorm:"type:varchar(255)"`
	CoverURL  string    `json:"cover_url" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`

	Artist *Artist   `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	Album  *Album    `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
	Stat   *SongStat `json:"stat,omitempty" gorm:"foreignKey:SongID"`
	Tags   []Tag     `json:"tags,omitempty" gorm:"many2many:song_tags;"`
}

func (Song) TableName() string { return "songs" }

type Artist struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name" gorm:"type:varchar(128);index:idx_artist_name;not null"`
	Avatar string `json:"avatar" gorm:"type:varchar(255)"`
	Bio    string `json:"bio" gorm:"type:text"`
}

func (Artist) TableName() string { return "artists" }

type Album struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"type:varchar(255);index:idx_album_title;not null"`
	ArtistID    int64      `json:"artist_id" gorm:"index:idx_album_artist;not null"`
	CoverURL    string     `json:"cover_url" gorm:"type:varchar(255)"`
	PublishTime *time.Time `json:"publish_time,omitempty"`

	Artist *Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

func (Album) TableName() string { return "albums" }

// SongStat carries denormalized per-song counters. PlayCount and LikeCount
// are bumped by playback and favorites, CommentCount by top-level song
// comments. Values are maintained by in-place increments, never recomputed.
type SongStat struct {
	SongID       int64 `json:"song_id" gorm:"primaryKey;autoIncrement:false"`
	PlayCount    int64 `json:"play_count" gorm:"index:idx_song_stat_play;not null;default:0"`
	LikeCount    int64 `json:"like_count" gorm:"index:idx_song_stat_like;not null;default:0"`
	CommentCount int64 `json:"comment_count" gorm:"not null;default:0"`
}

func (SongStat) TableName() string { return "song_stats" }
