package model

import "time"

type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int64     `json:"user_id" gorm:"index:idx_playlist_user;not null"`
	Title       string    `json:"title" gorm:"type:varchar(255);index:idx_playlist_title;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CoverURL    string    `json:"cover_url" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`

	Creator *User  `json:"creator,omitempty" gorm:"foreignKey:UserID"`
	Songs   []Song `json:"songs,omitempty" gorm:"many2many:playlist_songs;"`
}

func (Playlist) TableName() string { return "playlists" }

// PlaylistSong joins playlists and songs; ux forbids duplicate entries.
type PlaylistSong struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"playlist_id" gorm:"uniqueIndex:ux_playlist_song;not null"`
	SongID     int64     `json:"song_id" gorm:"uniqueIndex:ux_playlist_song;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PlaylistSong) TableName() string { return "playlist_songs" }

// UserCollect marks a playlist collected (bookmarked) by a user.
type UserCollect struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     int64     `json:"user_id" gorm:"uniqueIndex:ux_collect;not null"`
	PlaylistID int64     `json:"playlist_id" gorm:"uniqueIndex:ux_collect;not null"`
	CreatedAt  time.Time `json:"created_at"`

	Playlist *Playlist `json:"playlist,omitempty" gorm:"foreignKey:PlaylistID"`
}

func (UserCollect) TableName() string { return "user_collects" }
