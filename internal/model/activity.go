package model

import "time"

// UserFavorite marks a song as liked by a user ("my favorites").
// Distinct from the polymorphic Like table, which covers notes and comments.
type UserFavorite struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"uniqueIndex:ux_favorite;not null"`
	SongID    int64     `json:"song_id" gorm:"uniqueIndex:ux_favorite;not null"`
	CreatedAt time.Time `json:"created_at"`

	Song *Song `json:"song,omitempty" gorm:"foreignKey:SongID"`
}

func (UserFavorite) TableName() string { return "user_favorites" }

// UserHistory is one playback record. Append-only.
type UserHistory struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   int64     `json:"user_id" gorm:"index:idx_history_user;not null"`
	SongID   int64     `json:"song_id" gorm:"index:idx_history_song;not null"`
	PlayTime time.Time `json:"play_time" gorm:"index:idx_history_time;autoCreateTime"`

	Song *Song `json:"song,omitempty" gorm:"foreignKey:SongID"`
}

func (UserHistory) TableName() string { return "user_histories" }
