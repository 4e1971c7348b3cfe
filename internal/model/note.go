package model

import "time"

// Note is a short post, optionally attached to a song.
type Note struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index:idx_note_user;not null"`
	SongID    *int64    `json:"song_id,omitempty" gorm:"index:idx_note_song"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_note_created"`

	User   *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Song   *Song       `json:"song,omitempty" gorm:"foreignKey:SongID"`
	Images []NoteImage `json:"images,omitempty" gorm:"foreignKey:NoteID"`
}

func (Note) TableName() string { return "notes" }

type NoteImage struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	NoteID int64  `json:"note_id" gorm:"index:idx_note_image_note;not null"`
	URL    string `json:"url" gorm:"type:varchar(255);not null"`
	Sort   int    `json:"sort" gorm:"not null;default:0"`
}

func (NoteImage) TableName() string { return "note_images" }
