package model

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(64);uniqueIndex:ux_tag_name;not null"`
	Type string `json:"type" gorm:"type:varchar(32);not null;default:genre"`
}

func (Tag) TableName() string { return "tags" }

// SongTag is the song/tag join row.
type SongTag struct {
	SongID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID  int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (SongTag) TableName() string { return "song_tags" }
