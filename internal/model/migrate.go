package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the server owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Follow{},
		&Like{},
		&Comment{},
		&Chat{},
		&Message{},
		&Artist{},
		&Album{},
		&Song{},
		&SongStat{},
		&Tag{},
		&SongTag{},
		&Playlist{},
		&PlaylistSong{},
		&UserCollect{},
		&Note{},
		&NoteImage{},
		&UserFavorite{},
		&UserHistory{},
		&SearchHistory{},
		&SearchTrend{},
	)
}
