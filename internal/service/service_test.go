package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedArtist(t *testing.T, db *gorm.DB, name string) *model.Artist {
	t.Helper()
	a := &model.Artist{Name: name}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedSong(t *testing.T, db *gorm.DB, title string, artistID int64) *model.Song {
	t.Helper()
	s := &model.Song{Title: title, ArtistID: artistID}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedNote(t *testing.T, db *gorm.DB, userID int64, content string) *model.Note {
	t.Helper()
	n := &model.Note{UserID: userID, Content: content}
	require.NoError(t, db.Create(n).Error)
	return n
}
