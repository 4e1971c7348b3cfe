// Command seed fills the database with demo data for local development:
// users, a small catalog, follow edges, and notes. Size is controlled with
// USERS and SONGS env vars.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/muse-lab/muse-server/internal/config"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.New(cfg.DB))
	if err := model.AutoMigrate(db); err != nil {
		panic(err)
	}

	nUsers := envInt("USERS", 50)
	nSongs := envInt("SONGS", 200)
	ctx := context.Background()

	hash := must(bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost))
	users := make([]*model.User, 0, nUsers)
	for i := 0; i < nUsers; i++ {
		u := &model.User{Username: fmt.Sprintf("user%03d", i), Password: string(hash)}
		if err := db.FirstOrCreate(u, model.User{Username: u.Username}).Error; err != nil {
			panic(err)
		}
		users = append(users, u)
	}

	genres := []string{"rock", "pop", "jazz", "electronic", "classical"}
	tags := make([]*model.Tag, 0, len(genres))
	for _, g := range genres {
		tag := &model.Tag{Name: g}
		if err := db.FirstOrCreate(tag, model.Tag{Name: g}).Error; err != nil {
			panic(err)
		}
		tags = append(tags, tag)
	}

	songSvc := service.NewSongService(db)
	artists := make([]*model.Artist, 10)
	for i := range artists {
		artists[i] = &model.Artist{Name: fmt.Sprintf("artist%02d", i)}
		if err := db.FirstOrCreate(artists[i], model.Artist{Name: artists[i].Name}).Error; err != nil {
			panic(err)
		}
	}
	for i := 0; i < nSongs; i++ {
		_, err := songSvc.CreateSong(ctx, service.CreateSongInput{
			Title:    fmt.Sprintf("song %04d", i),
			ArtistID: artists[rand.Intn(len(artists))].ID,
			Duration: 120 + rand.Intn(240),
			TagIDs:   []int64{tags[rand.Intn(len(tags))].ID},
		})
		if err != nil {
			panic(err)
		}
	}

	relSvc := service.NewRelationshipService(
		repository.NewFollowRepository(db), repository.NewUserRepository(db))
	noteSvc := service.NewNoteService(db)
	for _, u := range users {
		for i := 0; i < 3; i++ {
			target := users[rand.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			_ = relSvc.Follow(ctx, u.ID, target.ID) // duplicates are fine to skip
		}
		if _, err := noteSvc.CreateNote(ctx, u.ID, service.CreateNoteInput{
			Content: fmt.Sprintf("hello from %s", u.Username),
		}); err != nil {
			panic(err)
		}
	}

	fmt.Printf("seeded %d users, %d artists, %d songs, %d tags\n",
		len(users), len(artists), nSongs, len(tags))
}
