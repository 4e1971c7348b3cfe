package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/muse-lab/muse-server/internal/api"
	"github.com/muse-lab/muse-server/internal/api/handler"
	"github.com/muse-lab/muse-server/internal/config"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/database"
	"github.com/muse-lab/muse-server/pkg/logger"
	"github.com/muse-lab/muse-server/pkg/token"
	"github.com/muse-lab/muse-server/pkg/tracing"
	"github.com/muse-lab/muse-server/pkg/upload"
)

// @title Muse Server API
// @version 1.0
// @description Music catalog and social backend: songs, playlists, notes, follows, likes, comments, and chat.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Development)
	log := logger.L()
	defer log.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			log.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, "muse-server", cfg.Tracing.Endpoint)
		if err != nil {
			log.Warn("tracing init failed", zap.Error(err))
		} else {
			defer shutdown(context.Background())
		}
	}

	db, err := database.New(cfg.DB)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, continuing without it", zap.Error(err))
			rdb = nil
		}
	}

	tm := token.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute, cfg.JWT.Issuer)
	images, err := upload.NewImageStore(cfg.Upload.Dir, cfg.Upload.PublicURL)
	if err != nil {
		log.Fatal("init upload dir", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)

	h := handler.New(handler.Services{
		Users:        service.NewUserService(db, userRepo),
		Relations:    service.NewRelationshipService(followRepo, userRepo),
		Interactions: service.NewInteractionService(db, likeRepo, commentRepo),
		Chats:        service.NewChatService(db, chatRepo, userRepo),
		Songs:        service.NewSongService(db),
		Playlists:    service.NewPlaylistService(db),
		Notes:        service.NewNoteService(db),
		Search:       service.NewSearchService(db, rdb),
	}, tm, images)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(cfg, h, tm, rdb),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
