package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/muse-lab/muse-server/docs"
	"github.com/muse-lab/muse-server/internal/api/handler"
	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/config"
	"github.com/muse-lab/muse-server/pkg/logger"
	"github.com/muse-lab/muse-server/pkg/token"
)

// NewRouter assembles the gin engine: middleware stack, swagger, static
// uploads, and every API route. rdb may be nil.
func NewRouter(cfg *config.Config, h *handler.Handler, tm *token.Manager, rdb *redis.Client) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.L()))
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware("muse-server"))
	}
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Rate.Enabled {
		r.Use(middleware.RateLimit(rdb, cfg.Rate.PerMin))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	auth := middleware.Auth(tm)
	optional := middleware.OptionalAuth(tm)

	// Accounts.
	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)
	v1.GET("/auth/me", auth, h.Me)
	v1.PUT("/auth/me", auth, h.UpdateProfile)
	v1.PUT("/auth/password", auth, h.ChangePassword)
	v1.POST("/upload", auth, h.UploadImage)

	// Users and their public shelves.
	v1.GET("/users/:user_id", h.GetUser)
	v1.GET("/users/:user_id/playlists", h.ListUserPlaylists)
	v1.GET("/users/:user_id/notes", h.ListUserNotes)

	// Caller-private shelves.
	me := v1.Group("/me", auth)
	me.POST("/favorites/:id", h.FavoriteSong)
	me.DELETE("/favorites/:id", h.UnfavoriteSong)
	me.GET("/favorites", h.ListFavorites)
	me.GET("/collects", h.ListCollects)
	me.GET("/history", h.ListHistory)

	// Follow graph.
	rel := v1.Group("/relations")
	rel.POST("/follow", auth, h.Follow)
	rel.POST("/unfollow", auth, h.Unfollow)
	rel.GET("/friends", auth, h.MutualFriends)
	rel.GET("/:user_id/following", h.ListFollowing)
	rel.GET("/:user_id/followers", h.ListFollowers)
	rel.GET("/:user_id/stats", h.FollowStats)
	rel.GET("/:user_id/check", auth, h.CheckFollowing)

	// Likes and comments.
	v1.POST("/likes", auth, h.AddLike)
	v1.DELETE("/likes", auth, h.RemoveLike)
	v1.GET("/likes", auth, h.ListMyLikes)
	v1.POST("/likes/check", auth, h.BatchCheckLiked)
	v1.POST("/likes/stats", h.LikeStats)
	v1.POST("/comments", auth, h.AddComment)
	v1.DELETE("/comments/:id", auth, h.DeleteComment)
	v1.GET("/comments", h.ListComments)

	// Messaging.
	chats := v1.Group("/chats", auth)
	chats.GET("", h.ListChats)
	chats.GET("/:user_id/messages", h.GetMessages)
	chats.POST("/messages", h.SendMessage)

	// Catalog.
	v1.GET("/songs", h.ListSongs)
	v1.GET("/songs/hot", h.HotSongs)
	v1.GET("/songs/recommended", optional, h.RecommendedSongs)
	v1.GET("/songs/:id", h.GetSong)
	v1.POST("/songs", auth, h.CreateSong)
	v1.PUT("/songs/:id", auth, h.UpdateSong)
	v1.DELETE("/songs/:id", auth, h.DeleteSong)
	v1.POST("/songs/:id/play", optional, h.PlaySong)
	v1.GET("/artists", h.ListArtists)
	v1.GET("/artists/:id", h.GetArtist)
	v1.GET("/albums", h.ListAlbums)
	v1.GET("/albums/:id", h.GetAlbum)

	// Playlists.
	v1.POST("/playlists", auth, h.CreatePlaylist)
	v1.GET("/playlists/:id", h.GetPlaylist)
	v1.PUT("/playlists/:id", auth, h.UpdatePlaylist)
	v1.DELETE("/playlists/:id", auth, h.DeletePlaylist)
	v1.GET("/playlists/:id/songs", h.ListPlaylistSongs)
	v1.POST("/playlists/:id/songs", auth, h.AddPlaylistSong)
	v1.DELETE("/playlists/:id/songs/:song_id", auth, h.RemovePlaylistSong)
	v1.POST("/playlists/:id/collect", auth, h.CollectPlaylist)
	v1.DELETE("/playlists/:id/collect", auth, h.UncollectPlaylist)

	// Notes.
	v1.POST("/notes", auth, h.CreateNote)
	v1.GET("/notes", h.ListNotes)
	v1.GET("/notes/following", auth, h.ListFollowingNotes)
	v1.GET("/notes/:id", h.GetNote)
	v1.DELETE("/notes/:id", auth, h.DeleteNote)

	// Search.
	v1.GET("/search", optional, h.Search)
	v1.GET("/search/hot", h.HotKeywords)
	v1.GET("/search/history", auth, h.SearchHistory)
	v1.DELETE("/search/history", auth, h.ClearSearchHistory)

	return r
}
