package handler

import (
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
	"github.com/muse-lab/muse-server/pkg/token"
	"github.com/muse-lab/muse-server/pkg/upload"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,64}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	}
}

// Handler bundles every HTTP endpoint with the services behind them.
type Handler struct {
	users        service.UserService
	relations    service.RelationshipService
	interactions service.InteractionService
	chats        service.ChatService
	songs        service.SongService
	playlists    service.PlaylistService
	notes        service.NoteService
	search       service.SearchService
	tokens       *token.Manager
	images       *upload.ImageStore
}

type Services struct {
	Users        service.UserService
	Relations    service.RelationshipService
	Interactions service.InteractionService
	Chats        service.ChatService
	Songs        service.SongService
	Playlists    service.PlaylistService
	Notes        service.NoteService
	Search       service.SearchService
}

func New(svc Services, tokens *token.Manager, images *upload.ImageStore) *Handler {
	return &Handler{
		users:        svc.Users,
		relations:    svc.Relations,
		interactions: svc.Interactions,
		chats:        svc.Chats,
		songs:        svc.Songs,
		playlists:    svc.Playlists,
		notes:        svc.Notes,
		search:       svc.Search,
		tokens:       tokens,
		images:       images,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// idParam parses a positive int64 path parameter; ok is false after an
// error response has been written.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID is idParam for query string parameters.
func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
