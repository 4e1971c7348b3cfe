package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
)

type createNoteRequest struct {
	Content   string   `json:"content" binding:"required"`
	SongID    *int64   `json:"song_id"`
	ImageURLs []string `json:"image_urls"`
}

// CreateNote posts a note, optionally with images and an attached song.
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createNoteRequest true "note, at most 9 images"
// @Success 201 {object} response.Response{data=model.Note}
// @Failure 400 {object} response.Response
// @Router /api/v1/notes [post]
func (h *Handler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	note, err := h.notes.CreateNote(c.Request.Context(), middleware.UserID(c), service.CreateNoteInput{
		Content:   req.Content,
		SongID:    req.SongID,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, note)
}

// GetNote returns one note with author, images, and attached song.
// @Summary Get note
// @Tags notes
// @Param id path int true "note id"
// @Success 200 {object} response.Response{data=model.Note}
// @Failure 404 {object} response.Response
// @Router /api/v1/notes/{id} [get]
func (h *Handler) GetNote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	note, err := h.notes.GetNote(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, note)
}

// DeleteNote removes the caller's note with its images, likes, and comments.
// @Summary Delete note
// @Tags notes
// @Security BearerAuth
// @Param id path int true "note id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/notes/{id} [delete]
func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notes.DeleteNote(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListNotes is the global reverse-chronological note feed.
// @Summary List notes
// @Tags notes
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/notes [get]
func (h *Handler) ListNotes(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.notes.ListNotes(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// ListUserNotes lists one user's notes.
// @Summary List user notes
// @Tags notes
// @Param user_id path int true "user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/users/{user_id}/notes [get]
func (h *Handler) ListUserNotes(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.notes.ListUserNotes(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// ListFollowingNotes is the feed restricted to users the caller follows.
// @Summary Following feed
// @Tags notes
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/notes/following [get]
func (h *Handler) ListFollowingNotes(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.notes.ListFollowingNotes(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}
