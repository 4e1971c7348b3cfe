package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
)

type likeRequest struct {
	Type     string `json:"type" binding:"required"`
	TargetID int64  `json:"target_id" binding:"required"`
}

type commentRequest struct {
	Type     string `json:"type" binding:"required"`
	TargetID int64  `json:"target_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

type batchCheckRequest struct {
	Type      string  `json:"type" binding:"required"`
	TargetIDs []int64 `json:"target_ids" binding:"required"`
}

// AddLike likes a note or comment.
// @Summary Add like
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body likeRequest true "type is note or comment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/likes [post]
func (h *Handler) AddLike(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.interactions.AddLike(c.Request.Context(), middleware.UserID(c),
		service.TargetKind(req.Type), req.TargetID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveLike removes a previous like.
// @Summary Remove like
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body likeRequest true "type is note or comment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/likes [delete]
func (h *Handler) RemoveLike(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.interactions.RemoveLike(c.Request.Context(), middleware.UserID(c),
		service.TargetKind(req.Type), req.TargetID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListMyLikes lists the caller's likes, optionally filtered by type.
// @Summary List my likes
// @Tags interactions
// @Security BearerAuth
// @Param type query string false "note or comment"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/likes [get]
func (h *Handler) ListMyLikes(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.interactions.ListUserLikes(c.Request.Context(), middleware.UserID(c),
		service.TargetKind(c.Query("type")), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// BatchCheckLiked reports which of the given targets the caller liked.
// @Summary Batch check liked
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body batchCheckRequest true "targets"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Router /api/v1/likes/check [post]
func (h *Handler) BatchCheckLiked(c *gin.Context) {
	var req batchCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.interactions.BatchCheckLiked(c.Request.Context(), middleware.UserID(c),
		service.TargetKind(req.Type), req.TargetIDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// AddComment comments on a song, note, or playlist; with parent_id it is a
// reply to an existing comment on the same target.
// @Summary Add comment
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body commentRequest true "comment"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 404 {object} response.Response
// @Router /api/v1/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.interactions.AddComment(c.Request.Context(), middleware.UserID(c),
		service.TargetKind(req.Type), req.TargetID, req.Content, req.ParentID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, comment)
}

// DeleteComment deletes the caller's comment and its direct replies.
// @Summary Delete comment
// @Tags interactions
// @Security BearerAuth
// @Param id path int true "comment id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.interactions.DeleteComment(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListComments lists top-level comments for a target with embedded replies.
// @Summary List comments
// @Tags interactions
// @Param type query string true "song, note, or playlist"
// @Param target_id query int true "target id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	targetID, ok := queryID(c, "target_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.interactions.ListComments(c.Request.Context(),
		service.TargetKind(c.Query("type")), targetID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// LikeStats returns per-target like counts.
// @Summary Like counts
// @Tags interactions
// @Accept json
// @Produce json
// @Param request body batchCheckRequest true "targets"
// @Success 200 {object} response.Response{data=map[string]int64}
// @Router /api/v1/likes/stats [post]
func (h *Handler) LikeStats(c *gin.Context) {
	var req batchCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	stats, err := h.interactions.LikeStats(c.Request.Context(),
		service.TargetKind(req.Type), req.TargetIDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, stats)
}
