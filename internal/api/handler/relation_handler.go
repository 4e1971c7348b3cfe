package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/pkg/response"
)

type followRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// Follow creates a follow edge from the caller to the target user.
// @Summary Follow a user
// @Tags relations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "target user"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relations.Follow(c.Request.Context(), middleware.UserID(c), req.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow removes the caller's follow edge to the target user.
// @Summary Unfollow a user
// @Tags relations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "target user"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relations.Unfollow(c.Request.Context(), middleware.UserID(c), req.UserID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowing lists the users a given user follows.
// @Summary List following
// @Tags relations
// @Param user_id path int true "user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.relations.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// ListFollowers lists the users following a given user.
// @Summary List followers
// @Tags relations
// @Param user_id path int true "user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.relations.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// MutualFriends lists users who follow the caller back.
// @Summary List mutual friends
// @Tags relations
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/relations/friends [get]
func (h *Handler) MutualFriends(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.relations.MutualFriends(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// FollowStats returns following/followers counts for a user.
// @Summary Follow stats
// @Tags relations
// @Param user_id path int true "user id"
// @Success 200 {object} response.Response{data=service.FollowStats}
// @Router /api/v1/relations/{user_id}/stats [get]
func (h *Handler) FollowStats(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	stats, err := h.relations.Stats(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, stats)
}

// CheckFollowing reports whether the caller follows the target user.
// @Summary Check following
// @Tags relations
// @Security BearerAuth
// @Param user_id path int true "target user id"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Router /api/v1/relations/{user_id}/check [get]
func (h *Handler) CheckFollowing(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	following, err := h.relations.IsFollowing(c.Request.Context(), middleware.UserID(c), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"following": following})
}
