package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/pkg/response"
)

// GetUser returns a public profile.
// @Summary Get user
// @Tags users
// @Param user_id path int true "user id"
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, profile)
}

// FavoriteSong adds a song to the caller's favorites.
// @Summary Favorite song
// @Tags users
// @Security BearerAuth
// @Param id path int true "song id"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/me/favorites/{id} [post]
func (h *Handler) FavoriteSong(c *gin.Context) {
	songID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.FavoriteSong(c.Request.Context(), middleware.UserID(c), songID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// UnfavoriteSong removes a song from the caller's favorites.
// @Summary Unfavorite song
// @Tags users
// @Security BearerAuth
// @Param id path int true "song id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/me/favorites/{id} [delete]
func (h *Handler) UnfavoriteSong(c *gin.Context) {
	songID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.UnfavoriteSong(c.Request.Context(), middleware.UserID(c), songID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFavorites lists the caller's favorite songs.
// @Summary List favorites
// @Tags users
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/me/favorites [get]
func (h *Handler) ListFavorites(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.users.ListFavorites(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// ListCollects lists playlists the caller collected.
// @Summary List collected playlists
// @Tags users
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/me/collects [get]
func (h *Handler) ListCollects(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.users.ListCollects(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// ListHistory lists the caller's playback history, newest first.
// @Summary List play history
// @Tags users
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/me/history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.users.ListHistory(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}
