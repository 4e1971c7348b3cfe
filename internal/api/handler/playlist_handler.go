package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
)

type createPlaylistRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

type updatePlaylistRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
}

type playlistSongRequest struct {
	SongID int64 `json:"song_id" binding:"required"`
}

// CreatePlaylist creates a playlist owned by the caller.
// @Summary Create playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPlaylistRequest true "playlist"
// @Success 201 {object} response.Response{data=model.Playlist}
// @Router /api/v1/playlists [post]
func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.CreatePlaylist(c.Request.Context(), middleware.UserID(c), service.CreatePlaylistInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, p)
}

// GetPlaylist returns one playlist.
// @Summary Get playlist
// @Tags playlists
// @Param id path int true "playlist id"
// @Success 200 {object} response.Response{data=model.Playlist}
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{id} [get]
func (h *Handler) GetPlaylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.playlists.GetPlaylist(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

// ListUserPlaylists lists playlists created by a user.
// @Summary List user playlists
// @Tags playlists
// @Param user_id path int true "user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/users/{user_id}/playlists [get]
func (h *Handler) ListUserPlaylists(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.playlists.ListUserPlaylists(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// UpdatePlaylist updates the caller's playlist.
// @Summary Update playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Param request body updatePlaylistRequest true "fields to change"
// @Success 200 {object} response.Response{data=model.Playlist}
// @Failure 403 {object} response.Response
// @Router /api/v1/playlists/{id} [put]
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlists.UpdatePlaylist(c.Request.Context(), id, middleware.UserID(c), service.UpdatePlaylistInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePlaylist removes the caller's playlist and its song and collect rows.
// @Summary Delete playlist
// @Tags playlists
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/playlists/{id} [delete]
func (h *Handler) DeletePlaylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.playlists.DeletePlaylist(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AddPlaylistSong appends a song to the caller's playlist.
// @Summary Add song to playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Param request body playlistSongRequest true "song"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/playlists/{id}/songs [post]
func (h *Handler) AddPlaylistSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req playlistSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.playlists.AddSong(c.Request.Context(), id, middleware.UserID(c), req.SongID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// RemovePlaylistSong removes a song from the caller's playlist.
// @Summary Remove song from playlist
// @Tags playlists
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Param song_id path int true "song id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{id}/songs/{song_id} [delete]
func (h *Handler) RemovePlaylistSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	songID, ok := idParam(c, "song_id")
	if !ok {
		return
	}
	if err := h.playlists.RemoveSong(c.Request.Context(), id, middleware.UserID(c), songID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPlaylistSongs lists the songs of a playlist in insertion order.
// @Summary List playlist songs
// @Tags playlists
// @Param id path int true "playlist id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/playlists/{id}/songs [get]
func (h *Handler) ListPlaylistSongs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, total, err := h.playlists.ListSongs(c.Request.Context(), id, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// CollectPlaylist bookmarks another user's playlist.
// @Summary Collect playlist
// @Tags playlists
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/playlists/{id}/collect [post]
func (h *Handler) CollectPlaylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.playlists.Collect(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// UncollectPlaylist removes a playlist bookmark.
// @Summary Uncollect playlist
// @Tags playlists
// @Security BearerAuth
// @Param id path int true "playlist id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{id}/collect [delete]
func (h *Handler) UncollectPlaylist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.playlists.Uncollect(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}
