package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
)

type createSongRequest struct {
	Title    string  `json:"title" binding:"required"`
	ArtistID int64   `json:"artist_id" binding:"required"`
	AlbumID  *int64  `json:"album_id"`
	Duration int     `json:"duration"`
	AudioURL string  `json:"audio_url"`
	CoverURL string  `json:"cover_url"`
	TagIDs   []int64 `json:"tag_ids"`
}

type updateSongRequest struct {
	Title    *string `json:"title"`
	AlbumID  *int64  `json:"album_id"`
	Duration *int    `json:"duration"`
	AudioURL *string `json:"audio_url"`
	CoverURL *string `json:"cover_url"`
	TagIDs   []int64 `json:"tag_ids"`
}

// ListSongs lists catalog songs with optional filters.
// @Summary List songs
// @Tags songs
// @Param keyword query string false "title substring"
// @Param artist_id query int false "artist filter"
// @Param album_id query int false "album filter"
// @Param tag_id query int false "tag filter"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/songs [get]
func (h *Handler) ListSongs(c *gin.Context) {
	page, pageSize := pageParams(c)
	artistID, _ := strconv.ParseInt(c.Query("artist_id"), 10, 64)
	albumID, _ := strconv.ParseInt(c.Query("album_id"), 10, 64)
	tagID, _ := strconv.ParseInt(c.Query("tag_id"), 10, 64)
	filter := service.SongFilter{
		Keyword:  c.Query("keyword"),
		ArtistID: artistID,
		AlbumID:  albumID,
		TagID:    tagID,
	}
	list, total, err := h.songs.ListSongs(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// GetSong returns one song with artist, album, stat, and tags.
// @Summary Get song
// @Tags songs
// @Param id path int true "song id"
// @Success 200 {object} response.Response{data=model.Song}
// @Failure 404 {object} response.Response
// @Router /api/v1/songs/{id} [get]
func (h *Handler) GetSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	song, err := h.songs.GetSong(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, song)
}

// CreateSong adds a song to the catalog.
// @Summary Create song
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createSongRequest true "song"
// @Success 201 {object} response.Response{data=model.Song}
// @Failure 404 {object} response.Response
// @Router /api/v1/songs [post]
func (h *Handler) CreateSong(c *gin.Context) {
	var req createSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	song, err := h.songs.CreateSong(c.Request.Context(), service.CreateSongInput{
		Title:    req.Title,
		ArtistID: req.ArtistID,
		AlbumID:  req.AlbumID,
		Duration: req.Duration,
		AudioURL: req.AudioURL,
		CoverURL: req.CoverURL,
		TagIDs:   req.TagIDs,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, song)
}

// UpdateSong updates song fields; tag_ids, when present, replaces the set.
// @Summary Update song
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "song id"
// @Param request body updateSongRequest true "fields to change"
// @Success 200 {object} response.Response{data=model.Song}
// @Failure 404 {object} response.Response
// @Router /api/v1/songs/{id} [put]
func (h *Handler) UpdateSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	song, err := h.songs.UpdateSong(c.Request.Context(), id, service.UpdateSongInput{
		Title:    req.Title,
		AlbumID:  req.AlbumID,
		Duration: req.Duration,
		AudioURL: req.AudioURL,
		CoverURL: req.CoverURL,
		TagIDs:   req.TagIDs,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, song)
}

// DeleteSong removes a song and its stat, tag, and playlist rows.
// @Summary Delete song
// @Tags songs
// @Security BearerAuth
// @Param id path int true "song id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/songs/{id} [delete]
func (h *Handler) DeleteSong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.songs.DeleteSong(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// PlaySong records a playback and returns the song for the player.
// @Summary Play song
// @Tags songs
// @Param id path int true "song id"
// @Success 200 {object} response.Response{data=model.Song}
// @Failure 404 {object} response.Response
// @Router /api/v1/songs/{id}/play [post]
func (h *Handler) PlaySong(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	song, err := h.songs.PlaySong(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, song)
}

// HotSongs lists the most played songs.
// @Summary Hot songs
// @Tags songs
// @Param limit query int false "max results" default(20)
// @Success 200 {object} response.Response{data=[]model.Song}
// @Router /api/v1/songs/hot [get]
func (h *Handler) HotSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	songs, err := h.songs.HotSongs(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, songs)
}

// RecommendedSongs suggests songs based on the caller's favorite tags.
// @Summary Recommended songs
// @Tags songs
// @Param limit query int false "max results" default(20)
// @Success 200 {object} response.Response{data=[]model.Song}
// @Router /api/v1/songs/recommended [get]
func (h *Handler) RecommendedSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	songs, err := h.songs.RecommendedSongs(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, songs)
}

// ListArtists lists artists, optionally by name substring.
// @Summary List artists
// @Tags songs
// @Param keyword query string false "name substring"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/artists [get]
func (h *Handler) ListArtists(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.songs.ListArtists(c.Request.Context(), c.Query("keyword"), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// GetArtist returns one artist.
// @Summary Get artist
// @Tags songs
// @Param id path int true "artist id"
// @Success 200 {object} response.Response{data=model.Artist}
// @Failure 404 {object} response.Response
// @Router /api/v1/artists/{id} [get]
func (h *Handler) GetArtist(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	artist, err := h.songs.GetArtist(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, artist)
}

// ListAlbums lists albums, optionally by artist.
// @Summary List albums
// @Tags songs
// @Param artist_id query int false "artist filter"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/albums [get]
func (h *Handler) ListAlbums(c *gin.Context) {
	page, pageSize := pageParams(c)
	artistID, _ := strconv.ParseInt(c.Query("artist_id"), 10, 64)
	list, total, err := h.songs.ListAlbums(c.Request.Context(), artistID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// GetAlbum returns one album with its track list.
// @Summary Get album
// @Tags songs
// @Param id path int true "album id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/albums/{id} [get]
func (h *Handler) GetAlbum(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	album, songs, err := h.songs.GetAlbum(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"album": album, "songs": songs})
}
