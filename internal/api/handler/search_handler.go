package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/pkg/response"
)

// Search runs a keyword search across songs, artists, albums, playlists,
// and users. Signed-in searches are recorded in the caller's history.
// @Summary Search
// @Tags search
// @Param keyword query string true "search keyword"
// @Param limit query int false "per-entity limit" default(10)
// @Success 200 {object} response.Response{data=service.SearchResult}
// @Failure 400 {object} response.Response
// @Router /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	result, err := h.search.Search(c.Request.Context(), middleware.UserID(c), c.Query("keyword"), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// HotKeywords lists trending search keywords.
// @Summary Hot keywords
// @Tags search
// @Param limit query int false "max results" default(10)
// @Success 200 {object} response.Response{data=[]service.HotKeyword}
// @Router /api/v1/search/hot [get]
func (h *Handler) HotKeywords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	hot, err := h.search.HotKeywords(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, hot)
}

// SearchHistory lists the caller's recent searches.
// @Summary Search history
// @Tags search
// @Security BearerAuth
// @Param limit query int false "max results" default(20)
// @Success 200 {object} response.Response{data=[]model.SearchHistory}
// @Router /api/v1/search/history [get]
func (h *Handler) SearchHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := h.search.ListHistory(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, history)
}

// ClearSearchHistory wipes the caller's search history.
// @Summary Clear search history
// @Tags search
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/search/history [delete]
func (h *Handler) ClearSearchHistory(c *gin.Context) {
	if err := h.search.ClearHistory(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}
