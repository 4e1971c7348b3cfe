package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/errs"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData wraps paginated listings.
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// NewPageData derives the page echo fields from a raw (list, total) result.
func NewPageData(list interface{}, total int64, page, pageSize int) PageData {
	totalPages := int64(0)
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return PageData{List: list, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "ok", Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: message})
}

func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: errs.Message(err)})
}

// Fail maps a service error kind to the transport status.
func Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.Kind(err) {
	case errs.EINVALID:
		status = http.StatusBadRequest
	case errs.ENOTFOUND:
		status = http.StatusNotFound
	case errs.ECONFLICT:
		status = http.StatusConflict
	case errs.EFORBIDDEN:
		status = http.StatusForbidden
	case errs.EUNAUTHORIZED:
		status = http.StatusUnauthorized
	}
	c.JSON(status, Response{Code: status, Message: errs.Message(err)})
}
