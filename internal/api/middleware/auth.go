package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/pkg/response"
	"github.com/muse-lab/muse-server/pkg/token"
)

const (
	// CtxUserID is the gin context key for the authenticated user.
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// Auth requires a valid Bearer token and stores the caller's identity on
// the context.
func Auth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, tm)
		if !ok {
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present but lets
// anonymous requests through.
func OptionalAuth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if claims, err := tm.Validate(raw); err == nil {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, tm *token.Manager) (*token.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.Unauthorized(c, "missing authorization header")
		return nil, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		response.Unauthorized(c, "authorization header must use Bearer scheme")
		return nil, false
	}
	claims, err := tm.Validate(raw)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return nil, false
	}
	return claims, true
}

// UserID reads the authenticated user id set by Auth. Zero means anonymous.
func UserID(c *gin.Context) int64 {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}
