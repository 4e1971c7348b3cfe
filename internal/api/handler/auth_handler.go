package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/response"
)

type registerRequest struct {
	Username string  `json:"username" binding:"required,username"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Avatar     *string `json:"avatar"`
	Background *string `json:"background"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Register creates an account.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "credentials"
// @Success 201 {object} response.Response{data=model.UserProfile}
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, u.Profile())
}

// Login exchanges credentials for an access token.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "login is username or email"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	tok, expiresAt, err := h.tokens.Generate(u.ID, u.Username)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":      tok,
		"expires_at": expiresAt,
		"user":       u.Profile(),
	})
}

// Me returns the caller's profile.
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile updates the caller's profile fields.
// @Summary Update profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "fields to change"
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/me [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.UpdateProfileInput{
		Username:   req.Username,
		Email:      req.Email,
		Avatar:     req.Avatar,
		Background: req.Background,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, u.Profile())
}

// ChangePassword rotates the caller's password.
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body changePasswordRequest true "old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadImage stores one image and returns its public URL.
// @Summary Upload image
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "image file, max 5MB"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.Response
// @Router /api/v1/upload [post]
func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	url, err := h.images.Save(c, fh)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}
