package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/muse-lab/muse-server/internal/api/middleware"
	"github.com/muse-lab/muse-server/pkg/response"
)

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// ListChats lists the caller's conversations, most recent first.
// @Summary List chats
// @Tags chats
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/chats [get]
func (h *Handler) ListChats(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.chats.ListChats(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, response.NewPageData(list, total, page, pageSize))
}

// GetMessages pages through the conversation with another user, oldest
// first within the page.
// @Summary Get messages
// @Tags chats
// @Security BearerAuth
// @Param user_id path int true "other user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} response.Response{data=service.MessagePage}
// @Router /api/v1/chats/{user_id}/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	otherID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	msgs, err := h.chats.GetMessages(c.Request.Context(), middleware.UserID(c), otherID, page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, msgs)
}

// SendMessage delivers a message, creating the chat on first contact.
// @Summary Send message
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "message"
// @Success 201 {object} response.Response{data=model.Message}
// @Failure 404 {object} response.Response
// @Router /api/v1/chats/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.chats.SendMessage(c.Request.Context(), middleware.UserID(c), req.ReceiverID, req.Content)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, msg)
}
