package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Thread 与某人的会话
// @Summary 会话消息（对方消息标记已读）
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "对方用户ID"
// @Success 200 {object} response.Response{data=[]model.Message}
// @Router /api/v1/messages/{user_id} [get]
func (h *Handler) Thread(c *gin.Context) {
	otherID := param(c, "user_id")
	if otherID == "" {
		response.BadRequest(c, "user_id is required")
		return
	}
	msgs, err := h.messages.Thread(c.Request.Context(), middleware.ViewerID(c), otherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msgs)
}

// SendMessage 发私信
// @Summary 发送私信（被对方拉黑或对方关闭私信时拒绝）
// @Tags 私信
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SendMessageRequest true "消息"
// @Success 200 {object} response.Response{data=model.Message}
// @Failure 403 {object} response.Response
// @Router /api/v1/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Send(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

// Chats 会话列表
// @Summary 会话列表（最后一条消息与未读数）
// @Tags 私信
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.ChatPreview}
// @Router /api/v1/chats [get]
func (h *Handler) Chats(c *gin.Context) {
	chats, err := h.messages.Chats(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chats)
}

// MessageAction 消息操作
// @Summary 编辑/置顶/隐藏消息或清空会话
// @Tags 私信
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.MessageActionRequest true "操作"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/messages/actions [post]
func (h *Handler) MessageAction(c *gin.Context) {
	var req service.MessageActionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.messages.Act(c.Request.Context(), middleware.ViewerID(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}
