package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type notificationsResult struct {
	Notifications []model.NotificationView `json:"notifications"`
	Unread        int64                    `json:"unread"`
}

// Notifications 通知列表
// @Summary 最近通知与未读数
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response{data=notificationsResult}
// @Router /api/v1/notifications [get]
func (h *Handler) Notifications(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.ViewerID(c)
	list, err := h.notifications.List(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	unread, err := h.notifications.CountUnread(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notificationsResult{Notifications: list, Unread: unread})
}

// ReadNotifications 全部已读
// @Summary 标记全部通知已读
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]int64}
// @Router /api/v1/notifications/read [post]
func (h *Handler) ReadNotifications(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}
