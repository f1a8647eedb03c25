package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Profile 用户主页
// @Summary 用户主页（计数、关注状态、可见帖子）
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	username := param(c, "username")
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}
	p, err := h.users.GetProfile(c.Request.Context(), middleware.ViewerID(c), username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProfile 修改资料
// @Summary 修改个人资料与隐私设置
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileRequest true "只更新传入字段"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.UpdateProfile(c.Request.Context(), middleware.ViewerID(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}

// Search 搜索用户
// @Summary 按用户名/昵称搜索
// @Tags 用户
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Router /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	users, err := h.users.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}
