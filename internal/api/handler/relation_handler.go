package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type targetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type respondFollowRequest struct {
	FollowID string `json:"follow_id" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=accept reject"`
}

type blockResult struct {
	Blocked bool `json:"blocked"`
}

// ToggleFollow 关注/取消关注
// @Summary 切换关注状态（私密账号生成关注请求）
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body targetRequest true "目标用户"
// @Success 200 {object} response.Response{data=service.FollowResult}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follows/toggle [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	var req targetRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.relService.ToggleFollow(c.Request.Context(), middleware.ViewerID(c), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// RespondFollow 处理关注请求
// @Summary 接受或拒绝关注请求
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body respondFollowRequest true "请求ID与动作"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follows/respond [post]
func (h *Handler) RespondFollow(c *gin.Context) {
	var req respondFollowRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.relService.RespondFollow(c.Request.Context(), middleware.ViewerID(c), req.FollowID, req.Action == "accept")
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}

// ListFollows 关注相关列表
// @Summary 查询粉丝/关注/好友/待处理请求列表
// @Tags 关系链
// @Produce json
// @Param user_id path string true "用户ID"
// @Param type query string false "followers|following|friends|pending" default(followers)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 403 {object} response.Response
// @Router /api/v1/users/{user_id}/follows [get]
func (h *Handler) ListFollows(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	targetID := param(c, "user_id")
	if targetID == "" {
		targetID = viewerID
	}
	if targetID == "" {
		response.BadRequest(c, "user_id is required")
		return
	}
	kind := service.ListKind(c.DefaultQuery("type", string(service.ListFollowers)))
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	list, err := h.relService.ListFollows(c.Request.Context(), viewerID, targetID, kind, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"type": kind, "page": page, "page_size": pageSize, "users": list})
}

// ToggleBlock 拉黑/取消拉黑
// @Summary 切换拉黑状态
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body targetRequest true "目标用户"
// @Success 200 {object} response.Response{data=blockResult}
// @Failure 400 {object} response.Response
// @Router /api/v1/blocks/toggle [post]
func (h *Handler) ToggleBlock(c *gin.Context) {
	var req targetRequest
	if !bindJSON(c, &req) {
		return
	}
	blocked, err := h.relService.ToggleBlock(c.Request.Context(), middleware.ViewerID(c), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blockResult{Blocked: blocked})
}

// ListBlocked 我拉黑的用户
// @Summary 拉黑列表
// @Tags 关系链
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Router /api/v1/blocks [get]
func (h *Handler) ListBlocked(c *gin.Context) {
	list, err := h.relService.ListBlocked(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
