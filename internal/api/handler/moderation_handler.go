package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Report 举报
// @Summary 举报用户或帖子
// @Tags 审核
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReportRequest true "举报"
// @Success 200 {object} response.Response{data=model.Report}
// @Router /api/v1/reports [post]
func (h *Handler) Report(c *gin.Context) {
	var req service.ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.moderation.Report(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// RequestVerification 申请认证
// @Summary 申请认证标识
// @Tags 审核
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.VerificationRequest}
// @Failure 409 {object} response.Response
// @Router /api/v1/verification [post]
func (h *Handler) RequestVerification(c *gin.Context) {
	vr, err := h.moderation.RequestVerification(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, vr)
}

// AdminReports 待处理队列
// @Summary 待处理举报与认证申请
// @Tags 管理
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.AdminQueue}
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/reports [get]
func (h *Handler) AdminReports(c *gin.Context) {
	q, err := h.moderation.AdminQueue(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, q)
}

// AdminAction 管理操作
// @Summary 封禁/解封用户、下架帖子、处理举报
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AdminActionRequest true "操作"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/actions [post]
func (h *Handler) AdminAction(c *gin.Context) {
	var req service.AdminActionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.moderation.AdminAction(c.Request.Context(), middleware.CurrentUser(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}

// AdminVerify 审核认证
// @Summary 通过或拒绝认证申请
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReviewVerificationRequest true "审核"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/verify [post]
func (h *Handler) AdminVerify(c *gin.Context) {
	var req service.ReviewVerificationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.moderation.ReviewVerification(c.Request.Context(), middleware.CurrentUser(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}
