package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Upload 上传图片
// @Summary 上传 base64 图片到对象存储
// @Tags 上传
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UploadRequest true "图片"
// @Success 200 {object} response.Response{data=service.UploadResult}
// @Failure 400 {object} response.Response
// @Router /api/v1/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	var req service.UploadRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.uploads.Upload(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
