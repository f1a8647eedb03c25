package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Stories 可见快拍
// @Summary 当前用户可见的未过期快拍
// @Tags 快拍
// @Produce json
// @Success 200 {object} response.Response{data=[]model.StoryView}
// @Router /api/v1/stories [get]
func (h *Handler) Stories(c *gin.Context) {
	list, err := h.stories.List(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// CreateStory 发快拍
// @Summary 发布快拍（all|followers|mutual）
// @Tags 快拍
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateStoryRequest true "快拍"
// @Success 200 {object} response.Response{data=model.Story}
// @Failure 400 {object} response.Response
// @Router /api/v1/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	var req service.CreateStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.stories.Create(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}
