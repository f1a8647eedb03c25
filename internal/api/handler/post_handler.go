package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type postIDRequest struct {
	PostID string `json:"post_id" binding:"required"`
}

// Feed 首页流
// @Summary 帖子流（排除被拉黑双方）
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=[]model.PostView}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	posts, err := h.posts.Feed(c.Request.Context(), middleware.ViewerID(c), intQuery(c, "page", 1))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePostRequest true "内容或图片至少一项"
// @Success 200 {object} response.Response{data=model.PostView}
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 帖子详情
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.PostView}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), middleware.ViewerID(c), param(c, "id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// RemovePost 删除帖子
// @Summary 删除帖子（作者或管理员）
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) RemovePost(c *gin.Context) {
	id := param(c, "id")
	if id == "" {
		var req postIDRequest
		if !bindJSON(c, &req) {
			return
		}
		id = req.PostID
	}
	if err := h.posts.Remove(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}
	ok(c)
}

// AddComment 评论
// @Summary 发表评论（可回复）
// @Tags 互动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AddCommentRequest true "评论"
// @Success 200 {object} response.Response{data=model.CommentView}
// @Failure 404 {object} response.Response
// @Router /api/v1/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req service.AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.interactions.AddComment(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

// ListComments 评论列表
// @Summary 帖子评论
// @Tags 互动
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=[]model.CommentView}
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	list, err := h.interactions.ListComments(c.Request.Context(), middleware.ViewerID(c), param(c, "id", "post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ToggleLike 点赞/取消
// @Summary 切换帖子或评论点赞
// @Tags 互动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.LikeRequest true "post_id 或 comment_id"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/likes/toggle [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	var req service.LikeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.interactions.ToggleLike(c.Request.Context(), middleware.ViewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ToggleRepost 转发/取消
// @Summary 切换转发
// @Tags 互动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postIDRequest true "帖子"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/reposts/toggle [post]
func (h *Handler) ToggleRepost(c *gin.Context) {
	var req postIDRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.interactions.ToggleRepost(c.Request.Context(), middleware.ViewerID(c), req.PostID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
