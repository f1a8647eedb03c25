package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Services 各 handler 依赖的业务服务
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Relations     service.RelationshipService
	Posts         service.PostService
	Interactions  service.InteractionService
	Messages      service.MessageService
	Notifications service.NotificationService
	Stories       service.StoryService
	Moderation    service.ModerationService
	Uploads       service.UploadService
}

type Handler struct {
	auth          service.AuthService
	users         service.UserService
	relService    service.RelationshipService
	posts         service.PostService
	interactions  service.InteractionService
	messages      service.MessageService
	notifications service.NotificationService
	stories       service.StoryService
	moderation    service.ModerationService
	uploads       service.UploadService
}

func New(s Services) *Handler {
	return &Handler{
		auth:          s.Auth,
		users:         s.Users,
		relService:    s.Relations,
		posts:         s.Posts,
		interactions:  s.Interactions,
		messages:      s.Messages,
		notifications: s.Notifications,
		stories:       s.Stories,
		moderation:    s.Moderation,
		uploads:       s.Uploads,
	}
}

// bindJSON 失败时写出 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

// param 先查路径参数再查 query，兼容 /api?action= 入口
func param(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Param(n); v != "" {
			return v
		}
	}
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

type okResult struct {
	Success bool `json:"success"`
}

func ok(c *gin.Context) {
	response.Success(c, okResult{Success: true})
}
