package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/response"
)

type legacyAction struct {
	method string // 空表示不限
	auth   bool
	handle gin.HandlerFunc
}

// legacyActions 旧客户端 /api?action=<name> 的动作表
func (h *Handler) legacyActions() map[string]legacyAction {
	get, post := http.MethodGet, http.MethodPost
	return map[string]legacyAction{
		"register":             {post, false, h.Register},
		"login":                {post, false, h.Login},
		"me":                   {get, true, h.Me},
		"feed":                 {get, false, h.Feed},
		"create_post":          {post, true, h.CreatePost},
		"get_post":             {get, false, h.GetPost},
		"remove_post":          {post, true, h.RemovePost},
		"add_comment":          {post, true, h.AddComment},
		"get_comments":         {get, false, h.ListComments},
		"toggle_like":          {post, true, h.ToggleLike},
		"toggle_repost":        {post, true, h.ToggleRepost},
		"toggle_follow":        {post, true, h.ToggleFollow},
		"respond_follow":       {post, true, h.RespondFollow},
		"follow_list":          {get, false, h.ListFollows},
		"profile":              {get, false, h.Profile},
		"update_profile":       {post, true, h.UpdateProfile},
		"search":               {get, false, h.Search},
		"get_messages":         {get, true, h.Thread},
		"send_message":         {post, true, h.SendMessage},
		"get_chats":            {get, true, h.Chats},
		"message_action":       {post, true, h.MessageAction},
		"notifications":        {get, true, h.Notifications},
		"read_notifications":   {post, true, h.ReadNotifications},
		"get_stories":          {get, false, h.Stories},
		"create_story":         {post, true, h.CreateStory},
		"report":               {post, true, h.Report},
		"toggle_block":         {post, true, h.ToggleBlock},
		"admin_reports":        {get, true, h.AdminReports},
		"admin_action":         {post, true, h.AdminAction},
		"admin_verify":         {post, true, h.AdminVerify},
		"request_verification": {post, true, h.RequestVerification},
		"upload":               {post, true, h.Upload},
		"health":               {"", false, h.Health},
	}
}

// Legacy 单入口分发，action 缺省为 health
// @Summary 旧版单入口
// @Tags 系统
// @Param action query string false "动作名" default(health)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api [get]
// @Router /api [post]
func (h *Handler) Legacy() gin.HandlerFunc {
	actions := h.legacyActions()
	return func(c *gin.Context) {
		name := c.DefaultQuery("action", "health")
		a, found := actions[name]
		if !found || (a.method != "" && a.method != c.Request.Method) {
			response.NotFound(c, "unknown action")
			return
		}
		if a.auth && !middleware.EnsureUser(c) {
			return
		}
		a.handle(c)
	}
}
