package handler

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParamPrefersPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got []string
	r := gin.New()
	r.GET("/posts/:id", func(c *gin.Context) { got = append(got, param(c, "id", "post_id")) })
	r.GET("/api", func(c *gin.Context) { got = append(got, param(c, "id", "post_id")) })

	for _, u := range []string{"/posts/p1?id=ignored", "/api?post_id=p2", "/api?id=p3&post_id=p4", "/api"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, u, nil))
	}
	assert.Equal(t, []string{"p1", "p2", "p3", ""}, got)
}

func TestIntQueryDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&size=-1&bad=x", nil)
	assert.Equal(t, 3, intQuery(c, "page", 1))
	assert.Equal(t, 20, intQuery(c, "size", 20))
	assert.Equal(t, 7, intQuery(c, "bad", 7))
	assert.Equal(t, 1, intQuery(c, "missing", 1))
}

func TestLegacyActionTable(t *testing.T) {
	h := New(Services{})
	var names []string
	for name, a := range h.legacyActions() {
		names = append(names, name)
		assert.NotNil(t, a.handle, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"add_comment", "admin_action", "admin_reports", "admin_verify", "create_post",
		"create_story", "feed", "follow_list", "get_chats", "get_comments", "get_messages",
		"get_post", "get_stories", "health", "login", "me", "message_action", "notifications",
		"profile", "read_notifications", "register", "remove_post", "report",
		"request_verification", "respond_follow", "search", "send_message", "toggle_block",
		"toggle_follow", "toggle_like", "toggle_repost", "update_profile", "upload",
	}, names)
}
