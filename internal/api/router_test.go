package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/config"
	"github.com/d60-Lab/social-graph/internal/api/handler"
	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/metrics"
)

type memStore struct{ keys []string }

func (m *memStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.keys = append(m.keys, key)
	return m.URL(key), nil
}

func (m *memStore) URL(key string) string { return "https://cdn.test/" + key }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"},
		Content: config.ContentConfig{StoryTTL: 24 * time.Hour, FeedPageSize: 20},
		Storage: config.StorageConfig{MaxImageBytes: 1 << 20},
	}
}

func newServer(t *testing.T, limiter *middleware.RateLimiter) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := NewServices(testConfig(), db, nil, nil, &memStore{})
	r := NewRouter(Options{
		Handler: handler.New(svc),
		Auth:    svc.Auth,
		Metrics: metrics.New("test"),
		Limiter: limiter,
	})
	return &server{t: t, db: db, router: r}
}

func (s *server) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type account struct {
	Token string
	ID    string
}

func (s *server) register(name string) account {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "secret",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return account{Token: res.Token, ID: res.User.ID}
}

func TestHealth(t *testing.T) {
	s := newServer(t, nil)

	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t, nil)
	alice := s.register("alice")

	w, env := s.do(http.MethodGet, "/api/v1/auth/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)

	// X-Authorization 同样可用
	req := httptest.NewRequest(http.MethodGet, "/api?action=me", nil)
	req.Header.Set("X-Authorization", "Bearer "+alice.Token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/auth/me", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsShortUsername(t *testing.T) {
	s := newServer(t, nil)
	w, _ := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "ab", "email": "ab@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrivateFollowOverLegacyEntrypoint(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")
	b := s.register("bob")

	w, _ := s.do(http.MethodPost, "/api?action=update_profile", b.Token, map[string]bool{"is_private": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/api?action=toggle_follow", a.Token, map[string]string{"user_id": b.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var fr struct {
		Status    string `json:"status"`
		Following bool   `json:"following"`
		Pending   bool   `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fr))
	assert.Equal(t, "pending", fr.Status)
	assert.True(t, fr.Pending)
	assert.False(t, fr.Following)

	// 只有 bob 能看到待处理请求
	w, _ = s.do(http.MethodGet, "/api?action=follow_list&type=pending&user_id="+b.ID, a.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, "/api?action=follow_list&type=pending", b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Users []struct {
			FollowID string `json:"follow_id"`
			ID       string `json:"id"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, a.ID, list.Users[0].ID)

	w, _ = s.do(http.MethodPost, "/api?action=respond_follow", a.Token, map[string]string{"follow_id": list.Users[0].FollowID, "action": "accept"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/follows/respond", b.Token, map[string]string{"follow_id": list.Users[0].FollowID, "action": "accept"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/notifications", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes struct {
		Notifications []model.NotificationView `json:"notifications"`
		Unread        int64                    `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, model.NotifyFollowAccepted, notes.Notifications[0].Type)
	assert.EqualValues(t, 1, notes.Unread)

	w, env = s.do(http.MethodGet, "/api/v1/profiles/bob", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		IsFollowing    bool  `json:"is_following"`
		FollowersCount int64 `json:"followers_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.True(t, p.IsFollowing)
	assert.EqualValues(t, 1, p.FollowersCount)
}

func TestSelfFollowIsBadRequest(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")
	w, _ := s.do(http.MethodPost, "/api/v1/follows/toggle", a.Token, map[string]string{"user_id": a.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlockHidesPostsAndMessages(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")
	b := s.register("bob")

	w, _ := s.do(http.MethodPost, "/api/v1/posts", b.Token, map[string]string{"content": "hello from bob"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/api?action=toggle_block", a.Token, map[string]string{"user_id": b.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"blocked":true}`, string(env.Data))

	w, env = s.do(http.MethodGet, "/api/v1/feed", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Empty(t, feed)

	// 拉黑只限制被拉黑方给拉黑方发消息
	w, _ = s.do(http.MethodPost, "/api/v1/messages", b.Token, map[string]string{"receiver_id": a.ID, "content": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/messages", a.Token, map[string]string{"receiver_id": b.ID, "content": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLegacyDispatch(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")

	w, _ := s.do(http.MethodGet, "/api?action=nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/api?action=create_post", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong method")

	w, _ = s.do(http.MethodPost, "/api?action=create_post", "", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(http.MethodPost, "/api?action=create_post", a.Token, map[string]string{"content": "first"})
	require.Equal(t, http.StatusOK, w.Code)
	var post model.PostView
	require.NoError(t, json.Unmarshal(env.Data, &post))

	w, _ = s.do(http.MethodGet, "/api?action=get_post&id="+post.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api?action=remove_post", a.Token, map[string]string{"post_id": post.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockedAccountIsForbidden(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")
	require.NoError(t, s.db.Model(&model.User{}).Where("id = ?", a.ID).Update("is_blocked", true).Error)

	w, _ := s.do(http.MethodGet, "/api/v1/auth/me", a.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodGet, "/api?action=notifications", a.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadAndStory(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")

	w, env := s.do(http.MethodPost, "/api?action=upload", a.Token, map[string]string{
		"image": "data:image/png;base64,iVBORw0KGgo=", "type": "story",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var up struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &up))
	assert.True(t, strings.HasPrefix(up.URL, "https://cdn.test/story/"))

	w, _ = s.do(http.MethodPost, "/api/v1/stories", a.Token, map[string]string{"image_url": up.URL, "visibility": "everyone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/stories", a.Token, map[string]string{"image_url": up.URL, "visibility": "mutual"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api?action=get_stories", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stories []model.StoryView
	require.NoError(t, json.Unmarshal(env.Data, &stories))
	assert.Len(t, stories, 1)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	s := newServer(t, nil)
	a := s.register("alice")
	w, _ := s.do(http.MethodGet, "/api/v1/admin/reports", a.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newServer(t, middleware.NewRateLimiter(0.001, 1))

	w, _ := s.do(http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 健康检查不受限流影响
	w, _ = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, nil)
	s.do(http.MethodGet, "/api?action=health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{method="GET",route="/api?action=health",status="200"} 1`)
}
