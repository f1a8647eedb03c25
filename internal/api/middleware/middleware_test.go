package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/errs"
	"github.com/d60-Lab/social-graph/pkg/logger"
)

type fakeAuth map[string]*model.User

func (f fakeAuth) Authenticate(_ context.Context, raw string) (*model.User, error) {
	if raw == "boom" {
		return nil, errors.New("db down")
	}
	if u, ok := f[raw]; ok {
		return u, nil
	}
	return nil, errs.Unauthorized("not authenticated")
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		header, value, want string
	}{
		{"Authorization", "Bearer abc", "abc"},
		{"Authorization", "bearer  abc ", "abc"},
		{"X-Authorization", "Bearer xyz", "xyz"},
		{"Authorization", "raw-token", "raw-token"},
		{"Authorization", "", ""},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(tc.header, tc.value)
		assert.Equal(t, tc.want, BearerToken(c), "%s: %q", tc.header, tc.value)
	}
}

func newAuthRouter() *gin.Engine {
	auth := fakeAuth{
		"good":    {ID: "u1", Username: "alice"},
		"blocked": {ID: "u2", Username: "mallory", IsBlocked: true},
	}
	r := gin.New()
	r.Use(OptionalAuth(auth))
	r.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, ViewerID(c)) })
	r.GET("/closed", RequireUser(), func(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).Username+":"+Token(c)) })
	return r
}

func TestOptionalAndRequiredAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newAuthRouter()

	cases := []struct {
		path, token string
		code        int
		body        string
	}{
		{"/open", "", http.StatusOK, ""},
		{"/open", "bad", http.StatusOK, ""},
		{"/open", "boom", http.StatusOK, ""},
		{"/open", "good", http.StatusOK, "u1"},
		{"/closed", "", http.StatusUnauthorized, ""},
		{"/closed", "bad", http.StatusUnauthorized, ""},
		{"/closed", "blocked", http.StatusForbidden, ""},
		{"/closed", "good", http.StatusOK, "alice:good"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, w.Code, "%s with %q", tc.path, tc.token)
		if tc.body != "" {
			assert.Equal(t, tc.body, w.Body.String())
		}
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }
	l.get("a")
	now = now.Add(time.Minute)
	l.get("b")

	now = now.Add(l.ttl - time.Second)
	assert.Equal(t, 1, l.Cleanup())
	assert.Len(t, l.visitors, 1)
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerOn(v))

	type form struct {
		Username   string                `validate:"username"`
		Visibility model.StoryVisibility `validate:"omitempty,story_visibility"`
	}
	assert.NoError(t, v.Struct(form{Username: "alice_01", Visibility: model.StoryMutual}))
	assert.NoError(t, v.Struct(form{Username: "Alice.B"}))
	assert.Error(t, v.Struct(form{Username: "al"}))
	assert.Error(t, v.Struct(form{Username: "has space"}))
	assert.Error(t, v.Struct(form{Username: "alice", Visibility: "everyone"}))
}

func TestLoggerLevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })

	r := gin.New()
	r.Use(Logger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})
	for _, p := range []string{"/ok", "/bad", "/fail?action=feed"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "feed", entries[2].ContextMap()["action"])
	assert.Equal(t, "db down", entries[2].ContextMap()["error"])
}
