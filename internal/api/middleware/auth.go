package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/pkg/errs"
	"github.com/d60-Lab/social-graph/pkg/logger"
	"github.com/d60-Lab/social-graph/pkg/response"
)

const (
	ctxUserKey  = "current_user"
	ctxTokenKey = "current_token"
)

// Authenticator 由 AuthService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

// BearerToken 依次读取 Authorization 与 X-Authorization
func BearerToken(c *gin.Context) string {
	for _, h := range []string{"Authorization", "X-Authorization"} {
		v := strings.TrimSpace(c.GetHeader(h))
		if v == "" {
			continue
		}
		if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
			return strings.TrimSpace(v[7:])
		}
		return v
	}
	return ""
}

// OptionalAuth 有合法令牌时注入当前用户，否则按匿名处理
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := BearerToken(c); raw != "" {
			u, err := auth.Authenticate(c.Request.Context(), raw)
			switch {
			case err == nil:
				c.Set(ctxUserKey, u)
				c.Set(ctxTokenKey, raw)
			case errs.KindOf(err) == errs.KindInternal:
				logger.Warn("authenticate failed", zap.Error(err))
			}
		}
		c.Next()
	}
}

// RequireUser 需挂在 OptionalAuth 之后；匿名返回 401，被封禁账号返回 403
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !EnsureUser(c) {
			return
		}
		c.Next()
	}
}

// EnsureUser 已写出错误响应时返回 false
func EnsureUser(c *gin.Context) bool {
	u := CurrentUser(c)
	if u == nil {
		response.Unauthorized(c, "not authenticated")
		return false
	}
	if u.IsBlocked {
		response.Forbidden(c, "account is blocked")
		return false
	}
	return true
}

// CurrentUser 匿名请求返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// ViewerID 匿名请求返回空串
func ViewerID(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// Token 当前请求使用的令牌
func Token(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
