package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/social-graph/internal/api/handler"
	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/pkg/metrics"
	"github.com/d60-Lab/social-graph/pkg/monitor"
)

// Options 路由装配参数；nil 表示关闭对应中间件
type Options struct {
	Handler       *handler.Handler
	Auth          middleware.Authenticator
	Metrics       *metrics.Metrics
	Limiter       *middleware.RateLimiter
	TracingName   string
	SentryEnabled bool
	Swagger       bool
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.SentryEnabled {
		r.Use(monitor.Middleware())
	}
	if opts.TracingName != "" {
		r.Use(otelgin.Middleware(opts.TracingName))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.OptionalAuth(opts.Auth))
	r.Use(middleware.Logger())

	h := opts.Handler
	r.GET("/health", h.Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limited := r.Group("")
	if opts.Limiter != nil {
		limited.Use(opts.Limiter.Middleware())
	}

	legacy := h.Legacy()
	limited.GET("/api", legacy)
	limited.POST("/api", legacy)

	v1 := limited.Group("/api/v1")
	{
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		v1.GET("/feed", h.Feed)
		v1.GET("/posts/:id", h.GetPost)
		v1.GET("/posts/:id/comments", h.ListComments)
		v1.GET("/profiles/:username", h.Profile)
		v1.GET("/search", h.Search)
		v1.GET("/users/:user_id/follows", h.ListFollows)
		v1.GET("/stories", h.Stories)
	}

	authed := v1.Group("")
	authed.Use(middleware.RequireUser())
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/auth/me", h.Me)

		authed.POST("/posts", h.CreatePost)
		authed.DELETE("/posts/:id", h.RemovePost)
		authed.POST("/comments", h.AddComment)
		authed.POST("/likes/toggle", h.ToggleLike)
		authed.POST("/reposts/toggle", h.ToggleRepost)

		authed.PUT("/profile", h.UpdateProfile)
		authed.POST("/follows/toggle", h.ToggleFollow)
		authed.POST("/follows/respond", h.RespondFollow)
		authed.GET("/blocks", h.ListBlocked)
		authed.POST("/blocks/toggle", h.ToggleBlock)

		authed.GET("/chats", h.Chats)
		authed.GET("/messages/:user_id", h.Thread)
		authed.POST("/messages", h.SendMessage)
		authed.POST("/messages/actions", h.MessageAction)

		authed.GET("/notifications", h.Notifications)
		authed.POST("/notifications/read", h.ReadNotifications)

		authed.POST("/stories", h.CreateStory)
		authed.POST("/reports", h.Report)
		authed.POST("/verification", h.RequestVerification)
		authed.POST("/upload", h.Upload)

		authed.GET("/admin/reports", h.AdminReports)
		authed.POST("/admin/actions", h.AdminAction)
		authed.POST("/admin/verify", h.AdminVerify)
	}
	return r
}
