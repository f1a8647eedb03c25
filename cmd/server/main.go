package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/config"
	_ "github.com/d60-Lab/social-graph/docs"
	"github.com/d60-Lab/social-graph/internal/api"
	"github.com/d60-Lab/social-graph/internal/api/handler"
	"github.com/d60-Lab/social-graph/internal/api/middleware"
	"github.com/d60-Lab/social-graph/internal/cache"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/logger"
	"github.com/d60-Lab/social-graph/pkg/metrics"
	"github.com/d60-Lab/social-graph/pkg/monitor"
	"github.com/d60-Lab/social-graph/pkg/storage"
	"github.com/d60-Lab/social-graph/pkg/tracing"
)

// @title Social Graph API
// @version 1.0
// @description 关注关系、可见性与拉黑规则驱动的社交网络接口
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sentryOn, err := monitor.Init(cfg.Sentry)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer monitor.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	rdb, err := database.InitRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	var (
		lists       *cache.FollowLists
		invalidator service.CacheInvalidator
		stopInv     func(context.Context) error
	)
	if rdb != nil {
		lists = cache.NewFollowLists(rdb, cfg.Redis.TTL)
		inv := cache.NewInvalidator(lists, 0)
		stopInv = inv.Start(2)
		invalidator = inv
	}

	store := storage.NewS3Store(storage.NewS3Client(cfg.Storage), cfg.Storage.Bucket, cfg.Storage.PublicURL)
	svc := api.NewServices(cfg, db, lists, invalidator, store)
	m := metrics.New("social_graph")

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if err := middleware.RegisterValidators(); err != nil {
		return err
	}

	tracingName := ""
	if cfg.Tracing.Enabled {
		tracingName = cfg.Tracing.ServiceName
	}
	router := api.NewRouter(api.Options{
		Handler:       handler.New(svc),
		Auth:          svc.Auth,
		Metrics:       m,
		Limiter:       limiter,
		TracingName:   tracingName,
		SentryEnabled: sentryOn,
		Swagger:       cfg.Server.Mode != gin.ReleaseMode,
	})

	go housekeeping(ctx, db, lists, limiter, svc.Stories, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if stopInv != nil {
		if err := stopInv(shutdownCtx); err != nil {
			logger.Warn("cache invalidator drain", zap.Error(err))
		}
	}
	if rdb != nil {
		closeRedis(rdb)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}

// housekeeping 定期清理过期快拍与限流表，并上报连接池/缓存指标
func housekeeping(ctx context.Context, db *gorm.DB, lists *cache.FollowLists, limiter *middleware.RateLimiter, stories service.StoryService, m *metrics.Metrics) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if sqlDB, err := db.DB(); err == nil {
			m.ObserveDB(sqlDB.Stats())
		}
		if lists != nil {
			c := lists.Counters()
			m.ObserveCache(c.IndexLoads, c.UserLoads)
		}
		if limiter != nil {
			limiter.Cleanup()
		}
		n, err := stories.PurgeExpired(ctx)
		if err != nil {
			logger.Warn("purge expired stories", zap.Error(err))
		} else if n > 0 {
			logger.Info("purged expired stories", zap.Int64("count", n))
		}
	}
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Warn("redis close", zap.Error(err))
	}
}
