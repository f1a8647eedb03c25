package api

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/config"
	"github.com/d60-Lab/social-graph/internal/api/handler"
	"github.com/d60-Lab/social-graph/internal/cache"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/internal/visibility"
	"github.com/d60-Lab/social-graph/pkg/storage"
	"github.com/d60-Lab/social-graph/pkg/token"
)

// NewServices 按配置装配全部业务服务；lists 与 inv 可为 nil
func NewServices(cfg *config.Config, db *gorm.DB, lists *cache.FollowLists, inv service.CacheInvalidator, store storage.ObjectStore) handler.Services {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	postRepo := repository.NewPostRepository(db)
	notifyRepo := repository.NewNotificationRepository(db)
	policy := visibility.Policy{EnforcePrivatePosts: cfg.Content.EnforcePrivatePosts}

	relations := service.NewRelationshipService(db, userRepo, followRepo, blockRepo, notifyRepo, lists, inv)
	posts := service.NewPostService(postRepo, relations, policy, cfg.Content.FeedPageSize)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	return handler.Services{
		Auth:          service.NewAuthService(db, userRepo, repository.NewSessionRepository(db), tokens, nil),
		Users:         service.NewUserService(userRepo, followRepo, postRepo, relations, policy, inv),
		Relations:     relations,
		Posts:         posts,
		Interactions:  service.NewInteractionService(db, posts, repository.NewCommentRepository(db), repository.NewLikeRepository(db), notifyRepo),
		Messages:      service.NewMessageService(db, userRepo, blockRepo, repository.NewMessageRepository(db), notifyRepo, nil),
		Notifications: service.NewNotificationService(notifyRepo),
		Stories:       service.NewStoryService(repository.NewStoryRepository(db), followRepo, blockRepo, cfg.Content.StoryTTL, nil),
		Moderation:    service.NewModerationService(db, userRepo, postRepo, repository.NewReportRepository(db), inv),
		Uploads:       service.NewUploadService(store, cfg.Storage.MaxImageBytes),
	}
}
