package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/cache"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

// ListKind 关系列表类型
type ListKind string

const (
	ListFollowers ListKind = "followers"
	ListFollowing ListKind = "following"
	ListFriends   ListKind = "friends"
	ListPending   ListKind = "pending"
)

// FollowResult 关注开关的结果
type FollowResult struct {
	FollowID  string             `json:"follow_id,omitempty"`
	Status    model.FollowStatus `json:"status"`
	Following bool               `json:"following"`
	Pending   bool               `json:"pending"`
}

// RelationshipService 关系链服务：关注状态机与屏蔽
type RelationshipService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error)
	RespondFollow(ctx context.Context, actorID, followID string, accept bool) error
	FollowState(ctx context.Context, followerID, followingID string) (model.FollowStatus, error)
	IsFriends(ctx context.Context, a, b string) (bool, error)
	Relation(ctx context.Context, viewerID, ownerID string) (visibility.Relation, error)
	ListFollows(ctx context.Context, viewerID, targetID string, kind ListKind, page, pageSize int) ([]repository.FollowEntry, error)

	ToggleBlock(ctx context.Context, actorID, targetID string) (bool, error)
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
	ListBlocked(ctx context.Context, userID string) ([]model.UserSummary, error)
}

type relationshipService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	blockRepo   repository.BlockRepository
	notifyRepo  repository.NotificationRepository
	lists       *cache.FollowLists
	invalidator CacheInvalidator
}

// NewRelationshipService lists 与 invalidator 可为 nil（不启用 Redis 时）
func NewRelationshipService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	notifyRepo repository.NotificationRepository,
	lists *cache.FollowLists,
	invalidator CacheInvalidator,
) RelationshipService {
	return &relationshipService{
		db:          db,
		userRepo:    userRepo,
		followRepo:  followRepo,
		blockRepo:   blockRepo,
		notifyRepo:  notifyRepo,
		lists:       lists,
		invalidator: orNoop(invalidator),
	}
}

// ToggleFollow 存活边（pending/active）-> 同一行置为 removed；
// 否则追加新行：私密账号 pending，公开账号 active。
func (s *relationshipService) ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrFollowSelf
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}

	var res *FollowResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follows := s.followRepo.WithTx(tx)
		live, err := follows.Live(ctx, actorID, targetID, true)
		if err != nil {
			return err
		}
		if live != nil {
			n, err := follows.Transition(ctx, live.ID, []model.FollowStatus{live.Status}, model.FollowRemoved)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrFollowConflict
			}
			res = &FollowResult{FollowID: live.ID, Status: model.FollowRemoved}
			return nil
		}

		blocked, err := s.blockRepo.WithTx(tx).Exists(ctx, targetID, actorID)
		if err != nil {
			return err
		}
		if blocked {
			return ErrFollowUnavailable
		}

		edge := &model.Follow{FollowerID: actorID, FollowingID: targetID, Status: model.FollowActive}
		note := &model.Notification{UserID: targetID, Type: model.NotifyFollow, FromUserID: actorID, Content: "New follower"}
		if target.IsPrivate {
			edge.Status = model.FollowPending
			note.Type = model.NotifyFollowRequest
			note.Content = "Follow request"
		}
		if err := follows.Create(ctx, edge); err != nil {
			if errs.IsKind(err, errs.KindConflict) {
				return ErrFollowConflict
			}
			return err
		}
		if err := s.notifyRepo.WithTx(tx).Create(ctx, note); err != nil {
			return err
		}
		res = &FollowResult{
			FollowID:  edge.ID,
			Status:    edge.Status,
			Following: edge.Status == model.FollowActive,
			Pending:   edge.Status == model.FollowPending,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.followsChanged(ctx, actorID, targetID)
	return res, nil
}

// RespondFollow 只有被关注者本人可以处理 pending 请求
func (s *relationshipService) RespondFollow(ctx context.Context, actorID, followID string, accept bool) error {
	var followerID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follows := s.followRepo.WithTx(tx)
		f, err := follows.GetByID(ctx, followID)
		if err != nil {
			return notFoundAs(err, ErrRequestNotFound)
		}
		if f.FollowingID != actorID {
			return ErrRequestNotYours
		}
		if f.Status != model.FollowPending {
			return ErrRequestNotFound
		}
		to := model.FollowRejected
		if accept {
			to = model.FollowActive
		}
		n, err := follows.Transition(ctx, f.ID, []model.FollowStatus{model.FollowPending}, to)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrRequestNotFound
		}
		followerID = f.FollowerID
		if !accept {
			return nil
		}
		return s.notifyRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:     f.FollowerID,
			Type:       model.NotifyFollowAccepted,
			FromUserID: actorID,
			Content:    "Follow request accepted",
		})
	})
	if err != nil {
		return err
	}
	s.followsChanged(ctx, actorID, followerID)
	return nil
}

// followsChanged 提交后同步删除双方索引，保证本人随后的读取看到新状态；
// 异步队列再删一次，覆盖提交前已开始的并发回填
func (s *relationshipService) followsChanged(ctx context.Context, userIDs ...string) {
	if s.lists != nil {
		_ = s.lists.DropIndexes(ctx, userIDs...)
	}
	s.invalidator.FollowsChanged(userIDs...)
}

// FollowState 以最新一行为准；无记录为 none
func (s *relationshipService) FollowState(ctx context.Context, followerID, followingID string) (model.FollowStatus, error) {
	if followerID == "" || followingID == "" {
		return model.FollowNone, nil
	}
	live, err := s.followRepo.Live(ctx, followerID, followingID, false)
	if err != nil {
		return "", err
	}
	if live != nil {
		return live.Status, nil
	}
	latest, err := s.followRepo.Latest(ctx, followerID, followingID)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return model.FollowNone, nil
	}
	return latest.Status, nil
}

func (s *relationshipService) IsFriends(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" || a == b {
		return false, nil
	}
	ab, err := s.followRepo.IsActive(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return s.followRepo.IsActive(ctx, b, a)
}

func (s *relationshipService) Relation(ctx context.Context, viewerID, ownerID string) (visibility.Relation, error) {
	rel := visibility.Relation{ViewerID: viewerID, OwnerID: ownerID}
	if viewerID == visibility.Anonymous || viewerID == ownerID {
		return rel, nil
	}
	var err error
	if rel.ViewerFollowsOwner, err = s.followRepo.IsActive(ctx, viewerID, ownerID); err != nil {
		return rel, err
	}
	if rel.OwnerFollowsViewer, err = s.followRepo.IsActive(ctx, ownerID, viewerID); err != nil {
		return rel, err
	}
	rel.ViewerBlockedOwner, rel.OwnerBlockedViewer, err = s.blockRepo.Between(ctx, viewerID, ownerID)
	return rel, err
}

func (s *relationshipService) ListFollows(ctx context.Context, viewerID, targetID string, kind ListKind, page, pageSize int) ([]repository.FollowEntry, error) {
	switch kind {
	case ListFollowers, ListFollowing, ListFriends, ListPending:
	default:
		return nil, ErrInvalidListKind
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if kind == ListPending {
		if viewerID != targetID {
			return nil, ErrPendingOwnerOnly
		}
	} else {
		rel, err := s.Relation(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		if !visibility.CanSeeFollowLists(rel, target.IsPrivate) {
			return nil, ErrListForbidden
		}
	}

	offset, limit := pageOffset(page, pageSize)
	page = offset/limit + 1
	switch kind {
	case ListFollowers:
		if s.lists != nil {
			return s.cachedPage(ctx, cache.Followers, targetID, page, limit, s.followRepo.ActiveFollowerIDs)
		}
		return s.followRepo.ListFollowers(ctx, targetID, offset, limit)
	case ListFollowing:
		if s.lists != nil {
			return s.cachedPage(ctx, cache.Followings, targetID, page, limit, s.followRepo.ActiveFollowingIDs)
		}
		return s.followRepo.ListFollowings(ctx, targetID, offset, limit)
	case ListFriends:
		return s.followRepo.ListFriends(ctx, targetID, offset, limit)
	default:
		return s.followRepo.ListPending(ctx, targetID, offset, limit)
	}
}

func (s *relationshipService) cachedPage(ctx context.Context, kind cache.ListKind, userID string, page, size int,
	load func(context.Context, string) ([]string, error)) ([]repository.FollowEntry, error) {
	users, err := s.lists.Page(ctx, kind, userID, page, size,
		func(ctx context.Context) ([]string, error) { return load(ctx, userID) },
		func(ctx context.Context, ids []string) ([]model.UserSummary, error) {
			rows, err := s.userRepo.ListByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			out := make([]model.UserSummary, len(rows))
			for i := range rows {
				out[i] = rows[i].Summary()
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	out := make([]repository.FollowEntry, len(users))
	for i, u := range users {
		out[i] = repository.FollowEntry{UserSummary: u}
	}
	return out, nil
}

// ToggleBlock 存在则删除，不存在则新建；返回切换后的状态
func (s *relationshipService) ToggleBlock(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, ErrBlockSelf
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, notFoundAs(err, ErrUserNotFound)
	}
	var blocked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocks := s.blockRepo.WithTx(tx)
		existing, err := blocks.Get(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			_, err := blocks.Delete(ctx, existing.ID)
			blocked = false
			return err
		}
		if err := blocks.Create(ctx, &model.Block{BlockerID: actorID, BlockedID: targetID}); err != nil {
			if errs.IsKind(err, errs.KindConflict) {
				return errs.Conflict("block changed concurrently")
			}
			return err
		}
		blocked = true
		return nil
	})
	return blocked, err
}

func (s *relationshipService) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return s.blockRepo.Exists(ctx, blockerID, blockedID)
}

func (s *relationshipService) ListBlocked(ctx context.Context, userID string) ([]model.UserSummary, error) {
	return s.blockRepo.ListBlocked(ctx, userID)
}

// notFoundAs 把仓储层的 NotFound 换成领域错误，其余原样返回
func notFoundAs(err error, target error) error {
	if errs.IsKind(err, errs.KindNotFound) {
		return target
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
