package service

import (
	"context"
	"time"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
)

// CreateStoryRequest visibility 为空时按 all 处理
type CreateStoryRequest struct {
	ImageURL   string                `json:"image_url" binding:"required"`
	Visibility model.StoryVisibility `json:"visibility" binding:"omitempty,story_visibility"`
}

type StoryService interface {
	Create(ctx context.Context, ownerID string, req *CreateStoryRequest) (*model.Story, error)
	// List 返回 viewer 可见的未过期快拍，按创建时间倒序
	List(ctx context.Context, viewerID string) ([]model.StoryView, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type storyService struct {
	storyRepo  repository.StoryRepository
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	ttl        time.Duration
	now        Clock
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	ttl time.Duration,
	clock Clock,
) StoryService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &storyService{storyRepo: storyRepo, followRepo: followRepo, blockRepo: blockRepo, ttl: ttl, now: orNow(clock)}
}

func (s *storyService) Create(ctx context.Context, ownerID string, req *CreateStoryRequest) (*model.Story, error) {
	if req.ImageURL == "" {
		return nil, ErrStoryImageRequired
	}
	vis := req.Visibility
	if vis == "" {
		vis = model.StoryAll
	}
	if !vis.Valid() {
		return nil, ErrStoryVisibility
	}
	now := s.now()
	st := &model.Story{
		OwnerID:    ownerID,
		ImageURL:   req.ImageURL,
		Visibility: vis,
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
	}
	if err := s.storyRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *storyService) List(ctx context.Context, viewerID string) ([]model.StoryView, error) {
	now := s.now()
	all, err := s.storyRepo.ListVisible(ctx, viewerID, now)
	if err != nil {
		return nil, err
	}

	// 一次性加载 viewer 的关系集合，避免逐条查询
	following := map[string]struct{}{}
	followers := map[string]struct{}{}
	blocked := map[string]struct{}{}
	if viewerID != visibility.Anonymous {
		ids, err := s.followRepo.ActiveFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		following = toSet(ids)
		if ids, err = s.followRepo.ActiveFollowerIDs(ctx, viewerID); err != nil {
			return nil, err
		}
		followers = toSet(ids)
		if blocked, err = s.blockRepo.ExcludedFor(ctx, viewerID); err != nil {
			return nil, err
		}
	}

	out := make([]model.StoryView, 0, len(all))
	for _, st := range all {
		_, vf := following[st.OwnerID]
		_, of := followers[st.OwnerID]
		_, bl := blocked[st.OwnerID]
		rel := visibility.Relation{
			ViewerID:           viewerID,
			OwnerID:            st.OwnerID,
			ViewerFollowsOwner: vf,
			OwnerFollowsViewer: of,
			ViewerBlockedOwner: bl,
			OwnerBlockedViewer: bl,
		}
		if visibility.CanViewStory(rel, visibility.Story{Visibility: st.Visibility, ExpiresAt: st.ExpiresAt}, now) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *storyService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.storyRepo.DeleteExpired(ctx, s.now())
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
