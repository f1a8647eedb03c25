package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

const (
	profilePostLimit = 50
	searchLimit      = 20
)

// Profile 个人主页
type Profile struct {
	ID             string           `json:"id"`
	Username       string           `json:"username"`
	DisplayName    string           `json:"display_name"`
	Bio            string           `json:"bio"`
	AvatarURL      string           `json:"avatar_url"`
	IsPrivate      bool             `json:"is_private"`
	IsVerified     bool             `json:"is_verified"`
	IsAdmin        bool             `json:"is_admin"`
	Links          json.RawMessage  `json:"links" swaggertype:"object"`
	CreatedAt      time.Time        `json:"created_at"`
	FollowersCount int64            `json:"followers_count"`
	FollowingCount int64            `json:"following_count"`
	PostsCount     int64            `json:"posts_count"`
	IsFollowing    bool             `json:"is_following"`
	IsPending      bool             `json:"is_pending"`
	IsOwn          bool             `json:"is_own"`
	Posts          []model.PostView `json:"posts"`
}

// UpdateProfileRequest 只更新非 nil 字段
type UpdateProfileRequest struct {
	DisplayName     *string          `json:"display_name" binding:"omitempty,max=128"`
	Bio             *string          `json:"bio"`
	AvatarURL       *string          `json:"avatar_url"`
	IsPrivate       *bool            `json:"is_private"`
	Links           *json.RawMessage `json:"links" swaggertype:"object"`
	PrivacySettings *json.RawMessage `json:"privacy_settings" swaggertype:"object"`
	Theme           *string          `json:"theme" binding:"omitempty,max=32"`
	MessagesEnabled *bool            `json:"messages_enabled"`
}

type UserService interface {
	GetProfile(ctx context.Context, viewerID, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) error
	Search(ctx context.Context, q string) ([]model.UserSummary, error)
}

type userService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	postRepo    repository.PostRepository
	relations   RelationshipService
	policy      visibility.Policy
	invalidator CacheInvalidator
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	relations RelationshipService,
	policy visibility.Policy,
	invalidator CacheInvalidator,
) UserService {
	return &userService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		postRepo:    postRepo,
		relations:   relations,
		policy:      policy,
		invalidator: orNoop(invalidator),
	}
}

func (s *userService) GetProfile(ctx context.Context, viewerID, username string) (*Profile, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	p := &Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		IsPrivate:   u.IsPrivate,
		IsVerified:  u.IsVerified,
		IsAdmin:     u.IsAdmin,
		Links:       rawJSON(u.Links),
		CreatedAt:   u.CreatedAt,
		IsOwn:       viewerID != visibility.Anonymous && viewerID == u.ID,
		Posts:       []model.PostView{},
	}
	if p.FollowersCount, err = s.followRepo.CountFollowers(ctx, u.ID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = s.followRepo.CountFollowings(ctx, u.ID); err != nil {
		return nil, err
	}
	if p.PostsCount, err = s.postRepo.CountByAuthor(ctx, u.ID); err != nil {
		return nil, err
	}

	if viewerID != visibility.Anonymous && !p.IsOwn {
		state, err := s.relations.FollowState(ctx, viewerID, u.ID)
		if err != nil {
			return nil, err
		}
		p.IsFollowing = state == model.FollowActive
		p.IsPending = state == model.FollowPending
	}

	rel, err := s.relations.Relation(ctx, viewerID, u.ID)
	if err != nil {
		return nil, err
	}
	meta := visibility.Post{AuthorBlocked: u.IsBlocked, AuthorPrivate: u.IsPrivate}
	if !s.policy.CanViewPost(rel, meta) {
		return p, nil
	}
	posts, err := s.postRepo.ListByAuthor(ctx, viewerID, u.ID, profilePostLimit)
	if err != nil {
		return nil, err
	}
	if posts != nil {
		p.Posts = posts
	}
	return p, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) error {
	fields := map[string]interface{}{}
	if req.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.IsPrivate != nil {
		fields["is_private"] = *req.IsPrivate
	}
	if req.Links != nil {
		if !json.Valid(*req.Links) {
			return errs.InvalidArgument("links must be valid JSON")
		}
		fields["links"] = string(*req.Links)
	}
	if req.PrivacySettings != nil {
		if !json.Valid(*req.PrivacySettings) {
			return errs.InvalidArgument("privacy_settings must be valid JSON")
		}
		fields["privacy_settings"] = string(*req.PrivacySettings)
	}
	if req.Theme != nil {
		fields["theme"] = *req.Theme
	}
	if req.MessagesEnabled != nil {
		fields["messages_enabled"] = *req.MessagesEnabled
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	s.invalidator.ProfileChanged(userID)
	return nil
}

func (s *userService) Search(ctx context.Context, q string) ([]model.UserSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.UserSummary{}, nil
	}
	users, err := s.userRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].Summary()
	}
	return out, nil
}

func rawJSON(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(s)
}
