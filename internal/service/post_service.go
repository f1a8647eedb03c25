package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
)

// CreatePostRequest 发帖请求，content 与 image_url 至少一项
type CreatePostRequest struct {
	Content  string `json:"content" binding:"max=5000"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

type PostService interface {
	Create(ctx context.Context, author *model.User, req *CreatePostRequest) (*model.PostView, error)
	Get(ctx context.Context, viewerID, postID string) (*model.PostView, error)
	// Remove 作者本人或管理员
	Remove(ctx context.Context, actor *model.User, postID string) error
	Feed(ctx context.Context, viewerID string, page int) ([]model.PostView, error)
	// Visible 供评论/点赞前校验帖子可见
	Visible(ctx context.Context, viewerID, postID string) (*repository.PostMeta, error)
}

type postService struct {
	postRepo  repository.PostRepository
	relations RelationshipService
	policy    visibility.Policy
	pageSize  int
}

func NewPostService(postRepo repository.PostRepository, relations RelationshipService, policy visibility.Policy, pageSize int) PostService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &postService{postRepo: postRepo, relations: relations, policy: policy, pageSize: pageSize}
}

func (s *postService) Create(ctx context.Context, author *model.User, req *CreatePostRequest) (*model.PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return nil, ErrEmptyPost
	}
	p := &model.Post{AuthorID: author.ID, Content: content, ImageURL: req.ImageURL}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &model.PostView{
		ID:          p.ID,
		AuthorID:    author.ID,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		Username:    author.Username,
		DisplayName: author.DisplayName,
		AvatarURL:   author.AvatarURL,
		IsVerified:  author.IsVerified,
	}, nil
}

func (s *postService) Visible(ctx context.Context, viewerID, postID string) (*repository.PostMeta, error) {
	meta, err := s.postRepo.GetMeta(ctx, postID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	rel, err := s.relations.Relation(ctx, viewerID, meta.AuthorID)
	if err != nil {
		return nil, err
	}
	ok := s.policy.CanViewPost(rel, visibility.Post{
		Removed:       meta.IsRemoved,
		AuthorBlocked: meta.AuthorBlocked,
		AuthorPrivate: meta.AuthorPrivate,
	})
	if !ok {
		return nil, ErrPostNotFound
	}
	return meta, nil
}

func (s *postService) Get(ctx context.Context, viewerID, postID string) (*model.PostView, error) {
	if _, err := s.Visible(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	v, err := s.postRepo.GetView(ctx, viewerID, postID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return v, nil
}

func (s *postService) Remove(ctx context.Context, actor *model.User, postID string) error {
	meta, err := s.postRepo.GetMeta(ctx, postID)
	if err != nil {
		return notFoundAs(err, ErrPostNotFound)
	}
	if meta.AuthorID != actor.ID && !actor.IsAdmin {
		return ErrNoPermission
	}
	n, err := s.postRepo.MarkRemoved(ctx, postID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *postService) Feed(ctx context.Context, viewerID string, page int) ([]model.PostView, error) {
	offset, limit := pageOffset(page, s.pageSize)
	posts, err := s.postRepo.Feed(ctx, repository.FeedQuery{
		ViewerID:            viewerID,
		Offset:              offset,
		Limit:               limit,
		EnforcePrivatePosts: s.policy.EnforcePrivatePosts,
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.PostView{}
	}
	return posts, nil
}
