package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

// AddCommentRequest 评论请求
type AddCommentRequest struct {
	PostID   string  `json:"post_id" binding:"required"`
	Content  string  `json:"content" binding:"required,max=2000"`
	ParentID *string `json:"parent_id"`
}

// LikeRequest post_id 与 comment_id 二选一，comment_id 优先
type LikeRequest struct {
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id"`
}

// ToggleResult 点赞/转发切换结果
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count,omitempty"`
}

// InteractionService 评论、点赞、转发
type InteractionService interface {
	AddComment(ctx context.Context, author *model.User, req *AddCommentRequest) (*model.CommentView, error)
	ListComments(ctx context.Context, viewerID, postID string) ([]model.CommentView, error)
	ToggleLike(ctx context.Context, userID string, req *LikeRequest) (*ToggleResult, error)
	ToggleRepost(ctx context.Context, userID, postID string) (*ToggleResult, error)
}

type interactionService struct {
	db          *gorm.DB
	posts       PostService
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	notifyRepo  repository.NotificationRepository
}

func NewInteractionService(
	db *gorm.DB,
	posts PostService,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	notifyRepo repository.NotificationRepository,
) InteractionService {
	return &interactionService{db: db, posts: posts, commentRepo: commentRepo, likeRepo: likeRepo, notifyRepo: notifyRepo}
}

func (s *interactionService) AddComment(ctx context.Context, author *model.User, req *AddCommentRequest) (*model.CommentView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	meta, err := s.posts.Visible(ctx, author.ID, req.PostID)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	c := &model.Comment{PostID: meta.ID, AuthorID: author.ID, ParentID: req.ParentID, Content: content}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)
		if c.ParentID != nil {
			parent, err := comments.GetByID(ctx, *c.ParentID)
			if err != nil {
				return notFoundAs(err, ErrCommentNotFound)
			}
			if parent.PostID != meta.ID {
				return errs.InvalidArgument("parent comment belongs to another post")
			}
		}
		if err := comments.Create(ctx, c); err != nil {
			return err
		}
		if meta.AuthorID == author.ID {
			return nil
		}
		return s.notifyRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:     meta.AuthorID,
			Type:       model.NotifyComment,
			FromUserID: author.ID,
			PostID:     &c.PostID,
			CommentID:  &c.ID,
			Content:    truncate(content, 100),
		})
	})
	if err != nil {
		return nil, err
	}
	return &model.CommentView{
		ID:           c.ID,
		PostID:       c.PostID,
		AuthorID:     author.ID,
		ParentID:     c.ParentID,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
		Username:     author.Username,
		DisplayName:  author.DisplayName,
		AvatarURL:    author.AvatarURL,
		IsVerified:   author.IsVerified,
		PostAuthorID: meta.AuthorID,
	}, nil
}

func (s *interactionService) ListComments(ctx context.Context, viewerID, postID string) ([]model.CommentView, error) {
	if _, err := s.posts.Visible(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	res, err := s.commentRepo.ListByPost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.CommentView{}
	}
	return res, nil
}

// ToggleLike 已赞则删除，否则新建；赞别人的帖子会通知作者
func (s *interactionService) ToggleLike(ctx context.Context, userID string, req *LikeRequest) (*ToggleResult, error) {
	var (
		target   model.LikeTarget
		targetID string
		notifyTo string
		postID   string
	)
	switch {
	case req.CommentID != "":
		c, err := s.commentRepo.GetByID(ctx, req.CommentID)
		if err != nil {
			return nil, notFoundAs(err, ErrCommentNotFound)
		}
		if _, err := s.posts.Visible(ctx, userID, c.PostID); err != nil {
			return nil, err
		}
		target, targetID = model.LikeTargetComment, c.ID
	case req.PostID != "":
		meta, err := s.posts.Visible(ctx, userID, req.PostID)
		if err != nil {
			return nil, err
		}
		target, targetID = model.LikeTargetPost, meta.ID
		postID = meta.ID
		if meta.AuthorID != userID {
			notifyTo = meta.AuthorID
		}
	default:
		return nil, ErrLikeTarget
	}

	res := &ToggleResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := s.likeRepo.WithTx(tx)
		existing, err := likes.FindLike(ctx, userID, target, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			_, err := likes.DeleteLike(ctx, existing.ID)
			return err
		}
		if err := likes.CreateLike(ctx, &model.Like{UserID: userID, TargetType: target, TargetID: targetID}); err != nil {
			return err
		}
		res.Active = true
		if notifyTo == "" {
			return nil
		}
		return s.notifyRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:     notifyTo,
			Type:       model.NotifyLike,
			FromUserID: userID,
			PostID:     &postID,
		})
	})
	if err != nil {
		return nil, err
	}
	if res.Count, err = s.likeRepo.CountLikes(ctx, target, targetID); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *interactionService) ToggleRepost(ctx context.Context, userID, postID string) (*ToggleResult, error) {
	meta, err := s.posts.Visible(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	res := &ToggleResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := s.likeRepo.WithTx(tx)
		existing, err := likes.FindRepost(ctx, userID, meta.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			_, err := likes.DeleteRepost(ctx, existing.ID)
			return err
		}
		res.Active = true
		return likes.CreateRepost(ctx, &model.Repost{UserID: userID, PostID: meta.ID})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
