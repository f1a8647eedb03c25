package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, viewerID, postID string) ([]model.CommentView, error)
	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository { return &commentRepository{db: tx} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return wrapErr("create comment", r.db.WithContext(ctx).Create(c).Error)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, wrapErr("get comment", err)
	}
	return &c, nil
}

// ListByPost 按时间正序；liked_by_author 表示帖子作者是否赞过该评论
func (r *commentRepository) ListByPost(ctx context.Context, viewerID, postID string) ([]model.CommentView, error) {
	var res []model.CommentView
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select(`c.id, c.post_id, c.author_id, c.parent_id, c.content, c.created_at,
			u.username, u.display_name, u.avatar_url, u.is_verified,
			p.author_id AS post_author_id,
			(SELECT COUNT(*) FROM likes AS l WHERE l.target_type = ? AND l.target_id = c.id) AS likes_count,
			EXISTS (SELECT 1 FROM likes AS l WHERE l.target_type = ? AND l.target_id = c.id AND l.user_id = ?) AS is_liked,
			EXISTS (SELECT 1 FROM likes AS l WHERE l.target_type = ? AND l.target_id = c.id AND l.user_id = p.author_id) AS liked_by_author`,
			model.LikeTargetComment, model.LikeTargetComment, viewerID, model.LikeTargetComment).
		Joins("JOIN users AS u ON u.id = c.author_id").
		Joins("JOIN posts AS p ON p.id = c.post_id").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC").Order("c.id ASC").
		Scan(&res).Error
	return res, wrapErr("list comments", err)
}
