package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

// LikeRepository 点赞与转发；取消即删除行
type LikeRepository interface {
	FindLike(ctx context.Context, userID string, target model.LikeTarget, targetID string) (*model.Like, error)
	CreateLike(ctx context.Context, l *model.Like) error
	DeleteLike(ctx context.Context, id string) (int64, error)
	CountLikes(ctx context.Context, target model.LikeTarget, targetID string) (int64, error)

	FindRepost(ctx context.Context, userID, postID string) (*model.Repost, error)
	CreateRepost(ctx context.Context, rp *model.Repost) error
	DeleteRepost(ctx context.Context, id string) (int64, error)

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository { return &likeRepository{db: tx} }

func (r *likeRepository) FindLike(ctx context.Context, userID string, target model.LikeTarget, targetID string) (*model.Like, error) {
	q := lockForUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID)
	return firstOrNil[model.Like](q, "find like")
}

func (r *likeRepository) CreateLike(ctx context.Context, l *model.Like) error {
	if l.ID == "" {
		l.ID = newID()
	}
	return wrapErr("create like", r.db.WithContext(ctx).Create(l).Error)
}

func (r *likeRepository) DeleteLike(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Like{})
	return res.RowsAffected, wrapErr("delete like", res.Error)
}

func (r *likeRepository) CountLikes(ctx context.Context, target model.LikeTarget, targetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", target, targetID).Count(&cnt).Error
	return cnt, wrapErr("count likes", err)
}

func (r *likeRepository) FindRepost(ctx context.Context, userID, postID string) (*model.Repost, error) {
	q := lockForUpdate(r.db.WithContext(ctx)).Where("user_id = ? AND post_id = ?", userID, postID)
	return firstOrNil[model.Repost](q, "find repost")
}

func (r *likeRepository) CreateRepost(ctx context.Context, rp *model.Repost) error {
	if rp.ID == "" {
		rp.ID = newID()
	}
	return wrapErr("create repost", r.db.WithContext(ctx).Create(rp).Error)
}

func (r *likeRepository) DeleteRepost(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Repost{})
	return res.RowsAffected, wrapErr("delete repost", res.Error)
}
