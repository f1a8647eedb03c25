package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

// FeedQuery 时间线查询参数
type FeedQuery struct {
	ViewerID            string
	Offset              int
	Limit               int
	EnforcePrivatePosts bool
}

// PostMeta 可见性判断需要的帖子与作者状态
type PostMeta struct {
	ID            string
	AuthorID      string
	IsRemoved     bool
	AuthorBlocked bool
	AuthorPrivate bool
}

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetMeta(ctx context.Context, id string) (*PostMeta, error)
	GetView(ctx context.Context, viewerID, id string) (*model.PostView, error)
	Feed(ctx context.Context, q FeedQuery) ([]model.PostView, error)
	ListByAuthor(ctx context.Context, viewerID, authorID string, limit int) ([]model.PostView, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	MarkRemoved(ctx context.Context, id string) (int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return wrapErr("create post", r.db.WithContext(ctx).Create(p).Error)
}

func (r *postRepository) GetMeta(ctx context.Context, id string) (*PostMeta, error) {
	var m PostMeta
	err := r.db.WithContext(ctx).
		Table("posts AS p").
		Select("p.id, p.author_id, p.is_removed, u.is_blocked AS author_blocked, u.is_private AS author_private").
		Joins("JOIN users AS u ON u.id = p.author_id").
		Where("p.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, wrapErr("get post", err)
	}
	return &m, nil
}

// viewQuery 带计数与 viewer 状态的帖子查询（全部参数化）
func (r *postRepository) viewQuery(ctx context.Context, viewerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts AS p").
		Select(`p.id, p.author_id, p.content, p.image_url, p.created_at,
			u.username, u.display_name, u.avatar_url, u.is_verified,
			(SELECT COUNT(*) FROM likes AS l WHERE l.target_type = ? AND l.target_id = p.id) AS likes_count,
			(SELECT COUNT(*) FROM comments AS c WHERE c.post_id = p.id) AS comments_count,
			(SELECT COUNT(*) FROM reposts AS rp WHERE rp.post_id = p.id) AS reposts_count,
			EXISTS (SELECT 1 FROM likes AS l WHERE l.target_type = ? AND l.target_id = p.id AND l.user_id = ?) AS is_liked,
			EXISTS (SELECT 1 FROM reposts AS rp WHERE rp.post_id = p.id AND rp.user_id = ?) AS is_reposted`,
			model.LikeTargetPost, model.LikeTargetPost, viewerID, viewerID).
		Joins("JOIN users AS u ON u.id = p.author_id")
}

func (r *postRepository) GetView(ctx context.Context, viewerID, id string) (*model.PostView, error) {
	var v model.PostView
	if err := r.viewQuery(ctx, viewerID).Where("p.id = ? AND p.is_removed = ?", id, false).Take(&v).Error; err != nil {
		return nil, wrapErr("get post view", err)
	}
	return &v, nil
}

// Feed 全站时间线：排除已删除、被封禁作者、以及与 viewer 任一方向存在屏蔽的作者
func (r *postRepository) Feed(ctx context.Context, q FeedQuery) ([]model.PostView, error) {
	offset, limit := pageBounds(q.Offset, q.Limit)
	db := r.viewQuery(ctx, q.ViewerID).
		Where("p.is_removed = ? AND (u.is_blocked = ? OR p.author_id = ?)", false, false, q.ViewerID).
		Where("p.author_id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = ?)", q.ViewerID).
		Where("p.author_id NOT IN (SELECT blocker_id FROM blocks WHERE blocked_id = ?)", q.ViewerID)
	if q.EnforcePrivatePosts {
		db = db.Where(`(u.is_private = ? OR p.author_id = ? OR EXISTS (
			SELECT 1 FROM follows AS f WHERE f.follower_id = ? AND f.following_id = p.author_id AND f.status = ?))`,
			false, q.ViewerID, q.ViewerID, model.FollowActive)
	}
	var res []model.PostView
	err := db.Order("p.created_at DESC").Order("p.id DESC").Offset(offset).Limit(limit).Scan(&res).Error
	return res, wrapErr("feed", err)
}

func (r *postRepository) ListByAuthor(ctx context.Context, viewerID, authorID string, limit int) ([]model.PostView, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []model.PostView
	err := r.viewQuery(ctx, viewerID).
		Where("p.author_id = ? AND p.is_removed = ?", authorID, false).
		Order("p.created_at DESC").
		Limit(limit).
		Scan(&res).Error
	return res, wrapErr("list posts by author", err)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ? AND is_removed = ?", authorID, false).Count(&cnt).Error
	return cnt, wrapErr("count posts", err)
}

func (r *postRepository) MarkRemoved(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("is_removed", true)
	return res.RowsAffected, wrapErr("remove post", res.Error)
}
