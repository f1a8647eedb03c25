package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type StoryRepository interface {
	Create(ctx context.Context, s *model.Story) error
	// ListVisible viewer 可见的未过期快拍，按创建时间倒序；可见范围与屏蔽在 SQL 中判定
	ListVisible(ctx context.Context, viewerID string, now time.Time) ([]model.StoryView, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type storyRepository struct{ db *gorm.DB }

func NewStoryRepository(db *gorm.DB) StoryRepository { return &storyRepository{db: db} }

func (r *storyRepository) Create(ctx context.Context, s *model.Story) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return wrapErr("create story", r.db.WithContext(ctx).Create(s).Error)
}

func (r *storyRepository) ListVisible(ctx context.Context, viewerID string, now time.Time) ([]model.StoryView, error) {
	var res []model.StoryView
	err := r.db.WithContext(ctx).
		Table("stories AS s").
		Select("s.*, u.username, u.display_name, u.avatar_url, u.is_verified").
		Joins("JOIN users AS u ON u.id = s.owner_id").
		Where("s.expires_at > ?", now).
		// 作者本人始终可见自己的快拍（与帖子一致）
		Where("(s.owner_id = ? OR (u.is_blocked = ?"+
			" AND s.owner_id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = ?)"+
			" AND s.owner_id NOT IN (SELECT blocker_id FROM blocks WHERE blocked_id = ?)"+
			" AND (s.visibility = ?"+
			" OR (s.visibility = ? AND EXISTS ("+followExists+"))"+
			" OR (s.visibility = ? AND EXISTS ("+followExists+") AND EXISTS ("+followedExists+")))))",
			viewerID, false, viewerID, viewerID,
			model.StoryAll,
			model.StoryFollowers, viewerID, model.FollowActive,
			model.StoryMutual, viewerID, model.FollowActive, viewerID, model.FollowActive).
		Order("s.created_at DESC").Order("s.id DESC").
		Scan(&res).Error
	return res, wrapErr("list stories", err)
}

const (
	followExists   = "SELECT 1 FROM follows AS f WHERE f.follower_id = ? AND f.following_id = s.owner_id AND f.status = ?"
	followedExists = "SELECT 1 FROM follows AS f2 WHERE f2.follower_id = s.owner_id AND f2.following_id = ? AND f2.status = ?"
)

func (r *storyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", before).Delete(&model.Story{})
	return res.RowsAffected, wrapErr("delete expired stories", res.Error)
}
