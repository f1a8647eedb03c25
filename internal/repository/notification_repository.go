package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, userID string, limit int) ([]model.NotificationView, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	WithTx(tx *gorm.DB) NotificationRepository
}

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	return wrapErr("create notification", r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]model.NotificationView, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []model.NotificationView
	err := r.db.WithContext(ctx).
		Table("notifications AS n").
		Select("n.*, u.username AS from_username, u.display_name AS from_display_name, u.avatar_url AS from_avatar").
		Joins("LEFT JOIN users AS u ON u.id = n.from_user_id").
		Where("n.user_id = ?", userID).
		Order("n.created_at DESC").Order("n.id DESC").
		Limit(limit).
		Scan(&res).Error
	return res, wrapErr("list notifications", err)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, wrapErr("mark notifications read", res.Error)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&cnt).Error
	return cnt, wrapErr("count unread notifications", err)
}
