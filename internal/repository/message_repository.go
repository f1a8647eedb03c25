package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	// Thread 双方会话，按时间正序，过滤本人已隐藏的消息
	Thread(ctx context.Context, userID, otherID string, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID string) (int64, error)
	// Recent 本人可见的最近消息，按时间倒序
	Recent(ctx context.Context, userID string, limit int) ([]model.Message, error)
	UnreadFrom(ctx context.Context, senderID, receiverID string) (int64, error)
	Edit(ctx context.Context, id, senderID, content string, at time.Time) (int64, error)
	TogglePin(ctx context.Context, id, userID string) (int64, error)
	HideForSender(ctx context.Context, id string) (int64, error)
	HideForReceiver(ctx context.Context, id string) (int64, error)
	ClearChat(ctx context.Context, userID, otherID string) error
	WithTx(tx *gorm.DB) MessageRepository
}

type messageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) WithTx(tx *gorm.DB) MessageRepository { return &messageRepository{db: tx} }

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return wrapErr("create message", r.db.WithContext(ctx).Create(m).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, wrapErr("get message", err)
	}
	return &m, nil
}

func (r *messageRepository) Thread(ctx context.Context, userID, otherID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var res []model.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ? AND hidden_by_sender = ?) OR (sender_id = ? AND receiver_id = ? AND hidden_by_receiver = ?)",
			userID, otherID, false, otherID, userID, false).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, wrapErr("message thread", err)
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, wrapErr("mark messages read", res.Error)
}

func (r *messageRepository) Recent(ctx context.Context, userID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 1000
	}
	var res []model.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND hidden_by_sender = ?) OR (receiver_id = ? AND hidden_by_receiver = ?)", userID, false, userID, false).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&res).Error
	return res, wrapErr("recent messages", err)
}

func (r *messageRepository) UnreadFrom(ctx context.Context, senderID, receiverID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&cnt).Error
	return cnt, wrapErr("count unread", err)
}

func (r *messageRepository) Edit(ctx context.Context, id, senderID, content string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND sender_id = ?", id, senderID).
		Updates(map[string]interface{}{"content": content, "edited_at": at})
	return res.RowsAffected, wrapErr("edit message", res.Error)
}

func (r *messageRepository) TogglePin(ctx context.Context, id, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND (sender_id = ? OR receiver_id = ?)", id, userID, userID).
		Update("is_pinned", gorm.Expr("NOT is_pinned"))
	return res.RowsAffected, wrapErr("pin message", res.Error)
}

func (r *messageRepository) HideForSender(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("hidden_by_sender", true)
	return res.RowsAffected, wrapErr("hide message", res.Error)
}

func (r *messageRepository) HideForReceiver(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("hidden_by_receiver", true)
	return res.RowsAffected, wrapErr("hide message", res.Error)
}

func (r *messageRepository) ClearChat(ctx context.Context, userID, otherID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("sender_id = ? AND receiver_id = ?", userID, otherID).
			Update("hidden_by_sender", true).Error; err != nil {
			return wrapErr("clear chat", err)
		}
		return wrapErr("clear chat", tx.Model(&model.Message{}).
			Where("sender_id = ? AND receiver_id = ?", otherID, userID).
			Update("hidden_by_receiver", true).Error)
	})
}
