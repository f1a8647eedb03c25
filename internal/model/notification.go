package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotifyFollow         NotificationType = "follow"
	NotifyFollowRequest  NotificationType = "follow_request"
	NotifyFollowAccepted NotificationType = "follow_accepted"
	NotifyLike           NotificationType = "like"
	NotifyComment        NotificationType = "comment"
	NotifyMessage        NotificationType = "message"
)

type Notification struct {
	ID         string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string           `gorm:"type:varchar(36);not null;index:idx_notify_user" json:"user_id"`
	Type       NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	FromUserID string           `gorm:"type:varchar(36)" json:"from_user_id"`
	PostID     *string          `gorm:"type:varchar(36)" json:"post_id"`
	CommentID  *string          `gorm:"type:varchar(36)" json:"comment_id"`
	Content    string           `gorm:"type:text" json:"content"`
	IsRead     bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time        `gorm:"index:idx_notify_user" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationView 附带发起人信息
type NotificationView struct {
	Notification
	FromUsername    string `json:"from_username"`
	FromDisplayName string `json:"from_display_name"`
	FromAvatar      string `json:"from_avatar"`
}
