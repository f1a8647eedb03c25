package model

import "time"

// Message 私信；双方各自隐藏
type Message struct {
	ID               string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SenderID         string     `gorm:"type:varchar(36);not null;index:idx_msg_pair" json:"sender_id"`
	ReceiverID       string     `gorm:"type:varchar(36);not null;index:idx_msg_pair;index" json:"receiver_id"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	ReplyToID        *string    `gorm:"type:varchar(36)" json:"reply_to_id"`
	IsRead           bool       `gorm:"not null;default:false" json:"is_read"`
	IsPinned         bool       `gorm:"not null;default:false" json:"is_pinned"`
	HiddenBySender   bool       `gorm:"not null;default:false" json:"-"`
	HiddenByReceiver bool       `gorm:"not null;default:false" json:"-"`
	EditedAt         *time.Time `json:"edited_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// ChatPreview 会话列表项
type ChatPreview struct {
	User        UserSummary `json:"user"`
	LastMessage Message     `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}
