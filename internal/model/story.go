package model

import "time"

// StoryVisibility 快拍可见范围
type StoryVisibility string

const (
	StoryAll       StoryVisibility = "all"
	StoryFollowers StoryVisibility = "followers"
	StoryMutual    StoryVisibility = "mutual"
)

func (v StoryVisibility) Valid() bool {
	return v == StoryAll || v == StoryFollowers || v == StoryMutual
}

// Story 限时内容，过期后对任何人不可见
type Story struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID    string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ImageURL   string          `gorm:"type:text;not null" json:"image_url"`
	Visibility StoryVisibility `gorm:"type:varchar(16);not null;default:'all'" json:"visibility"`
	ExpiresAt  time.Time       `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}

func (Story) TableName() string { return "stories" }

// StoryView 附带作者信息
type StoryView struct {
	Story
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}
