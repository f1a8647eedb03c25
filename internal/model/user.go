package model

import "time"

// User 账户；只在注册时创建，标记位由本人或管理员修改
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName     string    `gorm:"type:varchar(128)" json:"display_name"`
	Bio             string    `gorm:"type:text" json:"bio"`
	AvatarURL       string    `gorm:"type:text" json:"avatar_url"`
	Links           string    `gorm:"type:text;default:'{}'" json:"links"`
	PrivacySettings string    `gorm:"type:text;default:'{}'" json:"privacy_settings"`
	Theme           string    `gorm:"type:varchar(32);default:'light'" json:"theme"`
	IsPrivate       bool      `gorm:"not null;default:false" json:"is_private"`
	IsBlocked       bool      `gorm:"not null;default:false;index" json:"is_blocked"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"is_admin"`
	IsVerified      bool      `gorm:"not null;default:false" json:"is_verified"`
	MessagesEnabled bool      `gorm:"not null;default:true" json:"messages_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 列表/卡片中展示的用户字段
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL, IsVerified: u.IsVerified}
}
