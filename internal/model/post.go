package model

import "time"

// Post 帖子；删除为软删除 is_removed
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AuthorID  string    `gorm:"type:varchar(36);not null;index:idx_post_author" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"type:text" json:"image_url"`
	IsRemoved bool      `gorm:"not null;default:false;index" json:"is_removed"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PostView 带作者信息与计数的帖子
type PostView struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"user_id"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url"`
	IsVerified    bool      `json:"is_verified"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	RepostsCount  int64     `json:"reposts_count"`
	IsLiked       bool      `json:"is_liked"`
	IsReposted    bool      `json:"is_reposted"`
}
