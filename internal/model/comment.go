package model

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;index" json:"post_id"`
	AuthorID  string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ParentID  *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// CommentView 评论及点赞信息
type CommentView struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id"`
	AuthorID      string    `json:"user_id"`
	ParentID      *string   `json:"parent_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url"`
	IsVerified    bool      `json:"is_verified"`
	LikesCount    int64     `json:"likes_count"`
	IsLiked       bool      `json:"is_liked"`
	PostAuthorID  string    `json:"post_author_id"`
	LikedByAuthor bool      `json:"liked_by_author"`
}
