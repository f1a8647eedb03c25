package model

import "time"

// LikeTarget 点赞对象类型
type LikeTarget string

const (
	LikeTargetPost    LikeTarget = "post"
	LikeTargetComment LikeTarget = "comment"
)

// Like 点赞；取消即删除行，(user, target_type, target_id) 唯一
type Like struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_target"`
	TargetType LikeTarget `gorm:"type:varchar(16);not null;uniqueIndex:ux_like_target;index:idx_like_target"`
	TargetID   string     `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_target;index:idx_like_target"`
	CreatedAt  time.Time
}

func (Like) TableName() string { return "likes" }

// Repost 转发；取消即删除行
type Repost struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:ux_repost_pair"`
	PostID    string `gorm:"type:varchar(36);not null;uniqueIndex:ux_repost_pair;index"`
	CreatedAt time.Time
}

func (Repost) TableName() string { return "reposts" }
