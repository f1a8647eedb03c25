package model

import (
	"time"
)

// FollowStatus 关注边状态
type FollowStatus string

const (
	FollowNone     FollowStatus = "none" // 无记录，不落库
	FollowPending  FollowStatus = "pending"
	FollowActive   FollowStatus = "active"
	FollowRejected FollowStatus = "rejected"
	FollowRemoved  FollowStatus = "removed"
)

// Live pending/active 为存活状态
func (s FollowStatus) Live() bool { return s == FollowPending || s == FollowActive }

// Follow 关注关系（A 关注 B）
// 同一有序对最多一条存活边：ux_follow_live 为部分唯一索引。
// removed/rejected 行保留为历史，重新关注追加新行。
type Follow struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID  string       `gorm:"type:varchar(36);not null;index:idx_follow_follower;index:ux_follow_live,unique,where:status <> 'removed' AND status <> 'rejected'" json:"follower_id"`
	FollowingID string       `gorm:"type:varchar(36);not null;index:idx_follow_following;index:ux_follow_live,unique,where:status <> 'removed' AND status <> 'rejected'" json:"following_id"`
	Status      FollowStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Follow) TableName() string { return "follows" }
