package model

import "time"

// Block 屏蔽（blocker 屏蔽 blocked），存在即生效
type Block struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	BlockerID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_block_pair;index:idx_block_blocker"`
	BlockedID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_block_pair;index:idx_block_blocked"`
	CreatedAt time.Time
}

func (Block) TableName() string { return "blocks" }
