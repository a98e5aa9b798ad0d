package model

import "time"

// UserBlock 单向拉黑关系，仅在提交加入请求时生效
type UserBlock struct {
	ID        uint64 `gorm:"primaryKey"`
	BlockerID uint64 `gorm:"not null;index;uniqueIndex:uk_blocker_blocked"`
	BlockedID uint64 `gorm:"not null;index;uniqueIndex:uk_blocker_blocked"`
	CreatedAt time.Time
}

func (UserBlock) TableName() string { return "user_blocks" }
