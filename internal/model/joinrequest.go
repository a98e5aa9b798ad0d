package model

import "time"

// 加入请求状态机：pending -> approved / declined / withdrawn
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusDeclined  = "declined"
	RequestStatusWithdrawn = "withdrawn"
)

type JoinRequest struct {
	ID         uint64 `gorm:"primaryKey"`
	ActivityID uint64 `gorm:"not null;index;uniqueIndex:uk_activity_user"`
	UserID     uint64 `gorm:"not null;index;uniqueIndex:uk_activity_user"`
	Status     string `gorm:"size:16;not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (JoinRequest) TableName() string { return "join_requests" }
