package model

import "time"

// 请求生命周期事件类型
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestApproved  = "request_approved"
	EventRequestDeclined  = "request_declined"
	EventRequestWithdrawn = "request_withdrawn"
	EventMemberRemoved    = "member_removed"
)

// RequestOutbox 生命周期事件监控表
type RequestOutbox struct {
	ID         uint64 `gorm:"primaryKey"`
	EventType  string `gorm:"size:32;not null"`
	RequestID  uint64 `gorm:"not null"`
	ActivityID uint64 `gorm:"not null"`
	HostID     uint64 `gorm:"not null"`
	UserID     uint64 `gorm:"not null"`
	Payload    string `gorm:"type:json;not null"`
	Status     int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry      int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (RequestOutbox) TableName() string { return "request_outbox" }
