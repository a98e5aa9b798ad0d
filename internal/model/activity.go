package model

import "time"

// 活动状态
const (
	ActivityStatusOpen        = "open"
	ActivityStatusRequestOnly = "request_only"
	ActivityStatusCompleted   = "completed"
)

type Activity struct {
	ID               uint64 `gorm:"primaryKey"`
	HostID           uint64 `gorm:"not null;index"`
	Title            string `gorm:"size:200;not null"`
	Description      string `gorm:"type:text"`
	Category         string `gorm:"size:32"`
	ParticipantLimit int    `gorm:"not null;default:10"`
	// 日期/时间可空，空表示待定
	ActivityDate *time.Time
	ActivityTime string   `gorm:"size:8"`
	LocationName string   `gorm:"size:128;not null"`
	Latitude     *float64 `gorm:"type:decimal(10,7)"`
	Longitude    *float64 `gorm:"type:decimal(10,7)"`
	ImageURL     string   `gorm:"size:255"`
	Status       string   `gorm:"size:16;not null;default:'open'"`
	// 冗余计数，由对账任务兜底
	MemberCount int64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Activity) TableName() string { return "activities" }
