package model

import "time"

// Message 活动群聊消息，只追加
type Message struct {
	ID         uint64 `gorm:"primaryKey"`
	ActivityID uint64 `gorm:"not null;index:idx_activity_time,priority:1"`
	SenderID   uint64 `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index:idx_activity_time,priority:2"`
}

func (Message) TableName() string { return "messages" }
