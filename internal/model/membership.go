package model

import "time"

const (
	MemberRoleMember = 0
	MemberRoleHost   = 1

	MemberStatusActive  = 0
	MemberStatusRemoved = 1
)

// ActivityMember 软删除生命周期：removed 不物理删除
type ActivityMember struct {
	ID         uint64 `gorm:"primaryKey"`
	ActivityID uint64 `gorm:"not null;index;uniqueIndex:uk_activity_member"`
	UserID     uint64 `gorm:"not null;index;uniqueIndex:uk_activity_member"`
	Role       int    `gorm:"not null;default:0"` // 0=member, 1=host
	Status     int    `gorm:"not null;default:0"` // 0=active, 1=removed
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ActivityMember) TableName() string { return "activity_members" }
