package mysql

import (
	"context"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
)

type ActivityMemberRepository struct {
	DB *gorm.DB
}

// MemberRow 成员投影行，带资料展示字段
type MemberRow struct {
	UserID    uint64
	FullName  string
	AvatarURL string
	Role      int
}

// ListActive 活动的在籍成员，连用户表取展示资料
func (r *ActivityMemberRepository) ListActive(ctx context.Context, activityID uint64) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).Model(&model.ActivityMember{}).
		Select("activity_members.user_id", "users.full_name", "users.avatar_url", "activity_members.role").
		Joins("JOIN users ON users.id = activity_members.user_id").
		Where("activity_members.activity_id = ? AND activity_members.status = ?", activityID, model.MemberStatusActive).
		Order("activity_members.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ActivityMemberRepository) CountActive(ctx context.Context, activityID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ActivityMember{}).
		Where("activity_id = ? AND status = ?", activityID, model.MemberStatusActive).
		Count(&n).Error
	return n, err
}

func (r *ActivityMemberRepository) IsActiveMember(ctx context.Context, activityID, userID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ActivityMember{}).
		Where("activity_id = ? AND user_id = ? AND status = ?", activityID, userID, model.MemberStatusActive).
		Count(&n).Error
	return n > 0, err
}

// Remove 软移除 + 活动计数回减，同一事务。已移除时为幂等无操作。
func (r *ActivityMemberRepository) Remove(ctx context.Context, activityID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ActivityMember{}).
			Where("activity_id = ? AND user_id = ? AND status = ?", activityID, userID, model.MemberStatusActive).
			Update("status", model.MemberStatusRemoved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		// 计数防负数由对账任务兜底
		return tx.Model(&model.Activity{}).
			Where("id = ? AND member_count > 0", activityID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
	})
	return changed, err
}

// ListActivityIDs 某用户在籍的活动ID列表
func (r *ActivityMemberRepository) ListActivityIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.ActivityMember{}).
		Where("user_id = ? AND status = ?", userID, model.MemberStatusActive).
		Pluck("activity_id", &ids).Error
	return ids, err
}
