package mysql

import (
	"context"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
)

// MemberCountReconcilerRepo 活动成员数对账
type MemberCountReconcilerRepo struct {
	DB *gorm.DB
}

// CountPair 对账批次行
type CountPair struct {
	ID          uint64
	MemberCount int64
}

// ReconcileList 按ID游标批量取活动的冗余计数
func (r *MemberCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]CountPair, uint64, error) {
	var list []CountPair
	if err := r.DB.WithContext(ctx).Model(&model.Activity{}).
		Select("id", "member_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealMemberCount 从成员表查真实在籍人数
func (r *MemberCountReconcilerRepo) RealMemberCount(ctx context.Context, activityID uint64) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.ActivityMember{}).
		Where("activity_id = ? AND status = ?", activityID, model.MemberStatusActive).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Reconcile 用真实值覆盖冗余计数
func (r *MemberCountReconcilerRepo) Reconcile(ctx context.Context, activityID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.Activity{}).Where("id = ?", activityID).
		UpdateColumn("member_count", real).Error
}
