package mysql

import (
	"context"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserBlockRepository struct {
	DB *gorm.DB
}

// Upsert 幂等插入：已存在 (blocker_id, blocked_id) 则不报错
func (r *UserBlockRepository) Upsert(ctx context.Context, blockerID, blockedID uint64) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
		DoNothing: true,
	}).Create(&model.UserBlock{BlockerID: blockerID, BlockedID: blockedID}).Error
}

// Delete 幂等删除，不存在也视为成功
func (r *UserBlockRepository) Delete(ctx context.Context, blockerID, blockedID uint64) error {
	return r.DB.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.UserBlock{}).Error
}

func (r *UserBlockRepository) Exists(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserBlockRepository) ListBlockedIDs(ctx context.Context, blockerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.UserBlock{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}
