package mysql

import (
	"context"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// List 待投递事件查询，失败的在重试上限内继续投
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.RequestOutbox, error) {
	var list []model.RequestOutbox
	if err := r.DB.WithContext(ctx).
		Where("status <> 1 AND retry < 5").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败标记并累加重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.RequestOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功标记
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.RequestOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
