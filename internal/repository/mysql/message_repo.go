package mysql

import (
	"context"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// ListByActivity 按创建时间正序，追加式时间线
func (r *MessageRepository) ListByActivity(ctx context.Context, activityID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
