package mysql

import (
	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func (r *ActivityRepository) Create(a *model.Activity) (*model.Activity, error) {
	err := r.DB.Create(a).Error
	return a, err
}

func (r *ActivityRepository) FindByID(id uint64) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.First(&a, id).Error
	return &a, err
}

// List 发现页列表，按创建时间倒序
func (r *ActivityRepository) List(offset, limit int) ([]model.Activity, error) {
	var list []model.Activity
	err := r.DB.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *ActivityRepository) FindByIDs(ids []uint64) ([]model.Activity, error) {
	var list []model.Activity
	if len(ids) == 0 {
		return list, nil
	}
	err := r.DB.Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *ActivityRepository) ListByHost(hostID uint64) ([]model.Activity, error) {
	var list []model.Activity
	err := r.DB.Where("host_id = ?", hostID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// HostOf 只取 host_id，submitJoin 的黑名单检查用
func (r *ActivityRepository) HostOf(activityID uint64) (uint64, error) {
	var a model.Activity
	if err := r.DB.Select("id", "host_id").First(&a, activityID).Error; err != nil {
		return 0, err
	}
	return a.HostID, nil
}

func (r *ActivityRepository) UpdateStatus(id uint64, status string) error {
	return r.DB.Model(&model.Activity{}).Where("id = ?", id).Update("status", status).Error
}
