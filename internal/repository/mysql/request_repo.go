package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Hingaa_Server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotPending = errors.New("request is not pending")
	ErrNotActivityHost   = errors.New("not the activity host")
)

type JoinRequestRepository struct {
	DB *gorm.DB
}

// Upsert 以 (activity_id, user_id) 为冲突键写入 pending 请求。
// 终态行会被覆盖成新的 pending，重复提交等价于无操作覆盖。
func (r *JoinRequestRepository) Upsert(ctx context.Context, activityID, userID, hostID uint64) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &model.JoinRequest{
			ActivityID: activityID,
			UserID:     userID,
			Status:     model.RequestStatusPending,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "activity_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     model.RequestStatusPending,
				"updated_at": time.Now(),
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		// 冲突覆盖时 Create 不回填主键，重读拿到真实行
		if err := tx.Where("activity_id = ? AND user_id = ?", activityID, userID).First(&req).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventRequestSubmitted, &req, hostID)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *JoinRequestRepository) FindByID(ctx context.Context, id uint64) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := r.DB.WithContext(ctx).First(&req, id).Error
	return &req, err
}

// Withdraw 仅撤回本人 pending 的请求。影响0行时静默成功，不报错。
func (r *JoinRequestRepository) Withdraw(ctx context.Context, requestID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.JoinRequest{}).
			Where("id = ? AND user_id = ? AND status = ?", requestID, userID, model.RequestStatusPending).
			Update("status", model.RequestStatusWithdrawn)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var req model.JoinRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		var act model.Activity
		if err := tx.Select("id", "host_id").First(&act, req.ActivityID).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventRequestWithdrawn, &req, act.HostID)
	})
}

// Approve 单事务：pending->approved + 成员激活 + 活动计数 + outbox。
// 任一步失败整体回滚，请求保持 pending。
func (r *JoinRequestRepository) Approve(ctx context.Context, requestID, hostID uint64) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		var act model.Activity
		if err := tx.Select("id", "host_id").First(&act, req.ActivityID).Error; err != nil {
			return err
		}
		if act.HostID != hostID {
			return ErrNotActivityHost
		}

		// 状态谓词保证重复同意是无操作，不会产生第二条成员行
		res := tx.Model(&model.JoinRequest{}).
			Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
			Update("status", model.RequestStatusApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotPending
		}
		req.Status = model.RequestStatusApproved

		changed, err := activateMember(tx, req.ActivityID, req.UserID)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Model(&model.Activity{}).
				Where("id = ?", req.ActivityID).
				UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
				return err
			}
		}

		return insertOutbox(tx, model.EventRequestApproved, &req, hostID)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Decline 单事务：pending->declined + outbox。计数器递增由服务层做。
func (r *JoinRequestRepository) Decline(ctx context.Context, requestID, hostID uint64) (*model.JoinRequest, error) {
	var req model.JoinRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		var act model.Activity
		if err := tx.Select("id", "host_id").First(&act, req.ActivityID).Error; err != nil {
			return err
		}
		if act.HostID != hostID {
			return ErrNotActivityHost
		}

		res := tx.Model(&model.JoinRequest{}).
			Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
			Update("status", model.RequestStatusDeclined)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotPending
		}
		req.Status = model.RequestStatusDeclined

		return insertOutbox(tx, model.EventRequestDeclined, &req, hostID)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListOutgoing 请求者视角的 pending 请求
func (r *JoinRequestRepository) ListOutgoing(ctx context.Context, userID uint64) ([]model.JoinRequest, error) {
	var list []model.JoinRequest
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.RequestStatusPending).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// ListIncoming 主办方视角：自己所有活动上的 pending 请求
func (r *JoinRequestRepository) ListIncoming(ctx context.Context, hostID uint64) ([]model.JoinRequest, error) {
	var list []model.JoinRequest
	err := r.DB.WithContext(ctx).
		Joins("JOIN activities ON activities.id = join_requests.activity_id").
		Where("activities.host_id = ? AND join_requests.status = ?", hostID, model.RequestStatusPending).
		Order("join_requests.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *JoinRequestRepository) CountByStatus(ctx context.Context, activityID uint64, status string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.JoinRequest{}).
		Where("activity_id = ? AND status = ?", activityID, status).
		Count(&n).Error
	return n, err
}

// activateMember 幂等激活成员，返回是否真的从无到有/从removed到active
func activateMember(tx *gorm.DB, activityID, userID uint64) (bool, error) {
	var m model.ActivityMember
	err := tx.Where("activity_id = ? AND user_id = ?", activityID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m = model.ActivityMember{
				ActivityID: activityID,
				UserID:     userID,
				Role:       model.MemberRoleMember,
				Status:     model.MemberStatusActive,
			}
			if err = tx.Create(&m).Error; err != nil {
				return false, err
			}
			return true, nil
		}
		return false, err
	}
	if m.Status == model.MemberStatusActive {
		return false, nil
	}
	if err := tx.Model(&model.ActivityMember{}).
		Where("id = ? AND status = ?", m.ID, model.MemberStatusRemoved).
		Update("status", model.MemberStatusActive).Error; err != nil {
		return false, err
	}
	return true, nil
}

func insertOutbox(tx *gorm.DB, event string, req *model.JoinRequest, hostID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
		"request_id":  req.ID,
		"activity_id": req.ActivityID,
		"host_id":     hostID,
		"user_id":     req.UserID,
		"status":      req.Status,
	})
	ob := &model.RequestOutbox{
		EventType:  event,
		RequestID:  req.ID,
		ActivityID: req.ActivityID,
		HostID:     hostID,
		UserID:     req.UserID,
		Payload:    string(payload),
		Status:     0,
	}
	return tx.Create(ob).Error
}
