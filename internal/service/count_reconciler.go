package service

import (
	"context"
	"time"

	"Hingaa_Server/internal/repository/mysql"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MemberCountReconciler 定期把活动表的冗余成员计数和成员表真实值对齐。
// 缓存删除失败、并发窗口脏写都由它兜底。
type MemberCountReconciler struct {
	repo      *mysql.MemberCountReconcilerRepo
	batchSize int
	interval  time.Duration
	log       zerolog.Logger
}

func NewMemberCountReconciler(db *gorm.DB, log zerolog.Logger) *MemberCountReconciler {
	return &MemberCountReconciler{
		repo:      &mysql.MemberCountReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
		log:       log,
	}
}

// Run 对账循环
func (r *MemberCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

func (r *MemberCountReconciler) reconcileOnce(ctx context.Context) {
	var lastID uint64
	for {
		pairs, next, err := r.repo.ReconcileList(ctx, r.batchSize, lastID)
		if err != nil {
			r.log.Error().Err(err).Msg("reconcile list failed")
			return
		}
		if len(pairs) == 0 {
			return
		}
		for _, p := range pairs {
			real, err := r.repo.RealMemberCount(ctx, p.ID)
			if err != nil {
				continue
			}
			if real != p.MemberCount {
				r.log.Info().
					Uint64("activity_id", p.ID).
					Int64("stored", p.MemberCount).
					Int64("real", real).
					Msg("member count drift corrected")
				_ = r.repo.Reconcile(ctx, p.ID, real)
			}
		}
		lastID = next
	}
}
