package service

import (
	"context"
	"time"

	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/pkg"
	"Hingaa_Server/internal/repository/mysql"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.RequestOutbox) error

// OutboxRelayer 把事务内落表的生命周期事件异步投递到 Kafka。
// 失败记重试，成功标记已发，不阻塞写路径。
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       zerolog.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, log zerolog.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log,
	}
}

// Run 投递循环，ctx 取消即退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error().Err(err).Msg("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.Warn().Err(err).Uint64("outbox_id", ob.ID).Msg("outbox send failed")
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 按活动ID分区投递事件payload
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.RequestOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ActivityID), []byte(ob.Payload))
	}
}

// LogSender 无Kafka环境的降级 sender，只打日志
func LogSender(log zerolog.Logger) Sender {
	return func(ctx context.Context, ob *model.RequestOutbox) error {
		log.Info().
			Str("event", ob.EventType).
			Uint64("request_id", ob.RequestID).
			Uint64("activity_id", ob.ActivityID).
			Msg("outbox send")
		return nil
	}
}
