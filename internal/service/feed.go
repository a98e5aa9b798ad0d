package service

import (
	"context"
	"time"

	"Hingaa_Server/internal/repository/redis"
)

// FeedPublisher 变更通知出口，nil 时服务静默跳过（测试或无Redis环境）
type FeedPublisher interface {
	Publish(ctx context.Context, channel string, ev redis.FeedEvent) error
}

// MemberCountCache 成员数缓存，nil 时直接回源数据库
type MemberCountCache interface {
	GetCountCached(ctx context.Context, activityID uint64) (int64, bool, error)
	SetCount(ctx context.Context, activityID uint64, cnt int64) error
	DeleteCount(ctx context.Context, activityID uint64, delay ...time.Duration) error
	// GetOrRebuild miss 时在重建锁保护下回源并回填
	GetOrRebuild(ctx context.Context, activityID uint64, load func(context.Context) (int64, error)) (int64, error)
}
