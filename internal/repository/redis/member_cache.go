package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Hingaa_Server/internal/pkg"

	"github.com/redis/go-redis/v9"
)

const (
	MemberCntTTL       = 24 * time.Hour
	MemberLockTTL      = 300 * time.Millisecond
	MemberCntKeyPrefix = "member:cnt:activity"  // 某活动在籍成员数缓存
	MemberLockPrefix   = "lock:member:activity" // 缓存重建锁
)

// MemberCacheRepository 活动成员数缓存，投影层的快路径
type MemberCacheRepository struct {
	cntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewMemberCacheRepository() *MemberCacheRepository {
	return &MemberCacheRepository{cntTTL: MemberCntTTL}
}

func (r *MemberCacheRepository) cntKey(activityID uint64) string {
	return fmt.Sprintf("%s:%d", MemberCntKeyPrefix, activityID)
}

// GetCountCached 读取缓存的成员数，miss 返回 ok=false
func (r *MemberCacheRepository) GetCountCached(ctx context.Context, activityID uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, r.cntKey(activityID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetCount 数据库读出真实值后回填
func (r *MemberCacheRepository) SetCount(ctx context.Context, activityID uint64, cnt int64) error {
	return Client.Set(ctx, r.cntKey(activityID), cnt, r.cntTTL).Err()
}

// DeleteCount 成员变动后删除计数Key；delay>0 时延迟再删一次，
// 抵消并发回填窗口的脏数据
func (r *MemberCacheRepository) DeleteCount(ctx context.Context, activityID uint64, delay ...time.Duration) error {
	key := r.cntKey(activityID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// GetOrRebuild 缓存miss时抢重建锁回源并回填；
// 没抢到锁的等持有者回填后重读，仍然miss就各自回源
func (r *MemberCacheRepository) GetOrRebuild(ctx context.Context, activityID uint64, load func(context.Context) (int64, error)) (int64, error) {
	if cnt, ok, err := r.GetCountCached(ctx, activityID); err == nil && ok {
		return cnt, nil
	}

	lock := &DistLock{RDB: Client}
	token, err := pkg.RandDigits(12)
	if err != nil {
		return load(ctx)
	}
	held, err := lock.Acquire(ctx, activityID, token)
	if err != nil || !held {
		time.Sleep(50 * time.Millisecond)
		if cnt, ok, err2 := r.GetCountCached(ctx, activityID); err2 == nil && ok {
			return cnt, nil
		}
		return load(ctx)
	}
	defer func() { _ = lock.Release(ctx, activityID, token) }()

	cnt, err := load(ctx)
	if err != nil {
		return 0, err
	}
	_ = r.SetCount(ctx, activityID, cnt)
	return cnt, nil
}

// Acquire 缓存重建锁，防止击穿时多路回源
func (l *DistLock) Acquire(ctx context.Context, activityID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", MemberLockPrefix, activityID)
	return l.RDB.SetNX(ctx, key, token, MemberLockTTL).Result()
}

// Release 用lua保证只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, activityID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", MemberLockPrefix, activityID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
