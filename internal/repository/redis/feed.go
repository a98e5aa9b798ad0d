package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 行级变更通知，按主题一个频道。客户端收到后按需重拉，不做增量合并。
const (
	FeedHostRequestsPrefix = "feed:requests"     // 主办方收到的请求变更
	FeedUserRequestsPrefix = "feed:requests:out" // 请求者自己的请求变更
	FeedActivityPrefix     = "feed:activity"     // 活动内（成员/消息）变更
)

// FeedEvent 变更事件，payload 只带定位信息，消费方重查投影
type FeedEvent struct {
	Type       string `json:"type"`
	ActivityID uint64 `json:"activity_id,omitempty"`
	RequestID  uint64 `json:"request_id,omitempty"`
	UserID     uint64 `json:"user_id,omitempty"`
}

type FeedRepository struct{}

func HostRequestChannel(hostID uint64) string {
	return fmt.Sprintf("%s:%d", FeedHostRequestsPrefix, hostID)
}

func UserRequestChannel(userID uint64) string {
	return fmt.Sprintf("%s:%d", FeedUserRequestsPrefix, userID)
}

func ActivityChannel(activityID uint64) string {
	return fmt.Sprintf("%s:%d", FeedActivityPrefix, activityID)
}

// Publish 发布变更事件，失败不影响主流程（尽力而为）
func (f *FeedRepository) Publish(ctx context.Context, channel string, ev FeedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return Client.Publish(ctx, channel, payload).Err()
}

// Subscription 作用域订阅资源：随视图上下文建立，Close 随上下文结束
type Subscription struct {
	pubsub *redis.PubSub
}

// Subscribe 订阅一个或多个频道
func (f *FeedRepository) Subscribe(ctx context.Context, channels ...string) *Subscription {
	return &Subscription{pubsub: Client.Subscribe(ctx, channels...)}
}

// Events 返回事件流通道，订阅关闭后通道关闭
func (s *Subscription) Events() <-chan *redis.Message {
	return s.pubsub.Channel()
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
