package handler

import (
	"io"
	"strconv"

	"Hingaa_Server/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

// StreamHandler 行级变更通知的SSE出口。
// 订阅随请求上下文建立，连接断开即释放。
type StreamHandler struct {
	feed *redis.FeedRepository
}

func NewStreamHandler(feed *redis.FeedRepository) *StreamHandler {
	return &StreamHandler{feed: feed}
}

// Requests 当前用户相关的请求变更：收到的和发出的
func (h *StreamHandler) Requests(c *gin.Context) {
	uid := userIDFromCtx(c)
	sub := h.feed.Subscribe(c.Request.Context(),
		redis.HostRequestChannel(uid),
		redis.UserRequestChannel(uid),
	)
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("change", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Activity 某个活动内的变更：成员进出、新消息
func (h *StreamHandler) Activity(c *gin.Context) {
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	sub := h.feed.Subscribe(c.Request.Context(), redis.ActivityChannel(activityID))
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("change", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
