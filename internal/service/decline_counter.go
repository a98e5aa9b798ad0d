package service

import "sync"

// BlockProposalThreshold 连续拒绝达到该值时弹一次拉黑确认
const BlockProposalThreshold = 3

// DeclineCounter 主办方会话内的连续拒绝计数，按 (host, requester) 独立计。
// 进程内存储，重启即清零；同意其他请求不会重置已有计数。
type DeclineCounter struct {
	mu     sync.Mutex
	counts map[uint64]map[uint64]int
}

func NewDeclineCounter() *DeclineCounter {
	return &DeclineCounter{counts: make(map[uint64]map[uint64]int)}
}

// Increment 递增并返回新计数
func (c *DeclineCounter) Increment(hostID, requesterID uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.counts[hostID]
	if !ok {
		m = make(map[uint64]int)
		c.counts[hostID] = m
	}
	m[requesterID]++
	return m[requesterID]
}

// Count 当前计数，只读
func (c *DeclineCounter) Count(hostID, requesterID uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[hostID][requesterID]
}
