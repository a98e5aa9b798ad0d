package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclineCounterIncrement(t *testing.T) {
	c := NewDeclineCounter()

	assert.Equal(t, 0, c.Count(1, 2))
	assert.Equal(t, 1, c.Increment(1, 2))
	assert.Equal(t, 2, c.Increment(1, 2))
	assert.Equal(t, 3, c.Increment(1, 2))
	assert.Equal(t, 3, c.Count(1, 2))

	// 阈值之后继续涨，判断交给调用方的 == 比较
	assert.Equal(t, 4, c.Increment(1, 2))
}

func TestDeclineCounterIndependentPairs(t *testing.T) {
	c := NewDeclineCounter()

	c.Increment(1, 2)
	c.Increment(1, 2)

	// 不同请求者互不影响
	assert.Equal(t, 1, c.Increment(1, 3))
	// 不同主办方互不影响
	assert.Equal(t, 1, c.Increment(9, 2))
	assert.Equal(t, 2, c.Count(1, 2))
}
