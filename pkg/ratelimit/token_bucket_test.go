package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllowBurstThenDeny 验证初始令牌允许突发，耗尽后立即拒绝
func TestAllowBurstThenDeny(t *testing.T) {
	// 1 QPM，容量2：填充速率极慢，耗尽后短时间内不会恢复
	tb := NewTokenBucket(1, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "令牌耗尽后应被拒绝")
}

// TestAllowRefill 验证令牌随时间恢复
func TestAllowRefill(t *testing.T) {
	// 6000 QPM = 每秒100个令牌
	tb := NewTokenBucket(6000, 1)

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, tb.Allow(), "等待填充后应再次允许")
}

// TestWaitReturnsImmediatelyWithTokens 验证有令牌时Wait不阻塞
func TestWaitReturnsImmediatelyWithTokens(t *testing.T) {
	tb := NewTokenBucket(60, 1)

	start := time.Now()
	require.NoError(t, tb.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestWaitContextCancelled 验证无令牌时Wait响应上下文取消
func TestWaitContextCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow()) // 耗尽令牌

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestDefaultCapacity 验证未指定容量时取QPM的一半，最小为1
func TestDefaultCapacity(t *testing.T) {
	assert.Equal(t, 30.0, NewTokenBucket(60, 0).capacity)
	assert.Equal(t, 1.0, NewTokenBucket(1, 0).capacity)
}
