package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterSweeper(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.Visitors())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.RunSweeper(ctx, 5*time.Millisecond, 0)
		close(done)
	}()

	assert.Eventually(t, func() bool { return limiter.Visitors() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "sweeper should stop once the context is cancelled")
}
