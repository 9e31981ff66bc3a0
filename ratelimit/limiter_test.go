package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsLimited(t *testing.T) {
	now := time.Date(2023, 04, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter()
	limiter.now = func() time.Time { return now }

	const maxPerWindow = 3

	for i := 0; i < maxPerWindow; i++ {
		require.False(t, limiter.IsLimited("203.0.113.7", maxPerWindow), "request %d must pass", i+1)
	}

	require.True(t, limiter.IsLimited("203.0.113.7", maxPerWindow), "request above the threshold must be blocked")
	require.True(t, limiter.IsLimited("203.0.113.7", maxPerWindow), "blocked requests are not counted and keep being blocked")

	//independent identifier
	require.False(t, limiter.IsLimited("198.51.100.1", maxPerWindow))

	//window elapses: counter resets and accepts again
	now = now.Add(Window)
	for i := 0; i < maxPerWindow; i++ {
		require.False(t, limiter.IsLimited("203.0.113.7", maxPerWindow))
	}
	require.True(t, limiter.IsLimited("203.0.113.7", maxPerWindow))
}

func TestIsLimitedWindowBoundary(t *testing.T) {
	now := time.Date(2023, 04, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter()
	limiter.now = func() time.Time { return now }

	require.False(t, limiter.IsLimited("client", 1))
	require.True(t, limiter.IsLimited("client", 1))

	//one nanosecond before the window end it is still the same window
	now = now.Add(Window - time.Nanosecond)
	require.True(t, limiter.IsLimited("client", 1))

	now = now.Add(time.Nanosecond)
	require.False(t, limiter.IsLimited("client", 1))
}
