package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowIsPerKey(t *testing.T) {
	l := New(1, 2)
	assert.True(t, l.Allow("daily"))
	assert.True(t, l.Allow("daily"))
	assert.False(t, l.Allow("daily"))
	assert.True(t, l.Allow("trade_cal"))
}

func TestUnlimited(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("k"))
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(1, 1)
	require.NoError(t, l.Wait(context.Background(), "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "k"))
}
