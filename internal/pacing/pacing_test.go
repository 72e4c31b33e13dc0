package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalGate_ZeroNeverBlocks(t *testing.T) {
	g := None()
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, g.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestIntervalGate_SpacesCalls(t *testing.T) {
	g := NewIntervalGate(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestIntervalGate_HonoursCancellation(t *testing.T) {
	g := NewIntervalGate(time.Hour)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, g.Wait(ctx))
}
