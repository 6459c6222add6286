package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastDiscardsClosedConnection(t *testing.T) {
	p, provider := newTestPool(t, Config{MaxSize: 2, Recycling: Fast})
	defer p.Close()

	g, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c := g.Conn().(*fakeConn)

	// Simulate the broker dropping the connection while leased.
	provider.mu.Lock()
	provider.openFn = func(*fakeConn) bool { return false }
	provider.mu.Unlock()

	g.Release()

	assert.Equal(t, 1, c.closeCount(), "structurally dead connection should be closed")
	assert.Equal(t, 0, p.Status().Idle, "dead connection must not reenter the idle stack")
}

// A connection that passes the structural check but fails the probe is the
// differential between the two methods: Fast keeps it, Verified discards it.
func TestRecyclingMethodDifferential(t *testing.T) {
	probeErr := errors.New("zombie connection")

	t.Run("fast keeps probe-dead connection", func(t *testing.T) {
		p, provider := newTestPool(t, Config{MaxSize: 2, Recycling: Fast})
		defer p.Close()

		g, err := p.Acquire(context.Background())
		require.NoError(t, err)

		provider.mu.Lock()
		provider.openFn = func(*fakeConn) bool { return true }
		provider.probeErr = probeErr
		provider.mu.Unlock()

		g.Release()

		assert.Equal(t, 1, p.Status().Idle, "Fast never probes, connection is kept")
		assert.Equal(t, 0, provider.probed(), "Fast must not issue probes")
	})

	t.Run("verified discards probe-dead connection", func(t *testing.T) {
		p, provider := newTestPool(t, Config{MaxSize: 2, Recycling: Verified})
		defer p.Close()

		g, err := p.Acquire(context.Background())
		require.NoError(t, err)
		c := g.Conn().(*fakeConn)

		provider.mu.Lock()
		provider.openFn = func(*fakeConn) bool { return true }
		provider.probeErr = probeErr
		provider.mu.Unlock()

		g.Release()

		assert.Equal(t, 0, p.Status().Idle, "Verified must discard on probe failure")
		assert.Equal(t, 1, c.closeCount())
		assert.Equal(t, uint64(1), p.Stats().ProbeFailures)
	})
}

func TestVerifiedKeepsHealthyConnection(t *testing.T) {
	p, provider := newTestPool(t, Config{MaxSize: 2, Recycling: Verified})
	defer p.Close()

	g, err := p.Acquire(context.Background())
	require.NoError(t, err)
	g.Release()

	assert.Equal(t, 1, p.Status().Idle)
	assert.Equal(t, 1, provider.probed(), "Verified should probe once per release")
}

func TestPoisonedSkipsVerifiedProbe(t *testing.T) {
	p, provider := newTestPool(t, Config{MaxSize: 2, Recycling: Verified})
	defer p.Close()

	g, err := p.Acquire(context.Background())
	require.NoError(t, err)
	g.Poison()
	g.Release()

	assert.Equal(t, 0, provider.probed(), "poisoned connections are never probed")
	assert.Equal(t, 0, p.Status().Idle)
}

func TestRecycleUpdatesLastChecked(t *testing.T) {
	p, _ := newTestPool(t, Config{MaxSize: 2})
	defer p.Close()

	g, err := p.Acquire(context.Background())
	require.NoError(t, err)
	h := g.h
	before := h.lastCheckedAt

	time.Sleep(5 * time.Millisecond)
	g.Release()

	assert.True(t, h.lastCheckedAt.After(before), "keep decision should refresh lastCheckedAt")
}

func TestRecyclingMethodString(t *testing.T) {
	assert.Equal(t, "fast", Fast.String())
	assert.Equal(t, "verified", Verified.String())
}
