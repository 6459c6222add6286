package pool

import "sync/atomic"

// Guard is a scoped lease on one pooled connection. It is owned by a single
// goroutine for its lifetime and must be released exactly once; releasing
// through defer covers panic exits too.
type Guard struct {
	pool     *Pool
	h        *handle
	poisoned int32 // atomic flag
	released int32 // atomic flag
}

func newGuard(p *Pool, h *handle) *Guard {
	h.poisoned = false
	return &Guard{pool: p, h: h}
}

// Conn returns the leased connection. It stays valid until Release.
func (g *Guard) Conn() Conn {
	return g.h.conn
}

// ID returns the pool-internal identity of the leased connection, useful for
// correlating caller logs with pool logs.
func (g *Guard) ID() string {
	return g.h.id
}

// Poison records that the caller observed an operational error on this
// connection. A poisoned connection is closed on release, never reused.
func (g *Guard) Poison() {
	atomic.StoreInt32(&g.poisoned, 1)
}

// Release returns the connection to the pool. Only the first call has an
// effect; further calls are no-ops.
func (g *Guard) Release() {
	if !atomic.CompareAndSwapInt32(&g.released, 0, 1) {
		return
	}
	g.pool.release(g.h, atomic.LoadInt32(&g.poisoned) == 1)
}

// ReleaseErr poisons the connection if err is non-nil, then releases.
// Intended for the common `defer g.ReleaseErr(err)` shape on named returns.
func (g *Guard) ReleaseErr(err error) {
	if err != nil {
		g.Poison()
	}
	g.Release()
}
