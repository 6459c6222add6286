// Package pool implements a connection pool for long-lived message broker
// connections with lifecycle management, release-time recycling and
// standardized error handling. Connections are supplied by a Provider; the
// pool itself never touches the broker protocol.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pool manages a bounded set of broker connections. Acquire hands out idle
// connections most-recently-released first; validation happens when a
// connection is released, which keeps the acquire hot path cheap.
type Pool struct {
	cfg      Config
	provider Provider
	log      *slog.Logger

	mu      sync.Mutex
	idle    []*handle      // stack, top is the most recently released
	waiters []chan *handle // FIFO queue of blocked acquirers
	total   int            // live connections plus reserved create slots
	closed  bool

	stats Stats
}

// New creates a pool over the given provider. Zero config fields get
// defaults; see Config.
func New(cfg Config, provider Provider) (*Pool, error) {
	if provider == nil {
		return nil, &PoolError{Op: "new", Err: errors.New("nil provider")}
	}
	cfg = cfg.withDefaults()
	return &Pool{
		cfg:      cfg,
		provider: provider,
		log:      cfg.Logger,
	}, nil
}

// Acquire leases a connection. It returns an idle one when available,
// creates a new one while under MaxSize, and otherwise blocks until a
// release frees something or the deadline passes. Waiters are served in
// FIFO order. A context without a deadline is bounded by
// Config.AcquireTimeout.
func (p *Pool) Acquire(ctx context.Context) (*Guard, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout)
		defer cancel()
	}

	for {
		g, wait, err := p.tryAcquire(ctx)
		if err != nil || g != nil {
			return g, err
		}
		h, err := p.await(ctx, wait)
		if err != nil {
			return nil, err
		}
		if h != nil {
			atomic.AddUint64(&p.stats.Hits, 1)
			return newGuard(p, h), nil
		}
		// Woken without a handle: a slot was freed by a discard, go
		// around and dial a fresh connection.
	}
}

// tryAcquire serves the non-blocking paths. It returns a guard, or a waiter
// channel the caller must block on, or an error.
func (p *Pool) tryAcquire(ctx context.Context) (*Guard, chan *handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, nil, &PoolError{Op: "acquire", Err: ErrPoolClosed}
	}

	if n := len(p.idle); n > 0 {
		h := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		atomic.AddUint64(&p.stats.Hits, 1)
		return newGuard(p, h), nil, nil
	}

	if p.total < p.cfg.MaxSize {
		p.total++ // reserve the slot before dialing
		p.mu.Unlock()
		h, err := p.create(ctx)
		if err != nil {
			p.unreserve()
			return nil, nil, err
		}
		atomic.AddUint64(&p.stats.Misses, 1)
		return newGuard(p, h), nil, nil
	}

	ch := make(chan *handle, 1)
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()
	return nil, ch, nil
}

// await blocks on a registered waiter channel. A nil handle with nil error
// means the waiter was woken to retry.
func (p *Pool) await(ctx context.Context, ch chan *handle) (*handle, error) {
	select {
	case h, ok := <-ch:
		if !ok {
			return nil, &PoolError{Op: "acquire", Err: ErrPoolClosed}
		}
		return h, nil
	case <-ctx.Done():
		return p.cancelWait(ctx, ch)
	}
}

// cancelWait deregisters a timed-out waiter. Waiter channels only ever
// receive a value or a close while the pool lock is held and the channel has
// been dequeued, so holding the lock here rules out a handle arriving after
// we walked away.
func (p *Pool) cancelWait(ctx context.Context, ch chan *handle) (*handle, error) {
	p.mu.Lock()
	for i, w := range p.waiters {
		if w == ch {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			p.mu.Unlock()
			atomic.AddUint64(&p.stats.Timeouts, 1)
			return nil, acquireErr(ctx)
		}
	}

	// A releaser dequeued us before the deadline fired; the channel
	// already holds a handle, a wake token, or a close. Pass it on.
	select {
	case h, ok := <-ch:
		if !ok {
			p.mu.Unlock()
			return nil, &PoolError{Op: "acquire", Err: ErrPoolClosed}
		}
		p.handOffLocked(h)
	default:
	}
	p.mu.Unlock()
	atomic.AddUint64(&p.stats.Timeouts, 1)
	return nil, acquireErr(ctx)
}

// handOffLocked forwards a handle (or wake token) that a timed-out waiter
// received but cannot use. Pool lock must be held.
func (p *Pool) handOffLocked(h *handle) {
	if h == nil {
		if len(p.waiters) > 0 {
			w := p.waiters[0]
			p.waiters = p.waiters[1:]
			w <- nil
		}
		return
	}
	if p.closed {
		p.total--
		p.discard(h)
		return
	}
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w <- h
		return
	}
	if len(p.idle) < p.cfg.MaxIdle {
		p.idle = append(p.idle, h)
		return
	}
	p.total--
	p.discard(h)
}

func acquireErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &PoolError{Op: "acquire", Err: ErrAcquireTimeout}
	}
	return &PoolError{Op: "acquire", Err: ctx.Err()}
}

// unreserve releases a create reservation after a provider failure and lets
// the oldest waiter retry the slot.
func (p *Pool) unreserve() {
	p.mu.Lock()
	p.total--
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w <- nil
	}
	p.mu.Unlock()
}

func (p *Pool) create(ctx context.Context) (*handle, error) {
	conn, err := p.provider.Create(ctx)
	if err != nil {
		atomic.AddUint64(&p.stats.CreateErrors, 1)
		p.log.Warn("connection create failed", "error", err)
		return nil, &PoolError{Op: "create", Err: fmt.Errorf("%w: %v", ErrCreateFailed, err)}
	}
	atomic.AddUint64(&p.stats.Creates, 1)
	h := newHandle(conn)
	p.log.Debug("connection created", "conn_id", h.id)
	return h, nil
}

// release takes a connection back from a guard. The recycling decision runs
// before the pool lock is taken so a Verified probe never blocks unrelated
// acquires. On keep the handle goes to the oldest waiter or onto the idle
// stack; on discard the slot is freed and replenishment stays lazy.
func (p *Pool) release(h *handle, poisoned bool) {
	h.poisoned = poisoned

	keep := p.recycle(h)

	p.mu.Lock()
	if p.closed {
		p.total--
		p.discard(h)
		p.mu.Unlock()
		return
	}

	if !keep {
		p.total--
		if len(p.waiters) > 0 {
			// Slot freed; the waiter dials a fresh connection itself.
			w := p.waiters[0]
			p.waiters = p.waiters[1:]
			w <- nil
		}
		p.discard(h)
		p.mu.Unlock()
		return
	}

	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w <- h
		p.mu.Unlock()
		atomic.AddUint64(&p.stats.Recycled, 1)
		return
	}

	if len(p.idle) >= p.cfg.MaxIdle {
		p.total--
		p.discard(h)
		p.mu.Unlock()
		return
	}

	p.idle = append(p.idle, h)
	p.mu.Unlock()
	atomic.AddUint64(&p.stats.Recycled, 1)
}

// discard closes a connection that left the pool for good.
func (p *Pool) discard(h *handle) {
	atomic.AddUint64(&p.stats.Discarded, 1)
	if err := h.close(); err != nil {
		p.log.Debug("error closing discarded connection", "conn_id", h.id, "error", err)
	}
}

// Close shuts the pool down. Idle connections are closed exactly once,
// blocked acquirers fail with ErrPoolClosed, and outstanding guards discard
// their connections on release. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	waiters := p.waiters
	p.waiters = nil
	p.total -= len(idle)
	for _, w := range waiters {
		close(w)
	}
	p.mu.Unlock()

	for _, h := range idle {
		p.discard(h)
	}
	p.log.Info("pool closed", "closed_idle", len(idle), "failed_waiters", len(waiters))
}
