package pool

import (
	"context"
	"sync/atomic"
	"time"
)

// RecyclingMethod selects how a released connection is validated before it
// may reenter the idle stack.
type RecyclingMethod int

const (
	// Fast only consults the provider's local liveness check. Cheap, and
	// unless you have special needs a safe choice.
	Fast RecyclingMethod = iota

	// Verified runs the liveness check and then a round-trip probe against
	// the broker. Slower, but catches hard-closed connections that still
	// look open locally; with Fast those surface as an error on first use.
	Verified
)

func (m RecyclingMethod) String() string {
	switch m {
	case Verified:
		return "verified"
	default:
		return "fast"
	}
}

// recycle decides whether a released handle may be kept. It runs without the
// pool lock held: a Verified probe does network I/O and must not stall
// unrelated Acquire/Release calls. Probe and liveness failures are absorbed
// here as a discard signal, never surfaced to the releasing caller.
func (p *Pool) recycle(h *handle) bool {
	if h.poisoned {
		// A caller-reported failure is authoritative; skip all checks,
		// including the Verified probe.
		p.log.Debug("discarding poisoned connection", "conn_id", h.id)
		return false
	}

	if !p.provider.IsOpen(h.conn) {
		p.log.Debug("discarding closed connection", "conn_id", h.id)
		return false
	}

	if p.cfg.Recycling == Verified {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.ProbeTimeout)
		defer cancel()
		if err := p.provider.Probe(ctx, h.conn); err != nil {
			atomic.AddUint64(&p.stats.ProbeFailures, 1)
			p.log.Debug("discarding connection after failed probe",
				"conn_id", h.id, "error", err)
			return false
		}
	}

	h.lastCheckedAt = time.Now()
	return true
}
