package pool

import "sync/atomic"

// Stats contains counters about pool activity
type Stats struct {
	Hits          uint64 // acquires served from the idle stack
	Misses        uint64 // acquires that created a new connection
	Timeouts      uint64 // acquires that gave up waiting
	Creates       uint64 // connections created
	CreateErrors  uint64 // provider create failures
	Recycled      uint64 // releases that kept the connection
	Discarded     uint64 // releases that closed the connection
	ProbeFailures uint64 // Verified probes that failed
}

// Status is a point-in-time view of pool occupancy
type Status struct {
	Idle    int `json:"idle"`
	InUse   int `json:"in_use"`
	MaxSize int `json:"max_size"`
}

// Stats returns a snapshot of the activity counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Hits:          atomic.LoadUint64(&p.stats.Hits),
		Misses:        atomic.LoadUint64(&p.stats.Misses),
		Timeouts:      atomic.LoadUint64(&p.stats.Timeouts),
		Creates:       atomic.LoadUint64(&p.stats.Creates),
		CreateErrors:  atomic.LoadUint64(&p.stats.CreateErrors),
		Recycled:      atomic.LoadUint64(&p.stats.Recycled),
		Discarded:     atomic.LoadUint64(&p.stats.Discarded),
		ProbeFailures: atomic.LoadUint64(&p.stats.ProbeFailures),
	}
}

// Status reports current occupancy. idle + in_use never exceeds max_size.
func (p *Pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Idle:    len(p.idle),
		InUse:   p.total - len(p.idle),
		MaxSize: p.cfg.MaxSize,
	}
}
