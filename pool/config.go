package pool

import (
	"log/slog"
	"time"
)

// Config defines configuration for the connection pool
type Config struct {
	// MaxSize caps the total number of connections, idle plus leased.
	MaxSize int
	// MaxIdle caps the idle stack. Released connections beyond it are
	// closed instead of kept. Defaults to MaxSize.
	MaxIdle int
	// AcquireTimeout bounds Acquire calls whose context carries no
	// deadline of its own.
	AcquireTimeout time.Duration
	// ProbeTimeout bounds the Verified-mode round trip.
	ProbeTimeout time.Duration
	// Recycling selects the validation strategy applied on release.
	Recycling RecyclingMethod
	// Logger receives discard/create/close events. Defaults to slog.Default().
	Logger *slog.Logger
}

// withDefaults normalizes zero values the same way the pool constructor
// documents them.
func (c Config) withDefaults() Config {
	if c.MaxSize <= 0 {
		c.MaxSize = 10
	}
	if c.MaxIdle <= 0 || c.MaxIdle > c.MaxSize {
		c.MaxIdle = c.MaxSize
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 30 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
