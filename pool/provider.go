package pool

import "context"

// Conn is an opaque broker connection. The pool never looks inside it; it
// only closes it when a handle is discarded or the pool shuts down.
type Conn interface {
	Close() error
}

// Provider creates connections and answers health questions about them.
// This is the full capability set the pool relies on; everything else about
// the broker (publishing, consuming, wire protocol) stays with the caller.
type Provider interface {
	// Create establishes a new connection. The context bounds the attempt.
	Create(ctx context.Context) (Conn, error)

	// IsOpen reports whether the connection still looks alive based on
	// local state only. It must not perform network I/O.
	IsOpen(conn Conn) bool

	// Probe performs a bounded round trip against the broker to detect
	// connections that look open locally but are dead remotely. Only used
	// with the Verified recycling method.
	Probe(ctx context.Context, conn Conn) error
}
