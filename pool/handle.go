package pool

import (
	"time"

	"github.com/google/uuid"
)

// handle wraps one live connection with pool bookkeeping. A handle is owned
// either by the idle stack or by exactly one Guard, never both.
type handle struct {
	id            string
	conn          Conn
	createdAt     time.Time
	lastCheckedAt time.Time
	poisoned      bool
}

func newHandle(conn Conn) *handle {
	now := time.Now()
	return &handle{
		id:            uuid.NewString(),
		conn:          conn,
		createdAt:     now,
		lastCheckedAt: now,
	}
}

func (h *handle) close() error {
	return h.conn.Close()
}
