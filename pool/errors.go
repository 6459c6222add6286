package pool

import (
	"errors"
	"fmt"
)

// PoolError represents errors specific to pool operations
type PoolError struct {
	Op  string
	Err error
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("pool error during %s: %v", e.Op, e.Err)
}

func (e *PoolError) Unwrap() error {
	return e.Err
}

// IsPoolError checks if an error is a pool error
func IsPoolError(err error) bool {
	var target *PoolError
	return errors.As(err, &target)
}

var (
	// ErrPoolClosed is returned for any operation after Close.
	ErrPoolClosed = errors.New("pool is closed")
	// ErrAcquireTimeout is returned when no connection became available
	// within the acquire window.
	ErrAcquireTimeout = errors.New("acquire timed out waiting for a connection")
	// ErrCreateFailed wraps provider errors surfaced from Acquire.
	ErrCreateFailed = errors.New("provider failed to create a connection")
)
