package pool_test

import (
	"context"
	"fmt"
	"time"

	"github.com/LockedThread/deadpool-amqprs/pool"
)

type staticConn struct{}

func (staticConn) Close() error { return nil }

// staticProvider hands out inert connections; real deployments plug in the
// amqp package instead.
type staticProvider struct{}

func (staticProvider) Create(ctx context.Context) (pool.Conn, error) { return staticConn{}, nil }
func (staticProvider) IsOpen(pool.Conn) bool                         { return true }
func (staticProvider) Probe(context.Context, pool.Conn) error        { return nil }

func Example() {
	p, err := pool.New(pool.Config{
		MaxSize:        4,
		AcquireTimeout: 5 * time.Second,
	}, staticProvider{})
	if err != nil {
		panic(err)
	}
	defer p.Close()

	g, err := p.Acquire(context.Background())
	if err != nil {
		panic(err)
	}
	defer g.Release()

	// Use g.Conn() against the broker here; call g.Poison() if it fails.
	status := p.Status()
	fmt.Println(status.InUse, status.MaxSize)
	// Output: 1 4
}
