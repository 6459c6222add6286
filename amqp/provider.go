// Package amqp supplies broker connections to the pool using the RabbitMQ
// AMQP 0-9-1 client. It implements pool.Provider: dialing, a structural
// liveness check, and an active round-trip probe.
package amqp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/LockedThread/deadpool-amqprs/pool"
)

var errNotAMQPConn = errors.New("connection was not created by this provider")

// Provider creates and inspects RabbitMQ connections.
type Provider struct {
	cfg Config
	log *slog.Logger
}

// NewProvider creates a provider for the given broker. Zero config fields
// get defaults; see Config.
func NewProvider(cfg Config, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{
		cfg: cfg.withDefaults(),
		log: log,
	}
}

// Create dials the broker with the configured heartbeat and timeout.
func (p *Provider) Create(ctx context.Context) (pool.Conn, error) {
	timeout := p.cfg.DialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	conn, err := amqp091.DialConfig(p.cfg.URI(), amqp091.Config{
		Heartbeat: p.cfg.Heartbeat,
		Dial: func(network, addr string) (net.Conn, error) {
			return net.DialTimeout(network, addr, timeout)
		},
	})
	if err != nil {
		return nil, err
	}
	p.log.Debug("amqp connection opened", "broker", p.cfg.Redacted())
	return conn, nil
}

// IsOpen reports liveness from local state only; no network I/O.
func (p *Provider) IsOpen(c pool.Conn) bool {
	conn, ok := c.(*amqp091.Connection)
	if !ok {
		return false
	}
	return !conn.IsClosed()
}

// Probe opens a throwaway channel and closes it again. The round trip fails
// on hard-closed sockets that IsClosed cannot see. The context bounds the
// probe; on timeout the probe goroutine is abandoned and the connection is
// left for the pool to discard.
func (p *Provider) Probe(ctx context.Context, c pool.Conn) error {
	conn, ok := c.(*amqp091.Connection)
	if !ok {
		return errNotAMQPConn
	}

	done := make(chan error, 1)
	go func() {
		ch, err := conn.Channel()
		if err == nil {
			err = ch.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
