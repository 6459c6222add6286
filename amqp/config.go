package amqp

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the broker connection arguments. Either URL is set in full,
// or it is assembled from the individual fields.
type Config struct {
	// URL is a complete amqp:// or amqps:// URI. When set it wins over the
	// individual fields below.
	URL string

	Host     string
	Port     int
	Username string
	Password string
	VHost    string

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration
	// Heartbeat is the AMQP heartbeat interval negotiated on open.
	Heartbeat time.Duration
	// ProbeTimeout bounds the Verified-mode round trip.
	ProbeTimeout time.Duration
}

// withDefaults normalizes zero values
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port <= 0 {
		c.Port = 5672
	}
	if c.Username == "" {
		c.Username = "guest"
	}
	if c.Password == "" {
		c.Password = "guest"
	}
	if c.VHost == "" {
		c.VHost = "/"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 30 * time.Second
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = 10 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	return c
}

// URI returns the broker URI used for dialing.
func (c Config) URI() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.VHost,
	}
	return u.String()
}

// Redacted returns the broker URI with credentials stripped, safe for logs.
func (c Config) Redacted() string {
	u, err := url.Parse(c.URI())
	if err != nil {
		return "amqp://<unparseable>"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}
