package pool

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	if cfg.MaxSize != 10 {
		t.Errorf("Expected default MaxSize 10, got %d", cfg.MaxSize)
	}
	if cfg.MaxIdle != cfg.MaxSize {
		t.Errorf("Expected MaxIdle to default to MaxSize, got %d", cfg.MaxIdle)
	}
	if cfg.AcquireTimeout != 30*time.Second {
		t.Errorf("Unexpected AcquireTimeout default: %v", cfg.AcquireTimeout)
	}
	if cfg.Recycling != Fast {
		t.Errorf("Expected Fast as the default recycling method, got %v", cfg.Recycling)
	}
	if cfg.Logger == nil {
		t.Error("Expected a default logger")
	}
}

func TestConfigMaxIdleClampedToMaxSize(t *testing.T) {
	cfg := Config{MaxSize: 4, MaxIdle: 100}.withDefaults()
	if cfg.MaxIdle != 4 {
		t.Errorf("Expected MaxIdle clamped to MaxSize, got %d", cfg.MaxIdle)
	}
}

func TestNewRejectsNilProvider(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("Expected an error for nil provider")
	}
}
