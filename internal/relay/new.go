package relay

import (
	"sync"
	"time"

	"psdevbot/config"
	"psdevbot/internal/sender"
	"psdevbot/pkg/log"
	"psdevbot/pkg/showdown"
)

const (
	defaultAuthTimeout = 30 * time.Second
	defaultBackoff     = 10 * time.Second
)

// Config is the dependency bag passed to New().
type Config struct {
	Showdown config.ShowdownConfig
	Rooms    []string // rooms to join after authentication

	// Overrides for tests; zero values pick the defaults.
	PacingInterval time.Duration
	AuthTimeout    time.Duration
	Backoff        time.Duration
}

// Relay owns the persistent connection lifecycle: dial, authenticate,
// hand the connection to a fresh outbound queue, run the read loop,
// and reconnect with a fixed backoff when any of that fails.
type Relay struct {
	l     log.Logger
	cfg   Config
	login *showdown.LoginClient

	mu      sync.Mutex
	current *sender.Sender
}

// New creates a Relay. Run must be called to start it.
func New(l log.Logger, cfg Config) *Relay {
	if cfg.PacingInterval == 0 {
		cfg.PacingInterval = sender.DefaultInterval
	}
	if cfg.AuthTimeout == 0 {
		cfg.AuthTimeout = defaultAuthTimeout
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Relay{
		l:     l,
		cfg:   cfg,
		login: showdown.NewLoginClient(cfg.Showdown.LoginServer),
	}
}
