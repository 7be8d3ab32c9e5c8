// Package config loads editor configuration and publishes it as an
// atomically swappable immutable snapshot: writers publish a whole new
// Config, readers always observe one consistent version.
package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is one immutable configuration snapshot. Mutating a loaded Config
// in place is a bug; copy, change, publish.
type Config struct {
	// EscapeTimeoutMs is the standalone-escape disambiguation window.
	EscapeTimeoutMs int `toml:"escape-timeout-ms"`
	// Theme is a path to a TOML theme file; empty selects the built-in.
	Theme string `toml:"theme"`
	// LogFile receives structured logs; empty disables logging.
	LogFile string `toml:"log-file"`
	// IdleTimeoutMs is how long input must be quiet before an idle event;
	// zero disables idle events.
	IdleTimeoutMs int `toml:"idle-timeout-ms"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		EscapeTimeoutMs: 20,
		IdleTimeoutMs:   400,
	}
}

// EscapeTimeout returns the disambiguation window as a duration.
func (c *Config) EscapeTimeout() time.Duration {
	return time.Duration(c.EscapeTimeoutMs) * time.Millisecond
}

// IdleTimeout returns the idle window as a duration; zero means disabled.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMs) * time.Millisecond
}

// Load reads a TOML config file over the defaults. A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Store publishes Config snapshots to concurrent readers.
type Store struct {
	p atomic.Pointer[Config]
}

// NewStore starts from the given snapshot; nil starts from defaults.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = Default()
	}
	s := &Store{}
	s.p.Store(cfg)
	return s
}

// Get returns the current snapshot. Never nil.
func (s *Store) Get() *Config {
	return s.p.Load()
}

// Publish swaps in a new snapshot.
func (s *Store) Publish(cfg *Config) {
	s.p.Store(cfg)
}
