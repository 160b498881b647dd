package types

import (
	"errors"
	"strings"
)

// Config holds backend selection and parameters for Backend.Attach, plus
// the engine settings read from config.yaml.
type Config struct {
	Backend      string   `json:"backend" yaml:"backend"`
	DataDir      string   `json:"data_dir" yaml:"data_dir"`
	SyncStrategy string   `json:"sync_strategy,omitempty" yaml:"sync_strategy,omitempty"`
	Priorities   []string `json:"priorities,omitempty" yaml:"priorities,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Sync strategies control when the JSONL file is rewritten.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// DefaultPriorities is the priority vocabulary used when none is configured.
var DefaultPriorities = []string{"low", "medium", "high"}

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
	ErrPriorityEmpty       = errors.New("priority must not be empty")
	ErrPriorityDuplicate   = errors.New("duplicate priority")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	seen := make(map[string]bool, len(c.Priorities))
	for _, p := range c.Priorities {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			return ErrPriorityEmpty
		}
		if seen[key] {
			return ErrPriorityDuplicate
		}
		seen[key] = true
	}
	return nil
}

// EffectiveSyncStrategy returns the configured strategy, defaulting to
// immediate.
func (c Config) EffectiveSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}

// EffectivePriorities returns the configured vocabulary or
// DefaultPriorities.
func (c Config) EffectivePriorities() []string {
	if len(c.Priorities) == 0 {
		return DefaultPriorities
	}
	return c.Priorities
}
