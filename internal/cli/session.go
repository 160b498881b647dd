package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// session is an attached backend plus the engine driving it for one
// command invocation. The caller must defer Close.
type session struct {
	backend  *sqlite.Backend
	engine   *engine.Engine
	logger   *log.Logger
	settings settings
	out      io.Writer
	errOut   io.Writer
}

// resolveSettings loads config.yaml and returns the settings together with
// the resolved data directory.
func resolveSettings() (settings, string, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, "", sysError("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, "", sysError("load config: %w", err)
	}
	cfg := settingsFrom(v)

	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.DataDir)
	if err != nil {
		return settings{}, "", sysError("resolve data dir: %w", err)
	}
	return cfg, dataDir, nil
}

// openSession resolves configuration, attaches the SQLite backend and builds
// an engine whose notices print to the command's stderr.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, dataDir, err := resolveSettings()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, flags.verbose)
	storeCfg := cfg.storeConfig(dataDir)
	if err := storeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(logger))
	if err := backend.Attach(storeCfg); err != nil {
		return nil, sysError("attach backend: %w", err)
	}
	logger.Debug("session opened", "data_dir", dataDir)

	eng := engine.New(backend, newNoticePrinter(cmd.ErrOrStderr()),
		engine.WithRules(engine.NewRules(cfg.Priorities)),
		engine.WithLogger(logger),
	)
	return &session{
		backend:  backend,
		engine:   eng,
		logger:   logger,
		settings: cfg,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

// Close detaches the backend, flushing deferred writes.
func (s *session) Close() error {
	if err := s.backend.Detach(); err != nil {
		return sysError("detach backend: %w", err)
	}
	return nil
}

// withSession opens a session, runs fn and closes the session, keeping the
// first error.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(cmd.Context(), s)
}

// todo resolves arg to a record, accepting a full id or a unique id prefix.
func (s *session) todo(ctx context.Context, arg string) (types.Todo, error) {
	all, err := s.backend.FetchAll(ctx)
	if err != nil {
		return types.Todo{}, sysError("fetch todos: %w", err)
	}
	id, err := resolveID(all, arg)
	if err != nil {
		return types.Todo{}, err
	}
	td, err := s.backend.Get(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return types.Todo{}, fmt.Errorf("todo %q: %w", arg, err)
	}
	if err != nil {
		return types.Todo{}, sysError("get todo: %w", err)
	}
	return td, nil
}
