package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend      string   `yaml:"backend"`
	DataDir      string   `yaml:"data_dir,omitempty"`
	Priorities   []string `yaml:"priorities"`
	SyncStrategy string   `yaml:"sync_strategy"`
	LogLevel     string   `yaml:"log_level"`
	DefaultSort  []string `yaml:"default_sort"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize todos storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	// A --data-dir given at init time is recorded in the new config.yaml.
	var recordDataDir string
	if flags.dataDir != "" {
		if recordDataDir, err = filepath.Abs(flags.dataDir); err != nil {
			return sysError("resolve data dir: %w", err)
		}
	}
	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, recordDataDir); err != nil {
		return sysError("write config: %w", err)
	}

	cfg, dataDir, err := resolveSettings()
	if err != nil {
		return err
	}
	storeCfg := cfg.storeConfig(dataDir)
	if err := storeCfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, flags.verbose)
	backend := sqlite.NewBackend(sqlite.WithLogger(logger))
	if err := backend.Attach(storeCfg); err != nil {
		return sysError("initialize storage: %w", err)
	}
	if err := backend.Detach(); err != nil {
		return sysError("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Todos initialized in %s\n", dataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		Priorities:   types.DefaultPriorities,
		SyncStrategy: types.SyncImmediate,
		LogLevel:     "warn",
		DefaultSort:  engine.DefaultSortKeys,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
