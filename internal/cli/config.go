package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Environment variables TODOS_<KEY> override config.yaml.
	envPrefix = "TODOS"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyPriorities   = "priorities"
	cfgKeySyncStrategy = "sync_strategy"
	cfgKeyLogLevel     = "log_level"
	cfgKeyDefaultSort  = "default_sort"
)

// envKeys are the settings that TODOS_<KEY> variables override.
var envKeys = []string{cfgKeyBackend, cfgKeyPriorities, cfgKeySyncStrategy, cfgKeyLogLevel, cfgKeyDefaultSort}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# todos configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Accepted priority values, lowest first
priorities:
  - low
  - medium
  - high

# When todos.jsonl is rewritten: immediate or on_close
sync_strategy: immediate

# debug, info, warn or error
log_level: warn

# Sort keys applied by "todos list" when --sort is not given
default_sort:
  - title
`

// settings is the resolved configuration for one command invocation.
type settings struct {
	Backend      string
	DataDir      string
	Priorities   []string
	SyncStrategy string
	LogLevel     string
	DefaultSort  []string
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. A missing config.yaml
// is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyPriorities, types.DefaultPriorities)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyDefaultSort, engine.DefaultSortKeys)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	// data_dir is left out: TODOS_DATA_DIR ranks below config.yaml and is
	// applied by paths.ResolveDataDir.
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// settingsFrom extracts settings from a loaded Viper instance.
func settingsFrom(v *viper.Viper) settings {
	return settings{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      v.GetString(cfgKeyDataDir),
		Priorities:   v.GetStringSlice(cfgKeyPriorities),
		SyncStrategy: v.GetString(cfgKeySyncStrategy),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		DefaultSort:  v.GetStringSlice(cfgKeyDefaultSort),
	}
}

// storeConfig builds the backend configuration for dataDir.
func (s settings) storeConfig(dataDir string) types.Config {
	return types.Config{
		Backend:      s.Backend,
		DataDir:      dataDir,
		SyncStrategy: s.SyncStrategy,
		Priorities:   s.Priorities,
	}
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
