package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigDirName is the per-project directory holding config.yml.
const ConfigDirName = ".silbolt"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead of
// searching <rootDir>/.silbolt. A missing explicit file is an error.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SILBOLT_*)
// 2. Config file (.silbolt/config.yml or .silbolt/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ConfigDirName))
	}

	// Replace . with _ in env var names (e.g., SILBOLT_OUTPUT_DIR)
	v.SetEnvPrefix("SILBOLT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("source.path")
	v.BindEnv("compiler.path")
	v.BindEnv("compiler.flags")
	v.BindEnv("compiler.timeout")
	v.BindEnv("extract.functions")
	v.BindEnv("extract.with_callees")
	v.BindEnv("extract.callee_depth")
	v.BindEnv("output.dir")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("source.path", defaults.Source.Path)

	v.SetDefault("compiler.path", defaults.Compiler.Path)
	v.SetDefault("compiler.flags", defaults.Compiler.Flags)
	v.SetDefault("compiler.timeout", defaults.Compiler.Timeout)

	v.SetDefault("extract.functions", defaults.Extract.Functions)
	v.SetDefault("extract.with_callees", defaults.Extract.WithCallees)
	v.SetDefault("extract.callee_depth", defaults.Extract.CalleeDepth)

	v.SetDefault("output.dir", defaults.Output.Dir)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
