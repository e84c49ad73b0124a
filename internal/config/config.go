// Package config provides configuration loading for silbolt.
//
// Configuration hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (SILBOLT_*)
//  3. Project config (.silbolt/config.yml)
//  4. Built-in defaults
//
// The defaults compile Sources/AutoDiffBenchmark/Example.swift with
// `swiftc -O -emit-sil`, extract the two gradient test functions and write
// everything under godbolt/.
package config

import "time"

// Config represents the complete silbolt configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Compiler CompilerConfig `yaml:"compiler" mapstructure:"compiler"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// SourceConfig identifies the file handed to the compiler.
type SourceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CompilerConfig describes the compiler invocation: <path> <flags...> <source>.
type CompilerConfig struct {
	Path    string        `yaml:"path" mapstructure:"path"`       // executable name or path
	Flags   []string      `yaml:"flags" mapstructure:"flags"`     // placed before the source path
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 waits indefinitely
}

// ExtractConfig selects which functions are pulled out of the dump.
type ExtractConfig struct {
	Functions   []string `yaml:"functions" mapstructure:"functions"`       // names or glob patterns
	WithCallees bool     `yaml:"with_callees" mapstructure:"with_callees"` // also extract referenced functions
	CalleeDepth int      `yaml:"callee_depth" mapstructure:"callee_depth"` // 0 = unlimited
}

// OutputConfig defines where dumps and fragments are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Default returns the built-in configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Path: "Sources/AutoDiffBenchmark/Example.swift",
		},
		Compiler: CompilerConfig{
			Path:    "swiftc",
			Flags:   []string{"-O", "-emit-sil"},
			Timeout: 0,
		},
		Extract: ExtractConfig{
			Functions: []string{
				"test_autodiff_gradient_apply",
				"test_manual_gradient_apply",
			},
			WithCallees: false,
			CalleeDepth: 0,
		},
		Output: OutputConfig{
			Dir: "godbolt",
		},
	}
}
