package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/mvp-joe/silbolt/internal/sil"
)

var (
	// ErrEmptySource indicates a missing source file path
	ErrEmptySource = errors.New("empty source path")

	// ErrInvalidSource indicates a source path that yields no dump basename
	ErrInvalidSource = errors.New("invalid source path")

	// ErrEmptyCompiler indicates a missing compiler executable
	ErrEmptyCompiler = errors.New("empty compiler path")

	// ErrInvalidTimeout indicates a negative compiler timeout
	ErrInvalidTimeout = errors.New("invalid compiler timeout")

	// ErrInvalidFunction indicates an empty name or malformed glob in extract.functions
	ErrInvalidFunction = errors.New("invalid function selector")

	// ErrInvalidCalleeDepth indicates a negative callee depth
	ErrInvalidCalleeDepth = errors.New("invalid callee depth")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Source.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: source.path is required", ErrEmptySource))
	} else if emit.BaseName(cfg.Source.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: %q has an empty basename", ErrInvalidSource, cfg.Source.Path))
	}

	if err := validateCompiler(&cfg.Compiler); err != nil {
		errs = append(errs, err)
	}

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: output.dir is required", ErrEmptyOutputDir))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCompiler(cfg *CompilerConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: compiler.path is required", ErrEmptyCompiler))
	}

	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	// An empty function list is allowed: the run then only emits the dump.
	for i, selector := range cfg.Functions {
		if strings.TrimSpace(selector) == "" {
			errs = append(errs, fmt.Errorf("%w: functions[%d] is empty", ErrInvalidFunction, i))
			continue
		}
		if sil.IsGlob(selector) {
			if _, err := glob.Compile(selector); err != nil {
				errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidFunction, selector, err))
			}
		}
	}

	if cfg.CalleeDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: callee_depth cannot be negative, got %d", ErrInvalidCalleeDepth, cfg.CalleeDepth))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Sentinel errors stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{
		msg:  fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")),
		errs: errs,
	}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
