package pipeline

// Test Plan for Pipeline:
// - Run emits the dump and extracts every configured function
// - Run creates the output directory when absent
// - Run keeps unrelated files in an existing output directory
// - Run with a failing compiler logs the source, records EmitErr and still returns normally
// - Run with a missing compiler executable terminates without error and names the source
// - Verbose mode logs compiler output on failure
// - Emit runs only the emit step
// - EnsureOutputDir rejects a regular file in place of the directory

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/silbolt/internal/config"
	"github.com/mvp-joe/silbolt/internal/emit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDump(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "sil", "Example.sil"))
	require.NoError(t, err)
	return string(data)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "godbolt")
	return cfg
}

func TestRun_EmitsAndExtracts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := emit.NewMockRunner(exampleDump(t))
	var logs bytes.Buffer

	p := New(cfg, Options{Runner: runner, Logger: log.New(&logs, "", 0)})
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NoError(t, result.EmitErr)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "Example.sil"), result.DumpPath)
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.Succeeded(), 2)
	assert.Empty(t, logs.String())

	require.Len(t, runner.Calls(), 1, runner.String())
	assert.Equal(t, []string{"swiftc", "-O", "-emit-sil", "Sources/AutoDiffBenchmark/Example.swift"}, runner.Calls()[0])

	for _, name := range []string{"Example.sil", "Example.test_autodiff_gradient_apply.sil", "Example.test_manual_gradient_apply.sil"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_KeepsExistingOutputDirectory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Output.Dir, 0755))
	keep := filepath.Join(cfg.Output.Dir, "Other.sil")
	require.NoError(t, os.WriteFile(keep, []byte("previous run"), 0644))

	p := New(cfg, Options{Runner: emit.NewMockRunner(exampleDump(t)), Logger: log.New(&bytes.Buffer{}, "", 0)})
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data))
}

func TestRun_CompilerFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := emit.NewMockRunner("error: cannot find module\n")
	runner.Err = errors.New("exit status 1")
	var logs bytes.Buffer

	p := New(cfg, Options{Runner: runner, Logger: log.New(&logs, "", 0), Verbose: true})
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, result.EmitErr, emit.ErrEmitFailed)
	assert.Contains(t, logs.String(), "Failed to emit sil for: Sources/AutoDiffBenchmark/Example.swift")
	assert.Contains(t, logs.String(), "cannot find module")

	// Extraction still ran and reported the missing dump per function.
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.Failed(), 2)
	assert.Contains(t, logs.String(), "test_autodiff_gradient_apply")
	assert.Contains(t, logs.String(), "test_manual_gradient_apply")
}

func TestRun_MissingCompiler(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Compiler.Path = filepath.Join(t.TempDir(), "definitely-not-swiftc")
	var logs bytes.Buffer

	p := New(cfg, Options{Logger: log.New(&logs, "", 0)})
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Error(t, result.EmitErr)
	assert.Contains(t, logs.String(), cfg.Source.Path)
}

func TestRun_NotVerboseOmitsCompilerOutput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := emit.NewMockRunner("secret compiler chatter\n")
	runner.Err = errors.New("exit status 1")
	var logs bytes.Buffer

	_, err := New(cfg, Options{Runner: runner, Logger: log.New(&logs, "", 0)}).Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "secret compiler chatter")
}

func TestEmit_OnlyWritesDump(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	p := New(cfg, Options{Runner: emit.NewMockRunner(exampleDump(t)), Logger: log.New(&bytes.Buffer{}, "", 0)})

	dumpPath, err := p.Emit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "Example.sil"), dumpPath)

	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEnsureOutputDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	dir := filepath.Join(root, "nested", "godbolt")
	require.NoError(t, EnsureOutputDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is a no-op
	require.NoError(t, EnsureOutputDir(dir))

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = EnsureOutputDir(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
