package rustfmt

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/dismantle/logger"
)

type countingFormatter struct {
	calls int
	err   error
}

func (f *countingFormatter) Format(_ context.Context, src string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "formatted:" + src, nil
}

func TestBuiltin(t *testing.T) {
	out, err := Builtin{}.Format(context.Background(), "pub struct  Pair<T>{a:i32,b:T}")
	require.NoError(t, err)
	assert.Equal(t, "pub struct Pair<T> {\n    a: i32,\n    b: T,\n}\n", out)
}

func TestBuiltinRejectsGarbage(t *testing.T) {
	_, err := Builtin{}.Format(context.Background(), "enum E { A }")
	assert.Error(t, err)
}

func TestBuiltinCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Builtin{}.Format(ctx, "struct S;")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCached(t *testing.T) {
	next := &countingFormatter{}
	c, err := NewCached(next, 2)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := c.Format(ctx, "struct S;")
		require.NoError(t, err)
		assert.Equal(t, "formatted:struct S;", out)
	}
	assert.Equal(t, 1, next.calls)

	_, _ = c.Format(ctx, "struct A;")
	_, _ = c.Format(ctx, "struct B;")
	assert.Equal(t, 2, c.Len())

	// "struct S;" was evicted
	_, _ = c.Format(ctx, "struct S;")
	assert.Equal(t, 4, next.calls)
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	next := &countingFormatter{err: assert.AnError}
	c, err := NewCached(next, 4)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Format(context.Background(), "struct S;")
		assert.ErrorIs(t, err, assert.AnError)
	}
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, c.Len())
}

func TestNewCachedInvalidSize(t *testing.T) {
	_, err := NewCached(Builtin{}, 0)
	assert.Error(t, err)
}

func TestFromSettings(t *testing.T) {
	f, err := FromSettings(Settings{})
	require.NoError(t, err)
	assert.IsType(t, Builtin{}, f)

	f, err = FromSettings(Settings{Engine: EngineRustfmt, Edition: "2021"})
	require.NoError(t, err)
	require.IsType(t, &External{}, f)
	assert.Equal(t, "2021", f.(*External).Edition)

	f, err = FromSettings(Settings{Engine: EngineBuiltin, CacheSize: 8})
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, f)

	_, err = FromSettings(Settings{Engine: "prettier"})
	assert.Error(t, err)
}

func TestExternalMissingBinary(t *testing.T) {
	e := &External{Path: filepath.Join(t.TempDir(), "no-such-rustfmt")}
	_, err := e.Format(context.Background(), "struct S;")
	assert.Error(t, err)
}

func TestExternal(t *testing.T) {
	if _, err := exec.LookPath("rustfmt"); err != nil {
		t.Skip("rustfmt not installed")
	}
	out, err := (&External{Edition: "2021"}).Format(context.Background(), "struct   S{a:i32}")
	require.NoError(t, err)
	assert.Contains(t, out, "struct S {\n    a: i32,\n}")
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func TestFormatterLogging(t *testing.T) {
	logs := observeLogs(t)
	ctx := context.Background()

	f, err := FromSettings(Settings{Engine: EngineBuiltin, CacheSize: 4, Verbosity: logger.VerbosityTrace})
	require.NoError(t, err)
	_, err = f.Format(ctx, "struct S;")
	require.NoError(t, err)
	_, err = f.Format(ctx, "struct S;")
	require.NoError(t, err)

	lookups := logs.FilterMessage("format cache lookup").All()
	require.Len(t, lookups, 2)
	assert.Equal(t, false, lookups[0].ContextMap()["hit"])
	assert.Equal(t, true, lookups[1].ContextMap()["hit"])

	missing := filepath.Join(t.TempDir(), "no-such-rustfmt")
	_, err = (&External{Path: missing, Verbosity: logger.VerbosityTrace}).Format(ctx, "struct S;")
	require.Error(t, err)
	runs := logs.FilterMessage("ran rustfmt").All()
	require.Len(t, runs, 1)
	assert.Equal(t, missing, runs[0].ContextMap()[logger.FieldEngine])
}

func TestFormatterLoggingQuietBelowTrace(t *testing.T) {
	logs := observeLogs(t)

	f, err := FromSettings(Settings{Engine: EngineBuiltin, CacheSize: 4, Verbosity: logger.VerbosityDebug})
	require.NoError(t, err)
	_, err = f.Format(context.Background(), "struct S;")
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestDetectEdition(t *testing.T) {
	root := t.TempDir()
	member := filepath.Join(root, "crates", "member", "src")
	require.NoError(t, os.MkdirAll(member, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(`
[workspace]
members = ["crates/member"]

[workspace.package]
edition = "2021"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "crates", "member", "Cargo.toml"), []byte(`
[package]
name = "member"
edition.workspace = true
`), 0o644))

	ed, err := DetectEdition(member)
	require.NoError(t, err)
	assert.Equal(t, "2021", ed)

	standalone := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(standalone, "Cargo.toml"), []byte(`
[package]
name = "solo"
edition = "2018"
`), 0o644))
	ed, err = DetectEdition(standalone)
	require.NoError(t, err)
	assert.Equal(t, "2018", ed)
}

func TestDetectEditionInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package\n"), 0o644))
	_, err := DetectEdition(dir)
	assert.Error(t, err)
}
