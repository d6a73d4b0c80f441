package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dismantle/config"
)

func newTestRegenerator(t *testing.T, dir string) *regenerator {
	t.Helper()
	tr, err := newTransformer(config.Default(), dir, 0)
	require.NoError(t, err)
	r := newRegenerator(tr, 0, io.Discard)
	r.debounce = 10 * time.Millisecond
	return r
}

func TestIsSource(t *testing.T) {
	assert.True(t, isSource("src/lib.rs"))
	assert.False(t, isSource("src/lib.expanded.rs"))
	assert.False(t, isSource("Cargo.toml"))
	assert.Equal(t, "src/lib.expanded.rs", expandedPath("src/lib.rs"))
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "geo"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "target", "debug"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/lib.expanded.rs", "")
	writeFile(t, dir, "src/geo/point.rs", "")
	writeFile(t, dir, "target/debug/build.rs", "")
	writeFile(t, dir, ".git/hook.rs", "")

	files, err := sourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "geo", "point.rs"),
		filepath.Join(dir, "src", "lib.rs"),
	}, files)
}

func TestRegenerateFile(t *testing.T) {
	dir := t.TempDir()
	pair := writeFile(t, dir, "pair.rs", pairSource)
	plain := writeFile(t, dir, "plain.rs", "fn main() {}\n")
	r := newTestRegenerator(t, dir)

	require.NoError(t, r.regenerate(context.Background(), []string{pair, plain, filepath.Join(dir, "gone.rs")}))

	out, err := os.ReadFile(expandedPath(pair))
	require.NoError(t, err)
	assert.Contains(t, string(out), "pub mod Pair {")

	_, err = os.Stat(expandedPath(plain))
	assert.True(t, os.IsNotExist(err), "sources without items get no expansion")
}

func TestRegenerateSkipsUnchangedOutput(t *testing.T) {
	dir := t.TempDir()
	pair := writeFile(t, dir, "pair.rs", pairSource)
	r := newTestRegenerator(t, dir)
	ctx := context.Background()

	require.NoError(t, r.regenerateFile(ctx, pair))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(expandedPath(pair), old, old))

	require.NoError(t, r.regenerateFile(ctx, pair))
	info, err := os.Stat(expandedPath(pair))
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)
}

func TestRunRegeneratesOnWrite(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegenerator(t, dir)

	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, addTree(fw, dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.run(ctx, fw) }()

	pair := writeFile(t, dir, "pair.rs", pairSource)
	assert.Eventually(t, func() bool {
		out, err := os.ReadFile(expandedPath(pair))
		return err == nil && len(out) > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
