package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dismantle/config"
	"github.com/teranos/dismantle/logger"
)

const pairSource = `use std::fmt;

#[dismantle]
pub struct Pair<T> {
    pub left: T,
    pub right: u32,
}

fn main() {}
`

const brokenSource = `#[dismantle]
struct Ok { a: u8 }

#[dismantle]
struct Bad { core: u8 }
`

func TestMain(m *testing.M) {
	pterm.DisableColor()
	for _, c := range []*cobra.Command{ExpandCmd, CheckCmd, DumpCmd, InitCmd, ConfigCmd, VersionCmd} {
		c.SilenceUsage = true
		c.SilenceErrors = true
	}
	Configure(&config.Loaded{Config: config.Default()}, 0)
	os.Exit(m.Run())
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestExpandToStdout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pair.rs", pairSource)

	out, errOut, err := execute(t, ExpandCmd, path)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "use std::fmt;\n\n#[allow(non_snake_case)]\npub mod Pair {\n")
	assert.Contains(t, out, "    pub type right = u32;\n")
	assert.Contains(t, out, "        type left = T;\n")
	assert.Contains(t, out, "fn main() {}\n")
	assert.NotContains(t, out, "#[dismantle]")
}

func TestExpandToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pair.rs", pairSource)
	target := filepath.Join(dir, "pair.expanded.rs")

	expandOutput = target
	defer func() { expandOutput = "" }()

	out, _, err := execute(t, ExpandCmd, path, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "pub mod Pair {")
}

func TestExpandReportsFailedItems(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.rs", brokenSource)

	out, errOut, err := execute(t, ExpandCmd, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 items could not be expanded")

	assert.Contains(t, out, "mod Ok {")
	assert.Contains(t, out, "#[dismantle]\nstruct Bad { core: u8 }")
	assert.Contains(t, errOut, path+":5:")
	assert.Contains(t, errOut, "collides with the generated item")
}

func TestExpandMissingFile(t *testing.T) {
	_, _, err := execute(t, ExpandCmd, filepath.Join(t.TempDir(), "nope.rs"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pair.rs", pairSource)
	target := filepath.Join(dir, "pair.expanded.rs")

	res, err := expandPath(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(target, []byte(res.Output), 0o644))

	out, _, err := execute(t, CheckCmd, path, target)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	require.NoError(t, os.WriteFile(path, []byte(pairSource+"\nstruct Extra;\n"), 0o644))
	_, errOut, err := execute(t, CheckCmd, path, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is out of date")
	assert.Contains(t, errOut, "differs from a fresh expansion")
}

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		line int
		diff bool
	}{
		{"equal", "a\nb\n", "a\nb\n", 0, false},
		{"changed line", "a\nb\nc", "a\nx\nc", 2, true},
		{"appended", "a", "a\nb", 2, true},
		{"truncated", "a\nb\n", "a", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, diff := firstDifference(tt.a, tt.b)
			assert.Equal(t, tt.diff, diff)
			assert.Equal(t, tt.line, line)
		})
	}
}

func TestDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.rs", pairSource+"\n"+brokenSource)

	dumpFormat = "yaml"
	out, _, err := execute(t, DumpCmd, path)
	require.NoError(t, err)

	var report dumpReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Len(t, report.Items, 3)

	pair := report.Items[0]
	assert.Equal(t, "Pair", pair.Record)
	assert.Equal(t, 3, pair.Line)
	assert.Equal(t, []string{"T"}, pair.Generics)
	assert.Equal(t, []string{"left"}, pair.Assoc)
	assert.Equal(t, []dumpField{
		{Ident: "left", Type: "T", Dependent: true, Generics: []string{"T"}},
		{Ident: "right", Type: "u32"},
	}, pair.Fields)

	assert.Equal(t, "Ok", report.Items[1].Record)
	assert.Empty(t, report.Items[2].Record)
	assert.Contains(t, report.Items[2].Error, "collides with the generated item")
}

func TestDumpUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pair.rs", pairSource)

	dumpFormat = "xml"
	defer func() { dumpFormat = "yaml" }()
	_, _, err := execute(t, DumpCmd, path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, InitCmd, dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, config.FileName))

	c, err := config.LoadFromFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	_, _, err = execute(t, InitCmd, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigShow(t *testing.T) {
	configFormat = "toml"
	out, _, err := execute(t, ConfigCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "engine = ")
	assert.Contains(t, out, "builtin")
	assert.Contains(t, out, "[emit]")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, VersionCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "dismantle ")
	assert.Contains(t, out, "Platform: ")
}

func TestExpandSourceLogging(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		expanded  bool
		timed     bool
		generated bool
	}{
		{"default", logger.VerbosityUser, false, false, false},
		{"-v", logger.VerbosityInfo, true, false, false},
		{"-vv", logger.VerbosityDebug, true, true, false},
		{"-vvv", logger.VerbosityTrace, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			prev := logger.Logger
			logger.Logger = zap.New(core).Sugar()
			t.Cleanup(func() { logger.Logger = prev })

			tr, err := newTransformer(config.Default(), t.TempDir(), tt.verbosity)
			require.NoError(t, err)
			res, err := expandSource(context.Background(), "pair.rs", pairSource, tr, tt.verbosity)
			require.NoError(t, err)

			expanded := logs.FilterMessage("expanded").All()
			if !tt.expanded {
				assert.Empty(t, expanded)
			} else {
				require.Len(t, expanded, 1)
				_, timed := expanded[0].ContextMap()[logger.FieldDuration]
				assert.Equal(t, tt.timed, timed)
			}

			generated := logs.FilterMessage("generated module").All()
			if !tt.generated {
				assert.Empty(t, generated)
				return
			}
			require.Len(t, generated, 1)
			fields := generated[0].ContextMap()
			assert.Equal(t, "Pair", fields[logger.FieldRecord])
			assert.Equal(t, res.Items[0].Result.Output, fields["code"])
		})
	}
}
