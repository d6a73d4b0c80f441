package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		enabled    zapcore.Level
		disabled   zapcore.Level
	}{
		{name: "console default", verbosity: VerbosityUser, enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "console -v", verbosity: VerbosityInfo, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "json -vv", jsonOutput: true, verbosity: VerbosityDebug, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				Logger = zap.NewNop().Sugar()
			})

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			core := Logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.enabled))
			assert.False(t, core.Enabled(tt.disabled))
		})
	}
}

func TestNopBeforeInitialize(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Debugw("nothing", FieldRecord, "Pair")
		ComponentLogger("dismantle").Infow("still nothing")
	})
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.Equal(t, "Trace (-vvv+)", LevelName(5))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputStatus))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputWatch))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputClassification))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputGenerated))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputTiming))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputFormatter))
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = prev })

	ctx := WithComponent(WithFile(context.Background(), "src/lib.rs"), "watch")
	LoggerFromContext(ctx).Infow("expanded file", FieldItems, 2)
	LoggerFromContext(context.Background()).Infow("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		FieldFile:      "src/lib.rs",
		FieldComponent: "watch",
		FieldItems:     int64(2),
	}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}
