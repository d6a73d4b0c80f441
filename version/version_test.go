package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	info := Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}
	fromBuildInfo(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	})
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "dismantle v0.3.0 (commit 0123456, built 2026-10-01T12:00:00Z)", info.String())
}

func TestFromBuildInfoKeepsLdflags(t *testing.T) {
	info := Info{CommitHash: "abc", BuildTime: "yesterday", Version: "v1.0.0"}
	fromBuildInfo(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffff"}},
	})
	assert.Equal(t, Info{CommitHash: "abc", BuildTime: "yesterday", Version: "v1.0.0"}, info)
	assert.Equal(t, "abc", info.Short())
}
