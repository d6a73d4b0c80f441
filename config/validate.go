package config

import (
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/rustfmt"
)

var editions = map[string]bool{
	"":          true,
	EditionAuto: true,
	"2015":      true,
	"2018":      true,
	"2021":      true,
	"2024":      true,
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch rustfmt.Engine(c.Format.Engine) {
	case rustfmt.EngineBuiltin, rustfmt.EngineRustfmt:
	default:
		return errors.WithHint(
			errors.Newf("format.engine must be \"builtin\" or \"rustfmt\", got %q", c.Format.Engine),
			"the builtin engine needs no external tools")
	}
	if !editions[c.Format.Edition] {
		return errors.Newf("format.edition %q is not a Rust edition", c.Format.Edition)
	}
	if c.Format.CacheSize < 0 {
		return errors.Newf("format.cache_size must be >= 0, got %d", c.Format.CacheSize)
	}
	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Newf("log.theme must be \"everforest\" or \"gruvbox\", got %q", c.Log.Theme)
	}
	return nil
}
