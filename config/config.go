// Package config loads dismantle.toml. The library API never reads
// configuration; only the CLI does, and turns it into explicit options.
package config

import (
	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/rustfmt"
)

// FileName is the project configuration file searched for from the working
// directory upwards.
const FileName = "dismantle.toml"

// EditionAuto reads the edition from the nearest Cargo.toml.
const EditionAuto = "auto"

// Config is the dismantle configuration
type Config struct {
	Format FormatConfig `mapstructure:"format" toml:"format" json:"format" yaml:"format"`
	Emit   EmitConfig   `mapstructure:"emit" toml:"emit" json:"emit" yaml:"emit"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// FormatConfig selects the formatter used for documentation snippets
type FormatConfig struct {
	Engine      string `mapstructure:"engine" toml:"engine" json:"engine" yaml:"engine"`                         // builtin or rustfmt
	RustfmtPath string `mapstructure:"rustfmt_path" toml:"rustfmt_path" json:"rustfmt_path" yaml:"rustfmt_path"` // empty = look up on PATH
	Edition     string `mapstructure:"edition" toml:"edition" json:"edition" yaml:"edition"`                     // "auto", "" or an edition year
	CacheSize   int    `mapstructure:"cache_size" toml:"cache_size" json:"cache_size" yaml:"cache_size"`         // 0 disables the cache
}

// EmitConfig shapes the generated module
type EmitConfig struct {
	GenericAliases bool `mapstructure:"generic_aliases" toml:"generic_aliases" json:"generic_aliases" yaml:"generic_aliases"`
	Markers        bool `mapstructure:"markers" toml:"markers" json:"markers" yaml:"markers"`
}

// LogConfig configures CLI logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest or gruvbox
}

// FormatSettings resolves the formatter settings, reading the edition from
// Cargo.toml above dir when it is "auto".
func (c *Config) FormatSettings(dir string) (rustfmt.Settings, error) {
	s := rustfmt.Settings{
		Engine:    rustfmt.Engine(c.Format.Engine),
		Path:      c.Format.RustfmtPath,
		Edition:   c.Format.Edition,
		CacheSize: c.Format.CacheSize,
	}
	if s.Edition == EditionAuto {
		ed, err := rustfmt.DetectEdition(dir)
		if err != nil {
			return rustfmt.Settings{}, errors.Wrap(err, "failed to detect edition")
		}
		s.Edition = ed
	}
	return s, nil
}

// TransformOptions builds transformer options around formatter f.
func (c *Config) TransformOptions(f rustfmt.Formatter) dismantle.Options {
	return dismantle.Options{
		Formatter:      f,
		GenericAliases: c.Emit.GenericAliases,
		OmitMarkers:    !c.Emit.Markers,
	}
}
