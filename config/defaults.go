package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format.engine", "builtin")
	v.SetDefault("format.rustfmt_path", "")
	v.SetDefault("format.edition", EditionAuto)
	v.SetDefault("format.cache_size", 256)

	v.SetDefault("emit.generic_aliases", false)
	v.SetDefault("emit.markers", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return &c
}
