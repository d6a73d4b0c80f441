package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/dismantle/errors"
)

// Loaded is a configuration together with where it came from.
type Loaded struct {
	*Config
	// Path is the project file that was merged, "" when none was found.
	Path string
}

// Load reads configuration with precedence (lowest to highest): defaults,
// the user file, the nearest dismantle.toml above dir, DISMANTLE_*
// environment variables.
func Load(dir string) (*Loaded, error) {
	v := newViper()

	project := FindProjectConfig(dir)
	for _, path := range []string{UserConfigPath(), project} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	c, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: c, Path: project}, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DISMANTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// mergeFile merges the TOML file at path into v. Missing files are skipped.
func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.MergeInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// FindProjectConfig searches for dismantle.toml by walking up from dir.
// Returns "" when none is found.
func FindProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// UserConfigPath returns the per-user configuration file, which need not
// exist.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dismantle", FileName)
}
