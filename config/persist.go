package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/dismantle/errors"
)

const header = "# dismantle configuration\n# Environment variables DISMANTLE_<SECTION>_<KEY> override these values.\n\n"

// Write saves c as TOML at path. An existing file is kept as path.back1
// (the previous backup as .back2) unless overwrite is false, in which case
// writing over it is an error.
func Write(path string, c *Config, overwrite bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to replace it")
		}
		if err := createBackup(path); err != nil {
			return err
		}
	}

	body, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, append([]byte(header), body...), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// createBackup rotates path.back1 to path.back2 and copies path to .back1
func createBackup(path string) error {
	back1, back2 := path+".back1", path+".back2"
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
