package rustfmt

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/teranos/dismantle/errors"
)

// cargoManifest is the part of Cargo.toml that matters for formatting.
// A member crate may write `edition.workspace = true`, so the package
// edition is decoded loosely.
type cargoManifest struct {
	Package struct {
		Edition any `toml:"edition"`
	} `toml:"package"`
	Workspace *struct {
		Package struct {
			Edition string `toml:"edition"`
		} `toml:"package"`
	} `toml:"workspace"`
}

// DetectEdition walks up from dir to the Cargo.toml that names an edition
// and returns it. Members inheriting from their workspace resolve to the
// workspace's edition. It returns "" with no error when nothing is found.
func DetectEdition(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve directory")
	}
	for {
		path := filepath.Join(dir, "Cargo.toml")
		if _, err := os.Stat(path); err == nil {
			var m cargoManifest
			if _, err := toml.DecodeFile(path, &m); err != nil {
				return "", errors.Wrapf(err, "failed to read %s", path)
			}
			if ed, ok := m.Package.Edition.(string); ok && ed != "" {
				return ed, nil
			}
			if m.Workspace != nil && m.Workspace.Package.Edition != "" {
				return m.Workspace.Package.Edition, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
