package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dismantle/config"
)

var (
	initForce bool
	initUser  bool
)

// InitCmd writes a configuration file with every default spelled out
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a dismantle.toml with the default settings",
	Long: `Write a dismantle.toml holding every setting at its default value.

An existing file is only replaced with --force, and is then kept as
dismantle.toml.back1.

Examples:
  dismantle init             # ./dismantle.toml
  dismantle init crates/geo  # crates/geo/dismantle.toml
  dismantle init --user      # per-user configuration`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing file")
	InitCmd.Flags().BoolVar(&initUser, "user", false, "Write the per-user configuration instead")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".", config.FileName)
	if len(args) == 1 {
		path = filepath.Join(args[0], config.FileName)
	}
	if initUser {
		path = config.UserConfigPath()
	}
	if err := config.Write(path, config.Default(), initForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", pterm.Green("✓"), path)
	return nil
}
