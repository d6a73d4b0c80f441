package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dismantle/config"
	"github.com/teranos/dismantle/errors"
)

// ConfigCmd inspects the effective configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the user file, the project file and
DISMANTLE_* environment variables have been merged.

Examples:
  dismantle config                  # TOML
  dismantle config --format yaml
  dismantle config where            # Files that were considered`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	ConfigCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, _ := settings()
	var (
		out []byte
		err error
	)
	switch configFormat {
	case "toml":
		out, err = toml.Marshal(loaded.Config)
	case "json":
		out, err = json.MarshalIndent(loaded.Config, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(loaded.Config)
	default:
		return errors.WithHint(errors.Newf("unknown format %q", configFormat), "use toml, json or yaml")
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	loaded, _ := settings()
	w := cmd.OutOrStdout()
	printSource(w, "user", config.UserConfigPath())
	if loaded.Path != "" {
		printSource(w, "project", loaded.Path)
	} else {
		fmt.Fprintf(w, "%-8s (no %s found)\n", "project", config.FileName)
	}
	return nil
}

func printSource(w io.Writer, label, path string) {
	state := "missing"
	if _, err := os.Stat(path); err == nil {
		state = "in use"
	}
	fmt.Fprintf(w, "%-8s %s (%s)\n", label, path, state)
}
