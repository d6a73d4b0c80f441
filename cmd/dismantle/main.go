package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dismantle/cmd/dismantle/commands"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dismantle",
	Short: "Expand #[dismantle] structs into field-level type modules",
	Long: `dismantle rewrites every Rust struct annotated with #[dismantle] into a
module of the same name holding a per-field type alias, a marker per field,
the struct itself as ` + "`core`" + `, and a ` + "`protocol`" + ` trait whose associated types
are the generic-dependent field types.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DISMANTLE_* prefix)
3. Project config (nearest dismantle.toml)
4. User config (<user config dir>/dismantle/dismantle.toml)
5. Default values

Examples:
  dismantle expand src/shapes.rs              # Print the expanded file
  dismantle expand src/shapes.rs -o out.rs    # Write it to out.rs
  dismantle check src/shapes.rs src/shapes.expanded.rs
  dismantle dump src/shapes.rs                # Field classification as YAML
  dismantle watch src/                        # Regenerate *.expanded.rs on change
  dismantle init                              # Write dismantle.toml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		noColor, _ := cmd.Flags().GetBool("no-color")
		configPath, _ := cmd.Flags().GetString("config")

		if noColor {
			pterm.DisableColor()
		}

		loaded, err := commands.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if loaded.Log.Theme != "" {
			logger.SetTheme(loaded.Log.Theme)
		}
		if err := logger.Initialize(jsonLogs || loaded.Log.JSON, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		commands.Configure(loaded, verbosity)
		if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			logger.Debugw("config loaded",
				logger.FieldFile, loaded.Path,
				logger.FieldEngine, loaded.Format.Engine,
				"verbosity", logger.LevelName(verbosity))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored diagnostics")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default: nearest dismantle.toml)")

	rootCmd.AddCommand(commands.ExpandCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DumpCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
