package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

var expandOutput string

// ExpandCmd expands one source file
var ExpandCmd = &cobra.Command{
	Use:   "expand <file.rs>",
	Short: "Expand the #[dismantle] structs of a file",
	Long: `Expand every struct annotated with #[dismantle] in a Rust source file.

Items that fail to expand are left as written and reported on stderr; the
rest of the file is still expanded. The command exits 1 if any item failed.
Use - to read from stdin.

Examples:
  dismantle expand src/shapes.rs
  dismantle expand src/shapes.rs -o src/shapes.expanded.rs
  cat shapes.rs | dismantle expand -`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	ExpandCmd.Flags().StringVarP(&expandOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	path := args[0]
	res, err := expandPath(cmd.Context(), path)
	if err != nil {
		return err
	}
	reportFailures(cmd.ErrOrStderr(), path, res)

	if expandOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
	} else {
		if err := os.WriteFile(expandOutput, []byte(res.Output), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", expandOutput)
		}
		_, v := settings()
		if logger.ShouldOutput(v, logger.OutputProgress) {
			logger.Infow("wrote expansion", logger.FieldFile, path, logger.FieldOutput, expandOutput)
		}
	}
	return failureError(path, res)
}
