package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

// CheckCmd checks that a committed expansion is up to date
var CheckCmd = &cobra.Command{
	Use:   "check <file.rs> <expanded.rs>",
	Short: "Check that an expanded file is up to date",
	Long: `Expand a source file in memory and compare the result with an existing
expansion.

Exit codes:
  0 - The expansion is up to date
  1 - The expansion is out of date (first difference shown) or an item failed

Examples:
  dismantle check src/shapes.rs src/shapes.expanded.rs`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, expanded := args[0], args[1]
	res, err := expandPath(cmd.Context(), source)
	if err != nil {
		return err
	}
	reportFailures(cmd.ErrOrStderr(), source, res)
	if err := failureError(source, res); err != nil {
		return err
	}

	want, err := readSource(expanded)
	if err != nil {
		return err
	}
	if line, ok := firstDifference(want, res.Output); ok {
		reportDrift(cmd.ErrOrStderr(), expanded, want, res.Output, line)
		return errors.WithHintf(errors.Newf("%s is out of date", expanded),
			"run: dismantle expand %s -o %s", source, expanded)
	}

	_, v := settings()
	if logger.ShouldOutput(v, logger.OutputStatus) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is up to date\n", pterm.Green("✓"), expanded)
	}
	return nil
}

// firstDifference returns the 1-based line at which a and b first differ.
func firstDifference(a, b string) (int, bool) {
	if a == b {
		return 0, false
	}
	al, bl := strings.Split(a, "\n"), strings.Split(b, "\n")
	for i := 0; i < len(al) && i < len(bl); i++ {
		if al[i] != bl[i] {
			return i + 1, true
		}
	}
	n := len(al)
	if len(bl) < n {
		n = len(bl)
	}
	return n + 1, true
}

func reportDrift(w io.Writer, path, want, got string, line int) {
	fmt.Fprintf(w, "%s:%d: %s\n", path, line, pterm.Yellow("differs from a fresh expansion"))
	fmt.Fprintf(w, "  %s %s\n", pterm.Red("-"), lineAt(want, line))
	fmt.Fprintf(w, "  %s %s\n", pterm.Green("+"), lineAt(got, line))
}

func lineAt(s string, line int) string {
	lines := strings.Split(s, "\n")
	if line-1 < len(lines) {
		return lines[line-1]
	}
	return "<end of file>"
}
