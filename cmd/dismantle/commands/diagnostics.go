package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/expand"
	"github.com/teranos/dismantle/syntax"
)

// reportFailures writes one diagnostic per item that was left unexpanded.
func reportFailures(w io.Writer, path string, res *expand.Result) {
	for _, it := range res.Failed() {
		fmt.Fprintln(w, diagnostic(path, it))
	}
}

func diagnostic(path string, it expand.Item) string {
	var pe *syntax.ParseError
	if errors.As(it.Err, &pe) {
		if pterm.PrintColor {
			return fmt.Sprintf("%s: %s", pterm.Bold.Sprint(path), pe.FormatError(syntax.ErrorContextTerminal))
		}
		return fmt.Sprintf("%s:%s", path, pe.FormatError(syntax.ErrorContextPlain))
	}
	pos := it.Range.Start
	msg := it.Err.Error()
	if hint := errors.FlattenHints(it.Err); hint != "" {
		msg += " (" + hint + ")"
	}
	if pterm.PrintColor {
		return fmt.Sprintf("%s: %s", pterm.Bold.Sprintf("%s:%s", path, pos), pterm.Red(msg))
	}
	return fmt.Sprintf("%s:%s: %s", path, pos, msg)
}

// failureError summarizes the failed items of res, nil when there are none.
func failureError(path string, res *expand.Result) error {
	failed := len(res.Failed())
	if failed == 0 {
		return nil
	}
	return errors.Newf("%s: %d of %d items could not be expanded", path, failed, len(res.Items))
}
