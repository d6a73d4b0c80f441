package rustfmt

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

// External runs the rustfmt binary over stdin.
type External struct {
	Path      string
	Edition   string
	Verbosity int
}

func (e *External) binary() (string, error) {
	if e.Path != "" {
		return e.Path, nil
	}
	path, err := exec.LookPath("rustfmt")
	if err != nil {
		return "", errors.WithHint(errors.Wrap(err, "rustfmt not found"),
			"install it with `rustup component add rustfmt` or set format.engine = \"builtin\"")
	}
	return path, nil
}

// Format implements Formatter.
func (e *External) Format(ctx context.Context, src string) (string, error) {
	bin, err := e.binary()
	if err != nil {
		return "", err
	}

	args := []string{"--emit", "stdout"}
	if e.Edition != "" {
		args = append(args, "--edition", e.Edition)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	if logger.ShouldOutput(e.Verbosity, logger.OutputFormatter) {
		logger.ComponentLogger("rustfmt").Debugw("ran rustfmt",
			logger.FieldEngine, bin,
			"args", args,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldError, err)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", errors.Wrapf(err, "%s failed", bin)
		}
		return "", errors.WithDetail(errors.Wrapf(err, "%s failed", bin), msg)
	}
	return stdout.String(), nil
}
