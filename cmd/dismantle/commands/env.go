package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/teranos/dismantle/config"
	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/expand"
	"github.com/teranos/dismantle/logger"
	"github.com/teranos/dismantle/rustfmt"
)

var (
	mu        sync.RWMutex
	current   *config.Loaded
	verbosity int
)

// LoadConfig loads the file named by --config, or the cascade from the
// working directory when explicit is empty.
func LoadConfig(explicit string) (*config.Loaded, error) {
	if explicit != "" {
		c, err := config.LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		return &config.Loaded{Config: c, Path: explicit}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	return config.Load(wd)
}

// Configure sets the configuration and verbosity every command runs with.
func Configure(l *config.Loaded, v int) {
	mu.Lock()
	defer mu.Unlock()
	current = l
	verbosity = v
}

func settings() (*config.Loaded, int) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return &config.Loaded{Config: config.Default()}, verbosity
	}
	return current, verbosity
}

// newTransformer builds a transformer for sources under dir: the edition
// may depend on the Cargo.toml above it.
func newTransformer(c *config.Config, dir string, v int) (*dismantle.Transformer, error) {
	s, err := c.FormatSettings(dir)
	if err != nil {
		return nil, err
	}
	s.Verbosity = v
	f, err := rustfmt.FromSettings(s)
	if err != nil {
		return nil, err
	}
	opts := c.TransformOptions(f)
	opts.Logger = logger.ComponentLogger("dismantle")
	opts.Verbosity = v
	return dismantle.New(opts), nil
}

// readSource reads path, or stdin when path is "-".
func readSource(path string) (string, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(body), nil
}

// expandPath expands the file at path with the current configuration.
func expandPath(ctx context.Context, path string) (*expand.Result, error) {
	c, v := settings()
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	dir := "."
	if path != "-" {
		dir = filepath.Dir(path)
	}
	tr, err := newTransformer(c.Config, dir, v)
	if err != nil {
		return nil, err
	}
	return expandSource(ctx, path, src, tr, v)
}

func expandSource(ctx context.Context, path, src string, tr expand.Transformer, v int) (*expand.Result, error) {
	start := time.Now()
	res, err := expand.File(logger.WithFile(ctx, path), src, tr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand %s", path)
	}
	if logger.ShouldOutput(v, logger.OutputProgress) {
		fields := []interface{}{
			logger.FieldFile, path,
			logger.FieldItems, len(res.Items),
			logger.FieldFailed, len(res.Failed()),
		}
		if logger.ShouldOutput(v, logger.OutputTiming) {
			fields = append(fields, logger.FieldDuration, time.Since(start).Milliseconds())
		}
		logger.Infow("expanded", fields...)
	}
	if logger.ShouldOutput(v, logger.OutputGenerated) {
		for _, it := range res.Items {
			if it.Result == nil {
				continue
			}
			logger.Debugw("generated module",
				logger.FieldFile, path,
				logger.FieldRecord, it.Name(),
				"code", it.Result.Output)
		}
	}
	return res, nil
}
