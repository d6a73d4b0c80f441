package commands

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/dismantle/config"
	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

const expandedSuffix = ".expanded.rs"

var watchInitial bool

// WatchCmd regenerates expansions as sources change
var WatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Regenerate *.expanded.rs files when sources change",
	Long: `Watch a directory tree and write <name>.expanded.rs next to every
<name>.rs that contains #[dismantle] structs, whenever it changes.

target/ and hidden directories are skipped. Changes to the project's
dismantle.toml are picked up without restarting.

Examples:
  dismantle watch            # Watch the working directory
  dismantle watch src/ -v    # Log each regenerated file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().BoolVar(&watchInitial, "initial", true, "Expand every source once before watching")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, v := settings()
	tr, err := newTransformer(loaded.Config, dir, v)
	if err != nil {
		return err
	}
	r := newRegenerator(tr, v, cmd.ErrOrStderr())

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := addTree(fw, dir); err != nil {
		fw.Close()
		return err
	}

	if watchInitial {
		files, err := sourceFiles(dir)
		if err != nil {
			fw.Close()
			return err
		}
		if err := r.regenerate(ctx, files); err != nil {
			fw.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.run(gctx, fw) })

	if loaded.Path != "" {
		explicit, _ := cmd.Flags().GetString("config")
		cw, err := config.NewWatcher(loaded.Path, func() (*config.Config, error) {
			l, err := LoadConfig(explicit)
			if err != nil {
				return nil, err
			}
			return l.Config, nil
		})
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		cw.OnReload(func(c *config.Config) error {
			tr, err := newTransformer(c, dir, v)
			if err != nil {
				return err
			}
			r.setTransformer(tr)
			return nil
		})
		g.Go(func() error { return cw.Run(gctx) })
	}

	if logger.ShouldOutput(v, logger.OutputWatch) {
		logger.Infow("watching", logger.FieldFile, dir)
	}
	return g.Wait()
}

// regenerator writes expansions for changed sources.
type regenerator struct {
	tr        atomic.Pointer[dismantle.Transformer]
	verbosity int
	debounce  time.Duration
	log       *zap.SugaredLogger

	diagMu sync.Mutex
	diag   io.Writer
}

func newRegenerator(tr *dismantle.Transformer, verbosity int, diag io.Writer) *regenerator {
	r := &regenerator{
		verbosity: verbosity,
		debounce:  100 * time.Millisecond,
		log:       logger.ComponentLogger("watch"),
		diag:      diag,
	}
	r.tr.Store(tr)
	return r
}

func (r *regenerator) setTransformer(tr *dismantle.Transformer) {
	r.tr.Store(tr)
}

// run consumes watcher events until ctx is done. Events are collected
// until the tree has been quiet for the debounce interval, then the changed
// files are regenerated together.
func (r *regenerator) run(ctx context.Context, fw *fsnotify.Watcher) error {
	defer fw.Close()
	pending := make(map[string]struct{})
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						r.log.Warnw("failed to watch new directory", logger.FieldFile, event.Name, logger.FieldError, err)
					}
					continue
				}
			}
			if !isSource(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			fire = time.After(r.debounce)
		case <-fire:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			pending = make(map[string]struct{})
			fire = nil
			if err := r.regenerate(ctx, files); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			r.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// regenerate expands files concurrently. A file that fails is reported and
// does not stop the others.
func (r *regenerator) regenerate(ctx context.Context, files []string) error {
	g, gctx := errgroup.WithContext(logger.WithComponent(ctx, "watch"))
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, f := range files {
		g.Go(func() error {
			err := r.regenerateFile(gctx, f)
			if err != nil && gctx.Err() == nil {
				r.log.Errorw("regeneration failed", logger.FieldFile, f, logger.FieldError, err)
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// regenerateFile writes the expansion of path. Sources without annotated
// items get no expansion file, and an unchanged expansion is not rewritten.
func (r *regenerator) regenerateFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read %s", path)
	}
	res, err := expandSource(ctx, path, string(src), r.tr.Load(), r.verbosity)
	if err != nil {
		return err
	}
	if len(res.Items) == 0 {
		return nil
	}
	if len(res.Failed()) > 0 {
		r.diagMu.Lock()
		reportFailures(r.diag, path, res)
		r.diagMu.Unlock()
	}

	out := expandedPath(path)
	if existing, err := os.ReadFile(out); err == nil && string(existing) == res.Output {
		return nil
	}
	if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", out)
	}
	if logger.ShouldOutput(r.verbosity, logger.OutputWatch) {
		r.log.Infow("regenerated",
			logger.FieldFile, path,
			logger.FieldOutput, out,
			logger.FieldItems, len(res.Items),
			logger.FieldFailed, len(res.Failed()))
	}
	return nil
}

func isSource(path string) bool {
	return strings.HasSuffix(path, ".rs") && !strings.HasSuffix(path, expandedSuffix)
}

func expandedPath(path string) string {
	return strings.TrimSuffix(path, ".rs") + expandedSuffix
}

func skipDir(root, path string, d fs.DirEntry) bool {
	if path == root {
		return false
	}
	name := d.Name()
	return name == "target" || strings.HasPrefix(name, ".")
}

// addTree watches root and every directory below it.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(root, path, d) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// sourceFiles lists the .rs sources below root, expansions excluded.
func sourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(root, path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if isSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sources in %s", root)
	}
	return files, nil
}
