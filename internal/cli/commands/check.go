package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/leapstack-labs/confreport/internal/report"
	"github.com/spf13/cobra"
)

// debounceDelay groups the events of a single save into one re-run.
const debounceDelay = 100 * time.Millisecond

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <config> <spec>",
		Short: "Report errors, then summary tables when the configuration is valid",
		Long: `Validate a configuration against its specification. An invalid
configuration prints its error tree; a valid one prints its summary tables.

With --watch the check re-runs whenever either file changes, until
interrupted.`,
		Example: `  confreport check app.yaml app.spec.yaml
  confreport check app.yaml app.spec.yaml --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if !watch {
				return cc.check(cmd.Context(), args[0], args[1])
			}

			rerun := func() {
				if err := cc.check(cmd.Context(), args[0], args[1]); err != nil && !errors.Is(err, ErrInvalidConfig) {
					cc.Renderer.Error(err.Error())
				}
				cc.Renderer.Muted("Watching for changes, press Ctrl+C to stop.")
			}
			rerun()
			return watchFiles(cmd.Context(), cc.Logger, []string{args[0], args[1]}, rerun)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run when the configuration or specification changes")
	addReportFlags(cmd)
	return cmd
}

func (c *CommandContext) check(ctx context.Context, configPath, specPath string) error {
	opts, err := c.ReportOptions()
	if err != nil {
		return err
	}
	rep, err := report.Run(ctx, configPath, specPath, opts)
	if err != nil {
		return err
	}

	r := c.Renderer
	switch {
	case r.EffectiveMode() == output.ModeJSON:
		if err := r.JSON(rep); err != nil {
			return err
		}
	case rep.Valid():
		if c.Cfg.IncludeValid {
			c.printErrorTree(rep)
		}
		c.printTables(rep)
		r.Success("Configuration is valid.")
	default:
		c.printErrorTree(rep)
	}

	if !rep.Valid() {
		return ErrInvalidConfig
	}
	return nil
}

// watchFiles calls onChange after writes to any of files settle, until ctx
// is done. The parent directories are watched so that editors replacing the
// file on save are noticed.
func watchFiles(ctx context.Context, logger *slog.Logger, files []string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", "dir", dir)
	}

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				if ctx.Err() != nil {
					return
				}
				logger.Info("change detected", "file", filepath.Base(name))
				onChange()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
