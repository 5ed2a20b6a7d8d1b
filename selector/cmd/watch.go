package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"go.ntppool.org/common/metricsserver"
	"go.ntppool.org/common/version"

	"github.com/JonSchram/subtitleedit/cue"
	"github.com/JonSchram/subtitleedit/selector"
)

// WatchCmd re-runs the selection each time the subtitle file is written
type WatchCmd struct {
	SelectionFlags `embed:""`

	Format      string        `default:"text" enum:"text,json" help:"output format (text, json)"`
	MetricsPort int           `default:"0" help:"metrics server port (0 disables)" flag:"metrics-port"`
	MaxWait     time.Duration `default:"10s" help:"how long to retry reading a file that is being written"`
}

func (cmd *WatchCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return err
	}

	var metrics *selector.Metrics
	if cmd.MetricsPort > 0 {
		metricssrv := metricsserver.New()
		version.RegisterMetric("cuepick", metricssrv.Registry())
		go func() {
			if err := metricssrv.ListenAndServe(ctx, cmd.MetricsPort); err != nil {
				log.Error("metrics server error", "err", err)
			}
		}()
		metrics = selector.NewMetrics(metricssrv.Registry())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so files replaced by rename are still seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if err := cmd.refresh(ctx, log, path, metrics); err != nil {
		return err
	}

	log.InfoContext(ctx, "watching for changes", "file", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.DebugContext(ctx, "file changed", "op", event.Op.String())
			if err := cmd.refresh(ctx, log, path, metrics); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.WarnContext(ctx, "could not refresh selection", "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WarnContext(ctx, "file watcher error", "err", err)
		}
	}
}

// refresh loads the file, retrying while it is mid-write, and prints the
// new selection.
func (cmd *WatchCmd) refresh(ctx context.Context, log *slog.Logger, path string, metrics *selector.Metrics) error {
	cues, err := loadWithRetry(ctx, path, cmd.MaxWait)
	if err != nil {
		return fmt.Errorf("failed to load cues: %w", err)
	}

	res := cmd.run(ctx, log, cues, metrics)

	return writeSelection(cmd.writer(), cmd.Format, res.picked)
}

// loadWithRetry loads cues with exponential backoff. Unsupported formats fail
// right away.
func loadWithRetry(ctx context.Context, path string, maxWait time.Duration) ([]cue.Cue, error) {
	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = 100 * time.Millisecond
	expback.MaxInterval = 2 * time.Second

	return backoff.Retry(ctx, func() ([]cue.Cue, error) {
		cues, err := cue.Load(path)
		if errors.Is(err, cue.ErrUnknownFormat) {
			return nil, backoff.Permanent(err)
		}
		return cues, err
	},
		backoff.WithBackOff(expback),
		backoff.WithMaxElapsedTime(maxWait),
	)
}
