package cmd

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.ntppool.org/common/tracing"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/slices"

	"github.com/JonSchram/subtitleedit/cue"
	"github.com/JonSchram/subtitleedit/selector"
)

// SelectCmd prints the selected cues
type SelectCmd struct {
	SelectionFlags `embed:""`

	Format string `default:"text" enum:"text,json" help:"output format (text, json)"`
}

func (cmd *SelectCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	cues, err := cue.Load(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to load cues: %w", err)
	}

	res := cmd.run(ctx, log, cues, nil)

	return writeSelection(cmd.writer(), cmd.Format, res.picked)
}

// selection is the outcome of one run
type selection struct {
	window selector.Window
	picked []cue.Cue
	stats  selector.Stats
}

// run selects from the cues with the flags' window and limit. The picked
// cues are returned in timeline order.
func (f *SelectionFlags) run(ctx context.Context, log *slog.Logger, cues []cue.Cue, metrics *selector.Metrics) selection {
	ctx, span := tracing.Start(ctx, "cuepick.select")
	defer span.End()

	runID := ulid.Make().String()
	log = log.With("runID", runID)
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("file", f.File),
	)

	window := selector.NewWindow(int64(f.VisibleStart), int64(f.VisibleEnd), f.Margin)
	sl := selector.New[cue.Cue](window, log, metrics)

	dropped := 0
	for _, c := range cues {
		if !sl.Insert(c) {
			dropped++
		}
	}

	picked, stats := sl.SelectWithStats(ctx, f.Limit)
	slices.SortStableFunc(picked, func(a, b cue.Cue) int {
		if a.StartMS != b.StartMS {
			return cmp.Compare(a.StartMS, b.StartMS)
		}
		return cmp.Compare(a.EndMS, b.EndMS)
	})

	span.SetAttributes(
		attribute.Int("cues", len(cues)),
		attribute.Int("dropped", dropped),
	)

	log.InfoContext(ctx, "selection done",
		"file", f.File,
		"visibleStart", f.VisibleStart.String(),
		"visibleEnd", f.VisibleEnd.String(),
		"cues", len(cues),
		"dropped", dropped,
		"candidates", stats.Candidates,
		"picks", stats.Picks,
		"visiblePicks", stats.VisiblePicks,
		"fallbackPicks", stats.FallbackPicks)

	return selection{window: window, picked: picked, stats: stats}
}

func writeSelection(w io.Writer, format string, picked []cue.Cue) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(picked)
	}

	for _, c := range picked {
		text, _, _ := strings.Cut(c.Text, "\n")
		if _, err := fmt.Fprintf(w, "%-42s %s\n", c.String(), text); err != nil {
			return err
		}
	}
	return nil
}
