package selector

import (
	"context"
	"log/slog"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Selector holds the eligible candidates for one timeline window. It is not
// safe for concurrent use; each view uses its own Selector.
type Selector[T Interval] struct {
	window  Window
	items   []T
	log     *slog.Logger
	metrics *Metrics
}

// New creates a selector for the window. A nil log uses the default logger;
// metrics may be nil.
func New[T Interval](window Window, log *slog.Logger, metrics *Metrics) *Selector[T] {
	if log == nil {
		log = logger.Setup()
	}
	return &Selector[T]{window: window, log: log, metrics: metrics}
}

// Window returns the selector's window
func (sl *Selector[T]) Window() Window {
	return sl.window
}

// Insert adds the item if it intersects the eligibility range and reports
// whether it was kept.
func (sl *Selector[T]) Insert(item T) bool {
	if !sl.window.Eligible(item) {
		return false
	}
	sl.items = append(sl.items, item)
	return true
}

// Len returns the number of eligible candidates
func (sl *Selector[T]) Len() int {
	return len(sl.items)
}

// IsVisible reports whether the item intersects the visible range
func (sl *Selector[T]) IsVisible(item T) bool {
	return sl.window.Visible(item)
}

// Select returns at most limit candidates chosen for display. When the limit
// covers every candidate they are returned in insertion order; otherwise the
// result is in pick order.
func (sl *Selector[T]) Select(limit int) []T {
	result, _ := sl.SelectWithStats(context.Background(), limit)
	return result
}

// SelectWithStats is Select, also reporting how the selection went. The
// selection is traced as a child of any span in ctx.
func (sl *Selector[T]) SelectWithStats(ctx context.Context, limit int) ([]T, Stats) {
	start := time.Now()

	ctx, span := tracing.Start(ctx, "selector.Select")
	defer span.End()

	result, stats := sl.selectItems(ctx, limit)

	span.SetAttributes(
		attribute.Int("limit", limit),
		attribute.Int("candidates", stats.Candidates),
		attribute.Int("picks", stats.Picks),
		attribute.Int("visible_picks", stats.VisiblePicks),
		attribute.Int("fallback_picks", stats.FallbackPicks),
		attribute.Bool("pass_through", stats.PassThrough),
	)
	if limit > 0 {
		sl.record(stats, start)
	}

	return result, stats
}

func (sl *Selector[T]) selectItems(ctx context.Context, limit int) ([]T, Stats) {
	if limit <= 0 {
		return []T{}, Stats{Candidates: len(sl.items)}
	}

	// No need to run the selection if everything fits
	if limit >= len(sl.items) {
		stats := Stats{
			Candidates:  len(sl.items),
			Picks:       len(sl.items),
			PassThrough: true,
		}
		for _, item := range sl.items {
			if sl.window.Visible(item) {
				stats.VisiblePicks++
			}
		}
		return append(make([]T, 0, len(sl.items)), sl.items...), stats
	}

	run := newRun(sl.window, sl.items)
	result := make([]T, 0, limit)

	for len(result) < limit && len(run.pool) > 0 {
		h, kind, ok := run.pick()
		if !ok {
			break
		}
		if kind == pickFallback {
			sl.log.DebugContext(ctx, "no candidate qualified, using first remaining",
				"round", len(result)+1,
				"runningVisible", run.runningVisible,
				"baseline", run.baseline)
		}
		if sl.metrics != nil {
			sl.metrics.TrackPick(kind)
		}

		result = append(result, sl.items[h])
		run.commit(h, len(result) < limit)
	}

	sl.log.DebugContext(ctx, "selection complete",
		"limit", limit,
		"candidates", run.stats.Candidates,
		"picks", run.stats.Picks,
		"visiblePicks", run.stats.VisiblePicks,
		"fallbackPicks", run.stats.FallbackPicks,
		"earlyExits", run.stats.EarlyExits,
		"baseline", run.stats.Baseline,
		"visibleCovered", run.stats.VisibleCovered,
		"breakpoints", run.coverage.Len())

	return result, run.stats
}

func (sl *Selector[T]) record(stats Stats, start time.Time) {
	if sl.metrics == nil {
		return
	}
	sl.metrics.RecordSelection(stats, time.Since(start).Seconds())
}
