package cmd

import (
	"context"
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/JonSchram/subtitleedit/coverage"
	"github.com/JonSchram/subtitleedit/cue"
	"github.com/JonSchram/subtitleedit/selector"
)

// StatsCmd prints coverage quality of a selection over the visible range
type StatsCmd struct {
	SelectionFlags `embed:""`
}

func (cmd *StatsCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	cues, err := cue.Load(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to load cues: %w", err)
	}

	res := cmd.run(ctx, log, cues, nil)
	report := newCoverageReport(res.window, res.picked)

	return report.write(cmd.writer(), res.stats)
}

// coverageReport summarises how the picked cues layer over the visible range
type coverageReport struct {
	MeanLevel   float64 // time-weighted mean coverage level
	StdDevLevel float64 // time-weighted standard deviation of the level
	GapFraction float64 // share of the visible range with no cue
	MaxLevel    int     // deepest stacking
}

func newCoverageReport(window selector.Window, picked []cue.Cue) coverageReport {
	f := coverage.New()
	for _, c := range picked {
		f.Increment(c.StartMS, c.EndMS)
	}

	segments := f.Segments(window.VisibleStart, window.VisibleEnd)
	if len(segments) == 0 {
		return coverageReport{}
	}

	levels := make([]float64, len(segments))
	weights := make([]float64, len(segments))
	var report coverageReport
	var gap, total int64

	for i, seg := range segments {
		length := seg.End - seg.Start
		levels[i] = float64(seg.Level)
		weights[i] = float64(length)
		total += length
		if seg.Level == 0 {
			gap += length
		}
		report.MaxLevel = max(report.MaxLevel, seg.Level)
	}

	report.MeanLevel = stat.Mean(levels, weights)
	report.StdDevLevel = stat.PopStdDev(levels, weights)
	report.GapFraction = float64(gap) / float64(total)

	return report
}

func (r coverageReport) write(w io.Writer, stats selector.Stats) error {
	_, err := fmt.Fprintf(w,
		"candidates:      %d\n"+
			"picks:           %d (visible %d, fallback %d)\n"+
			"baseline:        %.3f\n"+
			"visible covered: %.3f\n"+
			"mean level:      %.3f\n"+
			"stddev level:    %.3f\n"+
			"gap fraction:    %.3f\n"+
			"max level:       %d\n",
		stats.Candidates,
		stats.Picks, stats.VisiblePicks, stats.FallbackPicks,
		stats.Baseline,
		stats.VisibleCovered,
		r.MeanLevel,
		r.StdDevLevel,
		r.GapFraction,
		r.MaxLevel,
	)
	return err
}
