package selector

import "math"

// Interval is an item with a start and end time in milliseconds. End is never
// before Start.
type Interval interface {
	Start() int64
	End() int64
}

// duration returns the length of an interval in milliseconds
func duration(item Interval) int64 {
	return item.End() - item.Start()
}

// Window holds the visible range and the wider eligibility range derived
// from it. The eligibility range always contains the visible range.
type Window struct {
	VisibleStart  int64
	VisibleEnd    int64
	EligibleStart int64
	EligibleEnd   int64
}

// NewWindow builds a window from the visible range (milliseconds) and a
// margin in seconds that widens the eligibility range on both sides.
func NewWindow(visibleStart, visibleEnd int64, marginSeconds float64) Window {
	margin := int64(math.Round(marginSeconds * 1000))
	if margin < 0 {
		margin = 0
	}
	return Window{
		VisibleStart:  visibleStart,
		VisibleEnd:    visibleEnd,
		EligibleStart: visibleStart - margin,
		EligibleEnd:   visibleEnd + margin,
	}
}

// intersects is closed interval intersection
func intersects(item Interval, rangeStart, rangeEnd int64) bool {
	return item.Start() <= rangeEnd && item.End() >= rangeStart
}

// Eligible reports whether the item intersects the eligibility range
func (w Window) Eligible(item Interval) bool {
	return intersects(item, w.EligibleStart, w.EligibleEnd)
}

// Visible reports whether the item intersects the visible range
func (w Window) Visible(item Interval) bool {
	return intersects(item, w.VisibleStart, w.VisibleEnd)
}

// VisibleDuration is the length of the visible range
func (w Window) VisibleDuration() int64 {
	return w.VisibleEnd - w.VisibleStart
}

// VisibleFraction returns the share of the visible range covered by the
// item, clamped to the visible range. A zero-length visible range yields 0.
func (w Window) VisibleFraction(item Interval) float64 {
	span := w.VisibleDuration()
	if span <= 0 {
		return 0
	}
	overlap := min(item.End(), w.VisibleEnd) - max(item.Start(), w.VisibleStart)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(span)
}

// Stats describes what happened during one selection
type Stats struct {
	Candidates     int     // eligible items considered
	Picks          int     // items returned
	VisiblePicks   int     // picks intersecting the visible range
	FallbackPicks  int     // picks made when no candidate qualified
	EarlyExits     int     // rounds that stopped scanning at the minimum level
	PassThrough    bool    // limit covered the whole pool, no selection ran
	Baseline       float64 // sum of visible fractions of visible candidates
	VisibleCovered float64 // visible fractions accumulated by picks
}
