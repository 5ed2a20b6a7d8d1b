// Package coverage tracks how many selected intervals cover each point in time.
//
// A Function is a right-continuous step function stored as a sorted list of
// breakpoints. Each breakpoint holds the level for the half-open range up to
// the next breakpoint; the function is 0 before the first breakpoint. The
// structure grows with the number of increments, not with the length of the
// timeline.
package coverage

import (
	"golang.org/x/exp/slices"
)

// Breakpoint is a timestamp where the coverage level may change.
type Breakpoint struct {
	Time  int64
	Level int
}

// Segment is a constant-level piece of the function clipped to a query range.
type Segment struct {
	Start int64
	End   int64
	Level int
}

// Function is the piecewise-constant coverage function. The zero value is an
// empty function ready for use.
type Function struct {
	points []Breakpoint
}

// New returns an empty coverage function
func New() *Function {
	return &Function{}
}

// Len returns the number of breakpoints
func (f *Function) Len() int {
	return len(f.points)
}

// Breakpoints returns a copy of the breakpoints in time order
func (f *Function) Breakpoints() []Breakpoint {
	return slices.Clone(f.points)
}

// search returns the index of the first breakpoint at or after t, and whether
// a breakpoint exists exactly at t.
func (f *Function) search(t int64) (int, bool) {
	return slices.BinarySearchFunc(f.points, t, func(bp Breakpoint, t int64) int {
		switch {
		case bp.Time < t:
			return -1
		case bp.Time > t:
			return 1
		}
		return 0
	})
}

// ensure makes sure a breakpoint exists at t and returns its index. A new
// breakpoint inherits the level of its predecessor so the value of the
// function does not change anywhere.
func (f *Function) ensure(t int64) int {
	i, found := f.search(t)
	if found {
		return i
	}
	level := 0
	if i > 0 {
		level = f.points[i-1].Level
	}
	f.points = slices.Insert(f.points, i, Breakpoint{Time: t, Level: level})
	return i
}

// Increment raises the level by one on [start, end).
func (f *Function) Increment(start, end int64) {
	first := f.ensure(start)
	last := f.ensure(end)
	for i := first; i < last; i++ {
		f.points[i].Level++
	}
}

// LevelAt returns the level in effect at t.
func (f *Function) LevelAt(t int64) int {
	i, found := f.search(t)
	if found {
		return f.points[i].Level
	}
	if i == 0 {
		return 0
	}
	return f.points[i-1].Level
}

// Average returns the time-weighted mean level over [start, end]. A
// zero-length range returns the level at that instant.
func (f *Function) Average(start, end int64) float64 {
	if len(f.points) == 0 {
		return 0
	}
	if end <= start {
		return float64(f.LevelAt(start))
	}

	i, found := f.search(start)
	level := 0
	switch {
	case found:
		level = f.points[i].Level
		i++
	case i > 0:
		level = f.points[i-1].Level
	}

	var mass int64
	cursor := start
	for ; i < len(f.points) && f.points[i].Time < end; i++ {
		bp := f.points[i]
		mass += int64(level) * (bp.Time - cursor)
		cursor = bp.Time
		level = bp.Level
	}
	mass += int64(level) * (end - cursor)

	return float64(mass) / float64(end-start)
}

// MinimumLevel returns the smallest level across all breakpoints, 0 when the
// function is empty.
func (f *Function) MinimumLevel() int {
	if len(f.points) == 0 {
		return 0
	}
	minimum := f.points[0].Level
	for _, bp := range f.points {
		if bp.Level == 0 {
			return 0
		}
		if bp.Level < minimum {
			minimum = bp.Level
		}
	}
	return minimum
}

// Segments returns the constant-level pieces of the function clipped to
// [start, end). Adjacent pieces may share a level.
func (f *Function) Segments(start, end int64) []Segment {
	if end <= start {
		return nil
	}

	i, found := f.search(start)
	level := 0
	switch {
	case found:
		level = f.points[i].Level
		i++
	case i > 0:
		level = f.points[i-1].Level
	}

	var segments []Segment
	cursor := start
	for ; i < len(f.points) && f.points[i].Time < end; i++ {
		bp := f.points[i]
		if bp.Time > cursor {
			segments = append(segments, Segment{Start: cursor, End: bp.Time, Level: level})
		}
		cursor = bp.Time
		level = bp.Level
	}
	segments = append(segments, Segment{Start: cursor, End: end, Level: level})

	return segments
}
