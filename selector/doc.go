// Package selector picks which subtitle cues a timeline view should draw.
//
// A timeline can only show a limited number of cues at once. The selector
// chooses a subset that favours the visible window and spreads the chosen
// cues over the timeline as evenly as possible, so the view has little
// stacking and few empty stretches.
//
// # Windows
//
// A Window has two ranges: the visible range shown on screen, and the wider
// eligibility range (visible range widened by a margin on both sides). Cues
// that do not intersect the eligibility range are dropped on insert.
//
// # Selection Algorithm
//
// Candidates are sorted longest first, earlier start breaking ties. Each
// round picks the candidate whose own span currently has the lowest average
// coverage (see package coverage), then adds it to the coverage function:
//   - Off-screen candidates compete only while the coverage already placed
//     in the visible range is at most half of the baseline, the sum of the
//     visible fractions of all visible candidates.
//   - A candidate at or below the minimum coverage level ends the scan early.
//   - If no candidate qualifies, the first remaining one is taken.
//
// # Usage
//
//	sl := selector.New[cue.Cue](selector.NewWindow(60000, 90000, 10), log, nil)
//	for _, c := range cues {
//	    sl.Insert(c)
//	}
//	shown := sl.Select(40)
package selector
