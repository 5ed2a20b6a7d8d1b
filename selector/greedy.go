package selector

import (
	"golang.org/x/exp/slices"
)

// pickKind identifies why a candidate was chosen
type pickKind string

const (
	pickVisible   pickKind = "visible"   // visible candidate with the lowest coverage
	pickOffscreen pickKind = "offscreen" // off-screen candidate with the lowest coverage
	pickFallback  pickKind = "fallback"  // no candidate qualified; first in order
)

// pick removes and returns the handle of the next candidate. The pool is
// scanned in order; a candidate must be visible unless the visible range
// still holds at most half of the baseline coverage. The lowest average
// coverage wins and ties keep the earlier candidate. Reaching the minimum
// coverage level ends the scan.
func (r *selectionRun[T]) pick() (int, pickKind, bool) {
	if len(r.pool) == 0 {
		return 0, "", false
	}

	openToAll := r.runningVisible <= r.baseline/2

	bestIdx := -1
	bestValue := 0.0
	for i, h := range r.pool {
		if !openToAll && !r.window.Visible(r.items[h]) {
			continue
		}

		value := r.cachedCoverage(h)
		if bestIdx < 0 || value < bestValue {
			bestIdx = i
			bestValue = value
		}

		if value <= r.minimumThreshold {
			r.stats.EarlyExits++
			break
		}
	}

	kind := pickOffscreen
	if bestIdx < 0 {
		bestIdx = 0
		kind = pickFallback
		r.stats.FallbackPicks++
	}

	h := r.pool[bestIdx]
	r.pool = slices.Delete(r.pool, bestIdx, bestIdx+1)

	if kind != pickFallback && r.window.Visible(r.items[h]) {
		kind = pickVisible
	}

	return h, kind, true
}
