package selector

import (
	"cmp"

	"golang.org/x/exp/slices"

	"github.com/JonSchram/subtitleedit/coverage"
)

// selectionRun is the working state of one Select call. Candidates are
// referred to by handle, their index in the selector's item slice, so two
// items with identical timestamps stay distinct.
type selectionRun[T Interval] struct {
	window Window
	items  []T

	// pool holds the handles not yet picked, longest first
	pool []int

	coverage *coverage.Function

	// cache maps a remaining handle to its average coverage over its own span
	cache map[int]float64

	runningVisible   float64
	minimumThreshold float64
	baseline         float64

	stats Stats
}

// newRun prepares a run over all ingested items
func newRun[T Interval](window Window, items []T) *selectionRun[T] {
	pool := make([]int, len(items))
	for i := range pool {
		pool[i] = i
	}

	// Longest duration first; earlier start breaks ties
	slices.SortStableFunc(pool, func(a, b int) int {
		if c := cmp.Compare(duration(items[b]), duration(items[a])); c != 0 {
			return c
		}
		return cmp.Compare(items[a].Start(), items[b].Start())
	})

	run := &selectionRun[T]{
		window:   window,
		items:    items,
		pool:     pool,
		coverage: coverage.New(),
		cache:    make(map[int]float64, len(items)),
	}
	run.baseline = run.averageParagraphCoverage()
	run.stats.Candidates = len(items)
	run.stats.Baseline = run.baseline

	return run
}

// averageParagraphCoverage sums the visible fraction of every visible
// candidate with a positive duration. It is the layering the visible range
// would have if all visible items were spread evenly.
func (r *selectionRun[T]) averageParagraphCoverage() float64 {
	var total float64
	for _, h := range r.pool {
		item := r.items[h]
		if duration(item) <= 0 || !r.window.Visible(item) {
			continue
		}
		total += r.window.VisibleFraction(item)
	}
	return total
}

// cachedCoverage returns the average coverage over the candidate's own span,
// computing and caching it on first use.
func (r *selectionRun[T]) cachedCoverage(h int) float64 {
	if v, ok := r.cache[h]; ok {
		return v
	}
	item := r.items[h]
	v := r.coverage.Average(item.Start(), item.End())
	r.cache[h] = v
	return v
}

// commit records a pick in the coverage function and the running totals.
// The cache is only maintained when further picks will read it.
func (r *selectionRun[T]) commit(h int, morePicks bool) {
	picked := r.items[h]
	r.coverage.Increment(picked.Start(), picked.End())
	r.stats.Picks++

	if r.window.Visible(picked) {
		r.stats.VisiblePicks++
		r.runningVisible += r.window.VisibleFraction(picked)
		r.minimumThreshold = float64(r.coverage.MinimumLevel())
	}
	r.stats.VisibleCovered = r.runningVisible

	if !morePicks {
		return
	}

	delete(r.cache, h)
	for other, value := range r.cache {
		r.cache[other] = value + overlapShare(r.items[other], picked)
	}
}

// overlapShare is how much the candidate's average coverage rises when the
// picked interval is added: the overlap length over the candidate's own
// duration. A zero-length candidate gains a full level when the pick covers
// its instant.
func overlapShare(candidate, picked Interval) float64 {
	d := duration(candidate)
	if d == 0 {
		if picked.Start() <= candidate.Start() && candidate.Start() < picked.End() {
			return 1
		}
		return 0
	}
	overlap := min(candidate.End(), picked.End()) - max(candidate.Start(), picked.Start())
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(d)
}
