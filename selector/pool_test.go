package selector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	w := NewWindow(10000, 20000, 1.5)
	assert.Equal(t, Window{VisibleStart: 10000, VisibleEnd: 20000, EligibleStart: 8500, EligibleEnd: 21500}, w)

	w = NewWindow(10000, 20000, 0)
	assert.Equal(t, w.VisibleStart, w.EligibleStart)
	assert.Equal(t, w.VisibleEnd, w.EligibleEnd)

	w = NewWindow(10000, 20000, -3)
	assert.Equal(t, int64(10000), w.EligibleStart, "negative margins are ignored")
}

func TestVisibleFraction(t *testing.T) {
	w := NewWindow(1000, 2000, 0)

	assert.InDelta(t, 0.5, w.VisibleFraction(span{"", 500, 1500}), 1e-9)
	assert.InDelta(t, 1.0, w.VisibleFraction(span{"", 0, 5000}), 1e-9)
	assert.InDelta(t, 0.1, w.VisibleFraction(span{"", 1200, 1300}), 1e-9)
	assert.Equal(t, 0.0, w.VisibleFraction(span{"", 2000, 2500}), "touching the edge covers nothing")
	assert.Equal(t, 0.0, w.VisibleFraction(span{"", 3000, 4000}))

	point := NewWindow(1000, 1000, 0)
	assert.Equal(t, 0.0, point.VisibleFraction(span{"", 0, 5000}))
	assert.True(t, point.Visible(span{"", 0, 5000}))
}

func TestRunSortOrder(t *testing.T) {
	items := []span{
		{"short", 0, 100},
		{"long-late", 5000, 7000},
		{"long-early", 1000, 3000},
		{"mid", 200, 1200},
		{"long-early-twin", 1000, 3000},
	}
	run := newRun(NewWindow(0, 10000, 0), items)

	var order []string
	for _, h := range run.pool {
		order = append(order, items[h].name)
	}
	assert.Equal(t, []string{"long-early", "long-early-twin", "long-late", "mid", "short"}, order)
}

func TestAverageParagraphCoverage(t *testing.T) {
	items := []span{
		{"half", 500, 1500},    // 0.5
		{"inside", 1200, 1300}, // 0.1
		{"point", 1500, 1500},  // zero duration
		{"outside", 3000, 4000},
		{"all", 0, 9000}, // 1.0
	}
	run := newRun(NewWindow(1000, 2000, 5), items)
	assert.InDelta(t, 1.6, run.baseline, 1e-9)
}

// TestIncrementalCache checks that the incrementally maintained cache always
// equals a fresh average over each candidate's span.
func TestIncrementalCache(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	items := randomSpans(rng, 150, 30000)
	items = append(items, span{"p", 12000, 12000}, span{"q", 15000, 15000})

	run := newRun(NewWindow(5000, 20000, 100), items)
	for round := 0; round < 60 && len(run.pool) > 0; round++ {
		h, _, ok := run.pick()
		require.True(t, ok)
		run.commit(h, true)

		_, stillCached := run.cache[h]
		assert.False(t, stillCached, "picked candidate must leave the cache")

		for other, cached := range run.cache {
			item := items[other]
			assert.InDelta(t, run.coverage.Average(item.start, item.end), cached, 1e-9,
				"round %d candidate %s", round, item.name)
		}
	}
}

func TestPickEmptyPool(t *testing.T) {
	run := newRun(NewWindow(0, 1000, 0), []span{})
	_, _, ok := run.pick()
	assert.False(t, ok)
}

func TestPickEarlyExit(t *testing.T) {
	items := []span{
		{"A", 0, 1000},
		{"B", 2000, 2900},
		{"C", 3000, 3800},
	}
	run := newRun(NewWindow(0, 4000, 0), items)

	h, kind, ok := run.pick()
	require.True(t, ok)
	assert.Equal(t, "A", items[h].name)
	assert.Equal(t, pickVisible, kind)
	assert.Equal(t, 1, run.stats.EarlyExits, "A is uncovered, so the scan stops at once")
	assert.Len(t, run.cache, 1, "only A was evaluated")
}

func TestOverlapShare(t *testing.T) {
	assert.InDelta(t, 0.5, overlapShare(span{"", 0, 1000}, span{"", 500, 2000}), 1e-9)
	assert.InDelta(t, 1.0, overlapShare(span{"", 100, 200}, span{"", 0, 2000}), 1e-9)
	assert.Equal(t, 0.0, overlapShare(span{"", 0, 1000}, span{"", 1000, 2000}))
	assert.Equal(t, 1.0, overlapShare(span{"", 500, 500}, span{"", 500, 600}))
	assert.Equal(t, 0.0, overlapShare(span{"", 600, 600}, span{"", 500, 600}))
	assert.Equal(t, 0.0, overlapShare(span{"", 0, 1000}, span{"", 500, 500}))
}
