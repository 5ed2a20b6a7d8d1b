package coverage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestEmptyFunction(t *testing.T) {
	f := New()

	assert.Equal(t, 0.0, f.Average(0, 1000))
	assert.Equal(t, 0.0, f.Average(-500, 500))
	assert.Equal(t, 0.0, f.Average(42, 42))
	assert.Equal(t, 0, f.MinimumLevel())
	assert.Equal(t, 0, f.LevelAt(10))
	assert.Equal(t, 0, f.Len())
}

func TestIncrementBreakpoints(t *testing.T) {
	f := New()
	f.Increment(100, 300)
	f.Increment(200, 400)
	f.Increment(50, 100)

	want := []Breakpoint{
		{Time: 50, Level: 1},
		{Time: 100, Level: 1},
		{Time: 200, Level: 2},
		{Time: 300, Level: 1},
		{Time: 400, Level: 0},
	}
	if diff := cmp.Diff(want, f.Breakpoints()); diff != "" {
		t.Errorf("breakpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestIncrementInheritsPredecessorLevel(t *testing.T) {
	f := New()
	f.Increment(0, 1000)

	// splitting inside a covered range must not change the value there
	f.Increment(400, 600)

	assert.Equal(t, 1, f.LevelAt(0))
	assert.Equal(t, 1, f.LevelAt(399))
	assert.Equal(t, 2, f.LevelAt(400))
	assert.Equal(t, 2, f.LevelAt(599))
	assert.Equal(t, 1, f.LevelAt(600))
	assert.Equal(t, 1, f.LevelAt(999))
	assert.Equal(t, 0, f.LevelAt(1000))
	assert.Equal(t, 0, f.LevelAt(-1))
}

func TestSingleLongItem(t *testing.T) {
	f := New()
	f.Increment(0, 10000)

	assert.InDelta(t, 1.0, f.Average(0, 10000), 1e-9)
	assert.InDelta(t, 1.0, f.Average(4000, 6000), 1e-9)
	assert.Equal(t, 1, f.LevelAt(0))
	assert.Equal(t, 1, f.LevelAt(9999))
}

func TestAverage(t *testing.T) {
	f := New()
	f.Increment(1000, 2000)
	f.Increment(1500, 2500)

	tests := []struct {
		name       string
		start, end int64
		want       float64
	}{
		{"before first breakpoint", 0, 500, 0},
		{"leading zero portion", 0, 2000, (500.0*1 + 500.0*2) / 2000},
		{"exact segment", 1500, 2000, 2},
		{"past last breakpoint", 2000, 3000, 0.5},
		{"entirely after", 3000, 4000, 0},
		{"whole", 1000, 2500, (500.0 + 1000 + 500) / 1500},
		{"point on breakpoint", 1500, 1500, 2},
		{"point between breakpoints", 1200, 1200, 1},
		{"point before", -10, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, f.Average(tt.start, tt.end), 1e-9)
		})
	}
}

func TestAverageLinearity(t *testing.T) {
	f := New()
	f.Increment(0, 700)
	f.Increment(300, 1200)
	f.Increment(500, 550)
	f.Increment(900, 2000)

	points := []int64{-100, 0, 250, 300, 510, 549, 900, 1100, 2000, 2600}
	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				if a > b || b > c {
					continue
				}
				whole := f.Average(a, c) * float64(c-a)
				parts := f.Average(a, b)*float64(b-a) + f.Average(b, c)*float64(c-b)
				assert.InDelta(t, whole, parts, 1e-6, "a=%d b=%d c=%d", a, b, c)
			}
		}
	}
}

func TestPointAverageMatchesLevel(t *testing.T) {
	f := New()
	f.Increment(10, 20)
	f.Increment(15, 30)
	f.Increment(15, 16)

	for ts := int64(0); ts < 40; ts++ {
		assert.Equal(t, float64(f.LevelAt(ts)), f.Average(ts, ts), "t=%d", ts)
	}
}

func TestMinimumLevel(t *testing.T) {
	f := &Function{points: []Breakpoint{{0, 2}, {10, 3}, {20, 1}}}
	assert.Equal(t, 1, f.MinimumLevel())

	f = &Function{points: []Breakpoint{{0, 2}, {10, 0}, {20, 1}}}
	assert.Equal(t, 0, f.MinimumLevel())

	f = New()
	f.Increment(0, 100)
	assert.Equal(t, 0, f.MinimumLevel(), "trailing breakpoint is uncovered")
}

func TestZeroLengthIncrement(t *testing.T) {
	f := New()
	f.Increment(500, 500)

	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 0.0, f.Average(0, 1000))
}

func TestSegments(t *testing.T) {
	f := New()
	f.Increment(100, 200)
	f.Increment(150, 300)

	want := []Segment{
		{Start: 0, End: 100, Level: 0},
		{Start: 100, End: 150, Level: 1},
		{Start: 150, End: 200, Level: 2},
		{Start: 200, End: 250, Level: 1},
	}
	if diff := cmp.Diff(want, f.Segments(0, 250)); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, f.Segments(10, 10))
	assert.Equal(t, []Segment{{Start: 400, End: 500, Level: 0}}, f.Segments(400, 500))
	assert.Equal(t, []Segment{{Start: 160, End: 170, Level: 2}}, f.Segments(160, 170))
}
