package cabledraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSegmentsFullRow(t *testing.T) {
	c := Color{R: 255}
	buf := flatBuffer(8, 1, c)

	segs := ScanSegments(buf, c, 0, false, false)
	require.Len(t, segs, 1)
	assert.Equal(t, Point{X: 0, Y: 0}, segs[0].Start)
	assert.Equal(t, Point{X: 7, Y: 0}, segs[0].End)
	assert.False(t, segs[0].Reversed)
	assert.InDelta(t, 7.0, segs[0].Length(), 1e-9)
}

func TestScanSegmentsRuns(t *testing.T) {
	// Pattern X.XX.X yields three runs.
	c := Color{G: 200}
	buf := NewBuffer(6, 1)
	for _, x := range []int{0, 2, 3, 5} {
		buf.Set(x, 0, c, 255)
	}

	segs := ScanSegments(buf, c, 0, false, false)
	require.Len(t, segs, 3)
	assert.Equal(t, Point{X: 0, Y: 0}, segs[0].Start)
	assert.Equal(t, Point{X: 0, Y: 0}, segs[0].End)
	assert.Equal(t, Point{X: 2, Y: 0}, segs[1].Start)
	assert.Equal(t, Point{X: 3, Y: 0}, segs[1].End)
	assert.Equal(t, Point{X: 5, Y: 0}, segs[2].Start)
	assert.Equal(t, Point{X: 5, Y: 0}, segs[2].End)
}

func TestScanSegmentsBidirectional(t *testing.T) {
	c := Color{B: 180}
	buf := flatBuffer(4, 3, c)

	segs := ScanSegments(buf, c, 0, false, true)
	require.Len(t, segs, 3)
	assert.False(t, segs[0].Reversed)
	assert.True(t, segs[1].Reversed)
	assert.False(t, segs[2].Reversed)

	// Reversal changes travel order but not the stored endpoints.
	assert.Equal(t, Point{X: 0, Y: 1}, segs[1].Start)
	assert.Equal(t, Point{X: 3, Y: 1}, segs[1].End)
	assert.Equal(t, Point{X: 3, Y: 1}, segs[1].From())
	assert.Equal(t, Point{X: 0, Y: 1}, segs[1].To())
}

func TestScanSegmentsVertical(t *testing.T) {
	c := Color{R: 90, G: 90, B: 90}
	buf := NewBuffer(3, 5)
	for y := 0; y < 5; y++ {
		buf.Set(1, y, c, 255)
	}

	segs := ScanSegments(buf, c, 0, true, false)
	require.Len(t, segs, 1)
	assert.Equal(t, Point{X: 1, Y: 0}, segs[0].Start)
	assert.Equal(t, Point{X: 1, Y: 4}, segs[0].End)
}

func TestScanSegmentsTolerance(t *testing.T) {
	target := Color{R: 100}
	buf := NewBuffer(2, 1)
	buf.Set(0, 0, Color{R: 104}, 255) // distance 4
	buf.Set(1, 0, Color{R: 120}, 255) // distance 20

	segs := ScanSegments(buf, target, 5, false, false)
	require.Len(t, segs, 1)
	assert.Equal(t, Point{X: 0, Y: 0}, segs[0].Start)
	assert.Equal(t, Point{X: 0, Y: 0}, segs[0].End)
}

func TestScanSegmentsSkipsTransparent(t *testing.T) {
	c := Color{R: 50}
	buf := NewBuffer(3, 1)
	buf.Set(0, 0, c, 255)
	buf.Set(1, 0, c, 0)
	buf.Set(2, 0, c, 255)

	segs := ScanSegments(buf, c, 0, false, false)
	require.Len(t, segs, 2)
}

func TestOrderSegments(t *testing.T) {
	segs := []Segment{
		{Start: Point{X: 100, Y: 0}, End: Point{X: 110, Y: 0}},
		{Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 0}},
	}

	ordered := OrderSegments(segs, Point{X: 0, Y: 0})
	require.Len(t, ordered, 2)
	// Nearest endpoint to the origin is the second segment's start.
	assert.Equal(t, Point{X: 0, Y: 0}, ordered[0].Start)
	assert.False(t, ordered[0].Reversed)
	// From (10,0) the closest endpoint of the far segment is its start too.
	assert.Equal(t, Point{X: 100, Y: 0}, ordered[1].Start)
	assert.False(t, ordered[1].Reversed)
}

func TestOrderSegmentsFlips(t *testing.T) {
	segs := []Segment{
		{Start: Point{X: 0, Y: 0}, End: Point{X: 50, Y: 0}},
	}
	ordered := OrderSegments(segs, Point{X: 60, Y: 0})
	require.Len(t, ordered, 1)
	// Entering from the end flips the travel direction.
	assert.True(t, ordered[0].Reversed)
	assert.Equal(t, Point{X: 50, Y: 0}, ordered[0].From())
	assert.Equal(t, Point{X: 0, Y: 0}, ordered[0].To())
}
