package cabledraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnchors() Anchors {
	return Anchors{
		TopLeft:      Point{X: 0, Y: 0},
		TopRight:     Point{X: 2000, Y: 0},
		BottomCenter: Point{X: 1000, Y: 1500},
	}
}

func TestAnchorsValidate(t *testing.T) {
	require.NoError(t, testAnchors().Validate())

	coincident := testAnchors()
	coincident.TopRight = coincident.TopLeft
	require.Error(t, coincident.Validate())

	collinear := Anchors{
		TopLeft:      Point{X: 0, Y: 0},
		TopRight:     Point{X: 2000, Y: 0},
		BottomCenter: Point{X: 1000, Y: 0},
	}
	require.Error(t, collinear.Validate())
}

func TestForwardDistances(t *testing.T) {
	a := testAnchors()
	c := a.Forward(Point{X: 500, Y: 300})

	assert.InDelta(t, 583.10, c.X, 0.005)
	assert.InDelta(t, 1529.71, c.Y, 0.005)
	assert.InDelta(t, 1300.00, c.Z, 0.005)
}

func TestForwardRounding(t *testing.T) {
	a := testAnchors()
	c := a.Forward(Point{X: 1, Y: 1})
	// sqrt(2) = 1.41421... must round to exactly two decimals.
	assert.Equal(t, 1.41, c.X)
}

func TestInverseRoundtrip(t *testing.T) {
	a := testAnchors()
	points := []Point{
		{X: 500, Y: 300},
		{X: 1000, Y: 750},
		{X: 10, Y: 10},
		{X: 1999, Y: 1499},
		{X: 123.45, Y: 987.65},
	}
	for _, p := range points {
		got, ok := a.Inverse(a.Forward(p))
		require.True(t, ok, "no solution for %+v", p)
		assert.InDelta(t, p.X, got.X, 0.1)
		assert.InDelta(t, p.Y, got.Y, 0.1)
	}
}

func TestInverseNoSolution(t *testing.T) {
	a := testAnchors()
	// Two short cables cannot meet across a 2000 mm baseline.
	_, ok := a.Inverse(Coord{X: 10, Y: 10, Z: 10})
	require.False(t, ok)
}

func TestScaleRatios(t *testing.T) {
	s := NewScale(800, 600, 2000, 1500)
	assert.Equal(t, 2.5, s.XRatio)
	assert.Equal(t, 2.5, s.YRatio)

	phys := s.ToPhysical(Point{X: 100, Y: 40})
	assert.Equal(t, Point{X: 250, Y: 100}, phys)
	assert.Equal(t, Point{X: 100, Y: 40}, s.ToPixel(phys))

	// Independent ratios on a non-uniform mapping.
	s = NewScale(100, 100, 1000, 500)
	assert.Equal(t, 10.0, s.XRatio)
	assert.Equal(t, 5.0, s.YRatio)
}
