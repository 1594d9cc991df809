package cabledraw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(n int, seed int64) []Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: rng.Float64() * 500, Y: rng.Float64() * 400}
	}
	return pts
}

func assertPermutation(t *testing.T, tour []int, n int) {
	t.Helper()
	require.Len(t, tour, n)
	seen := make([]bool, n)
	for _, idx := range tour {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, n)
		require.False(t, seen[idx], "index %d visited twice", idx)
		seen[idx] = true
	}
}

func TestPlanTourPermutation(t *testing.T) {
	pts := randomPoints(50, 1)
	tour := PlanTour(pts, 0)
	assertPermutation(t, tour, 50)
	assert.Equal(t, 0, tour[0])
}

func TestPlanTourImprovesOnNearestNeighbor(t *testing.T) {
	pts := randomPoints(80, 2)
	nn := nearestNeighborTour(pts, 0)
	planned := PlanTour(pts, 0)
	assert.LessOrEqual(t, TourLength(pts, planned), TourLength(pts, nn))
}

func TestPlanTourStartOutOfRange(t *testing.T) {
	pts := randomPoints(10, 3)
	tour := PlanTour(pts, -1)
	assertPermutation(t, tour, 10)
	assert.Equal(t, 0, tour[0])
}

func TestPlanTourSafetyCap(t *testing.T) {
	pts := randomPoints(tourSafetyCap+1, 4)
	tour := PlanTour(pts, 5)
	require.Len(t, tour, len(pts))
	// Above the cap the tour is natural scan order, independent of start.
	for i, idx := range tour {
		assert.Equal(t, i, idx)
	}
}

func TestPlanTourEmpty(t *testing.T) {
	assert.Nil(t, PlanTour(nil, 0))
}

func TestTourLength(t *testing.T) {
	pts := []Point{{0, 0}, {3, 4}, {3, 0}}
	assert.InDelta(t, 9.0, TourLength(pts, []int{0, 1, 2}), 1e-9)
	assert.Zero(t, TourLength(pts, []int{0}))
}

func TestGridNearestMatchesBruteForce(t *testing.T) {
	pts := randomPoints(300, 5)
	extentW, extentH := pointExtent(pts)
	grid := newPointGrid(pts, extentW, extentH)
	visited := make([]bool, len(pts))
	visited[17] = true
	visited[200] = true

	for _, from := range []Point{{0, 0}, {250, 200}, {499, 399}, pts[42]} {
		bestD := -1.0
		got := grid.nearest(from, visited)
		require.GreaterOrEqual(t, got, 0)
		for i, p := range pts {
			if visited[i] {
				continue
			}
			d := from.Dist(p)
			if bestD < 0 || d < bestD {
				bestD = d
			}
		}
		assert.InDelta(t, bestD, from.Dist(pts[got]), 1e-9)
	}
}

func TestGridNearestAllVisited(t *testing.T) {
	pts := randomPoints(20, 6)
	extentW, extentH := pointExtent(pts)
	grid := newPointGrid(pts, extentW, extentH)
	visited := make([]bool, len(pts))
	for i := range visited {
		visited[i] = true
	}
	assert.Equal(t, -1, grid.nearest(Point{X: 10, Y: 10}, visited))
}

func TestDownsampleMask(t *testing.T) {
	mask := NewMask(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			mask.Set(x, y, 255)
		}
	}

	pts := DownsampleMask(mask, 5)
	require.Len(t, pts, 4)
	for _, p := range pts {
		assert.InDelta(t, 1.0, p.Coverage, 1e-9)
	}
	// Scan order: the first representative is the cell containing (0,0).
	assert.Equal(t, Point{X: 0, Y: 0}, pts[0].Point)
}

func TestDownsampleMaskPartialCoverage(t *testing.T) {
	mask := NewMask(4, 4)
	mask.Set(1, 1, 255)

	pts := DownsampleMask(mask, 4)
	require.Len(t, pts, 1)
	assert.Equal(t, Point{X: 1, Y: 1}, pts[0].Point)
	assert.InDelta(t, 1.0/16.0, pts[0].Coverage, 1e-9)
}

func TestDownsampleMaskEmpty(t *testing.T) {
	assert.Empty(t, DownsampleMask(NewMask(8, 8), 2))
}

func BenchmarkPlanTour(b *testing.B) {
	pts := randomPoints(400, 9)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PlanTour(pts, 0)
	}
}
