package cabledraw

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// tourSafetyCap bounds worst-case planning cost: larger point sets are
	// returned in natural scan order without optimization.
	tourSafetyCap = 10000
	// gridSearchMin is the point count above which nearest-neighbor queries
	// go through the uniform grid index instead of a linear scan.
	gridSearchMin = 1000
	// twoOptMax is the largest point count that still gets 2-opt refinement.
	twoOptMax = 500
	// twoOptPassCap bounds the number of full improvement sweeps.
	twoOptPassCap = 64
)

// PlanTour returns a visiting permutation over points, starting at start.
// Construction is nearest-neighbor; small tours are refined with 2-opt.
func PlanTour(points []Point, start int) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if start < 0 || start >= n {
		start = 0
	}
	if n > tourSafetyCap {
		tour := make([]int, n)
		for i := range tour {
			tour[i] = i
		}
		return tour
	}

	tour := nearestNeighborTour(points, start)
	if n <= twoOptMax {
		tour = twoOpt(points, tour)
	}
	return tour
}

func nearestNeighborTour(points []Point, start int) []int {
	n := len(points)
	tour := make([]int, 0, n)
	visited := make([]bool, n)
	tour = append(tour, start)
	visited[start] = true

	if n > gridSearchMin {
		extentW, extentH := pointExtent(points)
		grid := newPointGrid(points, extentW, extentH)
		current := start
		for len(tour) < n {
			next := grid.nearest(points[current], visited)
			if next < 0 {
				break
			}
			visited[next] = true
			tour = append(tour, next)
			current = next
		}
		return tour
	}

	current := start
	for len(tour) < n {
		best := -1
		bestD := math.Inf(1)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := points[current].Dist(points[i])
			if d < bestD {
				bestD = d
				best = i
			}
		}
		if best < 0 {
			break
		}
		visited[best] = true
		tour = append(tour, best)
		current = best
	}
	return tour
}

// twoOpt repeatedly reverses the sub-tour between two positions whenever
// that shortens the total length, until a full pass finds no improvement or
// the pass cap is hit.
func twoOpt(points []Point, tour []int) []int {
	n := len(tour)
	if n < 4 {
		return tour
	}
	for pass := 0; pass < twoOptPassCap; pass++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				a, b := points[tour[i-1]], points[tour[i]]
				c := points[tour[j]]
				var d Point
				wrap := j == n-1
				if !wrap {
					d = points[tour[j+1]]
				}

				before := a.Dist(b)
				after := a.Dist(c)
				if !wrap {
					before += c.Dist(d)
					after += b.Dist(d)
				}
				if after < before-1e-9 {
					reverseRange(tour, i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return tour
}

func reverseRange(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

// TourLength sums the open-tour edge lengths in visiting order.
func TourLength(points []Point, tour []int) float64 {
	if len(tour) < 2 {
		return 0
	}
	dists := make([]float64, len(tour)-1)
	for i := 1; i < len(tour); i++ {
		dists[i-1] = points[tour[i-1]].Dist(points[tour[i]])
	}
	return floats.Sum(dists)
}

func pointExtent(points []Point) (w, h float64) {
	for _, p := range points {
		w = max(w, p.X+1)
		h = max(h, p.Y+1)
	}
	return w, h
}

// WeightedPoint is a downsampled dot site: the representative point of one
// occupied density cell plus the fraction of that cell covered by the mask.
type WeightedPoint struct {
	Point    Point
	Coverage float64
}

// DownsampleMask buckets mask pixels onto a grid with the given cell size
// and keeps one representative per occupied cell, in scan order. Coverage is
// the occupied fraction of each cell.
func DownsampleMask(mask *Mask, cell float64) []WeightedPoint {
	if cell < 1 {
		cell = 1
	}
	gw := max(int(math.Ceil(float64(mask.W)/cell)), 1)
	gh := max(int(math.Ceil(float64(mask.H)/cell)), 1)

	first := make([]int, gw*gh) // first mask pixel index per cell, +1 biased
	counts := make([]int, gw*gh)
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.At(x, y) == 0 {
				continue
			}
			gx := clampInt(int(float64(x)/cell), 0, gw-1)
			gy := clampInt(int(float64(y)/cell), 0, gh-1)
			g := gy*gw + gx
			if counts[g] == 0 {
				first[g] = y*mask.W + x + 1
			}
			counts[g]++
		}
	}

	cellArea := cell * cell
	var out []WeightedPoint
	for g, c := range counts {
		if c == 0 {
			continue
		}
		idx := first[g] - 1
		out = append(out, WeightedPoint{
			Point:    Point{X: float64(idx % mask.W), Y: float64(idx / mask.W)},
			Coverage: min(1, float64(c)/cellArea),
		})
	}
	return out
}
