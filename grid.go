package cabledraw

import "math"

// pointGrid is a uniform grid bucket index over a fixed point set, used for
// approximate nearest-neighbor queries during tour construction. Buckets are
// intrusive linked lists (head/next), and queries expand ring by ring until
// no closer candidate can exist outside the visited cells.
type pointGrid struct {
	cellSize float64
	gridW    int
	gridH    int
	head     []int
	next     []int
	pts      []Point
}

// newPointGrid sizes cells from point density over the bounding extent, so
// that an average cell holds about one point. The cell size is a heuristic;
// the query contract does not depend on it.
func newPointGrid(pts []Point, extentW, extentH float64) *pointGrid {
	cellSize := math.Sqrt(extentW * extentH / float64(max(len(pts), 1)))
	if cellSize < 1.0 {
		cellSize = 1.0
	}
	gridW := max(int(math.Ceil(extentW/cellSize)), 1)
	gridH := max(int(math.Ceil(extentH/cellSize)), 1)

	g := &pointGrid{
		cellSize: cellSize,
		gridW:    gridW,
		gridH:    gridH,
		head:     make([]int, gridW*gridH),
		next:     make([]int, len(pts)),
		pts:      pts,
	}
	for i := range g.head {
		g.head[i] = -1
	}
	for i := range pts {
		cell := g.cellOf(pts[i])
		g.next[i] = g.head[cell]
		g.head[cell] = i
	}
	return g
}

func (g *pointGrid) cellOf(p Point) int {
	gx := clampInt(int(p.X/g.cellSize), 0, g.gridW-1)
	gy := clampInt(int(p.Y/g.cellSize), 0, g.gridH-1)
	return gy*g.gridW + gx
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// outsideCellDistSq returns the squared distance from (px,py) to the nearest
// grid cell outside the [minGX..maxGX]x[minGY..maxGY] window, or +Inf when
// the window already covers the whole grid.
func outsideCellDistSq(px, py float64, minGX, maxGX, minGY, maxGY, gridW, gridH int, cellSize float64) float64 {
	minDist := math.Inf(1)

	if minGX > 0 {
		minDist = min(minDist, px-float64(minGX)*cellSize)
	}
	if maxGX < gridW-1 {
		minDist = min(minDist, float64(maxGX+1)*cellSize-px)
	}
	if minGY > 0 {
		minDist = min(minDist, py-float64(minGY)*cellSize)
	}
	if maxGY < gridH-1 {
		minDist = min(minDist, float64(maxGY+1)*cellSize-py)
	}

	if math.IsInf(minDist, 1) {
		return math.Inf(1)
	}

	minDist = max(minDist, 0)
	return minDist * minDist
}

// nearest returns the index of the closest unvisited point to from, or -1
// when every point is visited. Ties resolve to the earliest-encountered
// candidate within a cell scan.
func (g *pointGrid) nearest(from Point, visited []bool) int {
	centerGX := clampInt(int(from.X/g.cellSize), 0, g.gridW-1)
	centerGY := clampInt(int(from.Y/g.cellSize), 0, g.gridH-1)

	best := -1
	bestD := math.Inf(1)
	for ring := 0; ; ring++ {
		minGX := max(centerGX-ring, 0)
		maxGX := min(centerGX+ring, g.gridW-1)
		minGY := max(centerGY-ring, 0)
		maxGY := min(centerGY+ring, g.gridH-1)

		for gy := minGY; gy <= maxGY; gy++ {
			row := gy * g.gridW
			for gx := minGX; gx <= maxGX; gx++ {
				if ring > 0 && gx > minGX && gx < maxGX && gy > minGY && gy < maxGY {
					continue
				}
				for i := g.head[row+gx]; i != -1; i = g.next[i] {
					if visited[i] {
						continue
					}
					dx := from.X - g.pts[i].X
					dy := from.Y - g.pts[i].Y
					d := dx*dx + dy*dy
					if d < bestD {
						bestD = d
						best = i
					}
				}
			}
		}

		if best >= 0 {
			minOutside := outsideCellDistSq(from.X, from.Y, minGX, maxGX, minGY, maxGY, g.gridW, g.gridH, g.cellSize)
			if minOutside > bestD {
				return best
			}
		}

		if minGX == 0 && maxGX == g.gridW-1 && minGY == 0 && maxGY == g.gridH-1 {
			return best
		}
	}
}
