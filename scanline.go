package cabledraw

import "math"

// Segment is one maximal run of matching pixels on a scanline. Start and End
// are pixel-space endpoints; Reversed records that the segment should be
// painted End to Start to avoid idle return travel.
type Segment struct {
	Start    Point
	End      Point
	Reversed bool
}

func (s Segment) Length() float64 {
	return s.Start.Dist(s.End)
}

// From and To are the travel-order endpoints after reversal is applied.
func (s Segment) From() Point {
	if s.Reversed {
		return s.End
	}
	return s.Start
}

func (s Segment) To() Point {
	if s.Reversed {
		return s.Start
	}
	return s.End
}

// ScanSegments extracts maximal runs of pixels whose color lies within
// tolerance of target and whose alpha is non-zero. With vertical set, runs
// follow columns instead of rows. With bidirectional set the scan alternates
// direction every line (boustrophedon) and flags reversed runs.
func ScanSegments(buf *Buffer, target Color, tolerance float64, vertical, bidirectional bool) []Segment {
	matches := func(x, y int) bool {
		c, alpha := buf.At(x, y)
		return alpha > 0 && c.Dist(target) <= tolerance
	}

	var segments []Segment
	lines, span := buf.H, buf.W
	if vertical {
		lines, span = buf.W, buf.H
	}

	for line := 0; line < lines; line++ {
		reversed := bidirectional && line%2 == 1
		runStart := -1

		flush := func(runEnd int) {
			if runStart < 0 {
				return
			}
			seg := lineSegment(line, runStart, runEnd, vertical)
			seg.Reversed = reversed
			segments = append(segments, seg)
			runStart = -1
		}

		if reversed {
			for i := span - 1; i >= 0; i-- {
				if at(matches, line, i, vertical) {
					if runStart < 0 {
						runStart = i
					}
				} else {
					flush(i + 1)
				}
			}
			flush(0)
		} else {
			for i := 0; i < span; i++ {
				if at(matches, line, i, vertical) {
					if runStart < 0 {
						runStart = i
					}
				} else {
					flush(i - 1)
				}
			}
			flush(span - 1)
		}
	}
	return segments
}

func at(matches func(x, y int) bool, line, i int, vertical bool) bool {
	if vertical {
		return matches(line, i)
	}
	return matches(i, line)
}

// lineSegment builds a segment between two run indices on a line, always
// oriented from the lower to the higher coordinate.
func lineSegment(line, a, b int, vertical bool) Segment {
	lo, hi := min(a, b), max(a, b)
	if vertical {
		return Segment{
			Start: Point{X: float64(line), Y: float64(lo)},
			End:   Point{X: float64(line), Y: float64(hi)},
		}
	}
	return Segment{
		Start: Point{X: float64(lo), Y: float64(line)},
		End:   Point{X: float64(hi), Y: float64(line)},
	}
}

// orderByEndpoints greedily orders paths described by their start and end
// points: from the current position pick whichever unvisited path endpoint
// is nearest; entering through the end flips that path's direction. Returns
// the visiting order and a per-path flip flag.
func orderByEndpoints(from Point, starts, ends []Point) (order []int, flipped []bool) {
	n := len(starts)
	order = make([]int, 0, n)
	flipped = make([]bool, n)
	visited := make([]bool, n)
	pos := from

	for _i := 0; _i < n; _i++ { _ = _i
		best := -1
		bestFlip := false
		bestD := math.Inf(1)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			if d := pos.Dist(starts[i]); d < bestD {
				bestD = d
				best = i
				bestFlip = false
			}
			if d := pos.Dist(ends[i]); d < bestD {
				bestD = d
				best = i
				bestFlip = true
			}
		}
		if best < 0 {
			break
		}
		visited[best] = true
		flipped[best] = bestFlip
		order = append(order, best)
		if bestFlip {
			pos = starts[best]
		} else {
			pos = ends[best]
		}
	}
	return order, flipped
}

// OrderSegments reorders segments to minimize travel from the given start
// position. Consuming a segment from its far end toggles its Reversed flag.
func OrderSegments(segments []Segment, from Point) []Segment {
	if len(segments) == 0 {
		return segments
	}
	starts := make([]Point, len(segments))
	ends := make([]Point, len(segments))
	for i, s := range segments {
		starts[i] = s.From()
		ends[i] = s.To()
	}
	order, flipped := orderByEndpoints(from, starts, ends)
	out := make([]Segment, 0, len(order))
	for _, i := range order {
		seg := segments[i]
		if flipped[i] {
			seg.Reversed = !seg.Reversed
		}
		out = append(out, seg)
	}
	return out
}
