package cabledraw

import "math"

// Polyline is an ordered point sequence traced from an edge mask. Reversed
// marks that it should be painted last point first.
type Polyline struct {
	Points   []Point
	Reversed bool
}

// Length is the cumulative length over consecutive points.
func (p Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Dist(p.Points[i])
	}
	return total
}

func (p Polyline) From() Point {
	if p.Reversed {
		return p.Points[len(p.Points)-1]
	}
	return p.Points[0]
}

func (p Polyline) To() Point {
	if p.Reversed {
		return p.Points[0]
	}
	return p.Points[len(p.Points)-1]
}

// Walk returns the points in painting order.
func (p Polyline) Walk() []Point {
	if !p.Reversed {
		return p.Points
	}
	out := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out[len(p.Points)-1-i] = pt
	}
	return out
}

// TraceContours walks the edge mask and returns one simplified polyline per
// 8-connected component. Components shorter than minLength are dropped.
// A positive tolerance simplifies each polyline with Douglas-Peucker;
// tolerance 0 keeps the raw visiting order unchanged.
func TraceContours(mask *Mask, minLength, tolerance float64) []Polyline {
	w, h := mask.W, mask.H
	visited := make([]bool, w*h)
	var polylines []Polyline

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if visited[i] || mask.Pix[i] == 0 {
				continue
			}
			raw := traceComponent(mask, x, y, visited)
			poly := Polyline{Points: raw}
			if poly.Length() < minLength {
				continue
			}
			if tolerance > 0 {
				poly.Points = SimplifyPolyline(raw, tolerance)
			}
			polylines = append(polylines, poly)
		}
	}
	return polylines
}

// traceComponent is a breadth-first walk over 8-connected edge pixels
// starting at (sx, sy). The visitation order becomes the raw polyline.
func traceComponent(mask *Mask, sx, sy int, visited []bool) []Point {
	w, h := mask.W, mask.H
	queue := [][2]int{{sx, sy}}
	visited[sy*w+sx] = true
	var points []Point

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		points = append(points, Point{X: float64(p[0]), Y: float64(p[1])})

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p[0]+dx, p[1]+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if visited[ni] || mask.Pix[ni] == 0 {
					continue
				}
				visited[ni] = true
				queue = append(queue, [2]int{nx, ny})
			}
		}
	}
	return points
}

// SimplifyPolyline is recursive Douglas-Peucker: when the farthest point
// from the endpoint chord exceeds tolerance, recurse on both halves and
// join them dropping the duplicated split point; otherwise collapse the run
// to its two endpoints. Tolerance 0 returns the sequence unchanged, which
// makes re-simplification a no-op.
func SimplifyPolyline(points []Point, tolerance float64) []Point {
	if tolerance <= 0 || len(points) < 3 {
		return points
	}
	maxDist := 0.0
	maxIdx := 0
	a, b := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance {
		return []Point{a, b}
	}
	left := SimplifyPolyline(points[:maxIdx+1], tolerance)
	right := SimplifyPolyline(points[maxIdx:], tolerance)
	out := make([]Point, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	out = append(out, right...)
	return out
}

// perpendicularDistance is the distance from p to the line through a and b,
// degrading to point distance when a and b coincide.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / math.Sqrt(lenSq)
}

// OrderPolylines applies the same nearest-endpoint, either-direction greedy
// ordering used for scan segments.
func OrderPolylines(polylines []Polyline, from Point) []Polyline {
	if len(polylines) == 0 {
		return polylines
	}
	starts := make([]Point, len(polylines))
	ends := make([]Point, len(polylines))
	for i, p := range polylines {
		starts[i] = p.From()
		ends[i] = p.To()
	}
	order, flipped := orderByEndpoints(from, starts, ends)
	out := make([]Polyline, 0, len(order))
	for _, i := range order {
		poly := polylines[i]
		if flipped[i] {
			poly.Reversed = !poly.Reversed
		}
		out = append(out, poly)
	}
	return out
}
