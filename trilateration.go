package cabledraw

import (
	"fmt"
	"log"
	"math"
)

// Point is a planar position. Planners use it in pixel space; the
// transformer and assembler use it in physical (mm) space.
type Point struct {
	X, Y float64
}

func (p Point) Dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Coord is a trilateration coordinate: the Euclidean distances from a planar
// point to the three anchors. All components are non-negative.
type Coord struct {
	X, Y, Z float64
}

// Anchors holds the three fixed cable anchor positions. The triangle they
// form must be non-degenerate.
type Anchors struct {
	TopLeft      Point `yaml:"top_left"`
	TopRight     Point `yaml:"top_right"`
	BottomCenter Point `yaml:"bottom_center"`
}

// inverseWarnLimit is the tolerated disagreement, in mm, between the third
// cable length and the point recovered from the first two.
const inverseWarnLimit = 1.0

func (a Anchors) Validate() error {
	if a.TopLeft == a.TopRight {
		return fmt.Errorf("anchors: top-left and top-right coincide at (%g, %g)", a.TopLeft.X, a.TopLeft.Y)
	}
	// Twice the signed triangle area; zero means collinear anchors.
	area := (a.TopRight.X-a.TopLeft.X)*(a.BottomCenter.Y-a.TopLeft.Y) -
		(a.TopRight.Y-a.TopLeft.Y)*(a.BottomCenter.X-a.TopLeft.X)
	if math.Abs(area) < 1e-9 {
		return fmt.Errorf("anchors: degenerate triangle, the three anchors are collinear")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Forward maps a planar point to the three cable lengths, each rounded to
// two decimal places.
func (a Anchors) Forward(p Point) Coord {
	return Coord{
		X: round2(p.Dist(a.TopLeft)),
		Y: round2(p.Dist(a.TopRight)),
		Z: round2(p.Dist(a.BottomCenter)),
	}
}

// Inverse recovers the planar point from a set of cable lengths. The first
// two lengths fix the point up to a reflection across the top baseline; the
// third length selects the side. The second return value is false when the
// lengths are geometrically inconsistent and no real point exists.
//
// A residual disagreement with the third anchor above 1 mm is logged but
// does not fail the transform.
func (a Anchors) Inverse(c Coord) (Point, bool) {
	bx := a.TopRight.X - a.TopLeft.X
	by := a.TopRight.Y - a.TopLeft.Y
	baseline := math.Hypot(bx, by)
	if baseline == 0 {
		return Point{}, false
	}
	ux := bx / baseline
	uy := by / baseline

	// Projection of the point onto the baseline, measured from TopLeft.
	along := (c.X*c.X - c.Y*c.Y + baseline*baseline) / (2 * baseline)
	perpSq := c.X*c.X - along*along
	if perpSq < -1e-6 {
		return Point{}, false
	}
	perp := math.Sqrt(max(0, perpSq))

	foot := Point{X: a.TopLeft.X + along*ux, Y: a.TopLeft.Y + along*uy}
	p1 := Point{X: foot.X - perp*uy, Y: foot.Y + perp*ux}
	p2 := Point{X: foot.X + perp*uy, Y: foot.Y - perp*ux}

	r1 := math.Abs(p1.Dist(a.BottomCenter) - c.Z)
	r2 := math.Abs(p2.Dist(a.BottomCenter) - c.Z)
	p, residual := p1, r1
	if r2 < r1 {
		p, residual = p2, r2
	}
	if residual > inverseWarnLimit {
		log.Printf("trilateration: inverse residual %.2f mm exceeds %.0f mm against bottom anchor", residual, inverseWarnLimit)
	}
	return p, true
}

// Scale converts between image pixel coordinates and physical canvas
// coordinates with independent X and Y ratios.
type Scale struct {
	XRatio float64 // mm per pixel
	YRatio float64
}

func NewScale(imgW, imgH int, canvasW, canvasH float64) Scale {
	return Scale{
		XRatio: canvasW / float64(imgW),
		YRatio: canvasH / float64(imgH),
	}
}

func (s Scale) ToPhysical(p Point) Point {
	return Point{X: p.X * s.XRatio, Y: p.Y * s.YRatio}
}

func (s Scale) ToPixel(p Point) Point {
	return Point{X: p.X / s.XRatio, Y: p.Y / s.YRatio}
}
