package cabledraw

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color. Channel values are always clamped to [0,255]
// on construction.
type Color struct {
	R, G, B uint8
}

func clampChannel(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}

// colorFromMeans builds a Color from floating point channel means, clamping
// each channel into the valid range.
func colorFromMeans(r, g, b float64) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colorful converts to a go-colorful color with channels in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func colorFromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return colorFromMeans(c.R*255, c.G*255, c.B*255)
}

// DistSq is the squared Euclidean RGB distance between two colors.
func (c Color) DistSq(o Color) float64 {
	dr := float64(c.R) - float64(o.R)
	dg := float64(c.G) - float64(o.G)
	db := float64(c.B) - float64(o.B)
	return dr*dr + dg*dg + db*db
}

// Dist is the Euclidean RGB distance between two colors.
func (c Color) Dist(o Color) float64 {
	return math.Sqrt(c.DistSq(o))
}

// grayValue converts RGB channels to grayscale using the luminosity weights
// 0.299/0.587/0.114.
func grayValue(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// SortByBrightness orders colors from darkest to brightest using linear-RGB
// luminance. The first palette entry becomes the darkest color, which is
// painted first so brighter layers land on top.
func SortByBrightness(palette []Color) {
	slices.SortFunc(palette, func(a, b Color) int {
		ra, ga, ba := a.Colorful().LinearRgb()
		rb, gb, bb := b.Colorful().LinearRgb()
		ya := 0.2126*ra + 0.7152*ga + 0.0722*ba
		yb := 0.2126*rb + 0.7152*gb + 0.0722*bb
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

// Nearest returns the index of the palette color closest to c in Euclidean
// RGB distance. Ties resolve to the earliest palette entry.
func Nearest(palette []Color, c Color) int {
	best := 0
	bestD := math.MaxFloat64
	for i, p := range palette {
		d := c.DistSq(p)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
