package cabledraw

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects the path planning strategy for a generation run.
type Mode int

const (
	// ModeDots paints each layer as a tour of individual dots.
	ModeDots Mode = iota
	// ModeStrokes paints each layer as scanline strokes.
	ModeStrokes
	// ModeSpray paints contours traced from an edge mask.
	ModeSpray
)

func (m Mode) String() string {
	switch m {
	case ModeStrokes:
		return "strokes"
	case ModeSpray:
		return "spray"
	default:
		return "dots"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "dots":
		return ModeDots, nil
	case "strokes":
		return ModeStrokes, nil
	case "spray":
		return ModeSpray, nil
	}
	return 0, fmt.Errorf("unknown mode %q, want dots, strokes or spray", s)
}

// Options configures one generation run: the machine geometry, the paint
// budget and the per-mode planning parameters. All physical values are in
// millimeters; durations are seconds.
type Options struct {
	// CanvasWidth and CanvasHeight are the physical painting surface the
	// image is scaled onto.
	CanvasWidth  float64 `yaml:"canvas_width"`
	CanvasHeight float64 `yaml:"canvas_height"`
	// Anchors are the three cable mount points. They must form a
	// non-degenerate triangle.
	Anchors Anchors `yaml:"anchors"`
	// Refill is where the head parks for refills and color changes.
	Refill Point `yaml:"refill"`

	PaintCapacity float64 `yaml:"paint_capacity"`
	// RefillThreshold is the remaining fraction of capacity that triggers
	// a refill sequence. Zero means the default of 0.1.
	RefillThreshold  float64 `yaml:"refill_threshold"`
	RefillDwell      float64 `yaml:"refill_dwell"`
	ColorChangeDwell float64 `yaml:"color_change_dwell"`

	// MoveFeed and PaintFeed are the rapid and painting feed rates in
	// mm/min.
	MoveFeed  float64 `yaml:"move_feed"`
	PaintFeed float64 `yaml:"paint_feed"`

	// Colors is the palette size, 1 to 10.
	Colors        int           `yaml:"colors"`
	PaletteMethod PaletteMethod `yaml:"palette_method"`
	// SampleStride subsamples large images during quantization.
	SampleStride int `yaml:"sample_stride"`

	Mode Mode `yaml:"mode"`

	// Dot mode. Density in (0,1] controls dot spacing: 1.0 packs dots at
	// touching distance. Dot diameter interpolates between DotMinSize and
	// DotMaxSize by local mask coverage.
	DotDensity float64 `yaml:"dot_density"`
	DotMinSize float64 `yaml:"dot_min_size"`
	DotMaxSize float64 `yaml:"dot_max_size"`
	DotDwell   float64 `yaml:"dot_dwell"`

	// Stroke mode.
	StrokeWidth     float64 `yaml:"stroke_width"`
	StrokeTolerance float64 `yaml:"stroke_tolerance"`
	VerticalScan    bool    `yaml:"vertical_scan"`

	// Spray mode. Lengths and tolerances are in source pixels.
	SprayRadius    float64 `yaml:"spray_radius"`
	SprayMinLength float64 `yaml:"spray_min_length"`
	SprayTolerance float64 `yaml:"spray_tolerance"`
	EdgeLow        float64 `yaml:"edge_low"`
	EdgeHigh       float64 `yaml:"edge_high"`
	BlurKernel     int     `yaml:"blur_kernel"`
	BlurSigma      float64 `yaml:"blur_sigma"`

	// Thickness is the nozzle paint layer thickness used for consumption
	// accounting.
	Thickness float64 `yaml:"thickness"`
}

func DefaultOptions() Options {
	return Options{
		CanvasWidth:  2000,
		CanvasHeight: 1500,
		Anchors: Anchors{
			TopLeft:      Point{X: 0, Y: 0},
			TopRight:     Point{X: 2000, Y: 0},
			BottomCenter: Point{X: 1000, Y: 1500},
		},
		Refill:           Point{X: 0, Y: 750},
		PaintCapacity:    100,
		RefillDwell:      5,
		ColorChangeDwell: 10,
		MoveFeed:         3000,
		PaintFeed:        1500,
		Colors:           5,
		Mode:             ModeDots,
		DotDensity:       0.5,
		DotMinSize:       2,
		DotMaxSize:       6,
		DotDwell:         0.2,
		StrokeWidth:      4,
		StrokeTolerance:  0,
		SprayRadius:      3,
		SprayMinLength:   10,
		SprayTolerance:   1.5,
		EdgeLow:          40,
		EdgeHigh:         100,
		BlurKernel:       5,
		BlurSigma:        1.4,
		Thickness:        1,
	}
}

// Validate rejects configurations that would make a run meaningless. Every
// violation is fatal before generation starts.
func (o *Options) Validate() error {
	if o.CanvasWidth <= 0 || o.CanvasHeight <= 0 {
		return fmt.Errorf("options: canvas %gx%g must have positive dimensions", o.CanvasWidth, o.CanvasHeight)
	}
	if err := o.Anchors.Validate(); err != nil {
		return err
	}
	if o.PaintCapacity <= 0 {
		return fmt.Errorf("options: paint capacity %g must be positive", o.PaintCapacity)
	}
	if o.RefillThreshold < 0 || o.RefillThreshold >= 1 {
		return fmt.Errorf("options: refill threshold %g outside [0,1)", o.RefillThreshold)
	}
	if o.Colors < 1 || o.Colors > 10 {
		return fmt.Errorf("options: palette size %d outside [1,10]", o.Colors)
	}
	if o.MoveFeed <= 0 || o.PaintFeed <= 0 {
		return fmt.Errorf("options: feed rates must be positive")
	}
	if o.Thickness <= 0 {
		return fmt.Errorf("options: paint thickness %g must be positive", o.Thickness)
	}
	switch o.Mode {
	case ModeDots:
		if o.DotDensity <= 0 || o.DotDensity > 1 {
			return fmt.Errorf("options: dot density %g outside (0,1]", o.DotDensity)
		}
		if o.DotMinSize <= 0 || o.DotMaxSize < o.DotMinSize {
			return fmt.Errorf("options: dot size range [%g,%g] invalid", o.DotMinSize, o.DotMaxSize)
		}
	case ModeStrokes:
		if o.StrokeWidth <= 0 {
			return fmt.Errorf("options: stroke width %g must be positive", o.StrokeWidth)
		}
		if o.StrokeTolerance < 0 {
			return fmt.Errorf("options: stroke tolerance %g must not be negative", o.StrokeTolerance)
		}
	case ModeSpray:
		if o.SprayRadius <= 0 {
			return fmt.Errorf("options: spray radius %g must be positive", o.SprayRadius)
		}
		det := EdgeDetector{Low: o.EdgeLow, High: o.EdgeHigh, KernelSize: o.BlurKernel, Sigma: o.BlurSigma}
		if err := det.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("options: unknown mode %d", o.Mode)
	}
	return nil
}

// LoadOptions reads a YAML machine configuration over the defaults. The
// result is not validated here; Generate validates at run start.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("options: parsing %s: %w", path, err)
	}
	return opts, nil
}
