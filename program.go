package cabledraw

import (
	"fmt"
	"strings"
	"time"
)

// ProgressFunc receives fractional completion and a status string. It is a
// reporting side channel only and has no effect on stream content. A nil
// callback disables reporting.
type ProgressFunc func(fraction float64, status string)

// progressInterval bounds how often the progress callback fires.
const progressInterval = 100 * time.Millisecond

// Stats summarizes one generation run for external estimators.
type Stats struct {
	CommandLines  int
	Refills       int
	PaintConsumed float64
	Layers        int
}

// Stroke is one painted element in pixel space, recorded for preview
// rendering. A dot stroke has equal From and To.
type Stroke struct {
	From, To Point
	Color    Color
	Dot      bool
	Size     float64 // mm
}

// Result is the immutable outcome of a generation run.
type Result struct {
	Commands []string
	Palette  []Color
	Layers   []*Layer
	EdgeMask *Mask // only set in spray mode
	Strokes  []Stroke
	Stats    Stats
}

// Text joins the command stream into newline-delimited text.
func (r *Result) Text() string {
	return strings.Join(r.Commands, "\n") + "\n"
}

// assembler owns the command stream buffer and the paint tracker for
// exactly one generation run.
type assembler struct {
	opts     Options
	scale    Scale
	tracker  *PaintTracker
	lines    []string
	strokes  []Stroke
	progress ProgressFunc
	lastTick time.Time

	pixPos  Point // current head position in pixel space
	physPos Point // same position in mm
}

// Generate runs the full pipeline over the buffer and returns the command
// stream plus layer data and statistics. Configuration errors abort the run
// before any command is produced.
func Generate(buf *Buffer, opts Options, progress ProgressFunc) (*Result, error) {
	if buf == nil || buf.W == 0 || buf.H == 0 {
		return nil, fmt.Errorf("generate: empty pixel buffer")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	quantizer := NewQuantizer()
	if opts.SampleStride > 1 {
		quantizer.Stride = opts.SampleStride
	}
	palette, err := quantizer.ExtractPalette(buf, opts.Colors, opts.PaletteMethod)
	if err != nil {
		return nil, err
	}
	SortByBrightness(palette)

	mapped := ApplyPalette(buf, palette)
	layers := SeparateLayers(mapped, palette)

	var edgeMask *Mask
	if opts.Mode == ModeSpray {
		det := EdgeDetector{Low: opts.EdgeLow, High: opts.EdgeHigh, KernelSize: opts.BlurKernel, Sigma: opts.BlurSigma}
		edgeMask, err = det.Detect(buf)
		if err != nil {
			return nil, err
		}
	}

	tracker := NewPaintTracker(opts.PaintCapacity)
	tracker.SetThreshold(opts.RefillThreshold)
	asm := &assembler{
		opts:     opts,
		scale:    NewScale(buf.W, buf.H, opts.CanvasWidth, opts.CanvasHeight),
		tracker:  tracker,
		progress: progress,
	}

	asm.report(0, "starting "+opts.Mode.String()+" generation")
	asm.preamble()
	for i, layer := range layers {
		if i > 0 {
			asm.colorChange(i, len(layers), layer.Color)
		}
		prims := asm.planLayer(mapped, layer, edgeMask)
		asm.emitPrimitives(prims, layer.Color, i, len(layers))
	}
	asm.termination()
	asm.report(1, "done")

	return &Result{
		Commands: asm.lines,
		Palette:  palette,
		Layers:   layers,
		EdgeMask: edgeMask,
		Strokes:  asm.strokes,
		Stats: Stats{
			CommandLines:  len(asm.lines),
			Refills:       tracker.Refills(),
			PaintConsumed: tracker.Consumed(),
			Layers:        len(layers),
		},
	}, nil
}

func (a *assembler) emitf(format string, args ...any) {
	a.lines = append(a.lines, fmt.Sprintf(format, args...))
}

func (a *assembler) comment(format string, args ...any) {
	a.lines = append(a.lines, "; "+fmt.Sprintf(format, args...))
}

func (a *assembler) report(fraction float64, status string) {
	if a.progress == nil {
		return
	}
	now := time.Now()
	if fraction > 0 && fraction < 1 && now.Sub(a.lastTick) < progressInterval {
		return
	}
	a.lastTick = now
	a.progress(fraction, status)
}

// preamble selects units and absolute positioning, homes, disables the
// actuator and programs the feed rates.
func (a *assembler) preamble() {
	a.comment("cabledraw %s, %d colors", a.opts.Mode, a.opts.Colors)
	a.emitf("G21")
	a.emitf("G90")
	a.emitf("G28")
	a.emitf("M5")
	a.emitf("G0 F%.0f", a.opts.MoveFeed)
	a.emitf("G1 F%.0f", a.opts.PaintFeed)
	a.physPos = a.opts.Anchors.TopLeft
	a.pixPos = a.scale.ToPixel(a.physPos)
}

// colorChange parks at the refill position, requests the tool change and
// dwells while paint is swapped.
func (a *assembler) colorChange(index, total int, c Color) {
	a.comment("layer %d/%d color %s", index+1, total, c.Hex())
	a.moveTo(a.opts.Refill, true, 0)
	a.emitf("M6")
	a.emitf("G4 P%.2f", a.opts.ColorChangeDwell)
}

// refillSequence parks, dwells and resets the tracker. Homing is not part
// of the sequence so the stream keeps exactly one G28 at each end.
func (a *assembler) refillSequence() {
	a.comment("refill %d", a.tracker.Refills()+1)
	a.emitf("M5")
	a.moveTo(a.opts.Refill, true, 0)
	a.emitf("G4 P%.2f", a.opts.RefillDwell)
	a.tracker.Refill()
}

func (a *assembler) termination() {
	a.emitf("M5")
	a.emitf("G28")
	a.emitf("M84")
}

// moveTo emits a move to a physical target. Painting moves consume paint
// over the traveled distance using the stroke width in Size.
func (a *assembler) moveTo(phys Point, rapid bool, width float64) {
	coord := a.opts.Anchors.Forward(phys)
	cmd := "G1"
	if rapid {
		cmd = "G0"
	}
	a.emitf("%s X%.2f Y%.2f Z%.2f", cmd, coord.X, coord.Y, coord.Z)
	if !rapid && width > 0 {
		a.tracker.AddLine(a.physPos.Dist(phys), width, a.opts.Thickness)
	}
	a.physPos = phys
	a.pixPos = a.scale.ToPixel(phys)
}

// planLayer dispatches to the mode-selected planner and returns the layer's
// primitives. Empty layers plan to nothing; the surrounding sequencing
// commands are still emitted by the caller.
func (a *assembler) planLayer(mapped *Buffer, layer *Layer, edgeMask *Mask) []Primitive {
	switch a.opts.Mode {
	case ModeStrokes:
		segments := ScanSegments(mapped, layer.Color, a.opts.StrokeTolerance, a.opts.VerticalScan, true)
		segments = OrderSegments(segments, a.pixPos)
		return segmentPrimitives(segments, a.opts.StrokeWidth)
	case ModeSpray:
		contourMask := edgeMask.Intersect(layer.Mask)
		polylines := TraceContours(contourMask, a.opts.SprayMinLength, a.opts.SprayTolerance)
		polylines = OrderPolylines(polylines, a.pixPos)
		return polylinePrimitives(polylines, 2*a.opts.SprayRadius)
	default: // dots
		avgDotPx := (a.opts.DotMinSize + a.opts.DotMaxSize) / 2 / a.scale.XRatio
		cell := max(1, avgDotPx/a.opts.DotDensity)
		dots := DownsampleMask(layer.Mask, cell)
		points := make([]Point, len(dots))
		for i, d := range dots {
			points[i] = d.Point
		}
		tour := PlanTour(points, 0)
		return dotPrimitives(dots, tour, a.opts.DotMinSize, a.opts.DotMaxSize, a.opts.DotDwell)
	}
}

// emitPrimitives serializes a layer's primitives, transforming coordinates,
// accounting paint and inserting refill sequences between strokes whenever
// the tracker signals.
func (a *assembler) emitPrimitives(prims []Primitive, c Color, layer, totalLayers int) {
	for i, p := range prims {
		switch p.Kind {
		case PrimMove:
			// Refills happen between strokes, never mid-stroke: the check
			// runs before the rapid move to the next stroke start.
			if p.Rapid && a.tracker.NeedsRefill() {
				a.refillSequence()
			}
			from := a.pixPos
			a.moveTo(a.scale.ToPhysical(p.Target), p.Rapid, p.Size)
			if !p.Rapid {
				a.strokes = append(a.strokes, Stroke{From: from, To: p.Target, Color: c, Size: p.Size})
			}
		case PrimActuatorOn:
			a.emitf("M3")
			if p.Size > 0 {
				a.tracker.AddDot(p.Size, a.opts.Thickness)
				a.strokes = append(a.strokes, Stroke{From: a.pixPos, To: a.pixPos, Color: c, Dot: true, Size: p.Size})
			}
		case PrimActuatorOff:
			a.emitf("M5")
		case PrimDwell:
			a.emitf("G4 P%.2f", p.Seconds)
		}

		if i%64 == 0 {
			frac := (float64(layer) + float64(i)/float64(len(prims))) / float64(totalLayers)
			a.report(frac, fmt.Sprintf("layer %d/%d", layer+1, totalLayers))
		}
	}
}
