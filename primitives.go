package cabledraw

// PrimitiveKind enumerates the planner/assembler vocabulary that precedes
// command serialization.
type PrimitiveKind int

const (
	PrimMove PrimitiveKind = iota
	PrimActuatorOn
	PrimActuatorOff
	PrimDwell
	PrimColorChange
	PrimRefill
)

// Primitive is one planned motion or actuation step in pixel space. The
// assembler transforms move targets into trilateration coordinates and
// accounts paint during serialization.
type Primitive struct {
	Kind   PrimitiveKind
	Target Point // pixel-space move target
	Rapid  bool
	// Seconds is the dwell duration.
	Seconds float64
	// Size carries physical stroke geometry in mm: the dot diameter on
	// ActuatorOn, or the stroke width on a painting move.
	Size float64
}

// dotPrimitives turns a planned dot tour into primitives: a rapid move to
// the dot, actuator on, a short dwell, actuator off. Dot diameter
// interpolates between minSize and maxSize by local coverage.
func dotPrimitives(dots []WeightedPoint, tour []int, minSize, maxSize, dwell float64) []Primitive {
	prims := make([]Primitive, 0, len(tour)*4)
	for _, idx := range tour {
		d := dots[idx]
		diameter := minSize + (maxSize-minSize)*d.Coverage
		prims = append(prims,
			Primitive{Kind: PrimMove, Target: d.Point, Rapid: true},
			Primitive{Kind: PrimActuatorOn, Size: diameter},
			Primitive{Kind: PrimDwell, Seconds: dwell},
			Primitive{Kind: PrimActuatorOff},
		)
	}
	return prims
}

// segmentPrimitives paints each ordered segment as one actuated pass.
func segmentPrimitives(segments []Segment, width float64) []Primitive {
	prims := make([]Primitive, 0, len(segments)*4)
	for _, s := range segments {
		prims = append(prims,
			Primitive{Kind: PrimMove, Target: s.From(), Rapid: true},
			Primitive{Kind: PrimActuatorOn},
			Primitive{Kind: PrimMove, Target: s.To(), Size: width},
			Primitive{Kind: PrimActuatorOff},
		)
	}
	return prims
}

// polylinePrimitives paints each ordered polyline as a connected run of
// actuated moves.
func polylinePrimitives(polylines []Polyline, width float64) []Primitive {
	var prims []Primitive
	for _, poly := range polylines {
		points := poly.Walk()
		if len(points) == 0 {
			continue
		}
		prims = append(prims,
			Primitive{Kind: PrimMove, Target: points[0], Rapid: true},
			Primitive{Kind: PrimActuatorOn},
		)
		for _, pt := range points[1:] {
			prims = append(prims, Primitive{Kind: PrimMove, Target: pt, Size: width})
		}
		prims = append(prims, Primitive{Kind: PrimActuatorOff})
	}
	return prims
}
