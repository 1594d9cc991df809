package cabledraw

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// defaultRefillThreshold is the remaining fraction of capacity at which
// AddUsage starts signaling for a refill.
const defaultRefillThreshold = 0.1

// UsageEntry records one paint-consuming operation.
type UsageEntry struct {
	Area      float64 // mm^2
	Thickness float64
	Amount    float64 // consumed units
}

// PaintTracker counts paint consumption across one generation run. The
// refill signal is advisory: AddUsage reports that remaining paint fell to
// the threshold, and the assembler decides when to emit the refill sequence.
// A tracker must not be shared between concurrent runs.
type PaintTracker struct {
	capacity  float64
	remaining float64
	consumed  float64
	refills   int
	threshold float64
	history   []UsageEntry
}

func NewPaintTracker(capacity float64) *PaintTracker {
	t := &PaintTracker{threshold: defaultRefillThreshold}
	t.Reset(capacity)
	return t
}

// Reset sets a new capacity, fills the reservoir and clears all counters
// and history.
func (t *PaintTracker) Reset(capacity float64) {
	t.capacity = capacity
	t.remaining = capacity
	t.consumed = 0
	t.refills = 0
	t.history = t.history[:0]
}

// SetThreshold overrides the refill threshold fraction. Non-positive values
// restore the default.
func (t *PaintTracker) SetThreshold(fraction float64) {
	if fraction <= 0 {
		fraction = defaultRefillThreshold
	}
	t.threshold = fraction
}

// AddUsage consumes area*thickness/1000 units, appends a history entry and
// reports whether remaining paint is at or below the threshold fraction of
// capacity.
func (t *PaintTracker) AddUsage(area, thickness float64) bool {
	amount := area * thickness / 1000
	t.remaining -= amount
	t.consumed += amount
	t.history = append(t.history, UsageEntry{Area: area, Thickness: thickness, Amount: amount})
	return t.NeedsRefill()
}

// AddDot consumes paint for a filled circle of the given diameter.
func (t *PaintTracker) AddDot(diameter, thickness float64) bool {
	r := diameter / 2
	return t.AddUsage(math.Pi*r*r, thickness)
}

// AddLine consumes paint for a stroke of the given length and width.
func (t *PaintTracker) AddLine(length, width, thickness float64) bool {
	return t.AddUsage(length*width, thickness)
}

func (t *PaintTracker) NeedsRefill() bool {
	return t.remaining <= t.capacity*t.threshold
}

// Refill resets remaining paint to full capacity unconditionally and counts
// the refill. Usage history is retained.
func (t *PaintTracker) Refill() {
	t.remaining = t.capacity
	t.refills++
}

func (t *PaintTracker) Capacity() float64  { return t.capacity }
func (t *PaintTracker) Remaining() float64 { return t.remaining }
func (t *PaintTracker) Consumed() float64  { return t.consumed }
func (t *PaintTracker) Refills() int       { return t.refills }

func (t *PaintTracker) History() []UsageEntry { return t.history }

// RemainingPercent is the remaining paint as a percentage of capacity.
func (t *PaintTracker) RemainingPercent() float64 {
	if t.capacity <= 0 {
		return 0
	}
	return t.remaining / t.capacity * 100
}

// ProjectedOperations estimates how many further operations fit into the
// remaining paint, using the mean cost of the operations seen so far.
func (t *PaintTracker) ProjectedOperations() int {
	if len(t.history) == 0 || t.remaining <= 0 {
		return 0
	}
	amounts := make([]float64, len(t.history))
	for i, e := range t.history {
		amounts[i] = e.Amount
	}
	mean := stat.Mean(amounts, nil)
	if mean <= 0 {
		return 0
	}
	return int(t.remaining / mean)
}
