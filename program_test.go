package cabledraw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLines(commands []string, exact string) int {
	n := 0
	for _, c := range commands {
		if c == exact {
			n++
		}
	}
	return n
}

func countPrefix(commands []string, prefix string) int {
	n := 0
	for _, c := range commands {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestGenerateDots(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 1
	opts.DotDensity = 1.0
	buf := flatBuffer(4, 4, Color{R: 200, G: 40, B: 40})

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	// At full density on a 4x4 source the dot cell collapses to one pixel,
	// so every pixel becomes a dot.
	assert.Equal(t, 16, countLines(res.Commands, "M3"))
	assert.Equal(t, 16, countPrefix(res.Commands, "G4 P"))
	// One M5 per dot plus the preamble and termination M5.
	assert.Equal(t, 18, countLines(res.Commands, "M5"))
	assert.Equal(t, 0, countLines(res.Commands, "M6"))

	// Homing happens exactly once at each end of the stream.
	assert.Equal(t, 2, countLines(res.Commands, "G28"))
	assert.Equal(t, "G28", res.Commands[3])
	assert.Equal(t, "G28", res.Commands[len(res.Commands)-2])
	assert.Equal(t, "M84", res.Commands[len(res.Commands)-1])

	assert.Equal(t, "G0 F3000", res.Commands[5])
	assert.Equal(t, "G1 F1500", res.Commands[6])

	assert.Equal(t, 1, res.Stats.Layers)
	assert.Equal(t, 0, res.Stats.Refills)
	assert.Equal(t, len(res.Commands), res.Stats.CommandLines)
	assert.Positive(t, res.Stats.PaintConsumed)
	assert.Len(t, res.Strokes, 16)
	assert.True(t, res.Strokes[0].Dot)
	assert.Nil(t, res.EdgeMask)
	assert.True(t, strings.HasSuffix(res.Text(), "M84\n"))
}

func TestGenerateMoveFormat(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 1
	buf := flatBuffer(4, 4, Color{B: 255})

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	// The dot tour starts at pixel (0,0), which maps onto the top-left
	// corner: zero cable to the top-left anchor, full baseline to the
	// top-right, and the diagonal to the bottom-center anchor.
	idx := -1
	for i, c := range res.Commands {
		if strings.HasPrefix(c, "G0 X") {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "G0 X0.00 Y2000.00 Z1802.78", res.Commands[idx])
}

func TestGenerateColorChange(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 2
	buf := NewBuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := Color{}
			if x >= 2 {
				c = Color{R: 255, G: 255, B: 255}
			}
			buf.Set(x, y, c, 255)
		}
	}

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	require.Len(t, res.Palette, 2)
	// Darkest layer paints first.
	assert.Equal(t, Color{}, res.Palette[0])
	assert.Equal(t, 2, res.Stats.Layers)
	assert.Equal(t, 1, countLines(res.Commands, "M6"))
	assert.Equal(t, 1, countPrefix(res.Commands, "; layer 2/2"))
}

func TestGenerateRefill(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 1
	// A single dot consumes about 0.028 units, so this capacity forces a
	// refill between nearly every pair of dots.
	opts.PaintCapacity = 0.03
	buf := flatBuffer(4, 4, Color{G: 180})

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	assert.Positive(t, res.Stats.Refills)
	assert.Positive(t, countPrefix(res.Commands, "; refill"))
	// Refills never re-home.
	assert.Equal(t, 2, countLines(res.Commands, "G28"))
}

func TestGenerateStrokes(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 1
	opts.Mode = ModeStrokes
	buf := flatBuffer(4, 2, Color{R: 10, G: 10, B: 200})

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	// One segment per row, each painted as rapid, on, draw, off.
	assert.Equal(t, 2, countLines(res.Commands, "M3"))
	assert.Equal(t, 2, countPrefix(res.Commands, "G1 X"))
	assert.Positive(t, res.Stats.PaintConsumed)
	require.Len(t, res.Strokes, 2)
	assert.False(t, res.Strokes[0].Dot)
	assert.Equal(t, opts.StrokeWidth, res.Strokes[0].Size)
}

func TestGenerateSpray(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 2
	opts.Mode = ModeSpray
	opts.SprayMinLength = 2
	buf := NewBuffer(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := Color{}
			if x >= 8 {
				c = Color{R: 255, G: 255, B: 255}
			}
			buf.Set(x, y, c, 255)
		}
	}

	res, err := Generate(buf, opts, nil)
	require.NoError(t, err)

	require.NotNil(t, res.EdgeMask)
	assert.Positive(t, res.EdgeMask.Count())
	assert.Positive(t, countLines(res.Commands, "M3"))
	assert.Equal(t, 2, countLines(res.Commands, "G28"))
}

func TestGenerateEmptyImage(t *testing.T) {
	opts := DefaultOptions()
	res, err := Generate(NewBuffer(4, 4), opts, nil)
	require.NoError(t, err)

	// No opaque pixels yields no layers, but the stream still carries the
	// preamble and termination.
	assert.Equal(t, 0, res.Stats.Layers)
	assert.Empty(t, res.Palette)
	assert.Equal(t, 2, countLines(res.Commands, "G28"))
	assert.Equal(t, "M84", res.Commands[len(res.Commands)-1])
}

func TestGenerateInvalidInput(t *testing.T) {
	opts := DefaultOptions()
	_, err := Generate(nil, opts, nil)
	require.Error(t, err)

	opts.Colors = 0
	_, err = Generate(flatBuffer(4, 4, Color{}), opts, nil)
	require.Error(t, err)
}

func TestGenerateProgress(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = 1
	buf := flatBuffer(4, 4, Color{R: 255})

	var fractions []float64
	res, err := Generate(buf, opts, func(fraction float64, status string) {
		fractions = append(fractions, fraction)
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.NotEmpty(t, fractions)
	assert.Equal(t, 0.0, fractions[0])
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}
