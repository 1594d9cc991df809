package cabledraw

// Layer is the subset of an image's pixels assigned to one palette color.
// It is created by SeparateLayers and consumed by one path planner within a
// single generation run.
type Layer struct {
	Color  Color
	Mask   *Mask
	Pixels int
}

// ApplyPalette rewrites every opaque pixel onto its nearest palette color.
// The source buffer is left untouched.
func ApplyPalette(buf *Buffer, palette []Color) *Buffer {
	out := NewBuffer(buf.W, buf.H)
	if len(palette) == 0 {
		copy(out.Pix, buf.Pix)
		return out
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			c, alpha := buf.At(x, y)
			if alpha == 0 {
				continue
			}
			out.Set(x, y, palette[Nearest(palette, c)], alpha)
		}
	}
	return out
}

// SeparateLayers splits a palette-mapped buffer into one opacity mask per
// palette color. Transparent source pixels belong to no layer. Layers are
// returned in palette order.
func SeparateLayers(buf *Buffer, palette []Color) []*Layer {
	layers := make([]*Layer, len(palette))
	for i, c := range palette {
		layers[i] = &Layer{Color: c, Mask: NewMask(buf.W, buf.H)}
	}
	if len(palette) == 0 {
		return layers
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			c, alpha := buf.At(x, y)
			if alpha == 0 {
				continue
			}
			layer := layers[Nearest(palette, c)]
			layer.Mask.Set(x, y, 255)
			layer.Pixels++
		}
	}
	return layers
}
