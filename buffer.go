package cabledraw

import (
	"image"
	"image/color"
)

// Buffer is an interleaved 8-bit RGBA pixel buffer. A pixel with alpha 0 is
// not part of the artwork and is skipped by every pipeline stage.
type Buffer struct {
	W, H int
	Pix  []uint8 // len = W*H*4
}

func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*4),
	}
}

// BufferFromImage flattens any image.Image into a Buffer with the origin
// normalized to (0,0).
func BufferFromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	buf := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := buf.offset(x, y)
			buf.Pix[off] = c.R
			buf.Pix[off+1] = c.G
			buf.Pix[off+2] = c.B
			buf.Pix[off+3] = c.A
		}
	}
	return buf
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.W + x) * 4
}

// At returns the color and alpha at (x, y).
func (b *Buffer) At(x, y int) (Color, uint8) {
	off := b.offset(x, y)
	return Color{R: b.Pix[off], G: b.Pix[off+1], B: b.Pix[off+2]}, b.Pix[off+3]
}

func (b *Buffer) Set(x, y int, c Color, alpha uint8) {
	off := b.offset(x, y)
	b.Pix[off] = c.R
	b.Pix[off+1] = c.G
	b.Pix[off+2] = c.B
	b.Pix[off+3] = alpha
}

// ToNRGBA copies the buffer into a standard library image.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	copy(img.Pix, b.Pix)
	return img
}

// Mask is a single-channel opacity mask with the same dimensions as its
// source buffer. Edge masks hold only the values 0 and 255.
type Mask struct {
	W, H int
	Pix  []uint8 // len = W*H
}

func NewMask(w, h int) *Mask {
	return &Mask{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h),
	}
}

func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.W+x]
}

func (m *Mask) Set(x, y int, v uint8) {
	m.Pix[y*m.W+x] = v
}

// Count returns the number of non-zero mask pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v > 0 {
			n++
		}
	}
	return n
}

// Intersect returns a new mask that is non-zero only where both masks are.
func (m *Mask) Intersect(other *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for i, v := range m.Pix {
		if v > 0 && other.Pix[i] > 0 {
			out.Pix[i] = v
		}
	}
	return out
}

// ToGray copies the mask into a standard library grayscale image.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.W, m.H))
	copy(img.Pix, m.Pix)
	return img
}
