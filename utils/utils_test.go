package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabledraw/cabledraw"
)

func TestDownscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 200))

	out := Downscale(src, 100)
	b := out.Bounds()
	assert.Equal(t, 100, b.Dx())
	assert.Equal(t, 50, b.Dy())

	// Already within the limit: returned untouched.
	same := Downscale(src, 400)
	assert.Equal(t, src, same)
	assert.Equal(t, src, Downscale(src, 0))
}

func TestSaveAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	require.NoError(t, SaveImage(src, path))

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	_, err = ReadImage(filepath.Join(t.TempDir(), "absent.png"))
	require.Error(t, err)
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	palette := []cabledraw.Color{{R: 255}, {G: 255}, {B: 255}}
	require.NoError(t, SavePalette(palette, 16, path))

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	require.Error(t, SavePalette(nil, 16, path))
}

func TestReconstruct(t *testing.T) {
	red := cabledraw.Color{R: 255}
	mask := cabledraw.NewMask(4, 4)
	mask.Set(1, 2, 255)
	layers := []*cabledraw.Layer{{Color: red, Mask: mask, Pixels: 1}}

	img := Reconstruct(layers, 4, 4)
	got := img.NRGBAAt(1, 2)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, got)
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
}
