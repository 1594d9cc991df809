// Package utils holds image and artifact I/O helpers for the cabledraw
// pipeline: loading source images, saving debug artifacts and rendering
// toolpath previews.
package utils

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/cabledraw/cabledraw"
)

// ReadImage decodes a PNG or JPEG image from disk.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Downscale resizes an image so its longer side is at most maxDim pixels,
// keeping the aspect ratio. Images already within the limit are returned
// unchanged.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	scale := float64(maxDim) / float64(max(w, h))
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// SaveImage writes an image as PNG.
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SaveMask writes a mask as a grayscale PNG.
func SaveMask(mask *cabledraw.Mask, path string) error {
	return SaveImage(mask.ToGray(), path)
}

// SaveLayerMasks writes one grayscale PNG per layer into dir.
func SaveLayerMasks(layers []*cabledraw.Layer, dir string) error {
	for i, layer := range layers {
		path := fmt.Sprintf("%s/layer_%02d_%s.png", dir, i, layer.Color.Hex()[1:])
		if err := SaveMask(layer.Mask, path); err != nil {
			return err
		}
	}
	return nil
}

// SavePalette writes the palette as a strip of color tiles.
func SavePalette(palette []cabledraw.Color, tileSize int, path string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	dc := gg.NewContext(tileSize*len(palette), tileSize)
	for i, c := range palette {
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawRectangle(float64(i*tileSize), 0, float64(tileSize), float64(tileSize))
		dc.Fill()
	}
	return dc.SavePNG(path)
}

// RenderToolpath draws the recorded strokes of a generation run onto a
// white canvas and saves it as PNG. Dot strokes render as filled circles,
// painted moves as lines; stroke sizes are scaled from mm back into pixels.
func RenderToolpath(result *cabledraw.Result, w, h int, mmPerPixel float64, path string) error {
	if mmPerPixel <= 0 {
		mmPerPixel = 1
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	for _, s := range result.Strokes {
		dc.SetRGB255(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		size := s.Size / mmPerPixel
		if s.Dot {
			dc.DrawCircle(s.From.X, s.From.Y, max(size/2, 0.5))
			dc.Fill()
			continue
		}
		dc.SetLineWidth(max(size, 1))
		dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
		dc.Stroke()
	}
	return dc.SavePNG(path)
}

// Reconstruct composites the layer masks over the darkest palette color,
// approximating what the painted result will look like.
func Reconstruct(layers []*cabledraw.Layer, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, layer := range layers {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if layer.Mask.At(x, y) == 0 {
					continue
				}
				i := img.PixOffset(x, y)
				img.Pix[i] = layer.Color.R
				img.Pix[i+1] = layer.Color.G
				img.Pix[i+2] = layer.Color.B
				img.Pix[i+3] = 255
			}
		}
	}
	return img
}
