package cabledraw

import (
	"fmt"
	"math"
)

// Sobel kernels, applied to the blurred grayscale image.
var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// EdgeDetector runs the Canny pipeline: grayscale, Gaussian blur, Sobel
// gradients, non-maximum suppression, then double threshold with hysteresis.
type EdgeDetector struct {
	// Low and High are the hysteresis thresholds in [0,255]. Gradient
	// magnitudes at or above High are strong edges; magnitudes in
	// [Low, High) survive only when 8-adjacent to a strong edge.
	Low  float64
	High float64
	// KernelSize and Sigma shape the Gaussian blur. Both must be positive;
	// an even KernelSize is rejected.
	KernelSize int
	Sigma      float64
}

func (d *EdgeDetector) validate() error {
	if d.KernelSize <= 0 || d.KernelSize%2 == 0 {
		return fmt.Errorf("edge detector: blur kernel size %d must be positive and odd", d.KernelSize)
	}
	if d.Sigma <= 0 {
		return fmt.Errorf("edge detector: blur sigma %g must be positive", d.Sigma)
	}
	if d.Low < 0 || d.High > 255 || d.Low > d.High {
		return fmt.Errorf("edge detector: thresholds low=%g high=%g outside 0 <= low <= high <= 255", d.Low, d.High)
	}
	return nil
}

// Detect returns a binary edge mask with values in {0, 255}. Border pixels
// are never classified as edges.
func (d *EdgeDetector) Detect(buf *Buffer) (*Mask, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	w, h := buf.W, buf.H
	mask := NewMask(w, h)
	if w < 3 || h < 3 {
		return mask, nil
	}

	gray := grayscale(buf)
	blurred := gaussianBlur(gray, w, h, d.KernelSize, d.Sigma)
	mag, dir := sobelGradients(blurred, w, h)
	suppressed := suppressNonMaxima(mag, dir, w, h)
	hysteresis(suppressed, w, h, d.Low, d.High, mask)
	return mask, nil
}

func grayscale(buf *Buffer) []float64 {
	out := make([]float64, buf.W*buf.H)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			c, alpha := buf.At(x, y)
			if alpha == 0 {
				continue
			}
			out[y*buf.W+x] = float64(grayValue(c.R, c.G, c.B))
		}
	}
	return out
}

// gaussianBlur applies a separable Gaussian kernel with border clamping.
func gaussianBlur(src []float64, w, h, size int, sigma float64) []float64 {
	kernel := gaussianKernel(size, sigma)
	half := size / 2

	tmp := make([]float64, len(src))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -half; k <= half; k++ {
				sx := clampInt(x+k, 0, w-1)
				sum += src[row+sx] * kernel[k+half]
			}
			tmp[row+x] = sum
		}
	}
	out := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k := -half; k <= half; k++ {
				sy := clampInt(y+k, 0, h-1)
				sum += tmp[sy*w+x] * kernel[k+half]
			}
			out[y*w+x] = sum
		}
	}
	return out
}

func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size)
	half := size / 2
	sum := 0.0
	for i := 0; i < size; i++ {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func sobelGradients(src []float64, w, h int) (mag, dir []float64) {
	mag = make([]float64, w*h)
	dir = make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					v := src[(y+ky-1)*w+(x+kx-1)]
					gx += v * sobelX[ky][kx]
					gy += v * sobelY[ky][kx]
				}
			}
			i := y*w + x
			mag[i] = math.Hypot(gx, gy)
			dir[i] = math.Atan2(gy, gx)
		}
	}
	return mag, dir
}

// suppressNonMaxima zeroes every pixel that is not a local maximum along its
// gradient direction, quantized into one of four 45-degree bins.
func suppressNonMaxima(mag, dir []float64, w, h int) []float64 {
	out := make([]float64, len(mag))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if mag[i] == 0 {
				continue
			}
			angle := dir[i] * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}

			var n1, n2 float64
			switch {
			case angle < 22.5 || angle >= 157.5: // horizontal gradient
				n1, n2 = mag[i-1], mag[i+1]
			case angle < 67.5: // diagonal /
				n1, n2 = mag[(y-1)*w+x+1], mag[(y+1)*w+x-1]
			case angle < 112.5: // vertical gradient
				n1, n2 = mag[(y-1)*w+x], mag[(y+1)*w+x]
			default: // diagonal \
				n1, n2 = mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
			}
			if mag[i] >= n1 && mag[i] >= n2 {
				out[i] = mag[i]
			}
		}
	}
	return out
}

// hysteresis classifies pixels into strong and weak edges, then promotes
// weak pixels reachable from a strong pixel through 8-adjacency. Remaining
// weak pixels are discarded. Borders stay zero.
func hysteresis(mag []float64, w, h int, low, high float64, mask *Mask) {
	const weak = 128

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := mag[y*w+x]
			switch {
			case m >= high:
				mask.Pix[y*w+x] = 255
			case m >= low:
				mask.Pix[y*w+x] = weak
			}
		}
	}

	// Flood from strong pixels into weak neighbors.
	stack := make([][2]int, 0, 256)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if mask.Pix[y*w+x] == 255 {
				stack = append(stack, [2]int{x, y})
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p[0]+dx, p[1]+dy
				if nx < 1 || nx >= w-1 || ny < 1 || ny >= h-1 {
					continue
				}
				if mask.Pix[ny*w+nx] == weak {
					mask.Pix[ny*w+nx] = 255
					stack = append(stack, [2]int{nx, ny})
				}
			}
		}
	}

	for i, v := range mask.Pix {
		if v == weak {
			mask.Pix[i] = 0
		}
	}
}
