package cabledraw

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// PaletteMethod selects how the palette is extracted from the source image.
type PaletteMethod int

const (
	// PaletteKMeansPP runs the built-in k-means++ quantizer. Default.
	PaletteKMeansPP PaletteMethod = iota
	// PaletteKMeans partitions samples with muesli/kmeans, then picks a
	// diverse weighted subset.
	PaletteKMeans
	// PaletteDominant ranks candidates with cenkalti/dominantcolor, then
	// picks a diverse weighted subset.
	PaletteDominant
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteKMeans:
		return "kmeans"
	case PaletteDominant:
		return "dominantcolor"
	default:
		return "kmeans++"
	}
}

const (
	defaultMaxIterations = 50
	// Centroid movement below this many RGB units counts as converged.
	convergenceEps = 1.0
)

// Quantizer reduces an image to a fixed number of representative colors
// using k-means++ over Euclidean RGB distance. The zero value is not usable;
// construct with NewQuantizer.
type Quantizer struct {
	// MaxIterations caps the assign/recompute loop.
	MaxIterations int
	// Stride samples every Nth pixel in both axes. Values below 1 mean 1.
	Stride int

	rng *rand.Rand
}

func NewQuantizer() *Quantizer {
	return &Quantizer{
		MaxIterations: defaultMaxIterations,
		Stride:        1,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed makes quantization deterministic for tests and reproducible runs.
func (q *Quantizer) Seed(seed int64) {
	q.rng = rand.New(rand.NewSource(seed))
}

// samples collects stride-spaced opaque pixels and counts distinct colors,
// stopping the distinct census once it exceeds limit.
func (q *Quantizer) samples(buf *Buffer, limit int) ([]Color, []Color) {
	stride := max(q.Stride, 1)
	var out []Color
	distinct := make(map[Color]struct{}, limit+1)
	var distinctOrder []Color
	for y := 0; y < buf.H; y += stride {
		for x := 0; x < buf.W; x += stride {
			c, alpha := buf.At(x, y)
			if alpha == 0 {
				continue
			}
			out = append(out, c)
			if len(distinct) <= limit {
				if _, seen := distinct[c]; !seen {
					distinct[c] = struct{}{}
					distinctOrder = append(distinctOrder, c)
				}
			}
		}
	}
	if len(distinct) > limit {
		distinctOrder = nil
	}
	return out, distinctOrder
}

// padPalette cycles the available colors until the palette holds exactly k
// entries, so a single-color image still yields a fixed-size palette.
func padPalette(colors []Color, k int) []Color {
	out := make([]Color, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, colors[i%len(colors)])
	}
	return out
}

// Palette returns exactly k representative colors, or nil when the buffer
// has no opaque pixels. When the sampled distinct color count is at most k,
// those colors are returned directly with zero clustering iterations.
func (q *Quantizer) Palette(buf *Buffer, k int) ([]Color, error) {
	if k < 1 || k > 10 {
		return nil, fmt.Errorf("quantizer: palette size %d outside [1,10]", k)
	}
	samples, distinct := q.samples(buf, k)
	if len(samples) == 0 {
		return nil, nil
	}
	if distinct != nil {
		return padPalette(distinct, k), nil
	}

	centroids := q.seedCentroids(samples, k)
	assign := make([]int, len(samples))
	iterations := q.MaxIterations
	if iterations <= 0 {
		iterations = defaultMaxIterations
	}

	for _i := 0; _i < iterations; _i++ { _ = _i
		for i, s := range samples {
			assign[i] = nearestCentroid(centroids, s)
		}

		sums := make([][4]float64, k) // r, g, b, count
		for i, s := range samples {
			c := assign[i]
			sums[c][0] += float64(s.R)
			sums[c][1] += float64(s.G)
			sums[c][2] += float64(s.B)
			sums[c][3]++
		}

		moved := 0.0
		for c := 0; c < k; c++ {
			if sums[c][3] == 0 {
				// Reseed an empty cluster with a random sample.
				s := samples[q.rng.Intn(len(samples))]
				centroids[c] = [3]float64{float64(s.R), float64(s.G), float64(s.B)}
				moved = math.Inf(1)
				continue
			}
			n := sums[c][3]
			next := [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
			moved = max(moved, centroidDist(centroids[c], next))
			centroids[c] = next
		}
		if moved < convergenceEps {
			break
		}
	}

	palette := make([]Color, k)
	for i, c := range centroids {
		palette[i] = colorFromMeans(c[0], c[1], c[2])
	}
	return palette, nil
}

// seedCentroids implements k-means++ initialization: the first centroid is
// uniform-random, each later one is drawn with probability proportional to
// its squared distance from the nearest existing centroid.
func (q *Quantizer) seedCentroids(samples []Color, k int) [][3]float64 {
	centroids := make([][3]float64, 0, k)
	first := samples[q.rng.Intn(len(samples))]
	centroids = append(centroids, [3]float64{float64(first.R), float64(first.G), float64(first.B)})

	weights := make([]float64, len(samples))
	for len(centroids) < k {
		total := 0.0
		for i, s := range samples {
			d := math.Inf(1)
			for _, c := range centroids {
				d = min(d, sampleDistSq(c, s))
			}
			total += d
			weights[i] = total
		}
		if total == 0 {
			// Every sample coincides with a centroid already.
			s := samples[q.rng.Intn(len(samples))]
			centroids = append(centroids, [3]float64{float64(s.R), float64(s.G), float64(s.B)})
			continue
		}
		// Cumulative-weight roulette selection.
		target := q.rng.Float64() * total
		idx, _ := slices.BinarySearchFunc(weights, target, func(w, t float64) int {
			if w > t {
				return 1
			}
			return -1
		})
		idx = min(idx, len(samples)-1)
		s := samples[idx]
		centroids = append(centroids, [3]float64{float64(s.R), float64(s.G), float64(s.B)})
	}
	return centroids
}

func sampleDistSq(c [3]float64, s Color) float64 {
	dr := c[0] - float64(s.R)
	dg := c[1] - float64(s.G)
	db := c[2] - float64(s.B)
	return dr*dr + dg*dg + db*db
}

func centroidDist(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func nearestCentroid(centroids [][3]float64, s Color) int {
	best := 0
	bestD := math.Inf(1)
	for i, c := range centroids {
		d := sampleDistSq(c, s)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// ExtractPalette dispatches to the configured palette method. Every method
// returns exactly k colors for a non-empty buffer.
func (q *Quantizer) ExtractPalette(buf *Buffer, k int, method PaletteMethod) ([]Color, error) {
	switch method {
	case PaletteKMeans:
		p := q.extractKMeansPalette(buf, k)
		if len(p) != 0 {
			return p, nil
		}
		return q.Palette(buf, k)
	case PaletteDominant:
		p := extractDominantPalette(buf, k)
		if len(p) != 0 {
			return p, nil
		}
		return q.Palette(buf, k)
	default:
		return q.Palette(buf, k)
	}
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

func (q *Quantizer) extractKMeansPalette(buf *Buffer, k int) []Color {
	samples, _ := q.samples(buf, k)
	if len(samples) == 0 {
		return nil
	}
	dataset := make(clusters.Observations, 0, len(samples))
	for _, s := range samples {
		dataset = append(dataset, clusters.Coordinates{
			float64(s.R) / 255.0,
			float64(s.G) / 255.0,
			float64(s.B) / 255.0,
		})
	}

	// Partition into more clusters than needed, then pick a diverse subset
	// so near-duplicate tones do not crowd the palette.
	workK := min(max(k*4, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		w := float64(len(c.Observations))
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col, weight: w})
	}
	return selectDiverse(weighted, k)
}

func extractDominantPalette(buf *Buffer, k int) []Color {
	opaque := false
	for i := 3; i < len(buf.Pix); i += 4 {
		if buf.Pix[i] != 0 {
			opaque = true
			break
		}
	}
	if !opaque {
		return nil
	}
	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(buf.ToNRGBA(), nCandidates)
	if len(candidates) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: w})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks k colors maximizing Lab-space distance to the
// already-selected set, weighted toward stronger candidates. Seeds with the
// heaviest candidate so dominant tones survive.
func selectDiverse(cands []weightedColor, k int) []Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, b := c.col.Lab()
		maxW = max(maxW, c.weight)
		items = append(items, item{col: c.col, lab: [3]float64{l, a, b}, w: c.weight})
	}
	if maxW <= 0 {
		maxW = 1.0
	}

	take := min(k, len(items))
	selectedIdx := make([]int, 0, take)
	selected := make([]bool, len(items))

	bestSeed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[bestSeed].w {
			bestSeed = i
		}
	}
	selectedIdx = append(selectedIdx, bestSeed)
	selected[bestSeed] = true

	for len(selectedIdx) < take {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range selectedIdx {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			normW := items[i].w / maxW
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(normW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		selectedIdx = append(selectedIdx, bestIdx)
	}

	out := make([]Color, 0, len(selectedIdx))
	for _, idx := range selectedIdx {
		out = append(out, colorFromColorful(items[idx].col))
	}
	return padPalette(out, k)
}
