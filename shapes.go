package evergreen

import (
	"image"
	"math"
	"math/rand/v2"
)

// GenerateTree fills positions and colors (both 3*count floats) with a
// loosely spiral conic volume. Height samples are biased toward the base;
// the radius shrinks linearly with height.
func GenerateTree(count int, cfg TreeConfig, rng *rand.Rand) (positions, colors []float32) {
	positions = make([]float32, count*3)
	colors = make([]float32, count*3)

	for i := 0; i < count; i++ {
		yNorm := math.Pow(rng.Float64(), cfg.HeightBias)
		y := (1-yNorm)*cfg.Height - cfg.Height/2
		theta := float64(i)*cfg.AngleStep + rng.Float64()*cfg.AngleJitter
		r := yNorm * cfg.Width * cfg.RadiusJitter.Random(rng)

		positions[i*3] = float32(r * math.Cos(theta))
		positions[i*3+1] = float32(y)
		positions[i*3+2] = float32(r * math.Sin(theta))

		var c Color
		if rng.Float64() < cfg.AccentChance {
			c = cfg.AccentColor
		} else {
			c = cfg.BaseColors[0].Lerp(cfg.BaseColors[1], rng.Float64())
		}
		colors[i*3] = float32(c.R)
		colors[i*3+1] = float32(c.G)
		colors[i*3+2] = float32(c.B)
	}
	return positions, colors
}

// SampleMask assigns every particle a lit pixel of mask, cycling through the
// lit pixels in row-major order (particle i takes pixel i mod lit), and maps
// it to world space: X spans cfg.ExtentX, Y spans cfg.ExtentY with the
// raster's downward axis flipped, Z gets random jitter of cfg.DepthJitter.
// A mask with no lit pixels yields all-zero positions.
func SampleMask(mask *image.Gray, count int, cfg TextConfig, rng *rand.Rand) []float32 {
	positions := make([]float32, count*3)
	lit := LitPixels(mask, cfg.Threshold)
	if len(lit) == 0 {
		return positions
	}

	w := float64(mask.Bounds().Dx())
	h := float64(mask.Bounds().Dy())
	stride := mask.Bounds().Dx()
	for i := 0; i < count; i++ {
		px := lit[i%len(lit)]
		x := float64(px % stride)
		y := float64(px / stride)

		positions[i*3] = float32((x/w - 0.5) * cfg.ExtentX)
		positions[i*3+1] = float32(-(y/h - 0.5) * cfg.ExtentY)
		positions[i*3+2] = float32((rng.Float64() - 0.5) * cfg.DepthJitter)
	}
	return positions
}

// GenerateText rasterizes text and samples count target positions from it.
func GenerateText(r *GlyphRasterizer, text string, count int, cfg TextConfig, rng *rand.Rand) []float32 {
	mask := r.Rasterize(text, cfg.RasterWidth, cfg.RasterHeight)
	return SampleMask(mask, count, cfg, rng)
}
