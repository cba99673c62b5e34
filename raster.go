package evergreen

import (
	"fmt"
	"image"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"
)

// GlyphRasterizer renders strings onto monochrome masks used as text
// silhouettes.
type GlyphRasterizer struct {
	font *truetype.Font
	size float64
}

// NewGlyphRasterizer parses a TrueType font. A nil ttf selects the bundled
// Go Bold face.
func NewGlyphRasterizer(ttf []byte, size float64) (*GlyphRasterizer, error) {
	if ttf == nil {
		ttf = gobold.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("evergreen: failed to parse TTF data: %w", err)
	}
	return &GlyphRasterizer{font: f, size: size}, nil
}

// Rasterize draws text in white on a black w×h mask, centered both ways.
// Text wider than the mask is drawn at a smaller size so it fits.
func (g *GlyphRasterizer) Rasterize(text string, w, h int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	if text == "" {
		return mask
	}

	face := g.face(g.size)
	adv := font.MeasureString(face, text)
	if limit := fixed.I(w); adv > limit && adv > 0 {
		_ = face.Close()
		face = g.face(g.size * float64(limit) / float64(adv))
		adv = font.MeasureString(face, text)
	}
	defer face.Close()

	// Center the ascent/descent box on the mask's middle line.
	m := face.Metrics()
	d := font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(w) - adv) / 2,
			Y: fixed.I(h)/2 + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(text)
	return mask
}

func (g *GlyphRasterizer) face(size float64) font.Face {
	return truetype.NewFace(g.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// LitPixels returns the row-major indices (x + y*width) of mask pixels
// brighter than threshold.
func LitPixels(mask *image.Gray, threshold uint8) []int {
	b := mask.Bounds()
	w := b.Dx()
	var lit []int
	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x] > threshold {
				lit = append(lit, x+y*w)
			}
		}
	}
	return lit
}
