package render

import (
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/evergreen"
)

const (
	// particleSize is the world-space edge of one particle sprite.
	particleSize = 0.12
	// sparkleUnit converts SparkleConfig.Size into world units.
	sparkleUnit = 0.03
	// giftSize is the world-space edge of a gift box at scale 1.
	giftSize = 0.8
	// baubleRadius is the world-space radius of a bauble at scale 1.
	baubleRadius = 0.35
	// cardWidth and cardHeight size a photo card at scale 1.
	cardWidth  = 1.2
	cardHeight = 1.5
	// cardBorder is the frame margin around the photo.
	cardBorder = 0.08
	// dotSize is the texture size of the particle sprite.
	dotSize = 32
)

var (
	ribbonColor = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	frameColor  = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	placeholder = color.RGBA{0x30, 0x30, 0x38, 0xff}
)

// drawItem is one projected decoration awaiting depth-sorted drawing.
type drawItem struct {
	dec    *evergreen.Decoration
	world  evergreen.Transform
	x, y   float64
	depth  float64
	pixels float64 // screen pixels per world unit at this depth
}

// Renderer draws a Scene. Particles and sparkles are batched into a single
// additive DrawTriangles32 call each; decorations are depth sorted and drawn
// back to front.
type Renderer struct {
	// Background clears the frame. The zero value is opaque black.
	Background color.RGBA

	photos *PhotoCache
	dot    *ebiten.Image
	white  *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
	items []drawItem
}

// NewRenderer creates a renderer drawing photo cards from photos.
func NewRenderer(photos *PhotoCache) *Renderer {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Renderer{
		Background: color.RGBA{0x05, 0x07, 0x10, 0xff},
		photos:     photos,
		dot:        newDotImage(dotSize),
		white:      white,
	}
}

// newDotImage renders a soft radial falloff used as the particle sprite.
func newDotImage(size int) *ebiten.Image {
	pix := make([]byte, 4*size*size)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			a := 1 - evergreen.Smoothstep(d, 0.2, 1)
			v := byte(a * 255)
			i := 4 * (y*size + x)
			// Premultiplied white.
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

// Draw renders scene onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, scene *evergreen.Scene) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	cam := scene.Camera()
	cam.Width, cam.Height = w, h
	vp := cam.ViewProjection()

	screen.Fill(r.Background)
	r.drawSparkles(screen, scene, vp, w, h)
	r.drawParticles(screen, scene, vp, w, h)
	r.drawDecorations(screen, scene, vp, w, h)
}

// appendSprite adds a camera-facing quad of side px pixels centered on
// (x, y) to the batch.
func (r *Renderer) appendSprite(x, y, px float64, cr, cg, cb, ca float32) {
	half := float32(px / 2)
	fx, fy := float32(x), float32(y)
	base := uint32(len(r.verts))
	s := float32(dotSize)
	qx := [4]float32{-half, half, -half, half}
	qy := [4]float32{-half, -half, half, half}
	sx := [4]float32{0, s, 0, s}
	sy := [4]float32{0, 0, s, s}
	for j := 0; j < 4; j++ {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   fx + qx[j],
			DstY:   fy + qy[j],
			SrcX:   sx[j],
			SrcY:   sy[j],
			ColorR: cr * ca,
			ColorG: cg * ca,
			ColorB: cb * ca,
			ColorA: ca,
		})
	}
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flush submits the accumulated sprites with additive blending.
func (r *Renderer) flush(screen *ebiten.Image) {
	if len(r.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.Blend = ebiten.BlendLighter
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	screen.DrawTriangles32(r.verts, r.inds, r.dot, &op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

func (r *Renderer) drawParticles(screen *ebiten.Image, scene *evergreen.Scene, vp mgl64.Mat4, w, h float64) {
	set := scene.Particles()
	cam := scene.Camera()
	mvp := vp.Mul4(scene.ParticleTransform().Mat4())
	pos, col := set.Positions, set.Colors
	for i := 0; i+2 < len(pos); i += 3 {
		p := evergreen.Vec3{float64(pos[i]), float64(pos[i+1]), float64(pos[i+2])}
		x, y, depth, ok := evergreen.Project(mvp, w, h, p)
		if !ok {
			continue
		}
		px := particleSize * cam.PixelScale(depth)
		if px < 0.5 {
			continue
		}
		r.appendSprite(x, y, px, col[i], col[i+1], col[i+2], 0.85)
	}
	r.flush(screen)
}

func (r *Renderer) drawSparkles(screen *ebiten.Image, scene *evergreen.Scene, vp mgl64.Mat4, w, h float64) {
	cam := scene.Camera()
	for _, f := range scene.Sparkles() {
		cfg := f.Config()
		size := cfg.Size * sparkleUnit
		cr, cg, cb := float32(cfg.Color.R), float32(cfg.Color.G), float32(cfg.Color.B)
		f.Each(func(pos evergreen.Vec3, alpha float32) {
			if alpha <= 0 {
				return
			}
			x, y, depth, ok := evergreen.Project(vp, w, h, pos)
			if !ok {
				return
			}
			r.appendSprite(x, y, size*cam.PixelScale(depth), cr, cg, cb, alpha)
		})
	}
	r.flush(screen)
}

// worldTransform composes the ornament group with a decoration's local
// transform, including the photo float offset.
func worldTransform(group evergreen.Transform, d *evergreen.Decoration) evergreen.Transform {
	local := d.Transform()
	if bob := d.FloatOffset(); bob != 0 {
		local.Position = local.Position.Add(local.Rotation.Rotate(evergreen.Vec3{0, bob, 0}))
	}
	return evergreen.Transform{
		Position: group.Apply(local.Position),
		Rotation: group.Rotation.Mul(local.Rotation),
		Scale:    group.Scale * local.Scale,
	}
}

func (r *Renderer) drawDecorations(screen *ebiten.Image, scene *evergreen.Scene, vp mgl64.Mat4, w, h float64) {
	cam := scene.Camera()
	group := scene.OrnamentTransform()

	r.items = r.items[:0]
	collect := func(ds []*evergreen.Decoration) {
		for _, d := range ds {
			if !d.Visible() {
				continue
			}
			wt := worldTransform(group, d)
			x, y, depth, ok := evergreen.Project(vp, w, h, wt.Position)
			if !ok {
				continue
			}
			r.items = append(r.items, drawItem{
				dec: d, world: wt, x: x, y: y, depth: depth,
				pixels: cam.PixelScale(depth),
			})
		}
	}
	collect(scene.Ornaments())
	collect(scene.PhotoCards())

	sortBackToFront(r.items)

	for i := range r.items {
		it := &r.items[i]
		switch it.dec.Kind {
		case evergreen.KindGift:
			r.drawGift(screen, it)
		case evergreen.KindBauble:
			r.drawBauble(screen, it)
		case evergreen.KindPhoto:
			r.drawCard(screen, it, vp, w, h)
		}
	}
}

// sortBackToFront orders items by decreasing depth.
func sortBackToFront(items []drawItem) {
	slices.SortFunc(items, func(a, b drawItem) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
}

func toRGBA(c evergreen.Color, shade float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(c.R*shade, 1) * 255),
		G: uint8(math.Min(c.G*shade, 1) * 255),
		B: uint8(math.Min(c.B*shade, 1) * 255),
		A: 0xff,
	}
}

func (r *Renderer) drawGift(screen *ebiten.Image, it *drawItem) {
	side := float32(giftSize * it.world.Scale * it.pixels)
	if side < 1 {
		return
	}
	x, y := float32(it.x)-side/2, float32(it.y)-side/2
	vector.FillRect(screen, x, y, side, side, toRGBA(it.dec.Color, 1), true)
	ribbon := side / 6
	vector.FillRect(screen, float32(it.x)-ribbon/2, y, ribbon, side, ribbonColor, true)
	vector.FillRect(screen, x, float32(it.y)-ribbon/2, side, ribbon, ribbonColor, true)
}

func (r *Renderer) drawBauble(screen *ebiten.Image, it *drawItem) {
	rad := float32(baubleRadius * it.world.Scale * it.pixels)
	if rad < 0.5 {
		return
	}
	cx, cy := float32(it.x), float32(it.y)
	vector.FillCircle(screen, cx, cy, rad, toRGBA(it.dec.Color, 1), true)
	vector.FillCircle(screen, cx-rad*0.35, cy-rad*0.35, rad*0.3, toRGBA(it.dec.Color, 1.8), true)
}

// drawCard draws a photo card as two perspective quads: the frame, then the
// photo inset by the border.
func (r *Renderer) drawCard(screen *ebiten.Image, it *drawItem, vp mgl64.Mat4, w, h float64) {
	mvp := vp.Mul4(it.world.Mat4())
	hw, hh := cardWidth/2, cardHeight/2
	if !r.drawQuad(screen, mvp, w, h, hw, hh, r.white, frameColor) {
		return
	}
	img := r.photos.Image(it.dec.Photo)
	if img == nil {
		r.drawQuad(screen, mvp, w, h, hw-cardBorder, hh-cardBorder, r.white, placeholder)
		return
	}
	r.drawQuad(screen, mvp, w, h, hw-cardBorder, hh-cardBorder, img, color.RGBA{0xff, 0xff, 0xff, 0xff})
}

// drawQuad projects the local rectangle [-hw, hw] x [-hh, hh] at z = 0 and
// draws src stretched over it, tinted by tint. The front face shows the
// image upright when viewed along -Z. It reports false when a corner falls
// behind the camera.
func (r *Renderer) drawQuad(screen *ebiten.Image, mvp mgl64.Mat4, w, h, hw, hh float64, src *ebiten.Image, tint color.RGBA) bool {
	corners := [4]evergreen.Vec3{{-hw, hh, 0}, {hw, hh, 0}, {-hw, -hh, 0}, {hw, -hh, 0}}
	b := src.Bounds()
	su := [4]float32{float32(b.Min.X), float32(b.Max.X), float32(b.Min.X), float32(b.Max.X)}
	sv := [4]float32{float32(b.Min.Y), float32(b.Min.Y), float32(b.Max.Y), float32(b.Max.Y)}

	var verts [4]ebiten.Vertex
	for j, c := range corners {
		x, y, _, ok := evergreen.Project(mvp, w, h, c)
		if !ok {
			return false
		}
		verts[j] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: su[j], SrcY: sv[j],
			ColorR: float32(tint.R) / 255,
			ColorG: float32(tint.G) / 255,
			ColorB: float32(tint.B) / 255,
			ColorA: float32(tint.A) / 255,
		}
	}
	screen.DrawTriangles32(verts[:], []uint32{0, 1, 2, 1, 3, 2}, src, &ebiten.DrawTrianglesOptions{})
	return true
}
