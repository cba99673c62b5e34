package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/evergreen"
	"golang.org/x/image/font/gofont/goregular"
)

const hudHelp = "drag: orbit  wheel: zoom  R: reset view  P: screenshot  Tab: HUD  F11: fullscreen  drop images to add photos"

const keyboardHelp = "H: hand on/off  1-3: text  4: palm  F: fist  arrows: move / pinch"

// hud draws the drive state and control hints.
type hud struct {
	face  *text.GoTextFace
	small *text.GoTextFace
}

func newHUD() (*hud, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: failed to load HUD font: %w", err)
	}
	return &hud{
		face:  &text.GoTextFace{Source: src, Size: 16},
		small: &text.GoTextFace{Source: src, Size: 12},
	}, nil
}

// driveLines formats the drive state for display. ready is the number of
// photos whose images have loaded.
func driveLines(d evergreen.DriveState, photos, ready int) []string {
	hand := "no hand"
	if d.Detected {
		hand = "hand"
	}
	return []string{
		fmt.Sprintf("mode: %s (%s)", d.Mode, hand),
		fmt.Sprintf("dispersion: %.2f", d.Dispersion),
		fmt.Sprintf("rotation: %+.2f", d.RotationSpeed),
		fmt.Sprintf("photos: %d (%d loaded)", photos, ready),
	}
}

func (h *hud) draw(screen *ebiten.Image, d evergreen.DriveState, lines []string, keyboard bool) {
	y := 12.0
	for _, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(12, y)
		op.ColorScale.ScaleWithColor(color.RGBA{0xe8, 0xe8, 0xe8, 0xff})
		text.Draw(screen, line, h.face, op)
		y += 20
	}

	// Dispersion bar.
	vector.FillRect(screen, 12, float32(y)+4, 160, 6, color.RGBA{0x40, 0x40, 0x40, 0xff}, false)
	vector.FillRect(screen, 12, float32(y)+4, float32(160*d.Dispersion), 6, color.RGBA{0xff, 0xd7, 0x00, 0xff}, false)

	bottom := float64(screen.Bounds().Dy())
	hints := []string{hudHelp}
	if keyboard {
		hints = append(hints, keyboardHelp)
	}
	for i, line := range hints {
		op := &text.DrawOptions{}
		op.GeoM.Translate(12, bottom-float64(len(hints)-i)*18-6)
		op.ColorScale.ScaleWithColor(color.RGBA{0xa0, 0xa0, 0xa0, 0xff})
		text.Draw(screen, line, h.small, op)
	}
}
