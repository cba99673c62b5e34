// Package render draws an evergreen scene with Ebitengine and wires the
// window's mouse, keyboard and drag-and-drop input to it.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/evergreen"
)

const (
	orbitSensitivity = 0.005 // radians per dragged pixel
	zoomStep         = 0.1   // distance fraction per wheel notch
	resetDuration    = 0.8   // seconds
)

// RunConfig holds optional settings for Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height set the window size. Zero selects 1280x720.
	Width, Height int
	// ShowFPS draws the FPS widget.
	ShowFPS bool
	// ShowHUD draws the drive state and control hints.
	ShowHUD bool
	// Fullscreen starts in fullscreen mode.
	Fullscreen bool
	// ScreenshotDir is where screenshots are written. Empty selects
	// "screenshots".
	ScreenshotDir string
	// Keyboard, when set, is polled each frame to synthesize gestures.
	Keyboard *Keyboard
	// Logger receives render logs. Nil uses slog.Default().
	Logger *slog.Logger
	// Status, when set, supplies extra HUD lines each frame, such as the
	// state of the landmark source.
	Status func() []string
	// OnUpdate runs every frame after the scene update.
	OnUpdate func(g *Game)
	// OnExit runs once when the window closes, before Run returns.
	OnExit func(g *Game)
}

// Game is an ebiten.Game running a Scene.
type Game struct {
	scene    *evergreen.Scene
	cfg      RunConfig
	logger   *slog.Logger
	renderer *Renderer
	photos   *PhotoCache
	hud      *hud
	fps      *fpsWidget
	shots    *screenshotter

	showHUD  bool
	dragging bool
	lastX    int
	lastY    int
	quitting atomic.Bool
}

// NewGame prepares a game for scene.
func NewGame(scene *evergreen.Scene, cfg RunConfig) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h, err := newHUD()
	if err != nil {
		return nil, err
	}
	photos := NewPhotoCache(logger)
	g := &Game{
		scene:    scene,
		cfg:      cfg,
		logger:   logger,
		photos:   photos,
		renderer: NewRenderer(photos),
		hud:      h,
		shots:    &screenshotter{dir: cfg.ScreenshotDir, logger: logger},
		showHUD:  cfg.ShowHUD,
	}
	if cfg.ShowFPS {
		g.fps = newFPSWidget()
	}
	return g, nil
}

// Scene returns the scene being run.
func (g *Game) Scene() *evergreen.Scene { return g.scene }

// Fullscreen reports whether the window is fullscreen.
func (g *Game) Fullscreen() bool { return ebiten.IsFullscreen() }

// HUDVisible reports whether the HUD is shown.
func (g *Game) HUDVisible() bool { return g.showHUD }

// Screenshot queues a labeled capture of the next frame. Safe to call from
// any goroutine.
func (g *Game) Screenshot(label string) {
	g.shots.Queue(label)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.quitting.Load() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	g.handleCamera()
	g.handleKeys()
	g.handleDrops()
	if g.cfg.Keyboard != nil {
		g.cfg.Keyboard.Poll(dt)
	}

	g.scene.Update(dt)
	if g.cfg.OnUpdate != nil {
		g.cfg.OnUpdate(g)
	}
	if g.fps != nil {
		g.fps.update(dt)
	}
	return nil
}

func (g *Game) handleCamera() {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	g.steerCamera(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), wy)
}

// steerCamera applies one frame of mouse input. Input is ignored while a
// reset animation runs so the two do not fight over the same fields.
func (g *Game) steerCamera(x, y int, pressed bool, wheel float64) {
	cam := g.scene.Camera()
	animating := cam.Animating()
	if pressed {
		if g.dragging && !animating {
			cam.Orbit(-float64(x-g.lastX)*orbitSensitivity, -float64(y-g.lastY)*orbitSensitivity)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y

	if wheel != 0 && !animating {
		cam.Zoom(1 - wheel*zoomStep)
	}
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.scene.Camera().Reset(resetDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.Screenshot("manual")
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.showHUD = !g.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

// handleDrops adds dropped image files to the photo set.
func (g *Game) handleDrops() {
	fsys := ebiten.DroppedFiles()
	if fsys == nil {
		return
	}
	files := readDropped(fsys)
	if len(files) == 0 {
		return
	}
	urls := make([]string, len(files))
	for i, f := range files {
		urls[i] = g.photos.AddMemory(f.name, f.data)
	}
	g.scene.Photos().AddUploaded(urls...)
	g.logger.Info("photos added", "count", len(urls), "total", g.scene.Photos().Len())
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene)
	if g.showHUD {
		g.hud.draw(screen, g.scene.Drive(), g.hudLines(), g.cfg.Keyboard != nil)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.shots.flush(screen)
}

// hudLines returns the HUD text for the current frame.
func (g *Game) hudLines() []string {
	lines := driveLines(g.scene.Drive(), g.scene.Photos().Len(), g.photos.Ready())
	if g.cfg.Status != nil {
		lines = append(lines, g.cfg.Status()...)
	}
	return lines
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Quit ends the game after the current frame. Safe to call from any
// goroutine.
func (g *Game) Quit() {
	g.quitting.Store(true)
}

// Run opens a window and runs the game until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(g.cfg.Fullscreen)

	err := ebiten.RunGame(g)
	if g.cfg.OnExit != nil {
		g.cfg.OnExit(g)
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
