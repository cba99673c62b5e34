package render

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/evergreen"
)

const (
	keyboardMoveSpeed  = 0.4  // centroid units per second
	keyboardPinchSpeed = 0.15 // pinch units per second
	keyboardMaxPinch   = 0.3
)

// KeyState is one frame of keyboard input relevant to the gesture driver.
// Toggle and finger selections are edge triggered; the arrows are held.
type KeyState struct {
	ToggleHand bool
	Fingers    *evergreen.Fingers
	Left       bool
	Right      bool
	Open       bool
	Close      bool
}

// Keyboard synthesizes a hand from the keyboard so the scene can be driven
// without a camera. It is a LandmarkSource: Poll runs on the frame goroutine
// and pushes one result per frame for the scene's sampler to pick up.
type Keyboard struct {
	*evergreen.ChannelSource

	pose    evergreen.Pose
	present bool
	stamp   time.Duration
}

// NewKeyboard creates a driver with the hand hidden, palm open and centered.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		ChannelSource: evergreen.NewChannelSource(1),
		pose:          evergreen.Pose{Fingers: evergreen.FingersPalm, CenterX: 0.5, CenterY: 0.5},
	}
}

// Pose returns the synthetic pose and whether the hand is shown.
func (k *Keyboard) Pose() (evergreen.Pose, bool) {
	return k.pose, k.present
}

// Poll reads the keyboard and pushes this frame's sample.
func (k *Keyboard) Poll(dt float64) {
	k.Push(k.Step(readKeys(), dt))
}

// Step applies one frame of input and returns the resulting sample.
func (k *Keyboard) Step(in KeyState, dt float64) evergreen.DetectionResult {
	if in.ToggleHand {
		k.present = !k.present
	}
	if in.Fingers != nil {
		k.pose.Fingers = *in.Fingers
		k.present = true
	}
	if in.Left {
		k.pose.CenterX -= keyboardMoveSpeed * dt
	}
	if in.Right {
		k.pose.CenterX += keyboardMoveSpeed * dt
	}
	if in.Open {
		k.pose.Pinch += keyboardPinchSpeed * dt
	}
	if in.Close {
		k.pose.Pinch -= keyboardPinchSpeed * dt
	}
	k.pose.CenterX = min(max(k.pose.CenterX, 0), 1)
	k.pose.Pinch = min(max(k.pose.Pinch, 0), keyboardMaxPinch)

	k.stamp += time.Duration(dt * float64(time.Second))
	res := evergreen.DetectionResult{Timestamp: k.stamp}
	if k.present {
		res.Hands = []evergreen.Hand{k.pose.Hand()}
	}
	return res
}

var fingerKeys = []struct {
	key     ebiten.Key
	fingers evergreen.Fingers
}{
	{ebiten.Key1, evergreen.FingersOne},
	{ebiten.Key2, evergreen.FingersTwo},
	{ebiten.Key3, evergreen.FingersThree},
	{ebiten.Key4, evergreen.FingersPalm},
	{ebiten.KeyF, evergreen.FingersFist},
}

func readKeys() KeyState {
	in := KeyState{
		ToggleHand: inpututil.IsKeyJustPressed(ebiten.KeyH),
		Left:       ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:      ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Open:       ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Close:      ebiten.IsKeyPressed(ebiten.KeyArrowDown),
	}
	for _, fk := range fingerKeys {
		if inpututil.IsKeyJustPressed(fk.key) {
			f := fk.fingers
			in.Fingers = &f
		}
	}
	return in
}
