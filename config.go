package evergreen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
)

// DefaultParticleCount is the size of the particle cloud.
const DefaultParticleCount = 45000

// TreeConfig shapes the procedural conic point cloud.
type TreeConfig struct {
	// Height is the vertical extent of the cone, centered on y = 0.
	Height float64
	// Width is the base radius.
	Width float64
	// HeightBias is the exponent applied to the uniform height sample;
	// values below 1 push mass toward the base.
	HeightBias float64
	// AngleStep is the deterministic per-index angle increment in radians.
	AngleStep float64
	// AngleJitter is the maximum random angle added per particle.
	AngleJitter float64
	// RadiusJitter scales the cone radius per particle.
	RadiusJitter Range
	// BaseColors are blended with a uniform random weight.
	BaseColors [2]Color
	// AccentColor replaces the blend with probability AccentChance.
	AccentColor  Color
	AccentChance float64
}

// TextConfig controls rasterization and sampling of the text silhouettes.
type TextConfig struct {
	// Strings are the texts shown for ModeText1..ModeText3.
	Strings [TextModes]string
	// FontData is a TrueType font. Nil selects the bundled Go Bold face,
	// which only covers Latin glyphs.
	FontData []byte `json:",omitempty"`
	// FontSize is the glyph size in raster pixels. Text wider than the
	// raster is shrunk to fit.
	FontSize float64
	// RasterWidth and RasterHeight size the glyph mask (2:1).
	RasterWidth  int
	RasterHeight int
	// Threshold is the brightness above which a mask pixel counts as lit.
	Threshold uint8
	// ExtentX and ExtentY are the world-space width and height the raster
	// maps onto, centered on the origin.
	ExtentX float64
	ExtentY float64
	// DepthJitter is the total z thickness given to the silhouette.
	DepthJitter float64
}

// MorphConfig tunes the per-frame particle retargeting.
type MorphConfig struct {
	TreeRate   float64 // per-frame blend toward tree targets
	TextRate   float64 // per-frame blend toward text targets
	SpreadGain float64 // tree scale is 1 + Dispersion*SpreadGain
	TextNoise  float64 // amplitude of the text shimmer
	// YawAmplitude and YawFrequency drive the idle sway in tree mode.
	YawAmplitude float64
	YawFrequency float64
	// YawReturn is the per-frame decay of the sway back to zero in text modes.
	YawReturn float64
}

// DecorConfig lays out and animates gifts and baubles.
type DecorConfig struct {
	Gifts   int
	Baubles int
	Palette []Color
	// LayoutY is the vertical band objects are seeded in.
	LayoutY Range
	// GiftRadius and BaubleRadius scale the cone radius at the seeded height.
	GiftRadius   Range
	BaubleRadius Range
	// Delay is the per-object phase range.
	Delay Range
	// Rate is the per-frame blend for position and scale.
	Rate float64

	GiftScale        float64 // resting gift scale
	GiftSpreadBase   float64 // scatter distance at zero dispersion
	GiftSpreadGain   float64 // extra scatter distance per unit dispersion
	GiftBob          float64 // bob amplitude
	BaubleSpreadBase float64
	BaubleSpreadGain float64
	BaubleBob        float64
	// ShrinkGain shrinks objects by 1 - Dispersion*ShrinkGain.
	ShrinkGain float64
}

// CarouselConfig tunes photo layout and the revolving carousel.
type CarouselConfig struct {
	Radius     float64 // carousel circle radius
	Speed      float64 // radians per second
	Height     float64 // amplitude of the per-photo carousel height
	BlendLow   float64 // smoothed dispersion where the carousel blend starts
	BlendHigh  float64 // smoothed dispersion where the blend completes
	SmoothRate float64 // per-second rate of the photo dispersion smoothing
	HideRate   float64 // per-second shrink rate outside tree mode
	FaceRate   float64 // per-second slerp rate toward the camera
	ReturnRate float64 // per-second slerp rate back to the seed rotation
	ScaleRate  float64 // per-second scale blend
	BaseScale  float64 // scale while carouseling
	FocusBoost float64 // extra scale for the frontmost photo
	FocusLow   float64 // cosine where the focus boost starts
	// FloatSpeed and FloatAmount drive the idle float bob on photos.
	FloatSpeed  float64
	FloatAmount float64
}

// ClassifierConfig holds the gesture heuristics.
type ClassifierConfig struct {
	// OpenMin and OpenMax are the thumb-index distances remapped to
	// dispersion 0 and 1.
	OpenMin float64
	OpenMax float64
	// CenterX is the screen center used for the rotation offset.
	CenterX float64
	// RotationGain scales the centroid offset into a rotation speed.
	RotationGain float64
	// LostDecay is subtracted from dispersion per call while no hand is seen.
	LostDecay float64
}

// RotationConfig tunes the scene rotation controller and the ornament group.
type RotationConfig struct {
	DispersionRate float64 // per-second smoothing of dispersion
	RotationRate   float64 // per-second smoothing of rotation speed
	AutoRotate     float64 // idle yaw velocity in tree mode, radians per second
	GestureGain    float64 // yaw velocity per unit of smoothed rotation speed
	// OrnamentExpand grows the ornament group by 1 + Dispersion*OrnamentExpand.
	OrnamentExpand float64
	// OrnamentSpin is the per-frame counter rotation of the ornament group.
	OrnamentSpin float64
	// OrnamentFrequency and OrnamentDamping configure the expansion spring.
	OrnamentFrequency float64
	OrnamentDamping   float64
}

// CameraConfig places the viewer.
type CameraConfig struct {
	Position    Vec3
	FOV         float64 // vertical field of view in degrees
	Near, Far   float64
	MinPolar    float64
	MaxPolar    float64
	MinDistance float64
	MaxDistance float64
}

// SparkleConfig describes one ambient sparkle field.
type SparkleConfig struct {
	Count    int
	Scale    float64 // edge length of the cube the sparkles fill
	Size     float64
	Speed    float64
	Opacity  float64
	Color    Color
	Lifetime Range
}

// Config is the full scene configuration. Start from DefaultConfig and
// override fields, or overlay JSON with LoadConfig.
type Config struct {
	ParticleCount int
	// Seed feeds every random layout. Equal seeds give identical scenes.
	Seed uint64
	// FrameRate is the nominal render rate the per-frame blend factors
	// were tuned for.
	FrameRate float64

	Tree       TreeConfig
	Text       TextConfig
	Morph      MorphConfig
	Decor      DecorConfig
	Carousel   CarouselConfig
	Classifier ClassifierConfig
	Rotation   RotationConfig
	Camera     CameraConfig
	Sparkles   []SparkleConfig

	// Debug enables per-frame timing stats.
	Debug bool
	// Logger receives structured logs. Nil uses slog.Default().
	Logger *slog.Logger `json:"-"`
}

// DefaultConfig returns the stock holiday scene.
func DefaultConfig() Config {
	return Config{
		ParticleCount: DefaultParticleCount,
		Seed:          2024,
		FrameRate:     60,
		Tree: TreeConfig{
			Height:       16,
			Width:        6,
			HeightBias:   0.8,
			AngleStep:    0.2,
			AngleJitter:  0.5,
			RadiusJitter: Range{0.6, 1.0},
			BaseColors:   [2]Color{MustHexColor("#0f5f3f"), MustHexColor("#2fab6f")},
			AccentColor:  MustHexColor("#d4af37"),
			AccentChance: 0.05,
		},
		Text: TextConfig{
			Strings:      [TextModes]string{"XMAS", "JOY", "LUCK"},
			FontSize:     30,
			RasterWidth:  128,
			RasterHeight: 64,
			Threshold:    128,
			ExtentX:      16,
			ExtentY:      8,
			DepthJitter:  2,
		},
		Morph: MorphConfig{
			TreeRate:     0.08,
			TextRate:     0.1,
			SpreadGain:   6,
			TextNoise:    0.05,
			YawAmplitude: 0.05,
			YawFrequency: 0.05,
			YawReturn:    0.1,
		},
		Decor: DecorConfig{
			Gifts:   40,
			Baubles: 60,
			Palette: []Color{
				MustHexColor("#d32f2f"),
				MustHexColor("#1976d2"),
				MustHexColor("#fbc02d"),
				MustHexColor("#7b1fa2"),
				MustHexColor("#388e3c"),
			},
			LayoutY:          Range{-7, 7},
			GiftRadius:       Range{0.5, 1.0},
			BaubleRadius:     Range{0.8, 1.1},
			Delay:            Range{0, 10},
			Rate:             0.1,
			GiftScale:        0.4,
			GiftSpreadBase:   8,
			GiftSpreadGain:   20,
			GiftBob:          0.5,
			BaubleSpreadBase: 5,
			BaubleSpreadGain: 15,
			BaubleBob:        0.005,
			ShrinkGain:       0.8,
		},
		Carousel: CarouselConfig{
			Radius:      16,
			Speed:       0.15,
			Height:      2,
			BlendLow:    0.1,
			BlendHigh:   0.9,
			SmoothRate:  3,
			HideRate:    5,
			FaceRate:    4,
			ReturnRate:  2,
			ScaleRate:   4,
			BaseScale:   2.5,
			FocusBoost:  2.5,
			FocusLow:    0.2,
			FloatSpeed:  2,
			FloatAmount: 0.5,
		},
		Classifier: ClassifierConfig{
			OpenMin:      0.05,
			OpenMax:      0.2,
			CenterX:      0.5,
			RotationGain: -2,
			LostDecay:    0.05,
		},
		Rotation: RotationConfig{
			DispersionRate:    2,
			RotationRate:      3,
			AutoRotate:        0.05,
			GestureGain:       2,
			OrnamentExpand:    1.5,
			OrnamentSpin:      0.002,
			OrnamentFrequency: 2,
			OrnamentDamping:   1,
		},
		Camera: CameraConfig{
			Position:    Vec3{0, 0, 24},
			FOV:         50,
			Near:        0.1,
			Far:         200,
			MinPolar:    math.Pi / 3,
			MaxPolar:    math.Pi / 1.5,
			MinDistance: 10,
			MaxDistance: 40,
		},
		Sparkles: []SparkleConfig{
			{Count: 500, Scale: 20, Size: 3, Speed: 0.4, Opacity: 0.6, Color: Color{1, 1, 1}, Lifetime: Range{2, 6}},
			{Count: 300, Scale: 15, Size: 5, Speed: 0.2, Opacity: 0.8, Color: MustHexColor("#ffd700"), Lifetime: Range{3, 8}},
		},
	}
}

// LoadConfig overlays JSON onto DefaultConfig and validates the result.
// Fields absent from the JSON keep their defaults.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("evergreen: failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	switch {
	case c.ParticleCount <= 0:
		return fmt.Errorf("evergreen: particle count must be positive, got %d", c.ParticleCount)
	case c.FrameRate <= 0:
		return fmt.Errorf("evergreen: frame rate must be positive, got %v", c.FrameRate)
	case c.Text.RasterWidth <= 0 || c.Text.RasterHeight <= 0:
		return fmt.Errorf("evergreen: raster size %dx%d is empty", c.Text.RasterWidth, c.Text.RasterHeight)
	case c.Text.RasterWidth != 2*c.Text.RasterHeight:
		return fmt.Errorf("evergreen: raster must be 2:1, got %dx%d", c.Text.RasterWidth, c.Text.RasterHeight)
	case c.Text.FontSize <= 0:
		return fmt.Errorf("evergreen: font size must be positive, got %v", c.Text.FontSize)
	case c.Classifier.OpenMax <= c.Classifier.OpenMin:
		return fmt.Errorf("evergreen: openness range [%v, %v] is empty", c.Classifier.OpenMin, c.Classifier.OpenMax)
	case c.Decor.Gifts < 0 || c.Decor.Baubles < 0:
		return fmt.Errorf("evergreen: negative decoration count")
	case (c.Decor.Gifts > 0 || c.Decor.Baubles > 0) && len(c.Decor.Palette) == 0:
		return fmt.Errorf("evergreen: decorations need a non-empty palette")
	case c.Carousel.BlendHigh <= c.Carousel.BlendLow:
		return fmt.Errorf("evergreen: carousel blend range [%v, %v] is empty", c.Carousel.BlendLow, c.Carousel.BlendHigh)
	case c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance:
		return fmt.Errorf("evergreen: camera distance range [%v, %v] is invalid", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return nil
}

// logger returns the configured logger or the process default.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
