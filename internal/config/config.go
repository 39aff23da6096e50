package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/countdown/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS        = 60
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultStride     = 4
	DefaultTextColor  = "#ffcc00"
	DefaultScaleBase  = 800.0
	DefaultWatchEvery = 250 * time.Millisecond
)

type Config struct {
	// Target is the moment the countdown reaches zero. Zero means the next
	// New Year's midnight in local time.
	Target     time.Time      `yaml:"target"`
	Seed       int64          `yaml:"seed"`
	FPS        int            `yaml:"fps"`
	WatchEvery time.Duration  `yaml:"watch_every"`
	Verbose    bool           `yaml:"verbose"`
	Viewport   ViewportConfig `yaml:"viewport"`
	Text       TextConfig     `yaml:"text"`
	Field      FieldConfig    `yaml:"field"`
	Sphere     SphereConfig   `yaml:"sphere"`
	Layout     LayoutConfig   `yaml:"layout"`
	Timeline   TimelineConfig `yaml:"timeline"`
	Fireworks  FireworkConfig `yaml:"fireworks"`
	Banner     BannerConfig   `yaml:"banner"`
	Backdrop   BackdropConfig `yaml:"backdrop"`
	Audio      AudioConfig    `yaml:"audio"`
	Content    ContentConfig  `yaml:"content"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TextConfig struct {
	// FontPath is an optional TTF/OTF file; empty uses the embedded Go Bold.
	FontPath     string  `yaml:"font_path"`
	Stride       int     `yaml:"stride"`
	Color        string  `yaml:"color"`
	ScaleBase    float64 `yaml:"scale_base"`
	QuestionSize float64 `yaml:"question_size"`
	NumeralSize  float64 `yaml:"numeral_size"`
	GreetingSize float64 `yaml:"greeting_size"`
	MessageSize  float64 `yaml:"message_size"`
	PoemSize     float64 `yaml:"poem_size"`
	LabelSize    float64 `yaml:"label_size"`
}

type FieldConfig struct {
	EaseMin     float64 `yaml:"ease_min"`
	EaseSpread  float64 `yaml:"ease_spread"`
	HueMin      float64 `yaml:"hue_min"`
	HueSpread   float64 `yaml:"hue_spread"`
	SphereCount int     `yaml:"sphere_count"`
	SphereEase  float64 `yaml:"sphere_ease"`
	Size        float64 `yaml:"size"`
}

type SphereConfig struct {
	// SpinX and SpinY are rotation rates in radians per frame.
	SpinX    float64 `yaml:"spin_x"`
	SpinY    float64 `yaml:"spin_y"`
	MinScale float64 `yaml:"min_scale"`
	MinAlpha float64 `yaml:"min_alpha"`
	// Fraction of min(width, height) used as the celebration sphere radius.
	Fraction float64 `yaml:"fraction"`
}

type LayoutConfig struct {
	Padding     float64 `yaml:"padding"`
	Iterations  int     `yaml:"iterations"`
	// Correction is the fraction of an overlap removed per pair per pass.
	// The push never drops below 0.5px, so the effective push is
	// max(Correction*overlap, 0.5) and overlaps under 0.5px close at once.
	Correction  float64 `yaml:"correction"`
	RepelBuffer float64 `yaml:"repel_buffer"`
	RepelFactor float64 `yaml:"repel_factor"`
	BaseRadius  float64 `yaml:"base_radius"`
	Growth      float64 `yaml:"growth"`
	MaxFraction float64 `yaml:"max_fraction"`
	WanderSpeed float64 `yaml:"wander_speed"`
	// SpringFrequency and SpringDamping shape how the drawn sphere radius
	// follows its target.
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`
	ExplodeSpeed    float64 `yaml:"explode_speed"`
	ExplodeGravity  float64 `yaml:"explode_gravity"`
}

type TimelineConfig struct {
	LineStagger  time.Duration `yaml:"line_stagger"`
	PoemHold     time.Duration `yaml:"poem_hold"`
	SpawnEvery   time.Duration `yaml:"spawn_every"`
	WishHold     time.Duration `yaml:"wish_hold"`
	ExplodeFor   time.Duration `yaml:"explode_for"`
	QuestionHold time.Duration `yaml:"question_hold"`
	GatherFor    time.Duration `yaml:"gather_for"`
	Tick         time.Duration `yaml:"tick"`
	Ticks        int           `yaml:"ticks"`
	PreHold      time.Duration `yaml:"pre_hold"`
	SphereHold   time.Duration `yaml:"sphere_hold"`
}

type FireworkConfig struct {
	Probability      float64 `yaml:"probability"`
	Gravity          float64 `yaml:"gravity"`
	LaunchSpeedMin   float64 `yaml:"launch_speed_min"`
	LaunchSpeedRange float64 `yaml:"launch_speed_range"`
	Drift            float64 `yaml:"drift"`
	SparksMin        int     `yaml:"sparks_min"`
	SparksRange      int     `yaml:"sparks_range"`
	SparkSpeedMin    float64 `yaml:"spark_speed_min"`
	SparkSpeedRange  float64 `yaml:"spark_speed_range"`
	DecayMin         float64 `yaml:"decay_min"`
	DecayRange       float64 `yaml:"decay_range"`
	SparkGravity     float64 `yaml:"spark_gravity"`
	SparkFriction    float64 `yaml:"spark_friction"`
	TrailLen         int     `yaml:"trail_len"`
	SparkTrailLen    int     `yaml:"spark_trail_len"`
}

type BannerConfig struct {
	FontSize   float64 `yaml:"font_size"`
	LineHeight float64 `yaml:"line_height"`
	SafeZone   float64 `yaml:"safe_zone"`
	SpeedMin   float64 `yaml:"speed_min"`
	SpeedRange float64 `yaml:"speed_range"`
	Gap        float64 `yaml:"gap"`
	HeartGap   float64 `yaml:"heart_gap"`
	Margin     float64 `yaml:"margin"`
}

type BackdropConfig struct {
	Stars              int `yaml:"stars"`
	Meteors            int `yaml:"meteors"`
	Constellations     int `yaml:"constellations"`
	ConstellationStars int `yaml:"constellation_stars"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type ContentConfig struct {
	Poem           []string `yaml:"poem"`
	Wishes         []string `yaml:"wishes"`
	Hint           string   `yaml:"hint"`
	Question       string   `yaml:"question"`
	PreCelebration string   `yaml:"pre_celebration"`
	// Greeting may contain {year}, replaced with the target's year.
	Greeting  string   `yaml:"greeting"`
	Blessings []string `yaml:"blessings"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:       0,
		FPS:        DefaultFPS,
		WatchEvery: DefaultWatchEvery,
		Viewport:   ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Text: TextConfig{
			Stride:       DefaultStride,
			Color:        DefaultTextColor,
			ScaleBase:    DefaultScaleBase,
			QuestionSize: 60,
			NumeralSize:  300,
			GreetingSize: 120,
			MessageSize:  72,
			PoemSize:     28,
			LabelSize:    22,
		},
		Field: FieldConfig{
			EaseMin:     0.03,
			EaseSpread:  0.05,
			HueMin:      30,
			HueSpread:   60,
			SphereCount: 800,
			SphereEase:  0.05,
			Size:        2,
		},
		Sphere: SphereConfig{
			SpinX:    0.004,
			SpinY:    0.009,
			MinScale: 0.5,
			MinAlpha: 0.25,
			Fraction: 0.3,
		},
		Layout: LayoutConfig{
			Padding:         10,
			Iterations:      3,
			Correction:      0.05,
			RepelBuffer:     20,
			RepelFactor:     0.1,
			BaseRadius:      40,
			Growth:          18,
			MaxFraction:     0.35,
			WanderSpeed:     0.6,
			SpringFrequency: 4,
			SpringDamping:   1,
			ExplodeSpeed:    9,
			ExplodeGravity:  0.2,
		},
		Timeline: TimelineConfig{
			LineStagger:  1500 * time.Millisecond,
			PoemHold:     15 * time.Second,
			SpawnEvery:   150 * time.Millisecond,
			WishHold:     2 * time.Second,
			ExplodeFor:   2500 * time.Millisecond,
			QuestionHold: 6 * time.Second,
			GatherFor:    1500 * time.Millisecond,
			Tick:         time.Second,
			Ticks:        10,
			PreHold:      5 * time.Second,
			SphereHold:   3 * time.Second,
		},
		Fireworks: FireworkConfig{
			Probability:      0.08,
			Gravity:          0.25,
			LaunchSpeedMin:   12,
			LaunchSpeedRange: 8,
			Drift:            4,
			SparksMin:        100,
			SparksRange:      100,
			SparkSpeedMin:    2,
			SparkSpeedRange:  8,
			DecayMin:         0.01,
			DecayRange:       0.015,
			SparkGravity:     0.15,
			SparkFriction:    0.96,
			TrailLen:         5,
			SparkTrailLen:    6,
		},
		Banner: BannerConfig{
			FontSize:   32,
			LineHeight: 1.8,
			SafeZone:   220,
			SpeedMin:   0.8,
			SpeedRange: 1.0,
			Gap:        150,
			HeartGap:   60,
			Margin:     100,
		},
		Backdrop: BackdropConfig{
			Stars:              200,
			Meteors:            15,
			Constellations:     3,
			ConstellationStars: 7,
		},
		Audio: AudioConfig{Enabled: true, Volume: 0.25},
		Content: ContentConfig{
			Poem: []string{
				"The year folds up its pages, one by one,",
				"and every page still carries your name.",
				"Between the last star and the first light,",
				"I kept a small fire burning for us.",
				"Let the clock run down; I am not afraid.",
				"Whatever comes, I want to meet it with you.",
			},
			Wishes: []string{
				"health", "laughter", "courage", "quiet mornings",
				"long walks", "good books", "new places", "old friends",
				"patience", "sunlight", "music", "home",
			},
			Hint:           "drag the wishes together",
			Question:       "My dear,\nlet's welcome the new year together",
			PreCelebration: "almost there...",
			Greeting:       "Hello {year}",
			Blessings: []string{
				"Everything is a new beginning",
				"I want to say happy new year to you, for many years",
				"May the fireworks bring you all the joy of the new year",
				"May there be light in your eyes and love in your heart",
				"Through every storm, may the world still seem kind",
				"Let the past drift away; the new year waits for your smile",
				"May time's pen keep every happy memory",
				"Every moment is a treasure",
				"Stay beside the ones who matter, year after year",
				"New year's wish: good fortune, and you",
				"A whole love letter, about your warm name",
				"Farewell to the old, welcome to the new",
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Validate reports the first out-of-range value, wrapping
// dynamo.ErrInvalidConfig.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.FPS <= 0:
		return fail("fps must be positive, got %d", c.FPS)
	case c.WatchEvery <= 0:
		return fail("watch_every must be positive, got %s", c.WatchEvery)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fail("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	case c.Text.Stride < 1:
		return fail("text.stride must be at least 1, got %d", c.Text.Stride)
	case c.Text.ScaleBase <= 0:
		return fail("text.scale_base must be positive")
	case c.Field.EaseMin <= 0 || c.Field.EaseMin+c.Field.EaseSpread >= 1:
		return fail("field ease range must lie inside (0, 1)")
	case c.Field.SphereEase <= 0 || c.Field.SphereEase >= 1:
		return fail("field.sphere_ease must lie inside (0, 1)")
	case c.Layout.Iterations < 1:
		return fail("layout.iterations must be at least 1")
	case c.Layout.Correction <= 0 || c.Layout.Correction > 0.5:
		return fail("layout.correction must lie in (0, 0.5], got %v", c.Layout.Correction)
	case c.Layout.MaxFraction <= 0 || c.Layout.MaxFraction > 0.5:
		return fail("layout.max_fraction must lie in (0, 0.5]")
	case c.Timeline.Ticks < 1:
		return fail("timeline.ticks must be at least 1")
	case c.Timeline.Tick <= 0 || c.Timeline.SpawnEvery <= 0:
		return fail("timeline.tick and timeline.spawn_every must be positive")
	case c.Timeline.PoemHold < 0 || c.Timeline.WishHold < 0 || c.Timeline.ExplodeFor < 0 ||
		c.Timeline.QuestionHold < 0 || c.Timeline.GatherFor < 0 || c.Timeline.PreHold < 0 ||
		c.Timeline.SphereHold < 0 || c.Timeline.LineStagger < 0:
		return fail("timeline durations must not be negative")
	case c.Fireworks.Probability < 0 || c.Fireworks.Probability > 1:
		return fail("fireworks.probability must lie in [0, 1], got %v", c.Fireworks.Probability)
	case c.Fireworks.SparksMin < 1 || c.Fireworks.SparksRange < 0:
		return fail("fireworks spark counts must be positive")
	case c.Fireworks.DecayMin <= 0:
		return fail("fireworks.decay_min must be positive")
	case c.Banner.FontSize <= 0 || c.Banner.LineHeight <= 0:
		return fail("banner font size and line height must be positive")
	case len(c.Content.Blessings) == 0:
		return fail("content.blessings must not be empty")
	}
	if _, err := c.TextColor(); err != nil {
		return fail("text.color: %v", err)
	}
	return nil
}

// TextColor parses the particle text colour.
func (c *Config) TextColor() (colorful.Color, error) {
	return colorful.Hex(c.Text.Color)
}

// TargetAt resolves the countdown target relative to now.
func (c *Config) TargetAt(now time.Time) time.Time {
	if !c.Target.IsZero() {
		return c.Target
	}
	return NextNewYear(now)
}

// NextNewYear returns the first January 1st midnight strictly after now,
// in now's location.
func NextNewYear(now time.Time) time.Time {
	return time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
}

// ForceJumpLead is how long before the target the interactive phases are
// abandoned: the pre-celebration hold plus the full numeral countdown.
func (t TimelineConfig) ForceJumpLead() time.Duration {
	return t.PreHold + time.Duration(t.Ticks)*t.Tick
}

// CountdownSpan is the length of the numeral countdown.
func (t TimelineConfig) CountdownSpan() time.Duration {
	return time.Duration(t.Ticks) * t.Tick
}

// TextScale shrinks fonts on viewports narrower than the scale base.
func (c *Config) TextScale(width int) float64 {
	s := float64(width) / c.Text.ScaleBase
	if s > 1 {
		return 1
	}
	if s <= 0 {
		return 0.1
	}
	return s
}

// GreetingFor expands {year} in the greeting.
func (c *Config) GreetingFor(target time.Time) string {
	return strings.ReplaceAll(c.Content.Greeting, "{year}", strconv.Itoa(target.Year()))
}
