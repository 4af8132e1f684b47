package flick

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// GestureConfig holds the fixed recognition thresholds. Distances are in
// page pixels.
type GestureConfig struct {
	// TapThreshold is how far a contact may move and still become a tap.
	TapThreshold float64 `yaml:"tap_threshold"`
	// ScrollThreshold is how far a contact must move before scrollstart.
	ScrollThreshold float64 `yaml:"scroll_threshold"`
	// SwipeThreshold is the horizontal distance that triggers a swipe.
	SwipeThreshold float64 `yaml:"swipe_threshold"`
	// SwipeTime is how long after touch start a swipe may still be recognized.
	SwipeTime time.Duration `yaml:"swipe_time"`
	// SwipeDriftRatio is the largest allowed |dy|/|dx| for a swipe.
	SwipeDriftRatio float64 `yaml:"swipe_drift_ratio"`
	// DoubleTapWindow is the longest gap between two taps of a double tap.
	DoubleTapWindow time.Duration `yaml:"double_tap_window"`
	// TapHoldInterval is the taphold repeat period.
	TapHoldInterval time.Duration `yaml:"tap_hold_interval"`
	// TouchEndThreshold is the distance from the viewport edge at which a
	// scrolling contact is ended early.
	TouchEndThreshold float64 `yaml:"touch_end_threshold"`
}

// Axis selects which scroll axes are enabled.
type Axis uint8

const (
	AxisBoth Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) horizontal() bool { return a != AxisVertical }
func (a Axis) vertical() bool   { return a != AxisHorizontal }

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	}
	return "both"
}

// UnmarshalYAML accepts "horizontal", "vertical" or "both".
func (a *Axis) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "both", "":
		*a = AxisBoth
	case "horizontal", "x":
		*a = AxisHorizontal
	case "vertical", "y":
		*a = AxisVertical
	default:
		return fmt.Errorf("unknown axis %q", s)
	}
	return nil
}

// BounceMode selects which axes spring back when released out of bounds.
type BounceMode uint8

const (
	BounceNone BounceMode = iota
	BounceHorizontal
	BounceVertical
	BounceBoth
)

func (b BounceMode) horizontal() bool { return b == BounceHorizontal || b == BounceBoth }
func (b BounceMode) vertical() bool   { return b == BounceVertical || b == BounceBoth }

// UnmarshalYAML accepts a boolean or one of "horizontal", "vertical", "both", "none".
func (b *BounceMode) UnmarshalYAML(value *yaml.Node) error {
	var on bool
	if err := value.Decode(&on); err == nil {
		if on {
			*b = BounceBoth
		} else {
			*b = BounceNone
		}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "both":
		*b = BounceBoth
	case "horizontal":
		*b = BounceHorizontal
	case "vertical":
		*b = BounceVertical
	case "none":
		*b = BounceNone
	default:
		return fmt.Errorf("unknown bounce mode %q", s)
	}
	return nil
}

// SnapGrid configures snap-to-grid after a scroll settles. A zero grid on
// an axis disables snapping on it. Page snaps to the viewport size.
type SnapGrid struct {
	Page bool
	X, Y float64
}

// Enabled reports whether any snapping is configured.
func (g SnapGrid) Enabled() bool {
	return g.Page || g.X > 0 || g.Y > 0
}

// UnmarshalYAML accepts a boolean (page snapping), a number (uniform grid)
// or a mapping with x and y.
func (g *SnapGrid) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var on bool
		if err := value.Decode(&on); err == nil {
			*g = SnapGrid{Page: on}
			return nil
		}
		var size float64
		if err := value.Decode(&size); err != nil {
			return fmt.Errorf("snap: %w", err)
		}
		*g = SnapGrid{X: size, Y: size}
		return nil
	}
	var xy struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}
	if err := value.Decode(&xy); err != nil {
		return fmt.Errorf("snap: %w", err)
	}
	*g = SnapGrid{X: xy.X, Y: xy.Y}
	return nil
}

// ScrollerConfig holds the momentum scroller options.
type ScrollerConfig struct {
	Direction Axis       `yaml:"direction"`
	Bounces   BounceMode `yaml:"bounces"`
	Momentum  bool       `yaml:"momentum"`
	// Friction is the fraction of velocity lost per frame interval.
	Friction float64 `yaml:"friction"`
	// Acceleration scales release velocity (px/ms) into px per frame.
	Acceleration float64 `yaml:"acceleration"`
	// SpringTension is the bounce spring's decay rate per frame interval.
	SpringTension float64 `yaml:"spring_tension"`
	Snap          SnapGrid `yaml:"snap"`
	FPS           int      `yaml:"fps"`
	// MomentumWindow is how far back momentum samples are kept.
	MomentumWindow   time.Duration `yaml:"momentum_window"`
	ScrollToDuration time.Duration `yaml:"scroll_to_duration"`
	ScrollToEasing   string        `yaml:"scroll_to_easing"`

	Scrollbars         bool          `yaml:"scrollbars"`
	ScrollbarFadeDelay time.Duration `yaml:"scrollbar_fade_delay"`
	ScrollbarFadeTime  time.Duration `yaml:"scrollbar_fade_time"`
	ScrollbarThickness float64       `yaml:"scrollbar_thickness"`
	ScrollbarMinLength float64       `yaml:"scrollbar_min_length"`
}

// frameInterval returns the physics step derived from FPS.
func (c ScrollerConfig) frameInterval() time.Duration {
	fps := c.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Config groups gesture and scroller options.
type Config struct {
	Gestures GestureConfig  `yaml:"gestures"`
	Scroller ScrollerConfig `yaml:"scroller"`
}

const (
	defaultTapThreshold      = 8
	defaultScrollThreshold   = 10
	defaultSwipeThreshold    = 35
	defaultSwipeTime         = 1000 * time.Millisecond
	defaultSwipeDriftRatio   = 0.5
	defaultDoubleTapWindow   = 800 * time.Millisecond
	defaultTapHoldInterval   = 250 * time.Millisecond
	defaultTouchEndThreshold = 25

	defaultFriction         = 0.05
	defaultAcceleration     = 20
	defaultSpringTension    = 0.2
	defaultFPS              = 60
	defaultMomentumWindow   = 300 * time.Millisecond
	defaultScrollToDuration = 400 * time.Millisecond
	defaultScrollToEasing   = "OutCubic"

	defaultScrollbarFadeDelay = 500 * time.Millisecond
	defaultScrollbarFadeTime  = 300 * time.Millisecond
	defaultScrollbarThickness = 4
	defaultScrollbarMinLength = 8
)

// DefaultGestureConfig returns the stock thresholds.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapThreshold:      defaultTapThreshold,
		ScrollThreshold:   defaultScrollThreshold,
		SwipeThreshold:    defaultSwipeThreshold,
		SwipeTime:         defaultSwipeTime,
		SwipeDriftRatio:   defaultSwipeDriftRatio,
		DoubleTapWindow:   defaultDoubleTapWindow,
		TapHoldInterval:   defaultTapHoldInterval,
		TouchEndThreshold: defaultTouchEndThreshold,
	}
}

// DefaultScrollerConfig returns a bouncing, momentum-enabled scroller on
// both axes.
func DefaultScrollerConfig() ScrollerConfig {
	return ScrollerConfig{
		Direction:          AxisBoth,
		Bounces:            BounceBoth,
		Momentum:           true,
		Friction:           defaultFriction,
		Acceleration:       defaultAcceleration,
		SpringTension:      defaultSpringTension,
		FPS:                defaultFPS,
		MomentumWindow:     defaultMomentumWindow,
		ScrollToDuration:   defaultScrollToDuration,
		ScrollToEasing:     defaultScrollToEasing,
		Scrollbars:         true,
		ScrollbarFadeDelay: defaultScrollbarFadeDelay,
		ScrollbarFadeTime:  defaultScrollbarFadeTime,
		ScrollbarThickness: defaultScrollbarThickness,
		ScrollbarMinLength: defaultScrollbarMinLength,
	}
}

// DefaultConfig returns the stock gesture and scroller configuration.
func DefaultConfig() Config {
	return Config{
		Gestures: DefaultGestureConfig(),
		Scroller: DefaultScrollerConfig(),
	}
}

// LoadConfig parses a YAML document on top of DefaultConfig. Keys that are
// absent keep their defaults.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := c.Gestures.validate(); err != nil {
		return err
	}
	return c.Scroller.validate()
}

func (g GestureConfig) validate() error {
	if g.TapThreshold < 0 || g.ScrollThreshold < 0 || g.SwipeThreshold < 0 || g.TouchEndThreshold < 0 {
		return fmt.Errorf("gesture thresholds must not be negative")
	}
	if g.TapHoldInterval <= 0 {
		return fmt.Errorf("tap_hold_interval must be positive")
	}
	return nil
}

func (s ScrollerConfig) validate() error {
	if s.Friction <= 0 || s.Friction >= 1 {
		return fmt.Errorf("friction must be in (0, 1), got %v", s.Friction)
	}
	if s.SpringTension <= 0 {
		return fmt.Errorf("spring_tension must be positive, got %v", s.SpringTension)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", s.FPS)
	}
	if _, ok := easingByName(s.ScrollToEasing); !ok {
		return fmt.Errorf("unknown easing %q", s.ScrollToEasing)
	}
	return nil
}

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"outexpo":    ease.OutExpo,
	"inoutsine":  ease.InOutSine,
	"outbounce":  ease.OutBounce,
	"outelastic": ease.OutElastic,
}

// easingByName resolves a gween easing function by case-insensitive name.
// The empty name resolves to the default.
func easingByName(name string) (ease.TweenFunc, bool) {
	if name == "" {
		name = defaultScrollToEasing
	}
	fn, ok := easings[strings.ToLower(name)]
	return fn, ok
}
