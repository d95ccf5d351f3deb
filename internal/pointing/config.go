package pointing

import "time"

// Rotation is the configured mounting rotation of the pad, which remaps
// the circular-scroll axis-selection predicate.
type Rotation int

const (
	Rotation0 Rotation = 0
	Rotation90 Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Config holds every compile-time constant the original firmware
// exposed, plus the feature-toggle and rotation/mirroring fields this
// port adds. It is a plain struct: the core package never reads global
// state or a config library.
type Config struct {
	Scale uint16 // SCALE: coordinate range samples are scaled into, e.g. 1024

	ScrollRingPct   int     // SCROLL_RING_PCT, default 33
	ScrollMovePct   int     // SCROLL_MOVE_PCT, default 6
	ScrollMoveRatio float64 // SCROLL_MOVE_RATIO, default 1.2
	ScrollWheelClicks int   // SCROLL_WHEEL_CLICKS, default 9

	TappingTerm   time.Duration // TAPPING_TERM_MS, default 200ms
	TouchDebounce time.Duration // TOUCH_DEBOUNCE_MS, default 8*TappingTerm
	TapCodeDelay  time.Duration // TAP_CODE_DELAY_MS, default 0

	GlideCoef     float64       // GLIDE_COEF, default 0.4
	GlideInterval time.Duration // GLIDE_INTERVAL_MS, default 10ms

	Rotation   Rotation // POINTING_DEVICE_ROTATION, default 0
	MirrorAxis bool     // left-hand mirroring, an explicit opt-in rather than guessed

	// MotionPin mirrors the original firmware's POINTING_DEVICE_MOTION_PIN
	// short circuit: when true, the pipeline always attempts a read
	// instead of polling DataReady first.
	MotionPin bool

	EnableScroll bool
	EnableTap    bool
	EnableGlide  bool
}

// DefaultConfig returns the original firmware's compile-time defaults
// with all gesture features enabled.
func DefaultConfig() Config {
	tappingTerm := 200 * time.Millisecond
	return Config{
		Scale: 1024,

		ScrollRingPct:     33,
		ScrollMovePct:     6,
		ScrollMoveRatio:   1.2,
		ScrollWheelClicks: 9,

		TappingTerm:   tappingTerm,
		TouchDebounce: tappingTerm * 8,
		TapCodeDelay:  0,

		GlideCoef:     0.4,
		GlideInterval: 10 * time.Millisecond,

		Rotation:   Rotation0,
		MirrorAxis: false,
		MotionPin:  false,

		EnableScroll: true,
		EnableTap:    true,
		EnableGlide:  true,
	}
}
