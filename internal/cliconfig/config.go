// Package cliconfig loads a pointing.Config from a viper-backed
// configuration file and environment, with the daemon's own defaults as
// the baseline.
package cliconfig

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tapglide/pinnacle/internal/pointing"
)

// FileSettings mirrors the on-disk/env-overridable subset of
// pointing.Config. Rotation and the time.Duration fields are expressed
// in the units a human would actually type into a config file.
type FileSettings struct {
	Scale uint16 `mapstructure:"scale"`

	ScrollRingPct     int     `mapstructure:"scroll_ring_pct"`
	ScrollMovePct     int     `mapstructure:"scroll_move_pct"`
	ScrollMoveRatio   float64 `mapstructure:"scroll_move_ratio"`
	ScrollWheelClicks int     `mapstructure:"scroll_wheel_clicks"`

	TappingTermMS   int `mapstructure:"tapping_term_ms"`
	TouchDebounceMS int `mapstructure:"touch_debounce_ms"`
	TapCodeDelayMS  int `mapstructure:"tap_code_delay_ms"`

	GlideCoef       float64 `mapstructure:"glide_coef"`
	GlideIntervalMS int     `mapstructure:"glide_interval_ms"`

	Rotation   int  `mapstructure:"rotation"`
	MirrorAxis bool `mapstructure:"mirror_axis"`
	MotionPin  bool `mapstructure:"motion_pin"`

	EnableScroll bool `mapstructure:"enable_scroll"`
	EnableTap    bool `mapstructure:"enable_tap"`
	EnableGlide  bool `mapstructure:"enable_glide"`

	DeviceKeyword    string `mapstructure:"device_keyword"`
	DeviceMustContain string `mapstructure:"device_must_contain"`
}

// Load reads configuration from environment variables prefixed
// PINNACLED_, the file at path (if non-empty), and the daemon defaults,
// in descending priority, and returns the resulting pointing.Config alongside the raw
// device-discovery settings the pipeline itself doesn't own.
func Load(path string) (pointing.Config, FileSettings, error) {
	v := viper.New()
	v.SetEnvPrefix("pinnacled")
	v.AutomaticEnv()

	defaults := pointing.DefaultConfig()
	setDefaults(v, defaults)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pointing.Config{}, FileSettings{}, fmt.Errorf("cliconfig: read %s: %w", path, err)
		}
	}

	var fs FileSettings
	if err := v.Unmarshal(&fs); err != nil {
		return pointing.Config{}, FileSettings{}, fmt.Errorf("cliconfig: unmarshal: %w", err)
	}

	return fs.toPointingConfig(), fs, nil
}

func setDefaults(v *viper.Viper, d pointing.Config) {
	v.SetDefault("scale", d.Scale)
	v.SetDefault("scroll_ring_pct", d.ScrollRingPct)
	v.SetDefault("scroll_move_pct", d.ScrollMovePct)
	v.SetDefault("scroll_move_ratio", d.ScrollMoveRatio)
	v.SetDefault("scroll_wheel_clicks", d.ScrollWheelClicks)
	v.SetDefault("tapping_term_ms", int(d.TappingTerm.Milliseconds()))
	v.SetDefault("touch_debounce_ms", int(d.TouchDebounce.Milliseconds()))
	v.SetDefault("tap_code_delay_ms", int(d.TapCodeDelay.Milliseconds()))
	v.SetDefault("glide_coef", d.GlideCoef)
	v.SetDefault("glide_interval_ms", int(d.GlideInterval.Milliseconds()))
	v.SetDefault("rotation", int(d.Rotation))
	v.SetDefault("mirror_axis", d.MirrorAxis)
	v.SetDefault("motion_pin", d.MotionPin)
	v.SetDefault("enable_scroll", d.EnableScroll)
	v.SetDefault("enable_tap", d.EnableTap)
	v.SetDefault("enable_glide", d.EnableGlide)
	v.SetDefault("device_keyword", "GXTP")
	v.SetDefault("device_must_contain", "Touchpad")
}

func (fs FileSettings) toPointingConfig() pointing.Config {
	return pointing.Config{
		Scale: fs.Scale,

		ScrollRingPct:     fs.ScrollRingPct,
		ScrollMovePct:     fs.ScrollMovePct,
		ScrollMoveRatio:   fs.ScrollMoveRatio,
		ScrollWheelClicks: fs.ScrollWheelClicks,

		TappingTerm:   time.Duration(fs.TappingTermMS) * time.Millisecond,
		TouchDebounce: time.Duration(fs.TouchDebounceMS) * time.Millisecond,
		TapCodeDelay:  time.Duration(fs.TapCodeDelayMS) * time.Millisecond,

		GlideCoef:     fs.GlideCoef,
		GlideInterval: time.Duration(fs.GlideIntervalMS) * time.Millisecond,

		Rotation:   pointing.Rotation(fs.Rotation),
		MirrorAxis: fs.MirrorAxis,
		MotionPin:  fs.MotionPin,

		EnableScroll: fs.EnableScroll,
		EnableTap:    fs.EnableTap,
		EnableGlide:  fs.EnableGlide,
	}
}
