package pointing

import "math"

// Axis selects which wheel channel a scroll stroke reports ticks on.
type Axis uint8

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

type scrollState uint8

const (
	scrollUninit scrollState = iota
	scrollDetecting
	scrollValid
	scrollNotScroll
)

// ScrollDetector is the circular-scroll gesture recognizer: a
// three-state machine that, given a finger moving tangentially in the
// pad's outer annulus, emits wheel ticks and suppresses cursor motion
// for the rest of the stroke.
//
// Detecting -> {Valid, NotScroll} is terminal until the next lift; the
// state never goes backwards within a stroke.
type ScrollDetector struct {
	mag      float64
	x0, y0   int32
	touching bool
	state    scrollState
	axis     Axis
}

// ScrollResult is one tick's contribution from the scroll detector.
type ScrollResult struct {
	V, H          int8
	SuppressTouch bool
}

// Update advances the detector by one sample and returns the ticks to
// report and whether cursor motion should be suppressed this tick.
func (d *ScrollDetector) Update(cfg *Config, s Sample) ScrollResult {
	var res ScrollResult
	center := int32(cfg.Scale) / 2
	touching := s.Z > 0

	if touching {
		cx := int32(s.X) - center
		cy := int32(s.Y) - center

		switch {
		case !d.touching:
			// First touching tick of a new stroke: arm detection only
			// if the touchdown falls in the outer annulus.
			res.SuppressTouch = false
			mag := math.Hypot(float64(cx), float64(cy))
			ringFrac := float64(100-cfg.ScrollRingPct) / 100
			if center != 0 && mag/float64(center) >= ringFrac {
				d.state = scrollDetecting
				d.x0, d.y0 = cx, cy
				d.mag = mag
				d.axis = axisForRotation(cfg.Rotation, cfg.MirrorAxis, cx, cy)
			}

		case d.state == scrollDetecting:
			res.SuppressTouch = true
			moved := math.Hypot(float64(cx-d.x0), float64(cy-d.y0))
			threshold := float64(cfg.ScrollMovePct) / 100 * float64(center)
			if moved >= threshold {
				if d.isRadialSwipe(cfg, cx, cy) {
					// Movement away from touchdown is mostly radial:
					// this is a swipe from the edge, not a scroll.
					res.SuppressTouch = false
					d.state = scrollNotScroll
				} else {
					d.state = scrollValid
				}
			}
		}

		if d.state == scrollValid {
			res.SuppressTouch = true
			dot, det := d.projection(cx, cy)
			ang := math.Atan2(det, dot)
			ticks := int(math.Round(ang * float64(cfg.ScrollWheelClicks) / math.Pi))
			if ticks >= 1 || ticks <= -1 {
				if d.axis == AxisVertical {
					res.V = clamp8(int32(-ticks))
				} else {
					res.H = clamp8(int32(ticks))
				}
				d.x0, d.y0 = cx, cy
			}
		}
	}

	d.touching = touching
	if !d.touching {
		d.state = scrollUninit
	}
	return res
}

// projection returns the dot and determinant of the touchdown vector
// (x0,y0) and the current vector (x,y), both taken about the pad
// center.
func (d *ScrollDetector) projection(x, y int32) (dot, det float64) {
	dot = float64(d.x0)*float64(x) + float64(d.y0)*float64(y)
	det = float64(d.x0)*float64(y) - float64(d.y0)*float64(x)
	return dot, det
}

// isRadialSwipe applies the tangentiality test: movement dominated by
// the radial component (toward/away from center) rather than the
// tangential one means the user swiped in from the edge rather than
// drawing a circle.
func (d *ScrollDetector) isRadialSwipe(cfg *Config, x, y int32) bool {
	dot, det := d.projection(x, y)
	scalarProjection := dot / d.mag
	scalarRejection := det / d.mag
	parallel := math.Abs(d.mag - math.Abs(scalarProjection))
	perpendicular := math.Abs(scalarRejection)
	return parallel*cfg.ScrollMoveRatio > perpendicular
}

// axisForRotation picks the scroll axis from the touchdown half, per the
// rotation-dependent predicate carried over from
// original_source/quantum/pointing_device_drivers.c. Left/right-hand
// mirroring was left as a "reverse for left hand?" TODO in that source;
// it is surfaced here as the Config.MirrorAxis opt-in rather than
// guessed at.
func axisForRotation(rot Rotation, mirror bool, x0, y0 int32) Axis {
	var vertical bool
	switch rot {
	case Rotation90:
		vertical = y0 < 0
	case Rotation180:
		vertical = x0 > 0
	case Rotation270:
		vertical = y0 > 0
	default:
		vertical = x0 < 0
	}
	if mirror {
		vertical = !vertical
	}
	if vertical {
		return AxisVertical
	}
	return AxisHorizontal
}
