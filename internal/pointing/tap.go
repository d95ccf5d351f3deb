package pointing

// TapDetector emits a synthetic primary-button press-and-release when a
// finger lifts within TappingTerm of touchdown. A timer value of 0 is
// the idle/expired sentinel.
type TapDetector struct {
	timer    uint16
	touching bool
}

// Update observes the transition of z_bool = (z > 0) for this tick and
// reports whether a tap (press+release pair) should be emitted. The
// caller is responsible for flushing the two reports and honoring
// Config.TapCodeDelay between them, since only this emission is allowed
// to suspend the caller.
func (t *TapDetector) Update(cfg *Config, now uint16, s Sample) (emitTap bool) {
	touching := s.Z > 0
	if touching != t.touching {
		t.touching = touching
		if !touching && t.timer != 0 {
			if elapsedMS(t.timer, now) < uint16(cfg.TappingTerm.Milliseconds()) {
				emitTap = true
			}
		}
		t.timer = now
	}

	if elapsedMS(t.timer, now) > uint16(cfg.TouchDebounce.Milliseconds()) {
		t.timer = 0
	}

	return emitTap
}
