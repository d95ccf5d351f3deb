package pointing

import "time"

// Pipeline wires one Sensor and one HIDSink through the four
// sub-components in their fixed order: acquisition, circular-scroll
// detection, relative-motion diff, cursor glide, tap detection.
//
// A Pipeline owns all of its subsystem state outright; it is not safe
// for concurrent use and is meant to be driven by a single caller.
type Pipeline struct {
	Sensor Sensor
	Sink   HIDSink
	Config Config

	// Clock supplies the wrapping millisecond epoch; defaults to a
	// monotonic wall-clock source. Sleep defaults to time.Sleep;
	// override either in tests to avoid real waits and to drive the
	// wrap-safe timer arithmetic deterministically.
	Clock Clock
	Sleep func(time.Duration)

	scroll ScrollDetector
	tap    TapDetector
	glide  GlideEngine

	lastX, lastY uint16
	buttons      uint8
	lastReport   MouseReport

	errorCount int
	disabled   bool
}

// NewPipeline constructs a Pipeline over the given sensor and sink.
func NewPipeline(sensor Sensor, sink HIDSink, cfg Config) *Pipeline {
	return &Pipeline{
		Sensor: sensor,
		Sink:   sink,
		Config: cfg,
		Clock:  realClock{start: time.Now()},
		Sleep:  time.Sleep,
	}
}

// Init prepares the sensor. A failure permanently disables the
// pipeline: Process becomes a pass-through no-op until Reinit succeeds.
func (p *Pipeline) Init() error {
	if err := p.Sensor.Init(); err != nil {
		p.disabled = true
		return &SensorPermanentError{Err: err}
	}
	p.Sensor.SetScale(p.Config.Scale)
	return nil
}

// Reinit clears the disabled/error-saturated state and retries Init.
func (p *Pipeline) Reinit() error {
	p.errorCount = 0
	p.disabled = false
	return p.Init()
}

// Disabled reports whether the sensor has been marked absent after a
// permanent init failure or after reaching the consecutive transient
// error threshold.
func (p *Pipeline) Disabled() bool { return p.disabled }

// Process runs one tick of the pipeline and returns the assembled
// report. Callers are expected to forward it to the sink themselves
// (p.Sink.SetReport(report); p.Sink.Send()); TapDetector emissions are
// flushed to the sink directly inside Process since they must reach the
// host as a distinct press-then-release pair, synchronously, rather
// than waiting for the next tick's report.
func (p *Pipeline) Process() (MouseReport, error) {
	if p.disabled {
		return MouseReport{}, nil
	}

	now := p.Clock.NowMS()

	var glideResult GlideResult
	if p.Config.EnableGlide {
		glideResult = p.glide.Check(&p.Config, now)
	}

	dataReady := p.Config.MotionPin || p.Sensor.DataReady()
	if !dataReady {
		if !glideResult.Valid {
			return p.lastReport, nil
		}
		report := MouseReport{Dx: glideResult.Dx, Dy: glideResult.Dy}
		p.lastReport = report
		return report, nil
	}

	sample, err := p.Sensor.ReadData()
	if err != nil {
		p.errorCount++
		if p.errorCount >= maxConsecutiveErrors {
			p.disabled = true
		}
		return MouseReport{}, &SensorTransientError{Err: err}
	}
	p.errorCount = 0
	p.Sensor.Scale(&sample, p.Config.Scale, p.Config.Scale)

	var scrollRes ScrollResult
	if p.Config.EnableScroll {
		scrollRes = p.scroll.Update(&p.Config, sample)
	}

	var reportX, reportY int8
	if !scrollRes.SuppressTouch {
		if p.lastX != 0 && p.lastY != 0 && sample.X != 0 && sample.Y != 0 {
			reportX = clamp8(int32(sample.X) - int32(p.lastX))
			reportY = clamp8(int32(sample.Y) - int32(p.lastY))
		}
		p.lastX, p.lastY = sample.X, sample.Y
	}

	if p.Config.EnableGlide {
		if sample.Z > 0 {
			p.glide.Update(reportX, reportY, true)
		} else if !glideResult.Valid {
			glideResult = p.glide.Start(&p.Config, now)
		}
	}

	if glideResult.Valid {
		reportX, reportY = glideResult.Dx, glideResult.Dy
	}

	if p.Config.EnableTap {
		if p.tap.Update(&p.Config, now, sample) {
			p.flushTap()
		}
	}

	report := MouseReport{
		Dx:      clamp8(int32(reportX)),
		Dy:      clamp8(int32(reportY)),
		V:       scrollRes.V,
		H:       scrollRes.H,
		Buttons: p.buttons,
	}
	p.lastReport = report
	return report, nil
}

// flushTap emits the synthetic button-1 press and release as two
// distinct, synchronously-sent reports, with Config.TapCodeDelay
// between them when non-zero.
func (p *Pipeline) flushTap() {
	p.buttons = p.Sink.HandleButtons(p.buttons, true, Button1)
	p.Sink.SetReport(MouseReport{Buttons: p.buttons})
	p.Sink.Send()

	if p.Config.TapCodeDelay > 0 {
		p.Sleep(p.Config.TapCodeDelay)
	}

	p.buttons = p.Sink.HandleButtons(p.buttons, false, Button1)
	p.Sink.SetReport(MouseReport{Buttons: p.buttons})
	p.Sink.Send()
}

// realClock derives the wrapping 16-bit millisecond epoch from a fixed
// start time, matching a firmware's free-running millisecond timer.
type realClock struct {
	start time.Time
}

func (c realClock) NowMS() uint16 {
	return uint16(time.Since(c.start).Milliseconds())
}
