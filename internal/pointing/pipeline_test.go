package pointing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep is one scripted ReadData outcome: either a sample or an
// error, never both.
type fakeStep struct {
	sample Sample
	err    error
}

// fakeSensor is a scripted Sensor: each Process tick consumes the next
// queued step.
type fakeSensor struct {
	steps      []fakeStep
	idx        int
	initErr    error
	scale      uint16
	dataReady  bool
	scaleCalls int
}

func (f *fakeSensor) DataReady() bool { return f.dataReady }

func (f *fakeSensor) ReadData() (Sample, error) {
	if f.idx >= len(f.steps) {
		return Sample{}, errors.New("fakeSensor: no more samples")
	}
	step := f.steps[f.idx]
	f.idx++
	return step.sample, step.err
}

// setSamples is a convenience setter for an all-success script.
func (f *fakeSensor) setSamples(samples ...Sample) {
	f.steps = nil
	for _, s := range samples {
		f.steps = append(f.steps, fakeStep{sample: s})
	}
}

func (f *fakeSensor) Scale(s *Sample, xScale, yScale uint16) { f.scaleCalls++ }
func (f *fakeSensor) GetScale() uint16                       { return f.scale }
func (f *fakeSensor) Init() error                            { return f.initErr }
func (f *fakeSensor) SetScale(scale uint16)                  { f.scale = scale }

// fakeSink records every report handed to it.
type fakeSink struct {
	reports []MouseReport
	sent    int
}

func (f *fakeSink) SetReport(r MouseReport) { f.reports = append(f.reports, r) }
func (f *fakeSink) Send() error             { f.sent++; return nil }
func (f *fakeSink) HandleButtons(current uint8, pressed bool, which ButtonID) uint8 {
	return handleButtons(current, pressed, which)
}

// fakeClock lets tests drive the wrapping millisecond epoch directly.
type fakeClock struct{ ms uint16 }

func (c *fakeClock) NowMS() uint16 { return c.ms }

func newTestPipeline() (*Pipeline, *fakeSensor, *fakeSink, *fakeClock) {
	sensor := &fakeSensor{dataReady: true}
	sink := &fakeSink{}
	clock := &fakeClock{ms: 1}
	p := NewPipeline(sensor, sink, testConfig())
	p.Clock = clock
	p.Sleep = func(time.Duration) {}
	return p, sensor, sink, clock
}

func TestPipeline_InitFailureDisablesPermanently(t *testing.T) {
	assert := assert.New(t)
	p, sensor, _, _ := newTestPipeline()
	sensor.initErr = errors.New("no device")

	err := p.Init()
	require.Error(t, err)
	var permErr *SensorPermanentError
	assert.ErrorAs(err, &permErr)
	assert.True(p.Disabled())

	report, err := p.Process()
	assert.NoError(err)
	assert.Equal(MouseReport{}, report)
}

// Scenario F: repeated bus errors disable the sensor after
// maxConsecutiveErrors consecutive failures, and Reinit clears it.
func TestPipeline_TransientErrorsDisableAfterThreshold(t *testing.T) {
	assert := assert.New(t)
	p, sensor, _, _ := newTestPipeline()
	require.NoError(t, p.Init())

	sensor.steps = make([]fakeStep, maxConsecutiveErrors)
	for i := range sensor.steps {
		sensor.steps[i] = fakeStep{err: errors.New("bus hiccup")}
	}

	var lastErr error
	for i := 0; i < maxConsecutiveErrors; i++ {
		_, lastErr = p.Process()
		assert.Error(lastErr)
		var transientErr *SensorTransientError
		assert.ErrorAs(lastErr, &transientErr)
	}
	assert.True(p.Disabled())

	// Further ticks are a silent pass-through, not another error.
	report, err := p.Process()
	assert.NoError(err)
	assert.Equal(MouseReport{}, report)

	require.NoError(t, p.Reinit())
	assert.False(p.Disabled())
}

func TestPipeline_TransientErrorResetsOnSuccess(t *testing.T) {
	assert := assert.New(t)
	p, sensor, _, _ := newTestPipeline()
	require.NoError(t, p.Init())

	sensor.steps = []fakeStep{
		{err: errors.New("hiccup")},
		{sample: Sample{X: 512, Y: 512, Z: 40, TouchDown: true}},
	}

	_, err := p.Process()
	assert.Error(err)
	assert.Equal(1, p.errorCount)

	_, err = p.Process()
	assert.NoError(err)
	assert.Equal(0, p.errorCount)
}

// A bare relative move (no scroll, no glide, no tap) reports the raw
// clamped delta and leaves V/H/Buttons at zero.
func TestPipeline_PlainRelativeMove(t *testing.T) {
	assert := assert.New(t)
	p, sensor, _, clock := newTestPipeline()
	require.NoError(t, p.Init())

	sensor.setSamples(
		Sample{X: 500, Y: 500, Z: 40, TouchDown: true},
		Sample{X: 510, Y: 495, Z: 40, TouchDown: true},
	)

	_, err := p.Process() // first sample: skip-first-jump rule, dx=dy=0
	require.NoError(t, err)

	clock.ms++
	report, err := p.Process()
	require.NoError(t, err)
	assert.Equal(int8(10), report.Dx)
	assert.Equal(int8(-5), report.Dy)
	assert.Equal(int8(0), report.V)
	assert.Equal(int8(0), report.H)
}

// Scenario A end to end through the pipeline: a quick tap flushes a
// press-then-release pair of reports to the sink synchronously.
func TestPipeline_QuickTapFlushesPressAndRelease(t *testing.T) {
	assert := assert.New(t)
	p, sensor, sink, clock := newTestPipeline()
	require.NoError(t, p.Init())

	sensor.setSamples(
		Sample{X: 500, Y: 500, Z: 40, TouchDown: true},
		Sample{X: 500, Y: 500, Z: 0, TouchDown: false},
	)

	_, err := p.Process()
	require.NoError(t, err)

	clock.ms++
	before := len(sink.reports)
	_, err = p.Process()
	require.NoError(t, err)

	flushed := sink.reports[before:]
	require.Len(t, flushed, 2)
	assert.Equal(uint8(1), flushed[0].Buttons, "press sets bit 0")
	assert.Equal(uint8(0), flushed[1].Buttons, "release clears bit 0")
}

// A touchdown held well past TappingTerm does not flush a tap on lift.
func TestPipeline_LongPressDoesNotTap(t *testing.T) {
	assert := assert.New(t)
	p, sensor, sink, clock := newTestPipeline()
	require.NoError(t, p.Init())

	sensor.setSamples(
		Sample{X: 500, Y: 500, Z: 40, TouchDown: true},
		Sample{X: 500, Y: 500, Z: 0, TouchDown: false},
	)

	_, err := p.Process()
	require.NoError(t, err)

	clock.ms += uint16(p.Config.TappingTerm.Milliseconds()) + 50
	before := len(sink.reports)
	_, err = p.Process()
	require.NoError(t, err)
	assert.Len(sink.reports[before:], 0)
}

// Disabling EnableGlide means lift-off never produces inertial motion,
// even with a fast stroke right before lift.
func TestPipeline_GlideDisabledProducesNoInertia(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.EnableGlide = false
	sensor := &fakeSensor{dataReady: true}
	sink := &fakeSink{}
	clock := &fakeClock{ms: 1}
	p := NewPipeline(sensor, sink, cfg)
	p.Clock = clock
	require.NoError(t, p.Init())

	sensor.setSamples(
		Sample{X: 500, Y: 500, Z: 40, TouchDown: true},
		Sample{X: 540, Y: 540, Z: 40, TouchDown: true},
		Sample{X: 500, Y: 500, Z: 0, TouchDown: false},
	)
	var liftReport MouseReport
	for range sensor.steps {
		clock.ms++
		var err error
		liftReport, err = p.Process()
		require.NoError(t, err)
	}

	// No further samples are queued; with glide disabled there is
	// nothing left to drive additional motion from.
	sensor.dataReady = false
	clock.ms += uint16(cfg.GlideInterval.Milliseconds())
	report, err := p.Process()
	require.NoError(t, err)
	assert.Equal(liftReport, report, "disabling glide must not introduce inertial motion after lift-off")
}

// Property 2: while the circular-scroll detector is in its Valid state,
// the pipeline must never also report cursor motion.
func TestPipeline_ScrollValidSuppressesCursorMotion(t *testing.T) {
	assert := assert.New(t)
	cfg := testConfig()
	cfg.EnableGlide = false
	cfg.EnableTap = false
	sensorFake := &fakeSensor{dataReady: true}
	sink := &fakeSink{}
	clock := &fakeClock{ms: 1}
	p := NewPipeline(sensorFake, sink, cfg)
	p.Clock = clock
	require.NoError(t, p.Init())

	center := float64(cfg.Scale) / 2
	radius := 488.0
	const steps = 9
	var samples []Sample
	for i := 0; i <= steps; i++ {
		theta := math.Pi * float64(i) / steps
		samples = append(samples, Sample{
			X:         uint16(radius*math.Cos(theta) + center),
			Y:         uint16(radius*math.Sin(theta) + center),
			Z:         50,
			TouchDown: true,
		})
	}
	sensorFake.setSamples(samples...)

	var sawTick bool
	for range samples {
		clock.ms++
		report, err := p.Process()
		require.NoError(t, err)
		if report.V != 0 || report.H != 0 {
			sawTick = true
			assert.Equal(int8(0), report.Dx, "scroll ticks must not carry cursor motion")
			assert.Equal(int8(0), report.Dy, "scroll ticks must not carry cursor motion")
		}
	}
	assert.True(sawTick, "this stroke is expected to cross at least one scroll tick threshold")
}
