// Package sensor adapts a Linux multitouch input device, read through
// golang-evdev, to the pointing.Sensor capability interface. It stands in
// for the Cirque Pinnacle trackpad controller the core pipeline was
// originally written against: slot 0 of the device's multitouch protocol
// supplies the single touch point the pipeline cares about.
package sensor

import (
	"context"
	"fmt"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/tapglide/pinnacle/internal/pointing"
)

// Discover returns the device node of the first evdev device whose name
// contains keyword, preferring one that also contains mustContain.
// Adapted from the teacher's findDevice.
func Discover(keyword, mustContain string) (string, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return "", fmt.Errorf("sensor: list input devices: %w", err)
	}

	var fallback string
	for _, dev := range devices {
		name := strings.ToLower(dev.Name)
		if !strings.Contains(name, strings.ToLower(keyword)) {
			continue
		}
		if strings.Contains(name, strings.ToLower(mustContain)) {
			return dev.Fn, nil
		}
		if fallback == "" {
			fallback = dev.Fn
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("sensor: no input device matching %q found", keyword)
}

// defaultNativeRange is the touch-report resolution Scale assumes for
// every device; the ABS_MT_POSITION_X/Y limits a device advertises are
// not read. Most touchpad controllers, including the Cirque Pinnacle,
// report in a range close to this.
const defaultNativeRange = 2048

// EvdevSource reads slot-0 of a grabbed multitouch device on a background
// goroutine and buffers completed samples (one per SYN_REPORT) for the
// pipeline to pull on its own schedule, so a slow consumer never blocks
// the kernel's input queue.
type EvdevSource struct {
	dev    *evdev.InputDevice
	path   string
	nativeX, nativeY uint16
	scale  uint16

	samples chan pointing.Sample
	errs    chan error
	cancel  context.CancelFunc
}

// Open opens the evdev device at path. The device is neither grabbed nor
// read from until Init starts the background collector.
func Open(path string) (*EvdevSource, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sensor: open %s: %w", path, err)
	}
	return &EvdevSource{
		dev:     dev,
		path:    path,
		nativeX: defaultNativeRange,
		nativeY: defaultNativeRange,
		samples: make(chan pointing.Sample, 64),
		errs:    make(chan error, 4),
	}, nil
}

// Init grabs exclusive access to the device and starts the collector
// goroutine. It implements pointing.Sensor.Init; a failure here is
// reported to the pipeline as a SensorPermanentError.
func (s *EvdevSource) Init() error {
	if err := s.dev.Grab(); err != nil {
		return fmt.Errorf("sensor: grab %s: %w", s.path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.collect(ctx)
	return nil
}

// Close releases the device and stops the collector.
func (s *EvdevSource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.dev.Release()
}

// SetScale records the scale the pipeline wants Scale() to project onto.
func (s *EvdevSource) SetScale(scale uint16) { s.scale = scale }

// GetScale returns the currently configured scale.
func (s *EvdevSource) GetScale() uint16 { return s.scale }

// Scale rescales s in place from the device's native absolute range into
// [0, xScale) x [0, yScale).
func (s *EvdevSource) Scale(sample *pointing.Sample, xScale, yScale uint16) {
	if s.nativeX != 0 {
		sample.X = uint16(uint32(sample.X) * uint32(xScale) / uint32(s.nativeX))
	}
	if s.nativeY != 0 {
		sample.Y = uint16(uint32(sample.Y) * uint32(yScale) / uint32(s.nativeY))
	}
}

// DataReady reports whether a completed sample or a read error is
// waiting in the buffer.
func (s *EvdevSource) DataReady() bool {
	return len(s.samples) > 0 || len(s.errs) > 0
}

// ReadData pops the oldest buffered sample. It never blocks: callers are
// expected to have checked DataReady first, per the pointing.Sensor
// contract.
func (s *EvdevSource) ReadData() (pointing.Sample, error) {
	select {
	case err := <-s.errs:
		return pointing.Sample{}, err
	case sample := <-s.samples:
		return sample, nil
	default:
		return pointing.Sample{}, nil
	}
}

// mtState tracks the fields of multitouch slot 0 as they trickle in
// across EV_ABS events, matching the teacher's per-slot tracking.
type mtState struct {
	x, y     int32
	pressure int32
	touching bool
}

func (s *EvdevSource) collect(ctx context.Context) {
	activeSlot := 0
	slot0 := mtState{}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		events, err := s.dev.Read()
		if err != nil {
			select {
			case s.errs <- fmt.Errorf("sensor: read %s: %w", s.path, err):
			default:
			}
			return
		}

		for _, ev := range events {
			switch ev.Type {
			case evdev.EV_ABS:
				if ev.Code == evdev.ABS_MT_SLOT {
					activeSlot = int(ev.Value)
				}
				if activeSlot != 0 {
					continue
				}
				switch ev.Code {
				case evdev.ABS_MT_POSITION_X:
					slot0.x = ev.Value
				case evdev.ABS_MT_POSITION_Y:
					slot0.y = ev.Value
				case evdev.ABS_MT_PRESSURE:
					slot0.pressure = ev.Value
				case evdev.ABS_MT_TRACKING_ID:
					slot0.touching = ev.Value != -1
				}

			case evdev.EV_KEY:
				if ev.Code == evdev.BTN_TOUCH {
					slot0.touching = ev.Value == 1
				}

			case evdev.EV_SYN:
				if ev.Code != evdev.SYN_REPORT {
					continue
				}
				sample := pointing.Sample{
					X:         uint16(slot0.x),
					Y:         uint16(slot0.y),
					Z:         clampPressure(slot0.pressure),
					TouchDown: slot0.touching,
				}
				select {
				case s.samples <- sample:
				default:
					// Buffer is full: drop the oldest sample to make
					// room rather than block the kernel's read queue.
					select {
					case <-s.samples:
					default:
					}
					s.samples <- sample
				}
			}
		}
	}
}

func clampPressure(p int32) uint8 {
	if p < 0 {
		return 0
	}
	if p > 255 {
		return 255
	}
	return uint8(p)
}
