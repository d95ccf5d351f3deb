// Package hid adapts a /dev/uinput virtual mouse, created through
// bendahl/uinput, to the pointing.HIDSink capability interface.
package hid

import (
	"fmt"

	"github.com/bendahl/uinput"

	"github.com/tapglide/pinnacle/internal/pointing"
)

// UinputSink delivers MouseReports to a synthesized /dev/uinput mouse
// device. Button3 (middle click) is accepted by HandleButtons for mask
// bookkeeping but is not forwarded to the device: bendahl/uinput's Mouse
// interface exposes only left and right press/release.
type UinputSink struct {
	mouse       uinput.Mouse
	pending     pointing.MouseReport
	prevButtons uint8
}

// NewMouse creates and registers a virtual mouse device named name.
func NewMouse(name string) (*UinputSink, error) {
	mouse, err := uinput.CreateMouse("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("hid: create virtual mouse: %w", err)
	}
	return &UinputSink{mouse: mouse}, nil
}

// Close tears down the virtual device.
func (s *UinputSink) Close() error {
	return s.mouse.Close()
}

// SetReport stages the next report to send.
func (s *UinputSink) SetReport(r pointing.MouseReport) { s.pending = r }

// Send flushes the staged report as a sequence of uinput calls: relative
// motion, then wheel ticks, then button transitions.
func (s *UinputSink) Send() error {
	r := s.pending

	if err := s.moveAxis(r.Dx, s.mouse.MoveRight, s.mouse.MoveLeft); err != nil {
		return err
	}
	if err := s.moveAxis(r.Dy, s.mouse.MoveDown, s.mouse.MoveUp); err != nil {
		return err
	}
	if r.V != 0 {
		if err := s.mouse.Wheel(false, int32(r.V)); err != nil {
			return fmt.Errorf("hid: wheel: %w", err)
		}
	}
	if r.H != 0 {
		if err := s.mouse.Wheel(true, int32(r.H)); err != nil {
			return fmt.Errorf("hid: hwheel: %w", err)
		}
	}

	if err := s.sendButtonTransition(r.Buttons, pointing.Button1, s.mouse.LeftPress, s.mouse.LeftRelease); err != nil {
		return err
	}
	if err := s.sendButtonTransition(r.Buttons, pointing.Button2, s.mouse.RightPress, s.mouse.RightRelease); err != nil {
		return err
	}

	s.prevButtons = r.Buttons
	return nil
}

func (s *UinputSink) moveAxis(delta int8, positive, negative func(int32) error) error {
	switch {
	case delta > 0:
		if err := positive(int32(delta)); err != nil {
			return fmt.Errorf("hid: move: %w", err)
		}
	case delta < 0:
		if err := negative(int32(-delta)); err != nil {
			return fmt.Errorf("hid: move: %w", err)
		}
	}
	return nil
}

func (s *UinputSink) sendButtonTransition(buttons uint8, which pointing.ButtonID, press, release func() error) error {
	bit := uint8(1) << uint8(which)
	wasDown := s.prevButtons&bit != 0
	isDown := buttons&bit != 0
	if wasDown == isDown {
		return nil
	}
	if isDown {
		if err := press(); err != nil {
			return fmt.Errorf("hid: press: %w", err)
		}
		return nil
	}
	if err := release(); err != nil {
		return fmt.Errorf("hid: release: %w", err)
	}
	return nil
}

// HandleButtons toggles the `which` bit of current and returns the new
// mask, mirroring pointing's own button bookkeeping so HID adapters
// never need to import its unexported helper.
func (s *UinputSink) HandleButtons(current uint8, pressed bool, which pointing.ButtonID) uint8 {
	bit := uint8(1) << uint8(which)
	if pressed {
		return current | bit
	}
	return current &^ bit
}
