// Package pointing implements the per-tick pointing-device processing
// pipeline for a Cirque Pinnacle capacitive touchpad: sample acquisition,
// circular-scroll gesture recognition, tap-to-click detection and
// inertial cursor glide after lift-off.
//
// The package has no knowledge of the physical transport. Callers supply
// a Sensor to read raw samples and a HIDSink to receive mouse reports;
// see internal/sensor and internal/hid for the evdev/uinput adapters
// used on this host.
package pointing
