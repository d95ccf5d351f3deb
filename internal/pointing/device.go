package pointing

// Sensor is the capability interface consumed for raw touch samples.
// Implementations live outside this package; see internal/sensor for
// the evdev-backed Pinnacle stand-in used on this host.
type Sensor interface {
	// DataReady reports whether a new sample is available without
	// blocking.
	DataReady() bool
	// ReadData returns the next raw sample. A SensorTransientError
	// return aborts only this tick; all contexts are preserved.
	ReadData() (Sample, error)
	// Scale rescales s in place from the sensor's native range into
	// [0, xScale) x [0, yScale).
	Scale(s *Sample, xScale, yScale uint16)
	// GetScale returns the sensor's currently configured scale.
	GetScale() uint16
	// Init prepares the sensor for reads. A SensorPermanentError marks
	// the driver absent.
	Init() error
	// SetScale reconfigures the sensor's native reporting resolution.
	SetScale(scale uint16)
}

// HIDSink is the capability interface mouse reports are delivered
// through. Implementations live outside this package; see internal/hid
// for the uinput-backed virtual mouse used on this host.
type HIDSink interface {
	// SetReport stages the next report to send.
	SetReport(MouseReport)
	// Send flushes the staged report.
	Send() error
	// HandleButtons toggles the `which` bit of current and returns the
	// new mask.
	HandleButtons(current uint8, pressed bool, which ButtonID) uint8
}
