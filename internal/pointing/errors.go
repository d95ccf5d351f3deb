package pointing

import "fmt"

// maxConsecutiveErrors is the saturating threshold at which the pipeline
// disables its sensor: 20 consecutive SensorTransientErrors.
const maxConsecutiveErrors = 20

// SensorTransientError wraps a single-sample bus failure. The tick that
// produced it is skipped and every context is preserved untouched.
type SensorTransientError struct {
	Err error
}

func (e *SensorTransientError) Error() string {
	return fmt.Sprintf("pointing: transient sensor read failure: %v", e.Err)
}

func (e *SensorTransientError) Unwrap() error { return e.Err }

// SensorPermanentError is reported through Sensor.Init. The pipeline
// marks the sensor absent and Process becomes a pass-through no-op.
type SensorPermanentError struct {
	Err error
}

func (e *SensorPermanentError) Error() string {
	return fmt.Sprintf("pointing: sensor init failed: %v", e.Err)
}

func (e *SensorPermanentError) Unwrap() error { return e.Err }
