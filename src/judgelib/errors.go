package judgelib

import "fmt"

// SandboxError ... the container runtime failed. fatal for the run
type SandboxError struct {
	Err error
}

func (e *SandboxError) Error() string {
	return "sandbox failure: " + e.Err.Error()
}

func (e *SandboxError) Unwrap() error {
	return e.Err
}

// MeasurementError ... a test exited 0 but left no usable time/memory record
type MeasurementError struct {
	Test string
	Err  error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measurement of %s failed: %v", e.Test, e.Err)
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}
