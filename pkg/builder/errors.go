package builder

import "errors"

var (
	// ErrStepNotFound is returned when an operation targets an unknown step.
	ErrStepNotFound = errors.New("builder: step not found")
	// ErrFieldNotFound is returned when an edit targets an unknown field id
	// or an out-of-range index.
	ErrFieldNotFound = errors.New("builder: field not found")
	// ErrEditorClosed is returned when submitting a choice editor that is no
	// longer open.
	ErrEditorClosed = errors.New("builder: choice editor is closed")
)
