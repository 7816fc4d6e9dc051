package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when Render runs without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrNilContext is returned when Render is called with a nil context.
	ErrNilContext = errors.New("tui: context is required")
)
