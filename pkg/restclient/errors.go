package restclient

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

var (
	// ErrBaseURL is returned by New when the base URL is empty or not absolute.
	ErrBaseURL = errors.New("restclient: base URL must be absolute")
	// ErrBusy is returned by Submitter.Run while another call is in flight.
	ErrBusy = errors.New("restclient: submission already in progress")
	// ErrMissingID is returned when an update or delete has no resource id.
	ErrMissingID = errors.New("restclient: resource id is required")
)

// StatusError reports a non-success response. Errors holds field messages
// when the body carried an "errors" object, ready for form error mapping.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Errors     validation.Errors
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("restclient: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("restclient: %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// FieldErrors returns the validation messages carried by err, if any.
func FieldErrors(err error) (validation.Errors, bool) {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Errors.Empty() {
		return nil, false
	}
	return statusErr.Errors.Clone(), true
}
