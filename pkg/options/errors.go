package options

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFetcher is returned when a remote load is requested without a
	// fetcher or base URL.
	ErrNoFetcher = errors.New("options: no fetcher configured")
	// ErrClosed is returned by Loader operations after Close.
	ErrClosed = errors.New("options: loader closed")
	// ErrStale marks a response discarded because a newer request superseded it.
	ErrStale = errors.New("options: stale response discarded")
)

// StatusError reports a non-success HTTP response from a listing endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("options: unexpected status %d from %s", e.StatusCode, e.URL)
}
