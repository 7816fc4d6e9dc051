package restclient

import (
	"context"
	"sync"
)

// Submitter serialises a submit action: while one Run is in flight further
// calls fail fast with ErrBusy instead of queueing a duplicate request.
type Submitter struct {
	mu   sync.Mutex
	busy bool
}

// Run calls fn unless another call is running. The guard is released when fn
// returns, including when it panics.
func (s *Submitter) Run(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()
	return fn(ctx)
}

// Busy reports whether a call is in flight.
func (s *Submitter) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
