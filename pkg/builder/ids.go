package builder

import (
	"github.com/google/uuid"
)

// IDGenerator mints identifiers for steps, fields, and choices.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// NewID implements IDGenerator.
func (f IDFunc) NewID() string { return f() }

// TimeOrderedIDs returns the default generator: UUIDv7 identifiers, which are
// time-based and sort in creation order.
func TimeOrderedIDs() IDGenerator {
	return IDFunc(func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	})
}
