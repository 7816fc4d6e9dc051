package builder

import (
	"fmt"
)

// DeletionKind identifies what a Confirmation will delete.
type DeletionKind string

const (
	DeleteStepKind  DeletionKind = "step"
	DeleteFieldKind DeletionKind = "field"
)

// Confirmation is an open delete request waiting for the user to confirm.
type Confirmation struct {
	Token   string       `json:"token"`
	Kind    DeletionKind `json:"kind"`
	StepID  string       `json:"stepId"`
	FieldID string       `json:"fieldId,omitempty"`
	// Label is the display name of the target in the locale active when the
	// request was opened, for the confirm prompt.
	Label string `json:"label"`
}

// RequestDeleteStep opens a confirmation for deleting a step.
func (c *Composer) RequestDeleteStep(stepID string) (Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	confirmation := Confirmation{
		Token:  c.ids.NewID(),
		Kind:   DeleteStepKind,
		StepID: stepID,
		Label:  entry.snapshot().Label(c.locale),
	}
	c.pending[confirmation.Token] = confirmation
	return confirmation, nil
}

// RequestDeleteField opens a confirmation for deleting a field.
func (c *Composer) RequestDeleteField(stepID, fieldID string) (Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	field, ok := entry.fields[fieldID]
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	confirmation := Confirmation{
		Token:   c.ids.NewID(),
		Kind:    DeleteFieldKind,
		StepID:  stepID,
		FieldID: fieldID,
		Label:   field.Label(c.locale),
	}
	c.pending[confirmation.Token] = confirmation
	return confirmation, nil
}

// Confirm executes the pending deletion for token and reports whether
// anything was removed. Unknown tokens, and targets already removed by an
// earlier confirmation, are a no-op.
func (c *Composer) Confirm(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	confirmation, ok := c.pending[token]
	if !ok {
		return false
	}
	delete(c.pending, token)

	switch confirmation.Kind {
	case DeleteStepKind:
		return c.deleteStepLocked(confirmation.StepID)
	case DeleteFieldKind:
		return c.deleteFieldLocked(confirmation.StepID, confirmation.FieldID)
	default:
		return false
	}
}

// Cancel discards a pending confirmation.
func (c *Composer) Cancel(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, token)
}

// Pending returns the open confirmation for token.
func (c *Composer) Pending(token string) (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	confirmation, ok := c.pending[token]
	return confirmation, ok
}
