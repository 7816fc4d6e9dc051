package tui

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/control"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// State tracks collected values and upstream errors keyed by field id.
type State struct {
	values map[string]any
	errors validation.Errors
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs validation.Errors) *State {
	values := make(map[string]any, len(prefill))
	for key, value := range prefill {
		values[key] = value
	}
	return &State{
		values: values,
		errors: errs.Clone(),
	}
}

// Values returns the collected values (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// ErrorFor returns the first upstream error for id.
func (s *State) ErrorFor(id string) string {
	if s == nil {
		return ""
	}
	return s.errors.First(id)
}

// Text returns the value stored for id as a string.
func (s *State) Text(id string) string {
	if s == nil {
		return ""
	}
	value, ok := s.values[id]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// Apply records a control change. A reset removes the value and any stale
// error for the field.
func (s *State) Apply(change control.Change) {
	if s == nil {
		return
	}
	if change.Reset {
		delete(s.values, change.Name)
		return
	}
	s.values[change.Name] = change.Value
	s.errors.Clear(change.Name)
}
