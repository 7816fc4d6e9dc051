package validation

import (
	"sort"
	"strings"
)

// Errors is the single error model used across the builder: messages keyed by
// field path. A nil or empty Errors means the input is valid.
type Errors map[string][]string

// Add appends a message under key. Blank keys and messages are ignored.
func (e Errors) Add(key, message string) {
	if e == nil {
		return
	}
	key = strings.TrimSpace(key)
	message = strings.TrimSpace(message)
	if key == "" || message == "" {
		return
	}
	for _, existing := range e[key] {
		if existing == message {
			return
		}
	}
	e[key] = append(e[key], message)
}

// Has reports whether key carries at least one message.
func (e Errors) Has(key string) bool {
	return len(e[key]) > 0
}

// First returns the first message for key, or "".
func (e Errors) First(key string) string {
	if msgs := e[key]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Clear removes every message for key.
func (e Errors) Clear(key string) {
	delete(e, key)
}

// Merge copies every message from other into e.
func (e Errors) Merge(other Errors) {
	for key, msgs := range other {
		for _, msg := range msgs {
			e.Add(key, msg)
		}
	}
}

// Empty reports whether no messages are present.
func (e Errors) Empty() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Keys returns the keys carrying messages, sorted.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for key, msgs := range e {
		if len(msgs) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for key, msgs := range e {
		out[key] = append([]string(nil), msgs...)
	}
	return out
}

// Error implements error with a deterministic "key: message" listing.
func (e Errors) Error() string {
	keys := e.Keys()
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(e[key], "; "))
	}
	return "validation: " + strings.Join(parts, ", ")
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}
