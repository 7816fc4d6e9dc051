// Package validation provides the single error model (Errors) and a small
// declarative rule set used to gate builder drawers and respondent
// submissions. Cross-field conditions are expressed inside the schema with
// When so every blocking condition surfaces through one Errors value.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// Violation describes why a rule rejected a value.
type Violation struct {
	Code string
	Args []any
}

// Rule inspects a value and returns a Violation when it fails.
type Rule func(value any) *Violation

// Condition decides whether conditional checks apply to the input.
type Condition func(values map[string]any) bool

type check struct {
	key   string
	rules []Rule
	when  Condition
}

// Schema is an ordered list of keyed checks. Only the first failing rule per
// key is reported.
type Schema struct {
	checks []check
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{}
}

// Field registers unconditional rules for key.
func (s *Schema) Field(key string, rules ...Rule) *Schema {
	s.checks = append(s.checks, check{key: key, rules: rules})
	return s
}

// When registers rules for key that only run when cond holds.
func (s *Schema) When(cond Condition, key string, rules ...Rule) *Schema {
	s.checks = append(s.checks, check{key: key, rules: rules, when: cond})
	return s
}

// Validate evaluates every check and returns the combined Errors. The result
// is never nil so callers can add ad hoc messages to it.
func (s *Schema) Validate(values map[string]any, l locale.Locale) Errors {
	errs := Errors{}
	if s == nil {
		return errs
	}
	for _, c := range s.checks {
		if c.when != nil && !c.when(values) {
			continue
		}
		if errs.Has(c.key) {
			continue
		}
		value := values[c.key]
		for _, rule := range c.rules {
			if rule == nil {
				continue
			}
			if v := rule(value); v != nil {
				errs.Add(c.key, Message(l, v.Code, v.Args...))
				break
			}
		}
	}
	return errs
}

// Required rejects nil values, blank strings, and empty collections. Boolean
// false counts as present.
func Required() Rule {
	return func(value any) *Violation {
		if isBlank(value) {
			return &Violation{Code: CodeRequired}
		}
		return nil
	}
}

// MinLength rejects strings shorter than n runes after trimming. Blank values
// are reported as required.
func MinLength(n int) Rule {
	return func(value any) *Violation {
		str := strings.TrimSpace(fmt.Sprint(valueOrEmpty(value)))
		if str == "" {
			return &Violation{Code: CodeRequired}
		}
		if utf8.RuneCountInString(str) < n {
			return &Violation{Code: CodeMinLength, Args: []any{n}}
		}
		return nil
	}
}

// MinItems rejects slices with fewer than n elements, reported with code.
func MinItems(n int, code string) Rule {
	if code == "" {
		code = CodeMinItems
	}
	return func(value any) *Violation {
		if lengthOf(value) < n {
			return &Violation{Code: code, Args: []any{n}}
		}
		return nil
	}
}

// Valid rejects values for which ok returns false.
func Valid(ok func(value any) bool, code string) Rule {
	if code == "" {
		code = CodeInvalid
	}
	return func(value any) *Violation {
		if ok == nil || ok(value) {
			return nil
		}
		return &Violation{Code: code}
	}
}

func valueOrEmpty(value any) any {
	if value == nil {
		return ""
	}
	return value
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return false
	case fmt.Stringer:
		return strings.TrimSpace(v.String()) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func lengthOf(value any) int {
	if value == nil {
		return 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len()
	}
	return 0
}
