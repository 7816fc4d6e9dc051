package render

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrorMapping splits an error payload into messages for known fields and
// form-level messages.
type ErrorMapping struct {
	Fields validation.Errors
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors resolves payload keys onto the step's field ids. Keys may be
// plain ids, dotted paths, or JSON pointers such as "/body/phone"; the
// deepest segment naming a field wins. Anything else becomes a form-level
// message so nothing is lost.
func MapErrors(step model.Step, payload validation.Errors) ErrorMapping {
	mapping := ErrorMapping{Fields: validation.Errors{}}
	if len(payload) == 0 {
		return mapping
	}

	ids := make(map[string]struct{}, len(step.Fields))
	for _, field := range step.Fields {
		if id := strings.TrimSpace(field.ID); id != "" {
			ids[id] = struct{}{}
		}
	}

	for _, key := range payload.Keys() {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		id, ok := mapErrorPath(key, ids)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		for _, message := range messages {
			mapping.Fields.Add(id, message)
		}
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, ids map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := ids[trimmed]; ok {
		return trimmed, true
	}

	segments := parsePathSegments(trimmed)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := ids[segments[i]]; ok {
			return segments[i], true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
