package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ValidateOption configures ValidateSubmission.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	locale locale.Locale
}

// WithLocale selects the language of the returned messages.
func WithLocale(l locale.Locale) ValidateOption {
	return func(cfg *validateConfig) {
		if l.Valid() {
			cfg.locale = l
		}
	}
}

// ValidateSubmission checks values against the schema of step and returns
// messages keyed by field id. Keys that are not fields of step are ignored so
// callers can post hidden fields alongside. Numbers may arrive as strings, as
// they do from urlencoded forms.
func ValidateSubmission(step model.Step, values map[string]any, opts ...ValidateOption) validation.Errors {
	cfg := validateConfig{locale: locale.Default}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	errs := validation.Errors{}
	for _, field := range step.Fields {
		if field.ID == "" {
			continue
		}
		raw, present := values[field.ID]
		if !present || isBlank(raw) {
			if field.Required {
				errs.Add(field.ID, validation.Message(cfg.locale, validation.CodeRequired))
			}
			continue
		}

		value, err := coerce(field, raw)
		if err == nil {
			err = SchemaForField(field).VisitJSON(value)
		}
		if err != nil {
			errs.Add(field.ID, messageFor(cfg.locale, field, err))
		}
	}
	return errs
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

var errNotADate = errors.New("openapi: not a calendar date")

func coerce(field model.Field, raw any) (any, error) {
	switch field.Type {
	case model.FieldTypeNumber:
		switch v := raw.(type) {
		case string:
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		case json.Number:
			return v.Float64()
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float32:
			return float64(v), nil
		default:
			return raw, nil
		}
	case model.FieldTypeDate:
		text, ok := raw.(string)
		if !ok {
			return raw, nil
		}
		if _, err := time.Parse("2006-01-02", text); err != nil {
			return nil, fmt.Errorf("%w: %q", errNotADate, text)
		}
		return text, nil
	default:
		return raw, nil
	}
}

func messageFor(l locale.Locale, field model.Field, err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.SchemaField == "enum" {
		return validation.Message(l, validation.CodeInvalidEnum)
	}
	if field.Type.HasChoices() {
		return validation.Message(l, validation.CodeInvalidEnum)
	}
	return validation.Message(l, validation.CodeInvalid)
}
