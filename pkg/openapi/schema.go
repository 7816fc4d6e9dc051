package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// PhonePattern matches the E.164 numbers phone controls produce.
	PhonePattern = `^\+[0-9]{8,15}$`
	// DatePattern matches yyyy-MM-dd dates.
	DatePattern  = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

	extLabelAr   = "x-label-ar"
	extFieldType = "x-field-type"
)

// SchemaForStep returns the object schema for the values a respondent
// submits for step. Properties are keyed by field id; required fields are
// listed in display order.
func SchemaForStep(step model.Step) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = step.Label(locale.English)
	schema.Properties = make(openapi3.Schemas, len(step.Fields))

	var required []string
	for _, field := range step.Fields {
		if field.ID == "" {
			continue
		}
		schema.Properties[field.ID] = openapi3.NewSchemaRef("", SchemaForField(field))
		if field.Required {
			required = append(required, field.ID)
		}
	}
	schema.Required = required
	return schema
}

// SchemaForField returns the value schema for one field.
func SchemaForField(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	freeText := false
	switch field.Type {
	case model.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case model.FieldTypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date").WithPattern(DatePattern)
	case model.FieldTypePhone:
		schema = openapi3.NewStringSchema().WithPattern(PhonePattern)
	case model.FieldTypeSelect, model.FieldTypeChoice:
		values := make([]any, 0, len(field.Choices))
		for _, choice := range field.Choices {
			values = append(values, choice.ID)
		}
		schema = openapi3.NewStringSchema()
		if len(values) > 0 {
			schema = schema.WithEnum(values...)
		}
	default:
		schema = openapi3.NewStringSchema()
		freeText = true
	}
	if field.Required && freeText {
		schema = schema.WithMinLength(1)
	}

	schema.Title = field.NameEn
	schema.Extensions = map[string]any{
		extFieldType: string(field.Type),
	}
	if field.NameAr != "" {
		schema.Extensions[extLabelAr] = field.NameAr
	}
	return schema
}
