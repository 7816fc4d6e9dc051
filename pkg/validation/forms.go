package validation

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Keys used by the builder schemas. They match the JSON names of the model
// fields so errors can be mapped straight onto inputs.
const (
	KeyNameEn   = "nameEn"
	KeyNameAr   = "nameAr"
	KeyType     = "type"
	KeyRequired = "required"
	KeyChoices  = "choices"
)

// StepSchema validates the step rename modal.
func StepSchema() *Schema {
	return NewSchema().
		Field(KeyNameAr, Required()).
		Field(KeyNameEn, Required())
}

// ChoiceSchema validates the choice sub-editor.
func ChoiceSchema() *Schema {
	return NewSchema().
		Field(KeyNameAr, MinLength(2)).
		Field(KeyNameEn, MinLength(2))
}

// FieldSchema validates the field drawer, including the conditional minimum
// choice count for select/choice fields.
func FieldSchema() *Schema {
	return NewSchema().
		Field(KeyNameAr, MinLength(2)).
		Field(KeyNameEn, MinLength(2)).
		Field(KeyType, Required(), Valid(validFieldType, CodeInvalid)).
		When(hasChoices, KeyChoices, MinItems(model.MinChoices, CodeMinChoices))
}

// FieldValues flattens a field definition into the value map FieldSchema
// understands.
func FieldValues(f model.Field) map[string]any {
	return map[string]any{
		KeyNameEn:   f.NameEn,
		KeyNameAr:   f.NameAr,
		KeyType:     f.Type,
		KeyRequired: f.Required,
		KeyChoices:  f.Choices,
	}
}

// ChoiceValues flattens a choice into the value map ChoiceSchema understands.
func ChoiceValues(c model.Choice) map[string]any {
	return map[string]any{
		KeyNameEn: c.NameEn,
		KeyNameAr: c.NameAr,
	}
}

// NameValues builds the value map for StepSchema.
func NameValues(en, ar string) map[string]any {
	return map[string]any{
		KeyNameEn: en,
		KeyNameAr: ar,
	}
}

func validFieldType(value any) bool {
	switch v := value.(type) {
	case model.FieldType:
		return v.Valid()
	case string:
		_, ok := model.ParseFieldType(v)
		return ok
	default:
		return false
	}
}

func hasChoices(values map[string]any) bool {
	switch v := values[KeyType].(type) {
	case model.FieldType:
		return v.HasChoices()
	case string:
		t, _ := model.ParseFieldType(v)
		return t.HasChoices()
	default:
		return false
	}
}
