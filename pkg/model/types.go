package model

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// FieldType is the closed set of field kinds a builder user can pick.
type FieldType string

const (
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypePhone    FieldType = "phone"
	FieldTypeInput    FieldType = "input"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeChoice   FieldType = "choice"
)

// FieldTypes lists the supported types in display order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeNumber,
		FieldTypeDate,
		FieldTypePhone,
		FieldTypeInput,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeChoice,
	}
}

// ParseFieldType normalises raw input into a FieldType. The boolean is false
// for unknown values.
func ParseFieldType(raw string) (FieldType, bool) {
	t := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// Valid reports whether t belongs to the closed set.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeNumber, FieldTypeDate, FieldTypePhone, FieldTypeInput,
		FieldTypeTextarea, FieldTypeSelect, FieldTypeChoice:
		return true
	default:
		return false
	}
}

// HasChoices reports whether fields of this type carry a choice list.
func (t FieldType) HasChoices() bool {
	return t == FieldTypeSelect || t == FieldTypeChoice
}

// ControlType maps the builder field type onto the generic control
// discriminator.
func (t FieldType) ControlType() string {
	switch t {
	case FieldTypeNumber:
		return "number"
	case FieldTypeDate:
		return "date"
	case FieldTypePhone:
		return "tel"
	case FieldTypeTextarea:
		return "textarea"
	case FieldTypeSelect:
		return "select"
	case FieldTypeChoice:
		return "choice"
	default:
		return "text"
	}
}

// MinChoices is the minimum number of choices a select/choice field needs.
const MinChoices = 2

// Choice is one bilingual option attached to a select/choice field.
type Choice struct {
	ID     string `json:"id" yaml:"id"`
	NameEn string `json:"nameEn" yaml:"nameEn"`
	NameAr string `json:"nameAr" yaml:"nameAr"`
}

// Label returns the choice name for the active locale.
func (c Choice) Label(l locale.Locale) string {
	return locale.Name{En: c.NameEn, Ar: c.NameAr}.Display(l)
}

// Field describes one form field (not a value) inside a Step.
type Field struct {
	ID       string    `json:"id" yaml:"id"`
	NameEn   string    `json:"nameEn" yaml:"nameEn"`
	NameAr   string    `json:"nameAr" yaml:"nameAr"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
	Choices  []Choice  `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Label returns the field name for the active locale.
func (f Field) Label(l locale.Locale) string {
	return locale.Name{En: f.NameEn, Ar: f.NameAr}.Display(l)
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Choices != nil {
		out.Choices = append([]Choice(nil), f.Choices...)
	}
	return out
}

// Step is a named, ordered container of fields.
type Step struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	NameEn string `json:"nameEn" yaml:"nameEn"`
	NameAr string `json:"nameAr" yaml:"nameAr"`
	// Fields is in display order.
	Fields []Field `json:"fields" yaml:"fields"`
}

// Label returns the step name for the active locale, falling back to the
// legacy Name when neither bilingual half is set.
func (s Step) Label(l locale.Locale) string {
	if label := (locale.Name{En: s.NameEn, Ar: s.NameAr}).Display(l); label != "" {
		return label
	}
	return s.Name
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := s
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Application is the persisted shape of one composed multi-step form.
type Application struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	MenuID string `json:"menuId,omitempty" yaml:"menuId,omitempty"`
	NameEn string `json:"nameEn,omitempty" yaml:"nameEn,omitempty"`
	NameAr string `json:"nameAr,omitempty" yaml:"nameAr,omitempty"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// Clone returns a deep copy of the application.
func (a Application) Clone() Application {
	out := a
	if a.Steps != nil {
		out.Steps = make([]Step, len(a.Steps))
		for i, step := range a.Steps {
			out.Steps[i] = step.Clone()
		}
	}
	return out
}

// FindStep returns the step with the given id.
func (a Application) FindStep(id string) (Step, bool) {
	for _, step := range a.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return Step{}, false
}
