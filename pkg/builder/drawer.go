package builder

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// FieldDrawer holds the draft of one field while it is being added or
// edited. Schema errors and the minimum choice count share one Errors value.
type FieldDrawer struct {
	locale locale.Locale
	ids    IDGenerator

	draft    model.Field
	errs     validation.Errors
	editing  bool
	onSubmit func(model.Field) error

	choices *ChoiceEditor
}

// DrawerOption configures a standalone FieldDrawer.
type DrawerOption func(*FieldDrawer)

// WithDrawerLocale sets the locale used for error messages.
func WithDrawerLocale(l locale.Locale) DrawerOption {
	return func(d *FieldDrawer) {
		if l.Valid() {
			d.locale = l
		}
	}
}

// WithDrawerIDs overrides the choice id generator.
func WithDrawerIDs(ids IDGenerator) DrawerOption {
	return func(d *FieldDrawer) {
		if ids != nil {
			d.ids = ids
		}
	}
}

// WithInitial pre-fills the drawer from an existing field (edit mode).
func WithInitial(f model.Field) DrawerOption {
	return func(d *FieldDrawer) {
		d.draft = f.Clone()
		d.editing = true
	}
}

// WithSubmit registers the callback invoked with the validated field.
func WithSubmit(fn func(model.Field) error) DrawerOption {
	return func(d *FieldDrawer) {
		d.onSubmit = fn
	}
}

// NewFieldDrawer constructs a drawer not bound to any composer.
func NewFieldDrawer(options ...DrawerOption) *FieldDrawer {
	d := &FieldDrawer{
		locale: locale.Default,
		ids:    TimeOrderedIDs(),
		errs:   validation.Errors{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// OpenFieldDrawer returns a drawer that appends its field to the step on
// submit.
func (c *Composer) OpenFieldDrawer(stepID string) (*FieldDrawer, error) {
	if _, ok := c.Step(stepID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	return NewFieldDrawer(
		WithDrawerLocale(c.Locale()),
		WithDrawerIDs(c.ids),
		WithSubmit(func(f model.Field) error {
			_, err := c.AddField(stepID, f)
			return err
		}),
	), nil
}

// EditFieldDrawer returns a drawer pre-filled with the field that replaces it
// on submit.
func (c *Composer) EditFieldDrawer(stepID, fieldID string) (*FieldDrawer, error) {
	if _, ok := c.Step(stepID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	field, ok := c.Field(stepID, fieldID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	return NewFieldDrawer(
		WithDrawerLocale(c.Locale()),
		WithDrawerIDs(c.ids),
		WithInitial(field),
		WithSubmit(func(f model.Field) error {
			return c.EditField(stepID, fieldID, f)
		}),
	), nil
}

// Editing reports whether the drawer was opened for an existing field.
func (d *FieldDrawer) Editing() bool { return d.editing }

// Draft returns a copy of the current draft.
func (d *FieldDrawer) Draft() model.Field { return d.draft.Clone() }

// Errors returns a copy of the current error state.
func (d *FieldDrawer) Errors() validation.Errors { return d.errs.Clone() }

// SetNameEn updates the English label.
func (d *FieldDrawer) SetNameEn(value string) { d.draft.NameEn = value }

// SetNameAr updates the Arabic label.
func (d *FieldDrawer) SetNameAr(value string) { d.draft.NameAr = value }

// SetType updates the field type.
func (d *FieldDrawer) SetType(t model.FieldType) {
	d.draft.Type = t
	if !t.HasChoices() {
		d.errs.Clear(validation.KeyChoices)
	}
}

// SetRequired updates the required flag.
func (d *FieldDrawer) SetRequired(required bool) { d.draft.Required = required }

// Choices returns the draft's choices in order.
func (d *FieldDrawer) Choices() []model.Choice {
	return append([]model.Choice(nil), d.draft.Choices...)
}

// OpenChoiceEditor opens the nested choice modal. Only one editor is open at
// a time; reopening returns a fresh editor.
func (d *FieldDrawer) OpenChoiceEditor() *ChoiceEditor {
	d.choices = &ChoiceEditor{parent: d, open: true, errs: validation.Errors{}}
	return d.choices
}

// RemoveChoice removes a choice by id. When the removal leaves a select or
// choice field under the minimum, the choices error is raised again; the
// removal itself is never blocked.
func (d *FieldDrawer) RemoveChoice(id string) bool {
	for i, choice := range d.draft.Choices {
		if choice.ID != id {
			continue
		}
		d.draft.Choices = append(d.draft.Choices[:i], d.draft.Choices[i+1:]...)
		if d.draft.Type.HasChoices() && len(d.draft.Choices) < model.MinChoices {
			d.errs.Clear(validation.KeyChoices)
			d.errs.Add(validation.KeyChoices, validation.Message(d.locale, validation.CodeMinChoices, model.MinChoices))
		}
		return true
	}
	return false
}

// Submit validates the draft. On success the registered callback runs and
// the validated field is returned; on failure the returned error is the
// drawer's validation.Errors and nothing is submitted.
func (d *FieldDrawer) Submit() (model.Field, error) {
	field := d.draft.Clone()
	field.NameEn = strings.TrimSpace(field.NameEn)
	field.NameAr = strings.TrimSpace(field.NameAr)
	if !field.Type.HasChoices() {
		field.Choices = nil
	}

	d.errs = validation.FieldSchema().Validate(validation.FieldValues(field), d.locale)
	if !d.errs.Empty() {
		return model.Field{}, d.errs.Clone()
	}

	if d.onSubmit != nil {
		if err := d.onSubmit(field); err != nil {
			return model.Field{}, err
		}
	}
	return field, nil
}

func (d *FieldDrawer) appendChoice(choice model.Choice) {
	d.draft.Choices = append(d.draft.Choices, choice)
	if len(d.draft.Choices) >= model.MinChoices {
		d.errs.Clear(validation.KeyChoices)
	}
}

// ChoiceEditor captures one bilingual choice for its parent drawer.
type ChoiceEditor struct {
	parent *FieldDrawer
	nameEn string
	nameAr string
	errs   validation.Errors
	open   bool
}

// Open reports whether the editor still accepts input.
func (e *ChoiceEditor) Open() bool { return e.open }

// SetNameEn updates the English name.
func (e *ChoiceEditor) SetNameEn(value string) { e.nameEn = value }

// SetNameAr updates the Arabic name.
func (e *ChoiceEditor) SetNameAr(value string) { e.nameAr = value }

// Errors returns a copy of the editor's error state.
func (e *ChoiceEditor) Errors() validation.Errors { return e.errs.Clone() }

// Close dismisses the editor without appending anything.
func (e *ChoiceEditor) Close() { e.open = false }

// Submit validates the names, appends a new choice with a time-based id to
// the parent drawer, and closes the editor.
func (e *ChoiceEditor) Submit() (model.Choice, error) {
	if !e.open {
		return model.Choice{}, ErrEditorClosed
	}
	choice := model.Choice{
		NameEn: strings.TrimSpace(e.nameEn),
		NameAr: strings.TrimSpace(e.nameAr),
	}
	e.errs = validation.ChoiceSchema().Validate(validation.ChoiceValues(choice), e.parent.locale)
	if !e.errs.Empty() {
		return model.Choice{}, e.errs.Clone()
	}

	choice.ID = e.parent.ids.NewID()
	e.parent.appendChoice(choice)
	e.open = false
	return choice, nil
}
