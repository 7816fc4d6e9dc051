package builder

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// NameInput carries the bilingual names submitted by the step rename modal.
type NameInput struct {
	NameEn string `json:"nameEn"`
	NameAr string `json:"nameAr"`
}

type stepEntry struct {
	id     string
	name   string
	nameEn string
	nameAr string

	// fields is the arena; order holds display order.
	fields map[string]model.Field
	order  []string
}

func (s *stepEntry) snapshot() model.Step {
	step := model.Step{
		ID:     s.id,
		Name:   s.name,
		NameEn: s.nameEn,
		NameAr: s.nameAr,
		Fields: make([]model.Field, 0, len(s.order)),
	}
	for _, id := range s.order {
		step.Fields = append(step.Fields, s.fields[id].Clone())
	}
	return step
}

func (s *stepEntry) fieldIDAt(index int) (string, bool) {
	if index < 0 || index >= len(s.order) {
		return "", false
	}
	return s.order[index], true
}

func (s *stepEntry) removeField(id string) bool {
	if _, ok := s.fields[id]; !ok {
		return false
	}
	delete(s.fields, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Composer owns the ordered steps of one application. All operations are
// synchronous; the mutex only guards against accidental sharing.
type Composer struct {
	mu sync.Mutex

	locale locale.Locale
	ids    IDGenerator
	logger logger.Logger

	meta    model.Application
	steps   map[string]*stepEntry
	order   []string
	pending map[string]Confirmation
}

// New constructs an empty composer.
func New(options ...Option) *Composer {
	c := &Composer{
		locale:  locale.Default,
		ids:     TimeOrderedIDs(),
		logger:  logger.Nop(),
		steps:   make(map[string]*stepEntry),
		pending: make(map[string]Confirmation),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Locale reports the active display locale.
func (c *Composer) Locale() locale.Locale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// SetLocale changes the display locale. Stored bilingual names and names
// generated earlier are left untouched.
func (c *Composer) SetLocale(l locale.Locale) {
	if !l.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = l
}

// AddStep appends a step named "{label} {n}" where n is the current step
// count plus one and label follows the locale active at call time.
func (c *Composer) AddStep() model.Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := strconv.Itoa(len(c.order) + 1)
	entry := &stepEntry{
		id:     c.ids.NewID(),
		nameEn: locale.StepLabel.En + " " + n,
		nameAr: locale.StepLabel.Ar + " " + n,
		fields: make(map[string]model.Field),
	}
	entry.name = locale.Pick(c.locale, entry.nameEn, entry.nameAr)

	c.steps[entry.id] = entry
	c.order = append(c.order, entry.id)
	c.logger.Debugw("step added", "step_id", entry.id, "name", entry.name)
	return entry.snapshot()
}

// UpdateStep renames a step. Name is recomputed from the current locale.
func (c *Composer) UpdateStep(stepID string, input NameInput) error {
	name := locale.NewName(input.NameEn, input.NameAr)
	if errs := validation.StepSchema().Validate(validation.NameValues(name.En, name.Ar), c.Locale()); !errs.Empty() {
		return errs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	entry.nameEn = name.En
	entry.nameAr = name.Ar
	entry.name = locale.Pick(c.locale, name.En, name.Ar)
	c.logger.Debugw("step renamed", "step_id", stepID, "name", entry.name)
	return nil
}

// DeleteStep removes a step and every field it owns. It reports whether a
// step was removed; unknown ids are a no-op.
func (c *Composer) DeleteStep(stepID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteStepLocked(stepID)
}

func (c *Composer) deleteStepLocked(stepID string) bool {
	entry, ok := c.steps[stepID]
	if !ok {
		return false
	}
	delete(c.steps, stepID)
	for i, id := range c.order {
		if id == stepID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.logger.Debugw("step deleted", "step_id", stepID, "fields", len(entry.order))
	return true
}

// AddField validates f and appends it to the step. A missing id is generated;
// choices are dropped for types that do not carry them.
func (c *Composer) AddField(stepID string, f model.Field) (model.Field, error) {
	field, err := c.prepareField(f)
	if err != nil {
		return model.Field{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return model.Field{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	if field.ID == "" {
		field.ID = c.ids.NewID()
	}
	if _, exists := entry.fields[field.ID]; exists {
		field.ID = c.ids.NewID()
	}
	c.assignChoiceIDs(&field)
	entry.fields[field.ID] = field
	entry.order = append(entry.order, field.ID)
	c.logger.Debugw("field added", "step_id", stepID, "field_id", field.ID, "type", field.Type)
	return field.Clone(), nil
}

// EditField replaces the field with the given id, keeping its position.
func (c *Composer) EditField(stepID, fieldID string, f model.Field) error {
	field, err := c.prepareField(f)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	if _, ok := entry.fields[fieldID]; !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	field.ID = fieldID
	c.assignChoiceIDs(&field)
	entry.fields[fieldID] = field
	c.logger.Debugw("field edited", "step_id", stepID, "field_id", fieldID)
	return nil
}

// EditFieldAt replaces the field at index, leaving every other index intact.
func (c *Composer) EditFieldAt(stepID string, index int, f model.Field) error {
	fieldID, err := c.fieldIDAt(stepID, index)
	if err != nil {
		return err
	}
	return c.EditField(stepID, fieldID, f)
}

// DeleteField removes the field with the given id. Unknown ids are a no-op.
func (c *Composer) DeleteField(stepID, fieldID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteFieldLocked(stepID, fieldID)
}

func (c *Composer) deleteFieldLocked(stepID, fieldID string) bool {
	entry, ok := c.steps[stepID]
	if !ok {
		return false
	}
	removed := entry.removeField(fieldID)
	if removed {
		c.logger.Debugw("field deleted", "step_id", stepID, "field_id", fieldID)
	}
	return removed
}

// DeleteFieldAt removes the field at index. Out-of-range indexes are a no-op.
func (c *Composer) DeleteFieldAt(stepID string, index int) bool {
	fieldID, err := c.fieldIDAt(stepID, index)
	if err != nil {
		return false
	}
	return c.DeleteField(stepID, fieldID)
}

// Steps returns an ordered snapshot of every step.
func (c *Composer) Steps() []model.Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Step, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.steps[id].snapshot())
	}
	return out
}

// Step returns a snapshot of one step.
func (c *Composer) Step(stepID string) (model.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return model.Step{}, false
	}
	return entry.snapshot(), true
}

// Field returns a copy of one field.
func (c *Composer) Field(stepID, fieldID string) (model.Field, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return model.Field{}, false
	}
	field, ok := entry.fields[fieldID]
	if !ok {
		return model.Field{}, false
	}
	return field.Clone(), true
}

// Len reports the number of steps.
func (c *Composer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Application exports the composed steps with any application metadata set
// through Load or SetMeta.
func (c *Composer) Application() model.Application {
	c.mu.Lock()
	defer c.mu.Unlock()

	app := c.meta
	app.Steps = make([]model.Step, 0, len(c.order))
	for _, id := range c.order {
		app.Steps = append(app.Steps, c.steps[id].snapshot())
	}
	return app
}

// SetMeta records application level identity and names.
func (c *Composer) SetMeta(id, menuID string, name locale.Name) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta.ID = id
	c.meta.MenuID = menuID
	c.meta.NameEn = name.En
	c.meta.NameAr = name.Ar
}

// Load replaces the composer state with app. Missing step, field, and choice
// ids are generated. Pending confirmations are discarded. Load is also used
// to reconcile local state with a server response after saving.
func (c *Composer) Load(app model.Application) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.meta = model.Application{ID: app.ID, MenuID: app.MenuID, NameEn: app.NameEn, NameAr: app.NameAr}
	c.steps = make(map[string]*stepEntry, len(app.Steps))
	c.order = make([]string, 0, len(app.Steps))
	c.pending = make(map[string]Confirmation)

	for _, step := range app.Steps {
		entry := &stepEntry{
			id:     step.ID,
			name:   step.Name,
			nameEn: step.NameEn,
			nameAr: step.NameAr,
			fields: make(map[string]model.Field, len(step.Fields)),
		}
		if entry.id == "" || c.steps[entry.id] != nil {
			entry.id = c.ids.NewID()
		}
		if entry.name == "" {
			entry.name = locale.Pick(c.locale, entry.nameEn, entry.nameAr)
		}
		for _, f := range step.Fields {
			field := f.Clone()
			if field.ID == "" {
				field.ID = c.ids.NewID()
			}
			if _, exists := entry.fields[field.ID]; exists {
				field.ID = c.ids.NewID()
			}
			c.assignChoiceIDs(&field)
			entry.fields[field.ID] = field
			entry.order = append(entry.order, field.ID)
		}
		c.steps[entry.id] = entry
		c.order = append(c.order, entry.id)
	}
	c.logger.Debugw("application loaded", "application_id", app.ID, "steps", len(c.order))
}

func (c *Composer) prepareField(f model.Field) (model.Field, error) {
	field := f.Clone()
	field.NameEn = locale.NewName(field.NameEn, "").En
	field.NameAr = locale.NewName("", field.NameAr).Ar
	if !field.Type.HasChoices() {
		field.Choices = nil
	}
	if errs := validation.FieldSchema().Validate(validation.FieldValues(field), c.Locale()); !errs.Empty() {
		return model.Field{}, errs
	}
	return field, nil
}

func (c *Composer) assignChoiceIDs(field *model.Field) {
	for i := range field.Choices {
		if field.Choices[i].ID == "" {
			field.Choices[i].ID = c.ids.NewID()
		}
	}
}

func (c *Composer) fieldIDAt(stepID string, index int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.steps[stepID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	id, ok := entry.fieldIDAt(index)
	if !ok {
		return "", fmt.Errorf("%w: index %d", ErrFieldNotFound, index)
	}
	return id, nil
}
