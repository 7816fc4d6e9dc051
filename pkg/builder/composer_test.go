package builder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func sequentialIDs() IDGenerator {
	n := 0
	return IDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func inputField(en, ar string) model.Field {
	return model.Field{NameEn: en, NameAr: ar, Type: model.FieldTypeInput}
}

func stepNames(steps []model.Step) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		out = append(out, step.Name)
	}
	return out
}

func fieldNames(step model.Step) []string {
	out := make([]string, 0, len(step.Fields))
	for _, field := range step.Fields {
		out = append(out, field.NameEn)
	}
	return out
}

func TestComposer_AddStepDefaultNames(t *testing.T) {
	tests := []struct {
		name   string
		locale locale.Locale
		want   []string
	}{
		{name: "english", locale: locale.English, want: []string{"Step 1", "Step 2", "Step 3"}},
		{name: "arabic", locale: locale.Arabic, want: []string{"خطوة 1", "خطوة 2", "خطوة 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithLocale(tt.locale), WithIDGenerator(sequentialIDs()))
			for i := 0; i < 3; i++ {
				c.AddStep()
			}
			if diff := cmp.Diff(tt.want, stepNames(c.Steps())); diff != "" {
				t.Fatalf("step names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposer_DefaultNameUsesCurrentLength(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	c.AddStep()
	second := c.AddStep()
	c.AddStep()

	if err := c.UpdateStep(second.ID, NameInput{NameEn: "Details", NameAr: "التفاصيل"}); err != nil {
		t.Fatalf("update step: %v", err)
	}
	if !c.DeleteStep(second.ID) {
		t.Fatalf("expected second step deleted")
	}

	added := c.AddStep()
	if added.Name != "Step 3" {
		t.Fatalf("expected default name Step 3, got %q", added.Name)
	}
	if diff := cmp.Diff([]string{"Step 1", "Step 3", "Step 3"}, stepNames(c.Steps())); diff != "" {
		t.Fatalf("step names mismatch (-want +got):\n%s", diff)
	}
}

func TestComposer_DefaultNameFollowsLocaleAtCreation(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	first := c.AddStep()
	c.SetLocale(locale.Arabic)
	second := c.AddStep()

	steps := c.Steps()
	if steps[0].Name != "Step 1" {
		t.Fatalf("existing step name should not react to locale, got %q", steps[0].Name)
	}
	if second.Name != "خطوة 2" {
		t.Fatalf("expected arabic default name, got %q", second.Name)
	}
	if steps[0].Label(locale.Arabic) != "خطوة 1" || first.NameEn != "Step 1" {
		t.Fatalf("bilingual default names not stored: %+v", steps[0])
	}
}

func TestComposer_UpdateStep(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()), WithLocale(locale.Arabic))
	step := c.AddStep()

	if err := c.UpdateStep(step.ID, NameInput{NameEn: " Contact ", NameAr: " التواصل "}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := c.Step(step.ID)
	want := model.Step{ID: step.ID, Name: "التواصل", NameEn: "Contact", NameAr: "التواصل", Fields: []model.Field{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("renamed step mismatch (-want +got):\n%s", diff)
	}

	err := c.UpdateStep(step.ID, NameInput{NameEn: "Contact"})
	var errs validation.Errors
	if !errors.As(err, &errs) || !errs.Has(validation.KeyNameAr) {
		t.Fatalf("expected nameAr validation error, got %v", err)
	}

	if err := c.UpdateStep("missing", NameInput{NameEn: "a", NameAr: "b"}); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestComposer_EditFieldAtReplacesOnlyThatIndex(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	step := c.AddStep()
	for _, name := range []string{"A", "B", "C"} {
		if _, err := c.AddField(step.ID, inputField(name+name, "حقل "+name)); err != nil {
			t.Fatalf("add field %s: %v", name, err)
		}
	}
	before, _ := c.Step(step.ID)

	if err := c.EditFieldAt(step.ID, 1, inputField("BB'", "حقل B'")); err != nil {
		t.Fatalf("edit field: %v", err)
	}

	after, _ := c.Step(step.ID)
	if diff := cmp.Diff([]string{"AA", "BB'", "CC"}, fieldNames(after)); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Fields[0], after.Fields[0]); diff != "" {
		t.Fatalf("index 0 changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Fields[2], after.Fields[2]); diff != "" {
		t.Fatalf("index 2 changed (-want +got):\n%s", diff)
	}
	if after.Fields[1].ID != before.Fields[1].ID {
		t.Fatalf("edited field should keep its id")
	}

	if err := c.EditFieldAt(step.ID, 5, inputField("ZZ", "حقل Z")); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound for out-of-range index, got %v", err)
	}
}

func TestComposer_AddFieldValidatesAndDropsChoices(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	step := c.AddStep()

	_, err := c.AddField(step.ID, model.Field{NameEn: "Size", NameAr: "الحجم", Type: model.FieldTypeSelect})
	var errs validation.Errors
	if !errors.As(err, &errs) || !errs.Has(validation.KeyChoices) {
		t.Fatalf("expected choices error, got %v", err)
	}

	field, err := c.AddField(step.ID, model.Field{
		NameEn:  "Notes",
		NameAr:  "ملاحظات",
		Type:    model.FieldTypeTextarea,
		Choices: []model.Choice{{NameEn: "stale", NameAr: "قديم"}},
	})
	if err != nil {
		t.Fatalf("add textarea: %v", err)
	}
	if field.Choices != nil {
		t.Fatalf("choices should be dropped for textarea, got %+v", field.Choices)
	}

	if _, err := c.AddField("missing", inputField("AA", "حقل")); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestComposer_DeleteStepCascadesAndIsIdempotent(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	keep := c.AddStep()
	drop := c.AddStep()
	field, err := c.AddField(drop.ID, inputField("AA", "حقل"))
	if err != nil {
		t.Fatalf("add field: %v", err)
	}

	first, err := c.RequestDeleteStep(drop.ID)
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	second, err := c.RequestDeleteStep(drop.ID)
	if err != nil {
		t.Fatalf("request delete again: %v", err)
	}
	if first.Label != "Step 2" {
		t.Fatalf("unexpected confirmation label %q", first.Label)
	}

	if !c.Confirm(first.Token) {
		t.Fatalf("expected first confirmation to delete")
	}
	if c.Confirm(second.Token) {
		t.Fatalf("second confirmation for the same step should be a no-op")
	}
	if c.DeleteStep(drop.ID) {
		t.Fatalf("direct delete of removed step should be a no-op")
	}

	steps := c.Steps()
	if len(steps) != 1 || steps[0].ID != keep.ID {
		t.Fatalf("expected only the kept step, got %+v", steps)
	}
	if _, ok := c.Field(drop.ID, field.ID); ok {
		t.Fatalf("fields of deleted step should be gone")
	}
}

func TestComposer_CancelConfirmation(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	step := c.AddStep()
	field, _ := c.AddField(step.ID, inputField("AA", "حقل"))

	confirmation, err := c.RequestDeleteField(step.ID, field.ID)
	if err != nil {
		t.Fatalf("request delete field: %v", err)
	}
	c.Cancel(confirmation.Token)
	if c.Confirm(confirmation.Token) {
		t.Fatalf("cancelled confirmation should not delete")
	}
	if _, ok := c.Field(step.ID, field.ID); !ok {
		t.Fatalf("field should still exist")
	}

	confirmation, _ = c.RequestDeleteField(step.ID, field.ID)
	if !c.Confirm(confirmation.Token) {
		t.Fatalf("expected field deletion")
	}
	if c.DeleteFieldAt(step.ID, 0) {
		t.Fatalf("delete of empty step index should be a no-op")
	}
}

func TestComposer_LoadAssignsIDsAndExports(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	c.Load(model.Application{
		ID:     "app-1",
		MenuID: "menu-9",
		Steps: []model.Step{
			{NameEn: "Intro", NameAr: "مقدمة", Fields: []model.Field{
				{NameEn: "Spice", NameAr: "البهارات", Type: model.FieldTypeChoice, Choices: []model.Choice{
					{NameEn: "Mild", NameAr: "خفيف"},
					{ID: "keep", NameEn: "Hot", NameAr: "حار"},
				}},
			}},
		},
	})

	app := c.Application()
	if app.ID != "app-1" || app.MenuID != "menu-9" {
		t.Fatalf("metadata not preserved: %+v", app)
	}
	if len(app.Steps) != 1 || app.Steps[0].ID == "" || app.Steps[0].Name != "Intro" {
		t.Fatalf("unexpected steps: %+v", app.Steps)
	}
	choices := app.Steps[0].Fields[0].Choices
	if choices[0].ID == "" || choices[1].ID != "keep" {
		t.Fatalf("choice ids not reconciled: %+v", choices)
	}
}

func TestComposer_LocaleSwitchKeepsBilingualPair(t *testing.T) {
	c := New(WithIDGenerator(sequentialIDs()))
	step := c.AddStep()
	field, err := c.AddField(step.ID, model.Field{
		NameEn: "Heat", NameAr: "الحرارة", Type: model.FieldTypeChoice,
		Choices: []model.Choice{{NameEn: "Spicy", NameAr: "حار"}, {NameEn: "Mild", NameAr: "خفيف"}},
	})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}

	choice := field.Choices[0]
	if got := choice.Label(locale.English); got != "Spicy" {
		t.Fatalf("english label = %q", got)
	}
	c.SetLocale(locale.Arabic)
	stored, _ := c.Field(step.ID, field.ID)
	if got := stored.Choices[0].Label(c.Locale()); got != "حار" {
		t.Fatalf("arabic label = %q", got)
	}
	if diff := cmp.Diff(choice, stored.Choices[0]); diff != "" {
		t.Fatalf("stored choice changed (-want +got):\n%s", diff)
	}
}
