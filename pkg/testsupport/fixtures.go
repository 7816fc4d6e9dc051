// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SampleApplication returns a two-step application covering every field
// type. Ids are fixed so tests can address fields directly.
func SampleApplication() model.Application {
	return model.Application{
		ID:     "app-1",
		MenuID: "menu-1",
		NameEn: "Catering request",
		NameAr: "طلب تموين",
		Steps: []model.Step{
			{
				ID:     "step-1",
				Name:   "Contact",
				NameEn: "Contact",
				NameAr: "التواصل",
				Fields: []model.Field{
					{ID: "name", NameEn: "Full name", NameAr: "الاسم الكامل", Type: model.FieldTypeInput, Required: true},
					{ID: "phone", NameEn: "Phone", NameAr: "الهاتف", Type: model.FieldTypePhone, Required: true},
					{ID: "notes", NameEn: "Notes", NameAr: "ملاحظات", Type: model.FieldTypeTextarea},
				},
			},
			{
				ID:     "step-2",
				Name:   "Event",
				NameEn: "Event",
				NameAr: "المناسبة",
				Fields: []model.Field{
					{ID: "guests", NameEn: "Guests", NameAr: "الضيوف", Type: model.FieldTypeNumber, Required: true},
					{ID: "date", NameEn: "Event date", NameAr: "تاريخ المناسبة", Type: model.FieldTypeDate},
					{ID: "menu", NameEn: "Menu", NameAr: "القائمة", Type: model.FieldTypeSelect, Required: true, Choices: []model.Choice{
						{ID: "m1", NameEn: "Classic", NameAr: "كلاسيكي"},
						{ID: "m2", NameEn: "Premium", NameAr: "مميز"},
					}},
					{ID: "spice", NameEn: "Spice level", NameAr: "مستوى البهارات", Type: model.FieldTypeChoice, Choices: []model.Choice{
						{ID: "s1", NameEn: "Mild", NameAr: "خفيف"},
						{ID: "s2", NameEn: "Spicy", NameAr: "حار"},
					}},
				},
			},
		},
	}
}

// SampleStep returns one step of SampleApplication by index.
func SampleStep(index int) model.Step {
	return SampleApplication().Steps[index]
}

// MustLoadApplication reads a YAML (or JSON) application fixture.
func MustLoadApplication(t *testing.T, path string) model.Application {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var app model.Application
	if err := yaml.Unmarshal(data, &app); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return app
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs render against a buffer and returns both the returned
// string and what was written.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
