package formbuilder

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry(Renderers{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	out, err := RenderStep(context.Background(), registry, "", testsupport.SampleApplication(), "step-1", RenderOptions{Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `dir="rtl"`) {
		t.Fatalf("expected the default html renderer, got:\n%s", out)
	}

	_, err = RenderStep(context.Background(), registry, "", testsupport.SampleApplication(), "nope", RenderOptions{})
	if !errors.Is(err, builder.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestValidateStep(t *testing.T) {
	errs, err := ValidateStep(testsupport.SampleApplication(), "step-1", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !errs.Has("phone") || errs.Has("name") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/step.tmpl"); err != nil {
		t.Fatalf("missing step template: %v", err)
	}
	if _, err := fs.Stat(EmbeddedAssets(), "formbuilder.css"); err != nil {
		t.Fatalf("missing stylesheet: %v", err)
	}
}
