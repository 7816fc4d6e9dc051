// Package formbuilder is the top-level entry point: it wires the step
// composer, the renderer registry, and the submission schema helpers for
// callers that do not need the individual packages.
package formbuilder

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// RenderOptions aliases render.RenderOptions so callers can prefill values
// and surface server errors without importing the render package.
type RenderOptions = render.RenderOptions

// NewComposer exposes the step composer constructor.
func NewComposer(options ...builder.Option) *builder.Composer {
	return builder.New(options...)
}

// Renderers holds the option sets for the built-in renderers.
type Renderers struct {
	Vanilla []vanilla.Option
	TUI     []tui.Option
}

// NewRegistry returns a registry with the vanilla HTML renderer as the
// default and the terminal renderer registered as "tui".
func NewRegistry(cfg Renderers) (*render.Registry, error) {
	html, err := vanilla.New(cfg.Vanilla...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: vanilla renderer: %w", err)
	}
	term, err := tui.New(cfg.TUI...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: tui renderer: %w", err)
	}

	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(term); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderStep renders the step of app with stepID using the named renderer.
// An empty name selects the registry default.
func RenderStep(ctx context.Context, registry *render.Registry, rendererName string, app model.Application, stepID string, opts RenderOptions) ([]byte, error) {
	step, ok := app.FindStep(stepID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", builder.ErrStepNotFound, stepID)
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, step, opts)
}

// ValidateStep checks submitted values for the step of app with stepID.
func ValidateStep(app model.Application, stepID string, values map[string]any, opts ...openapi.ValidateOption) (validation.Errors, error) {
	step, ok := app.FindStep(stepID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", builder.ErrStepNotFound, stepID)
	}
	return openapi.ValidateSubmission(step, values, opts...), nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
