// Package render defines the renderer contract for builder steps and the
// name-keyed registry renderers are looked up from.
package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer turns one step into a byte representation (HTML, terminal
// answers, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, step model.Step, options RenderOptions) ([]byte, error)
}
