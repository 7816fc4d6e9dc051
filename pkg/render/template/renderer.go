package template

import (
	"io"
)

// TemplateRenderer is the engine contract renderers depend on.
type TemplateRenderer interface {
	// RenderTemplate executes a named template from the engine's file set.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// RenderString parses and executes inline template content.
	RenderString(content string, data any, out ...io.Writer) (string, error)
	// RegisterFilter exposes fn to templates as a filter.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext merges data into the values every template sees.
	GlobalContext(data map[string]any) error
}
