package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/options"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// RenderOptions carry per-request data renderers use without mutating the
// step definition.
type RenderOptions struct {
	Locale locale.Locale
	// Action and Method describe where the rendered form submits.
	Action string
	Method string
	// Values pre-populates controls keyed by field id.
	Values map[string]any
	// Errors is keyed by field id. Keys that match no field are shown as
	// form-level messages.
	Errors validation.Errors
	Hidden []HiddenField
	Theme  *theme.RendererConfig
	// Loaders supplies remote option loaders for select fields, keyed by
	// field id.
	Loaders map[string]*options.Loader
}

// ResolvedLocale returns the configured locale or the default.
func (o RenderOptions) ResolvedLocale() locale.Locale {
	if o.Locale.Valid() {
		return o.Locale
	}
	return locale.Default
}
