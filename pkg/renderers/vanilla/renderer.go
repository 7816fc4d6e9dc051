package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/control"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

const stepTemplate = "templates/step.tmpl"

// ErrNoTemplateRenderer is returned when Render runs on a zero Renderer.
var ErrNoTemplateRenderer = errors.New("vanilla renderer: template renderer is nil")

var submitLabel = locale.Name{En: "Submit", Ar: "إرسال"}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineStyles     bool
	stylesheets      []string
	logger           logger.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/step.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into every form.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an external stylesheet from every form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(lg logger.Logger) Option {
	return func(cfg *config) {
		cfg.logger = lg
	}
}

// Renderer writes one builder step as an HTML form.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	inlineStyles string
	stylesheets  []string
	logger       logger.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		stylesheets: append([]string(nil), cfg.stylesheets...),
		logger:      logger.OrNop(cfg.logger),
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes step as a <form>. Values and errors from opts are applied to
// the matching controls; error keys that name no field are listed at the
// top of the form.
func (r *Renderer) Render(_ context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, ErrNoTemplateRenderer
	}

	loc := opts.ResolvedLocale()
	mapping := render.MapErrors(step, opts.Errors)

	fields := make([]string, 0, len(step.Fields))
	for _, field := range step.Fields {
		fields = append(fields, controlMarkup(r.controlFor(field, loc, opts, mapping)))
	}

	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "post"
	}

	hidden := render.SortedHiddenFields(opts.Hidden)
	if hidden == nil {
		hidden = []render.HiddenField{}
	}

	themeStyle := ""
	if opts.Theme != nil {
		themeStyle = cssVarsStyle(opts.Theme.CSSVars)
	}

	data := map[string]any{
		"classes":       classMap(),
		"locale":        loc.String(),
		"step":          map[string]any{"id": step.ID},
		"method":        method,
		"action":        strings.TrimSpace(opts.Action),
		"theme_style":   themeStyle,
		"inline_styles": r.inlineStyles,
		"stylesheets":   r.stylesheets,
		"title":         sanitizeText(step.Label(loc)),
		"form_errors":   mapping.Form,
		"hidden":        hidden,
		"fields":        fields,
		"submit_label":  submitLabel.Display(loc),
	}

	result, err := r.templates.RenderTemplate(stepTemplate, data)
	if err != nil {
		r.logger.Errorw("render step", "step", step.ID, "error", err)
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	r.logger.Debugw("rendered step", "step", step.ID, "locale", loc.String(), "fields", len(fields))
	return []byte(result), nil
}

func (r *Renderer) controlFor(field model.Field, loc locale.Locale, opts render.RenderOptions, mapping render.ErrorMapping) *control.Control {
	controlOpts := []control.Option{
		control.WithError(mapping.Fields.First(field.ID)),
	}
	if value, ok := opts.Values[field.ID]; ok && value != nil {
		controlOpts = append(controlOpts, control.WithValue(fmt.Sprint(value)))
	}
	if loader, ok := opts.Loaders[field.ID]; ok && loader != nil {
		controlOpts = append(controlOpts, control.WithLoader(loader))
	}
	c := control.FromField(field, loc, controlOpts...)
	// Fields without choices fall back to the loader, so drop the empty
	// static list FromField creates.
	if len(field.Choices) == 0 && c.Loader != nil {
		c.Options = nil
	}
	return c
}

func classMap() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"errors":  string(ClassErrors),
		"actions": string(ClassActions),
	}
}
