package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/control"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/options"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

var (
	skipLabel   = locale.Name{En: "(skip)", Ar: "(تخطي)"}
	searchLabel = locale.Name{En: "Search…", Ar: "بحث…"}
	searchTerm  = locale.Name{En: "Search", Ar: "بحث"}
)

var typeHelp = map[control.Type]locale.Name{
	control.TypeDate:  {En: "Format yyyy-MM-dd", Ar: "الصيغة yyyy-MM-dd"},
	control.TypeTime:  {En: "Format HH:mm", Ar: "الصيغة HH:mm"},
	control.TypeTel:   {En: "Numbers without a country code default to " + control.DefaultCountryCode, Ar: "الأرقام بدون رمز الدولة تبدأ بـ " + control.DefaultCountryCode},
	control.TypeColor: {En: "Hex color, e.g. #1a2b3c", Ar: "لون سداسي، مثل #1a2b3c"},
}

// Renderer implements render.Renderer for terminal-driven sessions. Each
// field of the step is asked through the prompt driver and the collected
// answers are serialized in the configured format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	disablePastDates  bool
	now               func() time.Time
	logger            logger.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		now:          time.Now,
		logger:       logger.Nop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of step and returns the serialized answers.
// Values in opts pre-fill the prompts and errors in opts are shown before the
// matching prompt.
func (r *Renderer) Render(ctx context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	loc := opts.ResolvedLocale()
	mapping := render.MapErrors(step, opts.Errors)
	state := NewState(opts.Values, mapping.Fields)

	for _, message := range mapping.Form {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
	}

	for _, field := range step.Fields {
		c := r.controlFor(field, loc, state, opts.Loaders[field.ID])
		if err := r.promptControl(ctx, c); err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.ID, err)
		}
	}

	values := typedValues(step, state.Values())
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	r.logger.Debugw("collected step answers", "step", step.ID, "fields", len(values))
	return r.serialize(values)
}

func (r *Renderer) controlFor(field model.Field, loc locale.Locale, state *State, loader *options.Loader) *control.Control {
	opts := []control.Option{
		control.WithValue(state.Text(field.ID)),
		control.WithError(state.ErrorFor(field.ID)),
		control.WithClock(r.now),
		control.WithOnChange(state.Apply),
	}
	if loader != nil {
		opts = append(opts, control.WithLoader(loader))
	}
	if r.disablePastDates {
		opts = append(opts, control.WithDisablePastDates())
	}
	c := control.FromField(field, loc, opts...)
	if len(field.Choices) == 0 && c.Loader != nil {
		c.Options = nil
	}
	return c
}

// PromptControl asks for one control value through driver. It is exported
// for callers that drive controls outside a step, such as the composer CLI.
func PromptControl(ctx context.Context, driver PromptDriver, c *control.Control) error {
	r := &Renderer{driver: driver, logger: logger.Nop()}
	return r.promptControl(ctx, c)
}

func (r *Renderer) promptControl(ctx context.Context, c *control.Control) error {
	if c.Error != "" {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+c.Label+": "+c.Error)
	}
	switch c.Type {
	case control.TypeChoice:
		return r.promptChoice(ctx, c)
	case control.TypeSelect:
		return r.promptSelect(ctx, c)
	default:
		return r.promptText(ctx, c)
	}
}

func (r *Renderer) promptText(ctx context.Context, c *control.Control) error {
	help := ""
	if name, ok := typeHelp[c.Type]; ok {
		help = name.Display(c.Locale)
	}

	for {
		var (
			response string
			err      error
		)
		switch c.Type {
		case control.TypePassword:
			response, err = r.driver.Password(ctx, InputConfig{Message: c.Label, Help: help})
		case control.TypeTextarea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: c.Label, Default: c.Value(), Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: c.Label, Default: c.Value(), Help: help})
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(response) == "" {
			if c.Required {
				r.invalid(ctx, c, validation.Message(c.Locale, validation.CodeRequired))
				continue
			}
			c.Clear()
			return nil
		}

		if err := c.Input(response); err != nil {
			message := validation.Message(c.Locale, validation.CodeInvalid)
			if errors.Is(err, control.ErrPastDate) {
				message = c.Error
			}
			r.invalid(ctx, c, message)
			continue
		}
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, c *control.Control) error {
	opts := c.MenuOptions()
	entries := make([]string, 0, len(opts)+1)
	for _, opt := range opts {
		entries = append(entries, opt.Label)
	}
	if !c.Required {
		entries = append(entries, skipLabel.Display(c.Locale))
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      c.Label,
			Options:      entries,
			DefaultIndex: indexOfValue(opts, c.Value()),
		})
		if err != nil {
			return err
		}
		switch {
		case idx >= 0 && idx < len(opts):
			return c.Choose(opts[idx])
		case idx == len(opts) && !c.Required:
			c.Clear()
			return nil
		}
		r.invalid(ctx, c, validation.Message(c.Locale, validation.CodeInvalidEnum))
	}
}

// promptSelect pages through remote options: picking the "See more" entry
// loads the next page and asks again with the longer list.
func (r *Renderer) promptSelect(ctx context.Context, c *control.Control) error {
	remote := c.Options == nil && c.Loader != nil && c.Loader.Remote()
	if remote {
		if _, err := c.Loader.Load(ctx); err != nil && !options.IsStale(err) {
			r.logger.Warnw("load options", "field", c.Name, "error", err)
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+c.Label+": "+err.Error())
			return r.promptText(ctx, asText(c))
		}
	}

	for {
		opts := c.MenuOptions()
		entries := make([]string, 0, len(opts)+2)
		for _, opt := range opts {
			entries = append(entries, opt.Label)
		}
		searchIdx, skipIdx := -1, -1
		if remote {
			searchIdx = len(entries)
			entries = append(entries, searchLabel.Display(c.Locale))
		}
		if !c.Required {
			skipIdx = len(entries)
			entries = append(entries, skipLabel.Display(c.Locale))
		}

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      c.Label,
			Options:      entries,
			DefaultIndex: indexOfValue(opts, c.Value()),
			Help:         c.SearchText(),
		})
		if err != nil {
			return err
		}

		switch {
		case searchIdx >= 0 && idx == searchIdx:
			text, err := r.driver.Input(ctx, InputConfig{Message: searchTerm.Display(c.Locale), Default: c.SearchText()})
			if err != nil {
				return err
			}
			if _, err := c.Search(ctx, strings.TrimSpace(text)); err != nil && !options.IsStale(err) {
				_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
			}
		case skipIdx >= 0 && idx == skipIdx:
			c.Clear()
			return nil
		case idx >= 0 && idx < len(opts):
			if err := c.Select(ctx, opts[idx]); err != nil {
				if options.IsStale(err) {
					continue
				}
				if opts[idx].IsSeeMore() {
					_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
					continue
				}
				return err
			}
			if !opts[idx].IsSeeMore() {
				return nil
			}
		default:
			r.invalid(ctx, c, validation.Message(c.Locale, validation.CodeInvalidEnum))
		}
	}
}

// asText turns a select whose options failed to load into a free-text
// control that still reports through the same change callback.
func asText(c *control.Control) *control.Control {
	fallback := control.New(control.TypeText, c.Name,
		control.WithControlLocale(c.Locale),
		control.WithValue(c.Value()),
		control.WithOnChange(c.OnChange),
	)
	fallback.Label = c.Label
	fallback.Required = c.Required
	return fallback
}

func (r *Renderer) invalid(ctx context.Context, c *control.Control, message string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+c.Label+": "+message)
}

func indexOfValue(opts []options.Option, value string) int {
	if value == "" {
		return -1
	}
	for i, opt := range opts {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// typedValues converts number answers to float64 so JSON output carries
// numbers. Keys that are not fields of step are passed through.
func typedValues(step model.Step, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	for _, field := range step.Fields {
		if field.Type != model.FieldTypeNumber {
			continue
		}
		raw, ok := out[field.ID].(string)
		if !ok || raw == "" {
			continue
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			out[field.ID] = f
		}
	}
	return out
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				flattened.Add(key+"[]", fmt.Sprint(item))
			}
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
