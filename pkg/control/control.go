package control

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/options"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Control is a controlled input. It holds presentation state (focus, menu,
// search, password reveal) and the current value, and reports every update
// through OnChange.
type Control struct {
	Type        Type
	Name        string
	Label       string
	Placeholder string
	Locale      locale.Locale
	// Rows is the textarea height.
	Rows             int
	DisablePastDates bool
	Required         bool
	// Error is supplied by upstream validation and rendered below the input.
	Error string
	// Options is the static list for choice and select modes. When set it
	// takes precedence over Loader.
	Options  []options.Option
	Loader   *options.Loader
	OnChange func(Change)
	OnReset  func()
	Now      func() time.Time

	value    string
	label    string
	focused  bool
	menuOpen bool
	revealed bool
	search   string
}

// Option configures a Control.
type Option func(*Control)

// WithValue sets the initial value without emitting a change.
func WithValue(value string) Option {
	return func(c *Control) { c.value = value }
}

// WithOptions sets the static option list.
func WithOptions(opts []options.Option) Option {
	return func(c *Control) {
		if opts != nil {
			c.Options = append([]options.Option{}, opts...)
		}
	}
}

// WithLoader attaches a remote option loader for select mode.
func WithLoader(l *options.Loader) Option {
	return func(c *Control) { c.Loader = l }
}

// WithOnChange registers the change callback.
func WithOnChange(fn func(Change)) Option {
	return func(c *Control) { c.OnChange = fn }
}

// WithOnReset registers the callback fired by Clear.
func WithOnReset(fn func()) Option {
	return func(c *Control) { c.OnReset = fn }
}

// WithError sets the upstream error string.
func WithError(msg string) Option {
	return func(c *Control) { c.Error = msg }
}

// WithRows sets the textarea height.
func WithRows(rows int) Option {
	return func(c *Control) {
		if rows > 0 {
			c.Rows = rows
		}
	}
}

// WithDisablePastDates rejects dates before today.
func WithDisablePastDates() Option {
	return func(c *Control) { c.DisablePastDates = true }
}

// WithPlaceholder sets the placeholder text.
func WithPlaceholder(text string) Option {
	return func(c *Control) { c.Placeholder = text }
}

// WithClock overrides the time source used for past-date checks.
func WithClock(now func() time.Time) Option {
	return func(c *Control) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithControlLocale sets the locale for labels and messages.
func WithControlLocale(l locale.Locale) Option {
	return func(c *Control) {
		if l.Valid() {
			c.Locale = l
		}
	}
}

// New constructs a control of type t.
func New(t Type, name string, opts ...Option) *Control {
	c := &Control{
		Type:   t,
		Name:   name,
		Locale: locale.Default,
		Rows:   DefaultRows,
		Now:    time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.Type == "" {
		c.Type = TypeText
	}
	return c
}

// FromField builds the control respondents use to fill a builder field.
// Choices become static options valued by choice id.
func FromField(f model.Field, l locale.Locale, opts ...Option) *Control {
	base := []Option{WithControlLocale(l)}
	if f.Type.HasChoices() {
		choices := make([]options.Option, 0, len(f.Choices))
		for _, choice := range f.Choices {
			choices = append(choices, options.Option{Label: choice.Label(l), Value: choice.ID})
		}
		base = append(base, WithOptions(choices))
	}
	c := New(ParseType(f.Type.ControlType()), f.ID, append(base, opts...)...)
	c.Label = f.Label(l)
	c.Required = f.Required
	return c
}

// Value returns the current normalised value.
func (c *Control) Value() string { return c.value }

// SetValue replaces the value without emitting a change, as a parent does
// when it re-renders a controlled input.
func (c *Control) SetValue(value string) {
	c.value = value
	c.label = c.labelFor(value)
}

// Focus marks the control focused.
func (c *Control) Focus() { c.focused = true }

// Blur clears focus and closes an open menu.
func (c *Control) Blur() {
	c.focused = false
	c.menuOpen = false
}

// Focused reports focus state.
func (c *Control) Focused() bool { return c.focused }

// OpenMenu opens the dropdown or picker.
func (c *Control) OpenMenu() {
	c.menuOpen = true
	c.focused = true
}

// CloseMenu closes the dropdown or picker.
func (c *Control) CloseMenu() { c.menuOpen = false }

// MenuOpen reports whether the dropdown or picker is open.
func (c *Control) MenuOpen() bool { return c.menuOpen }

// Input handles typed text for text-like modes.
func (c *Control) Input(raw string) error {
	if !c.Type.TextLike() {
		return ErrUnsupported
	}
	value, err := normalize(c.Type, raw)
	if err != nil {
		return err
	}
	if c.Type == TypeDate && value != "" {
		day, _ := time.Parse(DateLayout, value)
		if err := c.checkPastDate(day); err != nil {
			return err
		}
	}
	c.emit(value, "", false)
	return nil
}

// PickDate handles a selection from the date picker.
func (c *Control) PickDate(day time.Time) error {
	if c.Type != TypeDate {
		return ErrUnsupported
	}
	if err := c.checkPastDate(day); err != nil {
		return err
	}
	c.menuOpen = false
	c.emit(day.Format(DateLayout), "", false)
	return nil
}

// PickTime handles a selection from the time picker.
func (c *Control) PickTime(hour, minute int) error {
	if c.Type != TypeTime {
		return ErrUnsupported
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: time %02d:%02d", ErrInvalidValue, hour, minute)
	}
	c.menuOpen = false
	c.emit(fmt.Sprintf("%02d:%02d", hour, minute), "", false)
	return nil
}

// Choose handles a click on one of the choice buttons.
func (c *Control) Choose(opt options.Option) error {
	if c.Type != TypeChoice {
		return ErrUnsupported
	}
	if !containsValue(c.Options, opt.Value) {
		return fmt.Errorf("%w: %s", ErrUnknownOption, opt.Value)
	}
	c.emit(opt.Value, labelOf(c.Options, opt.Value), false)
	return nil
}

// Select handles a pick from the dropdown. The "See more" sentinel loads the
// next page and keeps the menu open instead of changing the value.
func (c *Control) Select(ctx context.Context, opt options.Option) error {
	if c.Type != TypeSelect {
		return ErrUnsupported
	}
	if opt.IsSeeMore() {
		if c.Options != nil || c.Loader == nil {
			return fmt.Errorf("%w: %s", ErrUnknownOption, opt.Value)
		}
		_, err := c.Loader.SeeMore(ctx)
		return err
	}
	available := c.MenuOptions()
	if !containsValue(available, opt.Value) {
		return fmt.Errorf("%w: %s", ErrUnknownOption, opt.Value)
	}
	c.menuOpen = false
	c.emit(opt.Value, labelOf(available, opt.Value), false)
	return nil
}

// Search updates the dropdown search text. Remote loaders restart at page 1.
func (c *Control) Search(ctx context.Context, text string) (options.Result, error) {
	if c.Type != TypeSelect {
		return options.Result{}, ErrUnsupported
	}
	c.search = text
	c.menuOpen = true
	if c.Options == nil && c.Loader != nil {
		return c.Loader.SetSearch(ctx, text)
	}
	return options.Result{State: options.StateSuccess, Options: c.MenuOptions()}, nil
}

// SearchText returns the current dropdown search text.
func (c *Control) SearchText() string { return c.search }

// MenuOptions returns the entries the dropdown or button group shows. Static
// options win over the loader.
func (c *Control) MenuOptions() []options.Option {
	if c.Options != nil {
		if c.Type != TypeSelect || c.search == "" {
			return append([]options.Option{}, c.Options...)
		}
		needle := strings.ToLower(c.search)
		out := make([]options.Option, 0, len(c.Options))
		for _, opt := range c.Options {
			if strings.Contains(strings.ToLower(opt.Label), needle) {
				out = append(out, opt)
			}
		}
		return out
	}
	if c.Loader != nil {
		return c.Loader.Options()
	}
	return nil
}

// Clear empties the value, fires OnReset, and emits a reset change.
func (c *Control) Clear() {
	c.search = ""
	if c.OnReset != nil {
		c.OnReset()
	}
	c.emit("", "", true)
}

// ToggleReveal flips password visibility and reports the new state.
func (c *Control) ToggleReveal() bool {
	if c.Type != TypePassword {
		return false
	}
	c.revealed = !c.revealed
	return c.revealed
}

// Revealed reports whether a password is shown in clear text.
func (c *Control) Revealed() bool { return c.revealed }

// InputType returns the HTML input type the control renders with.
func (c *Control) InputType() string {
	switch c.Type {
	case TypePassword:
		if c.revealed {
			return string(TypeText)
		}
		return string(TypePassword)
	case TypeChoice, TypeSelect, TypeTextarea:
		return ""
	case TypeDate, TypeTime:
		// the visible input is synthesised text so formatting stays exact.
		return string(TypeText)
	default:
		return string(c.Type)
	}
}

// DisplayValue returns what the visible input shows.
func (c *Control) DisplayValue() string {
	switch c.Type {
	case TypeChoice, TypeSelect:
		if c.label != "" {
			return c.label
		}
		return c.value
	case TypePassword:
		if c.revealed {
			return c.value
		}
		return strings.Repeat("•", len([]rune(c.value)))
	default:
		return c.value
	}
}

func (c *Control) checkPastDate(day time.Time) error {
	if !c.DisablePastDates {
		return nil
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	today := now()
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	py, pm, pd := day.Date()
	picked := time.Date(py, pm, pd, 0, 0, 0, 0, today.Location())
	if picked.Before(start) {
		c.Error = validation.Message(c.Locale, validation.CodePastDate)
		return ErrPastDate
	}
	return nil
}

func (c *Control) emit(value, label string, reset bool) {
	c.value = value
	if label == "" {
		label = c.labelFor(value)
	}
	c.label = label
	if c.OnChange != nil {
		c.OnChange(Change{Name: c.Name, Type: c.Type, Value: value, Label: label, Reset: reset})
	}
}

func (c *Control) labelFor(value string) string {
	if !c.Type.HasOptions() || value == "" {
		return ""
	}
	return labelOf(c.MenuOptions(), value)
}

func containsValue(opts []options.Option, value string) bool {
	for _, opt := range opts {
		if opt.Value == value && !opt.IsSeeMore() {
			return true
		}
	}
	return false
}

func labelOf(opts []options.Option, value string) string {
	for _, opt := range opts {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}
