package control

import "errors"

// Type is the control discriminator.
type Type string

const (
	TypeChoice   Type = "choice"
	TypeSelect   Type = "select"
	TypeTel      Type = "tel"
	TypeDate     Type = "date"
	TypeTime     Type = "time"
	TypeTextarea Type = "textarea"
	TypeText     Type = "text"
	TypeEmail    Type = "email"
	TypeNumber   Type = "number"
	TypePassword Type = "password"
	TypeColor    Type = "color"
)

// Types lists every supported discriminator.
func Types() []Type {
	return []Type{
		TypeChoice, TypeSelect, TypeTel, TypeDate, TypeTime, TypeTextarea,
		TypeText, TypeEmail, TypeNumber, TypePassword, TypeColor,
	}
}

// ParseType resolves raw into a Type. Unknown values fall back to text, the
// native input default.
func ParseType(raw string) Type {
	for _, t := range Types() {
		if string(t) == raw {
			return t
		}
	}
	return TypeText
}

// HasOptions reports whether the mode picks from a list.
func (t Type) HasOptions() bool {
	return t == TypeChoice || t == TypeSelect
}

// TextLike reports whether the mode accepts free text through Input.
func (t Type) TextLike() bool {
	return !t.HasOptions()
}

const (
	// DateLayout is the wire and display format for date values.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire and display format for time values.
	TimeLayout = "15:04"
	// DefaultCountryCode prefixes phone numbers given without one.
	DefaultCountryCode = "+966"
	// DefaultRows is the textarea height when none is configured.
	DefaultRows = 3
)

var (
	ErrUnsupported   = errors.New("control: operation not supported by this control type")
	ErrInvalidValue  = errors.New("control: invalid value")
	ErrUnknownOption = errors.New("control: option not available")
	ErrPastDate      = errors.New("control: past dates are disabled")
)

// Change is the single payload emitted by every mode. Value is always the
// normalised plain value; Label carries the display text for list modes.
type Change struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	// Reset marks a change produced by Clear.
	Reset bool `json:"reset,omitempty"`
}
