// Package locale models the two display languages supported by the builder
// and the bilingual name pairs every Step, Field, and Choice carries.
package locale

import "strings"

// Locale identifies the active display language.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Default is used whenever a caller supplies an unknown or empty locale.
const Default = English

// Parse normalises raw locale identifiers such as "ar-SA" or "EN" into one of
// the supported locales. Unknown values resolve to Default.
func Parse(raw string) Locale {
	value := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(value, "-_"); idx > 0 {
		value = value[:idx]
	}
	switch Locale(value) {
	case Arabic:
		return Arabic
	case English:
		return English
	default:
		return Default
	}
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	return l == English || l == Arabic
}

// Dir returns the text direction for the locale ("rtl" for Arabic).
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string {
	if !l.Valid() {
		return string(Default)
	}
	return string(l)
}

// Pick returns en or ar depending on the locale.
func Pick(l Locale, en, ar string) string {
	if l == Arabic {
		return ar
	}
	return en
}

// Name is a bilingual display name. Switching locales only changes which half
// is displayed; the pair itself is never rewritten.
type Name struct {
	En string `json:"nameEn" yaml:"nameEn"`
	Ar string `json:"nameAr" yaml:"nameAr"`
}

// NewName trims both halves of a bilingual pair.
func NewName(en, ar string) Name {
	return Name{En: strings.TrimSpace(en), Ar: strings.TrimSpace(ar)}
}

// Display returns the half matching l, falling back to the other half when
// the requested one is blank.
func (n Name) Display(l Locale) string {
	primary, secondary := n.En, n.Ar
	if l == Arabic {
		primary, secondary = n.Ar, n.En
	}
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return secondary
}

// Empty reports whether both halves are blank.
func (n Name) Empty() bool {
	return strings.TrimSpace(n.En) == "" && strings.TrimSpace(n.Ar) == ""
}
