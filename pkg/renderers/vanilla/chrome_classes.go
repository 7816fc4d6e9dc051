package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm     ChromeClass = "fb-form"
	ClassHeader   ChromeClass = "fb-header"
	ClassField    ChromeClass = "fb-field"
	ClassLabel    ChromeClass = "fb-label"
	ClassRequired ChromeClass = "fb-required"
	ClassError    ChromeClass = "fb-error"
	ClassErrors   ChromeClass = "fb-errors"
	ClassChoices  ChromeClass = "fb-choices"
	ClassChoice   ChromeClass = "fb-choice"
	ClassReveal   ChromeClass = "fb-reveal"
	ClassActions  ChromeClass = "fb-actions"
)
