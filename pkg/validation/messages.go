package validation

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/locale"
)

// Message codes produced by the built-in rules.
const (
	CodeRequired    = "required"
	CodeMinLength   = "minLength"
	CodeMinItems    = "minItems"
	CodeInvalid     = "invalid"
	CodeMinChoices  = "minChoices"
	CodePastDate    = "pastDate"
	CodeInvalidEnum = "invalidEnum"
)

var messages = map[locale.Locale]map[string]string{
	locale.English: {
		CodeRequired:    "This field is required",
		CodeMinLength:   "Must be at least %d characters",
		CodeMinItems:    "Must contain at least %d items",
		CodeInvalid:     "Invalid value",
		CodeMinChoices:  "Add at least %d choices",
		CodePastDate:    "Past dates are not allowed",
		CodeInvalidEnum: "Select one of the available options",
	},
	locale.Arabic: {
		CodeRequired:    "هذا الحقل مطلوب",
		CodeMinLength:   "يجب أن يحتوي على %d أحرف على الأقل",
		CodeMinItems:    "يجب أن يحتوي على %d عناصر على الأقل",
		CodeInvalid:     "قيمة غير صالحة",
		CodeMinChoices:  "أضف %d خيارات على الأقل",
		CodePastDate:    "لا يسمح بالتواريخ السابقة",
		CodeInvalidEnum: "اختر أحد الخيارات المتاحة",
	},
}

// Message renders the message for code in the given locale. Unknown codes are
// returned unchanged.
func Message(l locale.Locale, code string, args ...any) string {
	table, ok := messages[l]
	if !ok {
		table = messages[locale.Default]
	}
	format, ok := table[code]
	if !ok {
		return code
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
