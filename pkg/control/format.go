package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// normalize converts raw input into the canonical value for t.
func normalize(t Type, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}
	switch t {
	case TypeDate:
		parsed, err := time.Parse(DateLayout, value)
		if err != nil {
			return "", fmt.Errorf("%w: date %q", ErrInvalidValue, raw)
		}
		return parsed.Format(DateLayout), nil
	case TypeTime:
		return normalizeTime(value)
	case TypeTel:
		return NormalizePhone(value)
	case TypeColor:
		return NormalizeColor(value)
	case TypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("%w: number %q", ErrInvalidValue, raw)
		}
		return value, nil
	case TypeTextarea, TypePassword:
		// multi-line and secret values keep their inner whitespace.
		return raw, nil
	default:
		return value, nil
	}
}

func normalizeTime(value string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04:05", "3:04PM", "3:04 PM"} {
		if parsed, err := time.Parse(layout, strings.ToUpper(value)); err == nil {
			return parsed.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: time %q", ErrInvalidValue, value)
}

// NormalizePhone returns the number in E.164 form. Numbers without an
// international prefix get DefaultCountryCode; a single trunk zero is
// dropped.
func NormalizePhone(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	international := strings.HasPrefix(value, "+")

	var digits strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(toASCIIDigit(r))
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("%w: phone %q", ErrInvalidValue, raw)
		}
	}
	number := digits.String()
	if number == "" {
		return "", nil
	}
	if !international && strings.HasPrefix(number, "00") {
		number = strings.TrimPrefix(number, "00")
		international = true
	}
	if !international {
		number = strings.TrimPrefix(number, "0")
		number = strings.TrimPrefix(DefaultCountryCode, "+") + number
	}
	if len(number) < 8 || len(number) > 15 {
		return "", fmt.Errorf("%w: phone %q", ErrInvalidValue, raw)
	}
	return "+" + number, nil
}

// toASCIIDigit maps Arabic-Indic and other Unicode decimal digits to 0-9.
func toASCIIDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	for _, base := range []rune{0x0660, 0x06F0} {
		if r >= base && r <= base+9 {
			return '0' + (r - base)
		}
	}
	return r
}

// NormalizeColor returns a lower-case #rrggbb value. Short #rgb forms are
// expanded and a missing # is tolerated.
func NormalizeColor(raw string) (string, error) {
	value := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) != 6 {
		return "", fmt.Errorf("%w: color %q", ErrInvalidValue, raw)
	}
	if _, err := strconv.ParseUint(value, 16, 32); err != nil {
		return "", fmt.Errorf("%w: color %q", ErrInvalidValue, raw)
	}
	return "#" + value, nil
}
