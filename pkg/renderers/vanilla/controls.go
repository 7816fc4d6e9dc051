package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/control"
	"github.com/goliatone/go-formbuilder/pkg/locale"
)

var revealLabel = locale.Name{En: "Show", Ar: "إظهار"}

func controlID(name string) string {
	return "fb-" + strings.TrimSpace(name)
}

// controlMarkup renders the wrapper, label, input, and inline error for c.
func controlMarkup(c *control.Control) string {
	id := controlID(c.Name)
	var b strings.Builder
	b.Grow(512)

	b.WriteString(`<div class="` + string(ClassField) + `" data-field-id="` + attr(c.Name) + `" data-type="` + attr(string(c.Type)) + `">`)

	labelTag := "label"
	if c.Type == control.TypeChoice {
		labelTag = "span"
	}
	b.WriteString("<" + labelTag + ` class="` + string(ClassLabel) + `" id="` + id + `-label"`)
	if labelTag == "label" {
		b.WriteString(` for="` + id + `"`)
	}
	b.WriteString(">" + sanitizeText(c.Label))
	if c.Required {
		b.WriteString(`<span class="` + string(ClassRequired) + `" aria-hidden="true">*</span>`)
	}
	b.WriteString("</" + labelTag + ">")

	switch c.Type {
	case control.TypeChoice:
		writeChoice(&b, c, id)
	case control.TypeSelect:
		writeSelect(&b, c, id)
	case control.TypeTextarea:
		writeTextarea(&b, c, id)
	case control.TypePassword:
		b.WriteString(`<div class="fb-password">`)
		writeInput(&b, c, id)
		b.WriteString(`<button type="button" class="` + string(ClassReveal) + `" data-reveal-for="` + id + `" aria-controls="` + id + `">` + attr(revealLabel.Display(c.Locale)) + `</button></div>`)
	default:
		writeInput(&b, c, id)
	}

	if c.Error != "" {
		b.WriteString(`<p class="` + string(ClassError) + `" id="` + id + `-error" role="alert">` + sanitizeText(c.Error) + `</p>`)
	}
	b.WriteString("</div>")
	return b.String()
}

func writeCommonAttrs(b *strings.Builder, c *control.Control, id string) {
	b.WriteString(` id="` + id + `" name="` + attr(c.Name) + `"`)
	if c.Required {
		b.WriteString(` required aria-required="true"`)
	}
	if c.Error != "" {
		b.WriteString(` aria-invalid="true" aria-describedby="` + id + `-error"`)
	}
}

func writeInput(b *strings.Builder, c *control.Control, id string) {
	b.WriteString(`<input type="` + attr(c.InputType()) + `"`)
	writeCommonAttrs(b, c, id)
	if value := c.Value(); value != "" {
		b.WriteString(` value="` + attr(value) + `"`)
	}
	if c.Placeholder != "" {
		b.WriteString(` placeholder="` + attr(c.Placeholder) + `"`)
	}
	switch c.Type {
	case control.TypeDate:
		b.WriteString(` data-format="yyyy-MM-dd" inputmode="numeric"`)
		if c.DisablePastDates {
			b.WriteString(` data-disable-past="true"`)
		}
	case control.TypeTime:
		b.WriteString(` data-format="HH:mm" inputmode="numeric"`)
	case control.TypeTel:
		b.WriteString(` data-default-country="` + control.DefaultCountryCode + `" autocomplete="tel"`)
	case control.TypeNumber:
		b.WriteString(` inputmode="decimal"`)
	case control.TypePassword:
		b.WriteString(` autocomplete="current-password"`)
	}
	b.WriteString(">")
}

func writeTextarea(b *strings.Builder, c *control.Control, id string) {
	rows := c.Rows
	if rows <= 0 {
		rows = control.DefaultRows
	}
	b.WriteString(`<textarea rows="` + strconv.Itoa(rows) + `"`)
	writeCommonAttrs(b, c, id)
	if c.Placeholder != "" {
		b.WriteString(` placeholder="` + attr(c.Placeholder) + `"`)
	}
	b.WriteString(">" + attr(c.Value()) + "</textarea>")
}

func writeSelect(b *strings.Builder, c *control.Control, id string) {
	b.WriteString("<select")
	writeCommonAttrs(b, c, id)
	if c.Options == nil && c.Loader != nil {
		b.WriteString(` data-remote="true"`)
	}
	b.WriteString(">")
	b.WriteString(`<option value="">` + attr(c.Placeholder) + `</option>`)
	current := c.Value()
	for _, opt := range c.MenuOptions() {
		b.WriteString(`<option value="` + attr(opt.Value) + `"`)
		if opt.IsSeeMore() {
			b.WriteString(` data-see-more="true"`)
		} else if opt.Value == current {
			b.WriteString(" selected")
		}
		b.WriteString(">" + sanitizeText(opt.Label) + "</option>")
	}
	b.WriteString("</select>")
}

func writeChoice(b *strings.Builder, c *control.Control, id string) {
	current := c.Value()
	b.WriteString(`<div class="` + string(ClassChoices) + `" id="` + id + `" role="group" aria-labelledby="` + id + `-label">`)
	for _, opt := range c.MenuOptions() {
		pressed := "false"
		if opt.Value == current {
			pressed = "true"
		}
		b.WriteString(`<button type="button" class="` + string(ClassChoice) + `" data-value="` + attr(opt.Value) + `" aria-pressed="` + pressed + `">` + sanitizeText(opt.Label) + `</button>`)
	}
	b.WriteString(`</div><input type="hidden" name="` + attr(c.Name) + `" value="` + attr(current) + `">`)
}
