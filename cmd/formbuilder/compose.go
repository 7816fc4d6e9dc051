package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/restclient"
	"github.com/goliatone/go-formbuilder/pkg/schedule"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func composeFlags(fs *pflag.FlagSet) {
	fs.String("draft", "", "id of a saved draft to continue")
	fs.String("name-en", "", "English application name for a new draft")
	fs.String("name-ar", "", "Arabic application name for a new draft")
	fs.String("menu", "", "menu id the application belongs to")
	fs.Bool("publish", false, "save the application to the API after composing")
}

func (e *env) text(en, ar string) string {
	return locale.Pick(e.locale, en, ar)
}

func (e *env) showErrors(ctx context.Context, err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	for _, key := range errs.Keys() {
		for _, msg := range errs[key] {
			_ = e.driver.Info(ctx, key+": "+msg)
		}
	}
	return nil
}

func runCompose(ctx context.Context, e *env, _ []string) error {
	composer := builder.New(builder.WithLocale(e.locale), builder.WithLogger(e.log))
	if id := stringFlag(e.flags, "draft"); id != "" {
		app, err := e.drafts.Load(ctx, id)
		if err != nil {
			return err
		}
		composer.Load(app)
	} else {
		name := locale.NewName(stringFlag(e.flags, "name-en"), stringFlag(e.flags, "name-ar"))
		composer.SetMeta("", stringFlag(e.flags, "menu"), name)
	}
	if composer.Len() == 0 {
		composer.AddStep()
	}

	saved, err := composeLoop(ctx, e, composer)
	if err != nil || !saved {
		return err
	}

	app, err := e.drafts.Save(ctx, composer.Application())
	if err != nil {
		return err
	}
	composer.Load(app)

	if boolFlag(e.flags, "publish") {
		if app, err = publish(ctx, e, composer); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.out, "%s %s\n", e.text("Saved draft", "تم حفظ المسودة"), app.ID)
	return nil
}

func composeLoop(ctx context.Context, e *env, composer *builder.Composer) (bool, error) {
	for {
		steps := composer.Steps()
		entries := make([]string, 0, len(steps)+3)
		for _, step := range steps {
			entries = append(entries, fmt.Sprintf("%s (%d)", step.Label(e.locale), len(step.Fields)))
		}
		addIdx, saveIdx, cancelIdx := len(entries), len(entries)+1, len(entries)+2
		entries = append(entries,
			e.text("Add step", "إضافة خطوة"),
			e.text("Save", "حفظ"),
			e.text("Cancel", "إلغاء"),
		)

		idx, err := e.driver.Select(ctx, tui.SelectConfig{Message: e.text("Steps", "الخطوات"), Options: entries})
		if err != nil {
			return false, err
		}
		switch {
		case idx < len(steps):
			if err := editStep(ctx, e, composer, steps[idx].ID); err != nil {
				return false, err
			}
		case idx == addIdx:
			composer.AddStep()
		case idx == saveIdx:
			return true, nil
		case idx == cancelIdx:
			return false, nil
		}
	}
}

func editStep(ctx context.Context, e *env, composer *builder.Composer, stepID string) error {
	for {
		step, ok := composer.Step(stepID)
		if !ok {
			return nil
		}
		entries := make([]string, 0, len(step.Fields)+4)
		for _, field := range step.Fields {
			entries = append(entries, fmt.Sprintf("%s [%s]", field.Label(e.locale), field.Type))
		}
		addIdx, renameIdx, deleteIdx, backIdx := len(entries), len(entries)+1, len(entries)+2, len(entries)+3
		entries = append(entries,
			e.text("Add field", "إضافة حقل"),
			e.text("Rename step", "إعادة تسمية الخطوة"),
			e.text("Delete step", "حذف الخطوة"),
			e.text("Back", "رجوع"),
		)

		idx, err := e.driver.Select(ctx, tui.SelectConfig{Message: step.Label(e.locale), Options: entries})
		if err != nil {
			return err
		}
		switch {
		case idx < len(step.Fields):
			if err := editField(ctx, e, composer, stepID, step.Fields[idx].ID); err != nil {
				return err
			}
		case idx == addIdx:
			drawer, err := composer.OpenFieldDrawer(stepID)
			if err != nil {
				return err
			}
			if err := fillDrawer(ctx, e, drawer); err != nil {
				return err
			}
		case idx == renameIdx:
			if err := renameStep(ctx, e, composer, step); err != nil {
				return err
			}
		case idx == deleteIdx:
			conf, err := composer.RequestDeleteStep(stepID)
			if err != nil {
				return err
			}
			if confirmed, err := confirmDelete(ctx, e, composer, conf); err != nil || confirmed {
				return err
			}
		case idx == backIdx:
			return nil
		}
	}
}

func editField(ctx context.Context, e *env, composer *builder.Composer, stepID, fieldID string) error {
	entries := []string{e.text("Edit", "تعديل"), e.text("Delete", "حذف"), e.text("Back", "رجوع")}
	idx, err := e.driver.Select(ctx, tui.SelectConfig{Message: e.text("Field", "الحقل"), Options: entries})
	if err != nil {
		return err
	}
	switch idx {
	case 0:
		drawer, err := composer.EditFieldDrawer(stepID, fieldID)
		if err != nil {
			return err
		}
		return fillDrawer(ctx, e, drawer)
	case 1:
		conf, err := composer.RequestDeleteField(stepID, fieldID)
		if err != nil {
			return err
		}
		_, err = confirmDelete(ctx, e, composer, conf)
		return err
	}
	return nil
}

func confirmDelete(ctx context.Context, e *env, composer *builder.Composer, conf builder.Confirmation) (bool, error) {
	ok, err := e.driver.Confirm(ctx, tui.ConfirmConfig{
		Message: fmt.Sprintf("%s %q?", e.text("Delete", "حذف"), conf.Label),
	})
	if err != nil {
		composer.Cancel(conf.Token)
		return false, err
	}
	if !ok {
		composer.Cancel(conf.Token)
		return false, nil
	}
	return composer.Confirm(conf.Token), nil
}

func renameStep(ctx context.Context, e *env, composer *builder.Composer, step model.Step) error {
	for {
		en, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Name (English)", "الاسم (بالإنجليزية)"), Default: step.NameEn})
		if err != nil {
			return err
		}
		ar, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Name (Arabic)", "الاسم (بالعربية)"), Default: step.NameAr})
		if err != nil {
			return err
		}
		err = composer.UpdateStep(step.ID, builder.NameInput{NameEn: en, NameAr: ar})
		if err == nil {
			return nil
		}
		if err := e.showErrors(ctx, err); err != nil {
			return err
		}
		step.NameEn, step.NameAr = en, ar
	}
}

func fillDrawer(ctx context.Context, e *env, drawer *builder.FieldDrawer) error {
	types := model.FieldTypes()
	for {
		draft := drawer.Draft()
		en, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Name (English)", "الاسم (بالإنجليزية)"), Default: draft.NameEn})
		if err != nil {
			return err
		}
		drawer.SetNameEn(en)
		ar, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Name (Arabic)", "الاسم (بالعربية)"), Default: draft.NameAr})
		if err != nil {
			return err
		}
		drawer.SetNameAr(ar)

		labels := make([]string, 0, len(types))
		current := 0
		for i, t := range types {
			labels = append(labels, string(t))
			if t == draft.Type {
				current = i
			}
		}
		idx, err := e.driver.Select(ctx, tui.SelectConfig{Message: e.text("Type", "النوع"), Options: labels, DefaultIndex: current})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(types) {
			continue
		}
		drawer.SetType(types[idx])

		required, err := e.driver.Confirm(ctx, tui.ConfirmConfig{Message: e.text("Required?", "إلزامي؟"), Default: draft.Required})
		if err != nil {
			return err
		}
		drawer.SetRequired(required)

		if types[idx].HasChoices() {
			if err := editChoices(ctx, e, drawer); err != nil {
				return err
			}
		}

		_, err = drawer.Submit()
		if err == nil {
			return nil
		}
		if err := e.showErrors(ctx, err); err != nil {
			return err
		}
	}
}

func editChoices(ctx context.Context, e *env, drawer *builder.FieldDrawer) error {
	for {
		choices := drawer.Choices()
		entries := make([]string, 0, len(choices)+4)
		for _, choice := range choices {
			entries = append(entries, "- "+choice.Label(e.locale))
		}
		addIdx, slotsIdx, datesIdx, doneIdx := len(entries), len(entries)+1, len(entries)+2, len(entries)+3
		entries = append(entries,
			e.text("Add choice", "إضافة خيار"),
			e.text("Add time slots", "إضافة فترات زمنية"),
			e.text("Add dates", "إضافة تواريخ"),
			e.text("Done", "تم"),
		)

		idx, err := e.driver.Select(ctx, tui.SelectConfig{Message: e.text("Choices", "الخيارات"), Options: entries})
		if err != nil {
			return err
		}
		switch {
		case idx < len(choices):
			drawer.RemoveChoice(choices[idx].ID)
			if msg := drawer.Errors().First(validation.KeyChoices); msg != "" {
				_ = e.driver.Info(ctx, msg)
			}
		case idx == addIdx:
			if err := addChoice(ctx, e, drawer); err != nil {
				return err
			}
		case idx == slotsIdx:
			if err := addSlotChoices(ctx, e, drawer); err != nil {
				return err
			}
		case idx == datesIdx:
			if err := addDateChoices(ctx, e, drawer); err != nil {
				return err
			}
		case idx == doneIdx:
			return nil
		}
	}
}

func addChoice(ctx context.Context, e *env, drawer *builder.FieldDrawer) error {
	editor := drawer.OpenChoiceEditor()
	en, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Choice (English)", "الخيار (بالإنجليزية)")})
	if err != nil {
		editor.Close()
		return err
	}
	ar, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Choice (Arabic)", "الخيار (بالعربية)")})
	if err != nil {
		editor.Close()
		return err
	}
	editor.SetNameEn(en)
	editor.SetNameAr(ar)
	if _, err := editor.Submit(); err != nil {
		editor.Close()
		return e.showErrors(ctx, err)
	}
	return nil
}

func submitChoices(drawer *builder.FieldDrawer, choices []model.Choice) error {
	for _, choice := range choices {
		editor := drawer.OpenChoiceEditor()
		editor.SetNameEn(choice.NameEn)
		editor.SetNameAr(choice.NameAr)
		if _, err := editor.Submit(); err != nil {
			return err
		}
	}
	return nil
}

func addSlotChoices(ctx context.Context, e *env, drawer *builder.FieldDrawer) error {
	start, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Start (HH:mm)", "البداية (HH:mm)")})
	if err != nil {
		return err
	}
	end, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("End (HH:mm)", "النهاية (HH:mm)")})
	if err != nil {
		return err
	}
	rawDuration, err := e.driver.Input(ctx, tui.InputConfig{Message: e.text("Slot length (e.g. 30m)", "مدة الفترة (مثال 30m)"), Default: "30m"})
	if err != nil {
		return err
	}
	duration, err := time.ParseDuration(strings.TrimSpace(rawDuration))
	if err != nil {
		return e.driver.Info(ctx, err.Error())
	}
	slots, err := schedule.Slots(start, end, duration)
	if err != nil {
		return e.driver.Info(ctx, err.Error())
	}
	return submitChoices(drawer, schedule.Choices(slots))
}

func addDateChoices(ctx context.Context, e *env, drawer *builder.FieldDrawer) error {
	var dates schedule.DateList
	for {
		raw, err := e.driver.Input(ctx, tui.InputConfig{
			Message: e.text("Date (yyyy-MM-dd, empty to finish)", "التاريخ (yyyy-MM-dd، اتركه فارغاً للإنهاء)"),
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			break
		}
		if err := dates.AddString(raw); err != nil {
			_ = e.driver.Info(ctx, err.Error())
		}
	}
	choices := make([]model.Choice, 0, dates.Len())
	for _, d := range dates.Strings() {
		choices = append(choices, model.Choice{NameEn: d, NameAr: d})
	}
	return submitChoices(drawer, choices)
}

func newAPIClient(e *env) (*restclient.Client, error) {
	if strings.TrimSpace(e.cfg.API.BaseURL) == "" {
		return nil, errors.New("formbuilder: --api-url is required")
	}
	return restclient.New(e.cfg.API.BaseURL,
		restclient.WithHTTPClient(&http.Client{Timeout: e.cfg.API.Timeout}),
		restclient.WithLocale(e.locale),
		restclient.WithToken(e.cfg.API.Token),
		restclient.WithLogger(e.log),
	)
}

func publish(ctx context.Context, e *env, composer *builder.Composer) (model.Application, error) {
	client, err := newAPIClient(e)
	if err != nil {
		return model.Application{}, err
	}
	var guard restclient.Submitter
	var app model.Application
	err = guard.Run(ctx, func(ctx context.Context) error {
		saved, err := client.Applications().SaveComposer(ctx, composer)
		if err != nil {
			return err
		}
		app, err = e.drafts.Save(ctx, saved)
		return err
	})
	return app, err
}
