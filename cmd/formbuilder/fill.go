package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/options"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/restclient"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func draftFlags(fs *pflag.FlagSet) {
	fs.String("draft", "", "id of the saved draft")
	fs.String("step", "", "id of the step (defaults to the first step)")
}

func fillFlags(fs *pflag.FlagSet) {
	draftFlags(fs)
	fs.StringToString("remote", nil, "field=url pairs loading select options from a listing endpoint")
	fs.StringToString("categories", nil, "field=menuId pairs loading select options from menu categories")
	fs.Bool("no-past-dates", false, "reject dates before today")
	fs.Bool("submit", false, "post the answers to the API")
}

// loadStep resolves the draft and step named by --draft and --step.
func loadStep(ctx context.Context, e *env) (model.Application, model.Step, error) {
	id := stringFlag(e.flags, "draft")
	if id == "" {
		return model.Application{}, model.Step{}, fmt.Errorf("%w: --draft is required", errUsage)
	}
	app, err := e.drafts.Load(ctx, id)
	if err != nil {
		return model.Application{}, model.Step{}, err
	}
	if len(app.Steps) == 0 {
		return model.Application{}, model.Step{}, fmt.Errorf("formbuilder: draft %s has no steps", id)
	}
	stepID := stringFlag(e.flags, "step")
	if stepID == "" {
		return app, app.Steps[0], nil
	}
	step, ok := app.FindStep(stepID)
	if !ok {
		return model.Application{}, model.Step{}, fmt.Errorf("formbuilder: draft %s has no step %s", id, stepID)
	}
	return app, step, nil
}

func stringMapFlag(fs *pflag.FlagSet, name string) map[string]string {
	value, _ := fs.GetStringToString(name)
	return value
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// remoteLoaders builds one loader per --remote and --categories entry. The
// returned cleanup closes the loaders and the shared cache.
func remoteLoaders(e *env) (map[string]*options.Loader, func(), error) {
	remote := stringMapFlag(e.flags, "remote")
	categories := stringMapFlag(e.flags, "categories")
	loaders := make(map[string]*options.Loader, len(remote)+len(categories))
	var cache *options.CachedFetcher
	cleanup := func() {
		for _, loader := range loaders {
			loader.Close()
		}
		if cache != nil {
			cache.Close()
		}
	}

	if len(remote) > 0 {
		fetcher := options.NewHTTPFetcher(
			options.WithHTTPClient(&http.Client{Timeout: e.cfg.API.Timeout}),
			options.WithLocale(e.locale),
			options.WithLogger(e.log),
		)
		var err error
		if cache, err = options.NewCachedFetcher(fetcher, options.DefaultCacheConfig()); err != nil {
			return nil, cleanup, err
		}
		for _, field := range sortedKeys(remote) {
			loaders[field] = options.NewLoader(
				options.WithEndpoint(remote[field], "search"),
				options.WithFetcher(cache),
				options.WithLoaderLocale(e.locale),
				options.WithLoaderLogger(e.log),
			)
		}
	}

	if len(categories) > 0 {
		client, err := newAPIClient(e)
		if err != nil {
			return nil, cleanup, err
		}
		for _, field := range sortedKeys(categories) {
			loaders[field] = client.Menus().CategoryLoader(categories[field], options.WithLoaderLogger(e.log))
		}
	}
	return loaders, cleanup, nil
}

func runFill(ctx context.Context, e *env, _ []string) error {
	app, step, err := loadStep(ctx, e)
	if err != nil {
		return err
	}
	loaders, cleanup, err := remoteLoaders(e)
	defer cleanup()
	if err != nil {
		return err
	}

	submit := boolFlag(e.flags, "submit")
	format := tui.ParseOutputFormat(e.cfg.General.Format)
	if submit {
		format = tui.OutputFormatJSON
	}
	ropts := []tui.Option{
		tui.WithPromptDriver(e.driver),
		tui.WithOutputFormat(format),
		tui.WithLogger(e.log),
	}
	if boolFlag(e.flags, "no-past-dates") {
		ropts = append(ropts, tui.WithDisablePastDates())
	}
	renderer, err := tui.New(ropts...)
	if err != nil {
		return err
	}

	opts := render.RenderOptions{Locale: e.locale, Loaders: loaders}
	for {
		out, err := renderer.Render(ctx, step, opts)
		if err != nil {
			return err
		}
		if !submit {
			_, err = e.out.Write(append(out, '\n'))
			return err
		}

		var values map[string]any
		if err := json.Unmarshal(out, &values); err != nil {
			return fmt.Errorf("formbuilder: decode answers: %w", err)
		}
		errs := openapi.ValidateSubmission(step, values, openapi.WithLocale(e.locale))
		if errs.Empty() {
			errs, err = submitAnswers(ctx, e, app, step, values)
			if err != nil {
				return err
			}
			if errs.Empty() {
				fmt.Fprintln(e.out, e.text("Submitted", "تم الإرسال"))
				return nil
			}
		}
		opts.Values = values
		opts.Errors = errs
	}
}

// submitAnswers posts values and returns the field errors of a rejected
// submission.
func submitAnswers(ctx context.Context, e *env, app model.Application, step model.Step, values map[string]any) (validation.Errors, error) {
	client, err := newAPIClient(e)
	if err != nil {
		return nil, err
	}
	err = client.Applications().SubmitStep(ctx, app, step, values)
	if errs, ok := restclient.FieldErrors(err); ok {
		return errs, nil
	}
	return validation.Errors{}, err
}
