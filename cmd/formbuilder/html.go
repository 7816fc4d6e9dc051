package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

func htmlFlags(fs *pflag.FlagSet) {
	draftFlags(fs)
	fs.StringP("output", "o", "", "write the markup to a file instead of stdout")
	fs.String("action", "", "form action (defaults to the submission path)")
}

func runHTML(ctx context.Context, e *env, _ []string) error {
	app, step, err := loadStep(ctx, e)
	if err != nil {
		return err
	}
	renderer, err := vanilla.New(vanilla.WithDefaultStyles(), vanilla.WithLogger(e.log))
	if err != nil {
		return err
	}

	action := stringFlag(e.flags, "action")
	if action == "" {
		action = openapi.SubmissionPath(app, step)
	}
	out, err := renderer.Render(ctx, step, render.RenderOptions{
		Locale: e.locale,
		Action: action,
		Method: "post",
		Hidden: []render.HiddenField{render.Hidden("stepId", step.ID)},
	})
	if err != nil {
		return err
	}

	if path := stringFlag(e.flags, "output"); path != "" {
		return os.WriteFile(path, out, 0o644)
	}
	_, err = e.out.Write(out)
	return err
}
