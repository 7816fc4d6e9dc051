package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

func openAPIFlags(fs *pflag.FlagSet) {
	fs.String("draft", "", "id of the saved draft")
	fs.Bool("json", false, "print JSON instead of YAML")
}

func runOpenAPI(ctx context.Context, e *env, _ []string) error {
	id := stringFlag(e.flags, "draft")
	if id == "" {
		return errUsage
	}
	app, err := e.drafts.Load(ctx, id)
	if err != nil {
		return err
	}
	doc := openapi.Document(app)

	var out []byte
	if boolFlag(e.flags, "json") {
		out, err = doc.MarshalJSON()
		out = append(out, '\n')
	} else {
		out, err = openapi.MarshalYAML(doc)
	}
	if err != nil {
		return err
	}
	_, err = e.out.Write(out)
	return err
}
