package restclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

// Applications wraps the application resource.
type Applications struct {
	client *Client
}

// Applications returns the application resource helpers.
func (c *Client) Applications() *Applications {
	return &Applications{client: c}
}

// Get fetches one application.
func (a *Applications) Get(ctx context.Context, id string) (model.Application, error) {
	if strings.TrimSpace(id) == "" {
		return model.Application{}, ErrMissingID
	}
	var out model.Application
	err := a.client.Get(ctx, "applications/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Save creates app when it has no id and patches it otherwise. Ids assigned
// by the server are written back into app, matching steps, fields, and
// choices by position.
func (a *Applications) Save(ctx context.Context, app *model.Application) error {
	if app == nil {
		return ErrMissingID
	}
	var out model.Application
	var err error
	if strings.TrimSpace(app.ID) == "" {
		err = a.client.Post(ctx, "applications", app, &out)
	} else {
		err = a.client.Patch(ctx, "applications/"+url.PathEscape(app.ID), app, &out)
	}
	if err != nil {
		return err
	}
	reconcile(app, out)
	a.client.logger.Infow("application saved", "application_id", app.ID, "steps", len(app.Steps))
	return nil
}

// SaveComposer saves the composer's application and loads the reconciled
// result back so later edits address the server ids.
func (a *Applications) SaveComposer(ctx context.Context, composer *builder.Composer) (model.Application, error) {
	app := composer.Application()
	if err := a.Save(ctx, &app); err != nil {
		return model.Application{}, err
	}
	composer.Load(app)
	return composer.Application(), nil
}

// Delete removes an application.
func (a *Applications) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	return a.client.Delete(ctx, "applications/"+url.PathEscape(id), nil)
}

// SubmitStep posts respondent values for one step to its submission route.
// A 422 response surfaces as a *StatusError whose Errors are keyed by field
// id.
func (a *Applications) SubmitStep(ctx context.Context, app model.Application, step model.Step, values map[string]any) error {
	return a.client.Post(ctx, openapi.SubmissionPath(app, step), values, nil)
}

func reconcile(local *model.Application, remote model.Application) {
	if remote.ID != "" {
		local.ID = remote.ID
	}
	for i := range local.Steps {
		if i >= len(remote.Steps) {
			break
		}
		step, server := &local.Steps[i], remote.Steps[i]
		if server.ID != "" {
			step.ID = server.ID
		}
		for j := range step.Fields {
			if j >= len(server.Fields) {
				break
			}
			field, serverField := &step.Fields[j], server.Fields[j]
			if serverField.ID != "" {
				field.ID = serverField.ID
			}
			for k := range field.Choices {
				if k < len(serverField.Choices) && serverField.Choices[k].ID != "" {
					field.Choices[k].ID = serverField.Choices[k].ID
				}
			}
		}
	}
}
