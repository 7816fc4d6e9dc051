package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// Version is the OpenAPI version of generated documents.
	Version = "3.0.3"

	extStepID = "x-step-id"
	draftID   = "draft"
)

// OperationID returns the id of the submit operation for the step at index
// (zero based).
func OperationID(index int) string {
	return fmt.Sprintf("submitStep%d", index+1)
}

// SchemaName returns the component name holding the schema of the step at
// index (zero based).
func SchemaName(index int) string {
	return fmt.Sprintf("Step%dSubmission", index+1)
}

// SubmissionPath returns the route a respondent posts step values to.
func SubmissionPath(app model.Application, step model.Step) string {
	return "/applications/" + pathID(app.ID) + "/steps/" + pathID(step.ID) + "/submissions"
}

// Document builds an OpenAPI document with one submitStep{n} POST operation
// per step of app.
func Document(app model.Application) *openapi3.T {
	title := locale.Name{En: app.NameEn, Ar: app.NameAr}.Display(locale.English)
	if title == "" {
		title = "Application " + pathID(app.ID)
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   title,
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(app.Steps)),
		},
	}

	for i, step := range app.Steps {
		name := SchemaName(i)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", SchemaForStep(step))
		ref := openapi3.NewSchemaRef("#/components/schemas/"+name, doc.Components.Schemas[name].Value)

		body := openapi3.NewRequestBody().
			WithDescription("Values keyed by field id").
			WithRequired(true).
			WithJSONSchemaRef(ref)

		accepted := "Submission accepted"
		rejected := "Validation failed; messages keyed by field id"
		responses := openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(accepted)}),
			openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription(rejected).
				WithJSONSchema(validationErrorsSchema())}),
		)

		operation := &openapi3.Operation{
			OperationID: OperationID(i),
			Summary:     "Submit " + step.Label(locale.English),
			Tags:        []string{"submissions"},
			RequestBody: &openapi3.RequestBodyRef{Value: body},
			Responses:   responses,
			Extensions:  map[string]any{extStepID: step.ID},
		}
		doc.Paths.Set(SubmissionPath(app, step), &openapi3.PathItem{Post: operation})
	}
	return doc
}

// MarshalYAML encodes doc as block-style YAML, keeping the key order of its
// JSON form.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal document: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("openapi: convert document: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return out, nil
}

func blockStyle(node *yaml.Node) {
	node.Style &^= yaml.FlowStyle
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" && !strings.ContainsAny(node.Value, ":#{}[]\n") {
		node.Style &^= yaml.DoubleQuotedStyle
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func validationErrorsSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().WithAdditionalProperties(messages)
}

func pathID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return draftID
	}
	return strings.NewReplacer("/", "-", "{", "", "}", "").Replace(id)
}
