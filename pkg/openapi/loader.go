package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrEmptyDocument is returned by Parse for empty input.
var ErrEmptyDocument = errors.New("openapi: document payload is empty")

// Parse loads raw JSON or YAML and validates it as an OpenAPI 3 document.
func Parse(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// SubmitOperation is one step submission found in a document.
type SubmitOperation struct {
	ID     string
	Path   string
	StepID string
	Schema *openapi3.Schema
}

// SubmitOperations lists the POST operations carrying a step id, sorted by
// operation id.
func SubmitOperations(doc *openapi3.T) []SubmitOperation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	var out []SubmitOperation
	for path, item := range doc.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		stepID, _ := item.Post.Extensions[extStepID].(string)
		if stepID == "" {
			continue
		}
		op := SubmitOperation{ID: item.Post.OperationID, Path: path, StepID: stepID}
		if body := item.Post.RequestBody; body != nil && body.Value != nil {
			if media := body.Value.Content.Get("application/json"); media != nil && media.Schema != nil {
				op.Schema = media.Schema.Value
			}
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
