// Package validate adapts OpenAPI component schemas to the record
// validator port.
package validate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"scenforge/domain/core"
	"scenforge/domain/scenario"
)

// SchemaValidator checks assembled records against one named component
// schema of an OpenAPI 3 document. Unknown schema names fail at
// construction; validation failures wrap core.ErrValidation so callers can
// classify without inspecting the library's error shape.
type SchemaValidator struct {
	name   string
	schema *openapi3.Schema
}

// NewSchemaValidator builds a validator from raw document bytes (JSON or
// YAML) and a component schema name.
func NewSchemaValidator(document []byte, name string) (*SchemaValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return fromDocument(doc, name)
}

// NewSchemaValidatorFromFile builds a validator from a document on disk.
func NewSchemaValidatorFromFile(path, name string) (*SchemaValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %q: %w", path, err)
	}
	return fromDocument(doc, name)
}

func fromDocument(doc *openapi3.T, name string) (*SchemaValidator, error) {
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi document has no components section")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("schema %q not found in components", name)
	}
	return &SchemaValidator{name: name, schema: ref.Value}, nil
}

// Validate checks the record against the schema and returns it unchanged on
// success. The record round-trips through JSON first so integer leaves take
// the float64 form the schema walker validates against.
func (v *SchemaValidator) Validate(ctx context.Context, record scenario.Record) (scenario.Record, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, core.NewValidationError(err)
	}
	var plain map[string]any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, core.NewValidationError(err)
	}
	if err := v.schema.VisitJSON(plain); err != nil {
		return nil, core.NewValidationError(fmt.Errorf("schema %q: %w", v.name, err))
	}
	return record, nil
}
