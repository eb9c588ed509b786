// Package models holds the cross-layer DTOs: declarative generation plans
// and provider usage snapshots.
package models

import (
	"fmt"
	"strings"

	"scenforge/domain/core"
)

// GenerationPlan is the declarative form of one engine configuration:
// an optional seed (integer or string), an optional baseline record, an
// optional schema reference, and an ordered list of operation specs.
type GenerationPlan struct {
	Seed       any             `yaml:"seed,omitempty" json:"seed,omitempty"`
	Baseline   map[string]any  `yaml:"baseline,omitempty" json:"baseline,omitempty"`
	Schema     *SchemaRef      `yaml:"schema,omitempty" json:"schema,omitempty"`
	Operations []OperationSpec `yaml:"operations" json:"operations"`
}

// SchemaRef names a component schema inside an OpenAPI document to validate
// the final record against.
type SchemaRef struct {
	Document string `yaml:"document" json:"document"`
	Name     string `yaml:"name" json:"name"`
}

// OperationSpec is one scheduled step in declarative form. Kind selects the
// operation type; Params decode into the kind's typed parameters.
type OperationSpec struct {
	Kind   string         `yaml:"kind" json:"kind"`
	Path   string         `yaml:"path" json:"path"`
	Params map[string]any `yaml:"params" json:"params"`
}

// Operation kinds accepted in plans.
const (
	KindGaussian    = "gaussian"
	KindUniform     = "uniform"
	KindPoisson     = "poisson"
	KindCategorical = "categorical"
	KindGenerative  = "generative"
)

// WeightEntry is the ordered-array form weights take in plan documents.
// A map cannot carry insertion order, so plans spell weights explicitly.
type WeightEntry struct {
	Label  string  `yaml:"label" json:"label" mapstructure:"label"`
	Weight float64 `yaml:"weight" json:"weight" mapstructure:"weight"`
}

// Validate checks the plan's document-level invariants. Parameter contents
// are checked later, when the plan compiles into an engine.
func (p *GenerationPlan) Validate() error {
	if len(p.Operations) == 0 {
		return core.NewInvalidParameterError("operations", "must contain at least one entry")
	}
	for i, op := range p.Operations {
		if strings.TrimSpace(op.Kind) == "" {
			return core.NewInvalidParameterError("kind", fmt.Sprintf("is missing for operation %d", i))
		}
		if strings.TrimSpace(op.Path) == "" {
			return core.NewInvalidParameterError("path", fmt.Sprintf("is missing for operation %d", i))
		}
	}
	if p.Schema != nil {
		if strings.TrimSpace(p.Schema.Document) == "" || strings.TrimSpace(p.Schema.Name) == "" {
			return core.NewInvalidParameterError("schema", "needs both document and name")
		}
	}
	return nil
}
