package app

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"scenforge/domain/core"
	"scenforge/domain/sample"
	"scenforge/internal"
	"scenforge/models"
	"scenforge/ports"
)

// CompileOptions carries the collaborators a plan compiles against. Seed,
// when set, overrides the plan's own seed (the batch service uses this to
// inject derived per-run seeds).
type CompileOptions struct {
	Seed      *core.Seed
	Bridge    ports.GenerativeBridge
	Validator ports.RecordValidator
	Logger    *internal.Logger
}

// Typed parameter shapes the operation specs decode into. Decoding rejects
// unused keys so a typo in a plan fails loudly instead of silently falling
// back to a zero value.
type gaussianParams struct {
	Mean   float64 `mapstructure:"mean"`
	StdDev float64 `mapstructure:"std_dev"`
}

type uniformParams struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

type poissonParams struct {
	Lambda float64 `mapstructure:"lambda"`
}

type categoricalParams struct {
	Weights []models.WeightEntry `mapstructure:"weights"`
}

type generativeParams struct {
	Provider  string  `mapstructure:"provider"`
	Prompt    string  `mapstructure:"prompt"`
	Model     string  `mapstructure:"model"`
	TimeoutMs int     `mapstructure:"timeout_ms"`
	Fallback  *string `mapstructure:"fallback"`
}

// CompileEngine turns a declarative plan into a configured engine. The
// engine is fresh: compiling the same plan twice gives two independent
// engines over the same seed, which is how a run is reproduced.
func CompileEngine(plan models.GenerationPlan, opts CompileOptions) (*Engine, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == nil {
		parsed, err := core.ParseSeed(plan.Seed)
		if err != nil {
			return nil, err
		}
		seed = parsed.Ptr()
	}

	engine := NewEngine(Config{Seed: seed, Providers: opts.Bridge, Logger: opts.Logger})
	if plan.Baseline != nil {
		if err := engine.SetBaseline(plan.Baseline); err != nil {
			return nil, err
		}
	}
	if opts.Validator != nil {
		if err := engine.AttachValidator(opts.Validator); err != nil {
			return nil, err
		}
	}

	for i, spec := range plan.Operations {
		if err := scheduleSpec(engine, spec); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, spec.Path, err)
		}
	}
	return engine, nil
}

func scheduleSpec(engine *Engine, spec models.OperationSpec) error {
	switch spec.Kind {
	case models.KindGaussian:
		var p gaussianParams
		if err := decodeParams(spec.Params, &p); err != nil {
			return err
		}
		return engine.AddGaussian(spec.Path, p.Mean, p.StdDev)
	case models.KindUniform:
		var p uniformParams
		if err := decodeParams(spec.Params, &p); err != nil {
			return err
		}
		return engine.AddUniform(spec.Path, p.Min, p.Max)
	case models.KindPoisson:
		var p poissonParams
		if err := decodeParams(spec.Params, &p); err != nil {
			return err
		}
		return engine.AddPoisson(spec.Path, p.Lambda)
	case models.KindCategorical:
		var p categoricalParams
		if err := decodeParams(spec.Params, &p); err != nil {
			return err
		}
		weights, err := toWeights(p.Weights)
		if err != nil {
			return err
		}
		return engine.AddCategorical(spec.Path, weights)
	case models.KindGenerative:
		var p generativeParams
		if err := decodeParams(spec.Params, &p); err != nil {
			return err
		}
		if p.TimeoutMs < 0 {
			return core.NewInvalidParameterError("timeout_ms", "must be non-negative")
		}
		return engine.AddGenerative(spec.Path, GenerativeSpec{
			Provider: p.Provider,
			Prompt:   p.Prompt,
			Model:    p.Model,
			Timeout:  time.Duration(p.TimeoutMs) * time.Millisecond,
			Fallback: p.Fallback,
		})
	default:
		return core.NewInvalidParameterError("kind", fmt.Sprintf("%q is not a known operation", spec.Kind))
	}
}

// decodeParams maps the free-form params object onto a typed struct,
// rejecting keys the kind does not define.
func decodeParams(params map[string]any, target any) error {
	if params == nil {
		params = map[string]any{}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(params); err != nil {
		return core.NewInvalidParameterError("params", err.Error())
	}
	return nil
}

// toWeights converts plan weight entries to the ordered domain form,
// enforcing label uniqueness; the entry order is preserved because it
// defines the selection walk and the boundary fallback.
func toWeights(entries []models.WeightEntry) (sample.Weights, error) {
	seen := make(map[string]struct{}, len(entries))
	weights := make(sample.Weights, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Label]; dup {
			return nil, core.NewInvalidParameterError("weights", fmt.Sprintf("label %q appears twice", entry.Label))
		}
		seen[entry.Label] = struct{}{}
		weights = append(weights, sample.Weight{Label: entry.Label, Value: entry.Weight})
	}
	return weights, nil
}
