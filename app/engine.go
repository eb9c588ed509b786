// Package app wires the domain pieces into the scheduling engine, the plan
// compiler, and the batch service.
package app

import (
	"context"
	"fmt"
	"time"

	"scenforge/adapters/llm"
	"scenforge/domain/core"
	"scenforge/domain/random"
	"scenforge/domain/sample"
	"scenforge/domain/scenario"
	"scenforge/internal"
	"scenforge/ports"
)

// engineState tracks the run lifecycle. Scheduling is legal only while
// configuring; a terminal engine rejects further runs.
type engineState int

const (
	stateConfiguring engineState = iota
	stateRunning
	stateDone
	stateFailed
)

// Config holds engine construction options. A nil Seed derives one from the
// clock, so callers that need reproducibility must always pass a seed. A
// nil Providers bridge gets a fresh instance-owned registry; engines share
// a registry only when callers pass the same one explicitly.
type Config struct {
	Seed      *core.Seed
	Providers ports.GenerativeBridge
	Logger    *internal.Logger
}

// GenerativeSpec frames one generative operation: the provider to resolve
// at run time, the prompt, an optional model override, an optional timeout
// to race the call against, and an optional fallback that absorbs any
// failure mode.
type GenerativeSpec struct {
	Provider string
	Prompt   string
	Model    string
	Timeout  time.Duration
	Fallback *string
}

// Engine accumulates an ordered sequence of field operations and executes
// them against one exclusively-owned deterministic generator. Operations
// run strictly in registration order, one at a time, so the output depends
// only on (seed, operation sequence) and never on wall-clock timing of
// generative calls.
type Engine struct {
	id        core.RunID
	seed      core.Seed
	generator *random.Generator
	bridge    ports.GenerativeBridge
	validator ports.RecordValidator
	baseline  scenario.Record
	ops       []scenario.Operation
	state     engineState
	logger    *internal.Logger
}

// NewEngine creates an engine positioned at the start of its seed's stream.
func NewEngine(cfg Config) *Engine {
	seed := core.SeedFromTime()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	bridge := cfg.Providers
	if bridge == nil {
		bridge = llm.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{
		id:        core.NewRunID(),
		seed:      seed,
		generator: random.New(seed),
		bridge:    bridge,
		logger:    logger,
	}
}

// ID returns the engine's run identifier.
func (e *Engine) ID() core.RunID {
	return e.id
}

// Seed returns the seed the engine's generator started from.
func (e *Engine) Seed() core.Seed {
	return e.seed
}

// Generator exposes the engine's generator so modifier-style consumers can
// draw from the same stream after a run. Not safe for use while a run with
// generative operations is in flight.
func (e *Engine) Generator() *random.Generator {
	return e.generator
}

// SetBaseline stores a reference to the caller's starting record. The
// engine deep-copies it when the run starts, so mutating the original
// afterwards never affects the run's output.
func (e *Engine) SetBaseline(rec scenario.Record) error {
	if e.state != stateConfiguring {
		return core.ErrSequenceFrozen
	}
	e.baseline = rec
	return nil
}

// AttachValidator sets the validator the assembled record passes through
// after all operations complete.
func (e *Engine) AttachValidator(v ports.RecordValidator) error {
	if e.state != stateConfiguring {
		return core.ErrSequenceFrozen
	}
	e.validator = v
	return nil
}

// RegisterProvider binds a provider name on the engine's bridge. Legal at
// any time: the registry is shared mutable state, not frozen by the run,
// and names bind lazily at invocation.
func (e *Engine) RegisterProvider(name string, provider ports.TextProvider) {
	e.bridge.Register(name, provider)
}

// RegisterProviderFunc binds a bare function as a provider.
func (e *Engine) RegisterProviderFunc(name string, fn ports.ProviderFunc) {
	e.bridge.Register(name, fn)
}

// Schedule appends one operation to the sequence. Only legal before Run.
func (e *Engine) Schedule(op scenario.Operation) error {
	if e.state != stateConfiguring {
		return core.ErrSequenceFrozen
	}
	e.ops = append(e.ops, op)
	return nil
}

// AddGaussian schedules normal noise at path. stdDev must be positive.
func (e *Engine) AddGaussian(path string, mean, stdDev float64) error {
	if stdDev <= 0 {
		return core.NewInvalidParameterError("stdDev", "must be positive")
	}
	return e.Schedule(scenario.GaussianOp{Path: path, Mean: mean, StdDev: stdDev})
}

// AddUniform schedules a draw from [min,max) at path.
func (e *Engine) AddUniform(path string, min, max float64) error {
	if min > max {
		return core.NewInvalidParameterError("min", "must not exceed max")
	}
	return e.Schedule(scenario.UniformOp{Path: path, Min: min, Max: max})
}

// AddPoisson schedules a count draw at path. lambda must be positive.
func (e *Engine) AddPoisson(path string, lambda float64) error {
	if lambda <= 0 {
		return core.NewInvalidParameterError("lambda", "must be positive")
	}
	return e.Schedule(scenario.PoissonOp{Path: path, Lambda: lambda})
}

// AddCategorical schedules a weighted label selection at path.
func (e *Engine) AddCategorical(path string, weights sample.Weights) error {
	if err := weights.Validate(); err != nil {
		return err
	}
	return e.Schedule(scenario.CategoricalOp{Path: path, Weights: weights})
}

// AddGenerative schedules provider-backed text at path. The provider name
// binds lazily: registering it after scheduling is legal, as long as it is
// registered by the time the run reaches this operation.
func (e *Engine) AddGenerative(path string, spec GenerativeSpec) error {
	if spec.Provider == "" {
		return core.NewInvalidParameterError("provider", "must be named")
	}
	return e.Schedule(scenario.GenerativeOp{
		Path:     path,
		Provider: spec.Provider,
		Prompt:   spec.Prompt,
		Model:    spec.Model,
		Timeout:  spec.Timeout,
		Fallback: spec.Fallback,
	})
}

// Run executes the frozen operation sequence and returns the assembled
// record. The first unrecovered error aborts the remainder of the run; an
// attached validator sees the record last and its error propagates
// unchanged. An engine runs once: rerunning a terminal engine fails with
// ErrRunFinished rather than silently rewinding the generator.
func (e *Engine) Run(ctx context.Context) (scenario.Record, error) {
	switch e.state {
	case stateRunning:
		return nil, core.ErrSequenceFrozen
	case stateDone, stateFailed:
		return nil, core.ErrRunFinished
	}
	e.state = stateRunning
	e.logger.Debug("run %s: seed=%d ops=%d", e.id, e.seed, len(e.ops))

	out := e.baseline.Clone()
	for _, op := range e.ops {
		value, err := e.execute(ctx, op)
		if err != nil {
			// Errors leave the run verbatim: no wrapping, no retries.
			e.state = stateFailed
			return nil, err
		}
		out.SetPath(op.TargetPath(), value)
	}

	if e.validator != nil {
		validated, err := e.validator.Validate(ctx, out)
		if err != nil {
			e.state = stateFailed
			return nil, err
		}
		out = validated
	}

	e.state = stateDone
	return out, nil
}

// execute produces one operation's value. The switch is exhaustive over the
// closed operation set; an unknown kind is an input error.
func (e *Engine) execute(ctx context.Context, op scenario.Operation) (any, error) {
	switch o := op.(type) {
	case scenario.GaussianOp:
		return sample.Gaussian(e.generator, o.Mean, o.StdDev)
	case scenario.UniformOp:
		return sample.Uniform(e.generator, o.Min, o.Max)
	case scenario.PoissonOp:
		return sample.Poisson(e.generator, o.Lambda)
	case scenario.CategoricalOp:
		return sample.Categorical(e.generator, o.Weights)
	case scenario.GenerativeOp:
		return e.bridge.Invoke(ctx, ports.InvokeRequest{
			Provider: o.Provider,
			Prompt:   o.Prompt,
			Model:    o.Model,
			Timeout:  o.Timeout,
			Fallback: o.Fallback,
		})
	default:
		return nil, core.NewInvalidParameterError("operation", fmt.Sprintf("has unknown kind %T", op))
	}
}
