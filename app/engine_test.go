package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"scenforge/adapters/llm"
	"scenforge/domain/core"
	"scenforge/domain/sample"
	"scenforge/domain/scenario"
)

func seedOf(n int64) *core.Seed {
	s := core.SeedFromInt(n)
	return &s
}

func fallbackTo(s string) *string { return &s }

// buildEngine schedules a representative mixed sequence on a fresh engine.
func buildEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e := NewEngine(Config{Seed: seedOf(seed)})
	if err := e.AddGaussian("sensor.noise", 50, 10); err != nil {
		t.Fatalf("AddGaussian: %v", err)
	}
	if err := e.AddUniform("sensor.drift", -1, 1); err != nil {
		t.Fatalf("AddUniform: %v", err)
	}
	if err := e.AddPoisson("events.count", 3); err != nil {
		t.Fatalf("AddPoisson: %v", err)
	}
	if err := e.AddCategorical("weather.condition", sample.Weights{
		{Label: "rain", Value: 0.7},
		{Label: "sunny", Value: 0.3},
	}); err != nil {
		t.Fatalf("AddCategorical: %v", err)
	}
	return e
}

// TestEngine_SameSeedSameBytes tests that two engines over the same seed
// and operation sequence produce byte-identical JSON records.
func TestEngine_SameSeedSameBytes(t *testing.T) {
	first, err := buildEngine(t, 42).Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := buildEngine(t, 42).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Same seed produced different records:\n%s\n%s", a, b)
	}

	other, err := buildEngine(t, 43).Run(context.Background())
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	c, _ := json.Marshal(other)
	if string(a) == string(c) {
		t.Errorf("Different seeds produced the identical record: %s", a)
	}
}

// TestEngine_BaselineCopied tests that the baseline is deep-copied and the
// caller's original survives the run untouched.
func TestEngine_BaselineCopied(t *testing.T) {
	baseline := scenario.Record{
		"environment": map[string]any{"temperature": 20},
	}

	e := NewEngine(Config{Seed: seedOf(1)})
	if err := e.SetBaseline(baseline); err != nil {
		t.Fatalf("SetBaseline: %v", err)
	}
	out, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, ok := out.GetPath("environment.temperature")
	if !ok || got != 20 {
		t.Errorf("Expected environment.temperature == 20, got %v (%v)", got, ok)
	}

	out.SetPath("environment.temperature", 99)
	if baseline["environment"].(map[string]any)["temperature"] != 20 {
		t.Errorf("Mutating the output changed the caller's baseline")
	}
}

// TestEngine_NestedPathsShareOneObject tests that sibling dotted paths land
// in a single nested object.
func TestEngine_NestedPathsShareOneObject(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(7)})
	e.RegisterProviderFunc("writer", func(ctx context.Context, prompt, model string) (string, error) {
		return strings.ToUpper(prompt), nil
	})
	if err := e.AddGenerative("npc.personality", GenerativeSpec{Provider: "writer", Prompt: "stoic"}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}
	if err := e.AddGenerative("npc.mood", GenerativeSpec{Provider: "writer", Prompt: "wary"}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}

	out, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	npc, ok := out["npc"].(scenario.Record)
	if !ok {
		t.Fatalf("Expected one nested npc object, got %T", out["npc"])
	}
	if npc["personality"] != "STOIC" || npc["mood"] != "WARY" {
		t.Errorf("Expected both fields inside npc, got %v", npc)
	}
}

// TestEngine_GenerativeTimeoutNoFallback tests that a slow provider with no
// fallback fails the run with a timeout naming the provider and duration.
func TestEngine_GenerativeTimeoutNoFallback(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(1)})
	e.RegisterProvider("slow-llm", &llm.StaticProvider{Latency: 5 * time.Second, Default: "too late"})
	if err := e.AddGenerative("story", GenerativeSpec{
		Provider: "slow-llm",
		Prompt:   "a storm rolls in",
		Timeout:  100 * time.Millisecond,
	}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}

	_, err := e.Run(context.Background())
	if !errors.Is(err, core.ErrProviderTimeout) {
		t.Fatalf("Expected a timeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "slow-llm") || !strings.Contains(err.Error(), "100ms") {
		t.Errorf("Expected provider name and duration in %q", err.Error())
	}
}

// TestEngine_GenerativeTimeoutWithFallback tests that the fallback value is
// written at the operation's path instead of failing the run.
func TestEngine_GenerativeTimeoutWithFallback(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(1)})
	e.RegisterProvider("slow-llm", &llm.StaticProvider{Latency: 5 * time.Second, Default: "too late"})
	if err := e.AddGenerative("story", GenerativeSpec{
		Provider: "slow-llm",
		Prompt:   "a storm rolls in",
		Timeout:  100 * time.Millisecond,
		Fallback: fallbackTo("X"),
	}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}

	out, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out["story"] != "X" {
		t.Errorf("Expected fallback \"X\" at the path, got %v", out["story"])
	}
}

// TestEngine_GenerativePositionFixesDrawOrder tests that a suspending
// generative operation does not shift the draws of the statistical
// operations around it.
func TestEngine_GenerativePositionFixesDrawOrder(t *testing.T) {
	build := func(latency time.Duration) *Engine {
		e := NewEngine(Config{Seed: seedOf(9)})
		e.RegisterProvider("narrator", &llm.StaticProvider{Default: "told", Latency: latency})
		if err := e.AddGaussian("before", 0, 1); err != nil {
			t.Fatalf("AddGaussian: %v", err)
		}
		if err := e.AddGenerative("tale", GenerativeSpec{Provider: "narrator", Prompt: "x"}); err != nil {
			t.Fatalf("AddGenerative: %v", err)
		}
		if err := e.AddGaussian("after", 0, 1); err != nil {
			t.Fatalf("AddGaussian: %v", err)
		}
		return e
	}

	fast, err := build(0).Run(context.Background())
	if err != nil {
		t.Fatalf("fast run: %v", err)
	}
	slow, err := build(30 * time.Millisecond).Run(context.Background())
	if err != nil {
		t.Fatalf("slow run: %v", err)
	}
	if fast["before"] != slow["before"] || fast["after"] != slow["after"] {
		t.Errorf("Provider latency changed the numeric draws: %v vs %v", fast, slow)
	}
}

// TestEngine_ScheduleAfterRunRejected tests the lifecycle: the sequence
// freezes at Run and a terminal engine never runs again.
func TestEngine_ScheduleAfterRunRejected(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(3)})
	if err := e.AddGaussian("x", 0, 1); err != nil {
		t.Fatalf("AddGaussian: %v", err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := e.AddGaussian("y", 0, 1); !errors.Is(err, core.ErrRunFinished) && !errors.Is(err, core.ErrSequenceFrozen) {
		t.Errorf("Expected scheduling on a finished engine to fail, got %v", err)
	}
	if _, err := e.Run(context.Background()); !errors.Is(err, core.ErrRunFinished) {
		t.Errorf("Expected a second run to fail with ErrRunFinished, got %v", err)
	}
}

// TestEngine_InvalidParametersRejectedAtSchedule tests eager InputErrors on
// the scheduling surface.
func TestEngine_InvalidParametersRejectedAtSchedule(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(1)})

	if err := e.AddGaussian("x", 0, 0); !core.IsInputError(err) {
		t.Errorf("AddGaussian with zero stdDev: expected an input error, got %v", err)
	}
	if err := e.AddUniform("x", 2, 1); !core.IsInputError(err) {
		t.Errorf("AddUniform with min>max: expected an input error, got %v", err)
	}
	if err := e.AddPoisson("x", -1); !core.IsInputError(err) {
		t.Errorf("AddPoisson with negative lambda: expected an input error, got %v", err)
	}
	if err := e.AddCategorical("x", sample.Weights{}); !errors.Is(err, core.ErrEmptyWeights) {
		t.Errorf("AddCategorical with no weights: expected ErrEmptyWeights, got %v", err)
	}
	if err := e.AddGenerative("x", GenerativeSpec{}); !core.IsInputError(err) {
		t.Errorf("AddGenerative without a provider: expected an input error, got %v", err)
	}
}

// TestEngine_ProviderErrorAbortsRun tests that an unrecovered provider
// failure stops execution before later operations.
func TestEngine_ProviderErrorAbortsRun(t *testing.T) {
	upstream := errors.New("upstream exploded")
	executed := 0

	e := NewEngine(Config{Seed: seedOf(1)})
	e.RegisterProviderFunc("flaky", func(ctx context.Context, prompt, model string) (string, error) {
		executed++
		if executed == 1 {
			return "", upstream
		}
		return "should not run", nil
	})
	if err := e.AddGenerative("first", GenerativeSpec{Provider: "flaky", Prompt: "a"}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}
	if err := e.AddGenerative("second", GenerativeSpec{Provider: "flaky", Prompt: "b"}); err != nil {
		t.Fatalf("AddGenerative: %v", err)
	}

	_, err := e.Run(context.Background())
	if !errors.Is(err, upstream) {
		t.Fatalf("Expected the provider error verbatim, got %v", err)
	}
	if executed != 1 {
		t.Errorf("Expected the run to abort before the second operation, executed %d", executed)
	}
}

// TestEngine_ValidatorErrorPropagatesUnchanged tests that the engine
// neither wraps nor retries a validation failure.
func TestEngine_ValidatorErrorPropagatesUnchanged(t *testing.T) {
	verdict := errors.New("temperature out of range")

	e := NewEngine(Config{Seed: seedOf(1)})
	if err := e.AttachValidator(validatorFunc(func(ctx context.Context, rec scenario.Record) (scenario.Record, error) {
		return nil, verdict
	})); err != nil {
		t.Fatalf("AttachValidator: %v", err)
	}
	if err := e.AddGaussian("x", 0, 1); err != nil {
		t.Fatalf("AddGaussian: %v", err)
	}

	_, err := e.Run(context.Background())
	if !errors.Is(err, verdict) {
		t.Fatalf("Expected the validator's error unchanged, got %v", err)
	}
}

// TestEngine_ValidatorMayCoerce tests that the validator's returned record
// replaces the assembled one.
func TestEngine_ValidatorMayCoerce(t *testing.T) {
	e := NewEngine(Config{Seed: seedOf(1)})
	if err := e.AttachValidator(validatorFunc(func(ctx context.Context, rec scenario.Record) (scenario.Record, error) {
		rec.SetPath("coerced", true)
		return rec, nil
	})); err != nil {
		t.Fatalf("AttachValidator: %v", err)
	}
	if err := e.AddUniform("x", 0, 1); err != nil {
		t.Fatalf("AddUniform: %v", err)
	}

	out, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out["coerced"] != true {
		t.Errorf("Expected the coerced record, got %v", out)
	}
}

// validatorFunc adapts a function to ports.RecordValidator for tests.
type validatorFunc func(ctx context.Context, rec scenario.Record) (scenario.Record, error)

func (f validatorFunc) Validate(ctx context.Context, rec scenario.Record) (scenario.Record, error) {
	return f(ctx, rec)
}
