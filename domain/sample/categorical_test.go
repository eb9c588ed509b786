package sample_test

import (
	"errors"
	"testing"

	"scenforge/domain/core"
	"scenforge/domain/random"
	"scenforge/domain/sample"
)

// TestCategorical_SingleEntry tests that a lone entry is always selected
func TestCategorical_SingleEntry(t *testing.T) {
	g := random.New(11)
	weights := sample.Weights{{Label: "a", Value: 1}}

	for i := 0; i < 100; i++ {
		label, err := sample.Categorical(g, weights)
		if err != nil {
			t.Fatalf("Categorical: %v", err)
		}
		if label != "a" {
			t.Fatalf("Draw %d selected %q, expected \"a\"", i, label)
		}
	}
}

// TestCategorical_EmptyList tests the empty-input failure
func TestCategorical_EmptyList(t *testing.T) {
	g := random.New(11)
	_, err := sample.Categorical(g, sample.Weights{})
	if !errors.Is(err, core.ErrEmptyWeights) {
		t.Fatalf("Expected ErrEmptyWeights, got %v", err)
	}
}

// TestCategorical_AllZeroWeights tests the zero-total failure
func TestCategorical_AllZeroWeights(t *testing.T) {
	g := random.New(11)
	weights := sample.Weights{{Label: "a", Value: 0}, {Label: "b", Value: 0}}

	_, err := sample.Categorical(g, weights)
	if !errors.Is(err, core.ErrZeroWeight) {
		t.Fatalf("Expected ErrZeroWeight, got %v", err)
	}
}

// TestCategorical_NegativeWeight tests rejection of negative entries
func TestCategorical_NegativeWeight(t *testing.T) {
	g := random.New(11)
	weights := sample.Weights{{Label: "a", Value: 2}, {Label: "b", Value: -1}}

	_, err := sample.Categorical(g, weights)
	if !core.IsInputError(err) {
		t.Fatalf("Expected an input error, got %v", err)
	}
}

// TestCategorical_FrequencyFollowsWeights tests the 90/10 split empirically
func TestCategorical_FrequencyFollowsWeights(t *testing.T) {
	g := random.New(core.SeedFromString("forecast"))
	weights := sample.Weights{{Label: "rain", Value: 0.9}, {Label: "sunny", Value: 0.1}}

	const n = 5000
	rain := 0
	for i := 0; i < n; i++ {
		label, err := sample.Categorical(g, weights)
		if err != nil {
			t.Fatalf("Categorical: %v", err)
		}
		if label == "rain" {
			rain++
		}
	}

	if freq := float64(rain) / n; freq <= 0.8 {
		t.Errorf("rain frequency %v over %d draws, expected > 0.8", freq, n)
	}
}

// TestCategorical_ZeroWeightEntrySkipped tests that zero-weight entries are
// unreachable through the normal walk
func TestCategorical_ZeroWeightEntrySkipped(t *testing.T) {
	g := random.New(3)
	weights := sample.Weights{{Label: "never", Value: 0}, {Label: "always", Value: 1}}

	for i := 0; i < 1000; i++ {
		label, err := sample.Categorical(g, weights)
		if err != nil {
			t.Fatalf("Categorical: %v", err)
		}
		if label != "always" {
			t.Fatalf("Draw %d selected zero-weight entry %q", i, label)
		}
	}
}

// TestCategorical_BoundaryFallsBackToLastLabel tests the drift guard: a
// right-edge draw, standing in for accumulated floating-point drift, must
// deterministically select the final label rather than fall off the walk.
func TestCategorical_BoundaryFallsBackToLastLabel(t *testing.T) {
	// The trailing zero-weight entry is unreachable through the cumulative
	// walk, so seeing it proves the fallback path executed.
	weights := sample.Weights{{Label: "a", Value: 1}, {Label: "pad", Value: 0}}
	src := &scriptedSource{values: []float64{1.0}}

	label, err := sample.Categorical(src, weights)
	if err != nil {
		t.Fatalf("Categorical: %v", err)
	}
	if label != "pad" {
		t.Fatalf("Expected the boundary draw to fall back to the last label, got %q", label)
	}
}

// TestCategorical_InsertionOrderRespected tests that list order fixes which
// entry absorbs a given draw
func TestCategorical_InsertionOrderRespected(t *testing.T) {
	// total = 1.0; a draw of 0.25 lands in the first entry's band
	src := &scriptedSource{values: []float64{0.25}}
	weights := sample.Weights{{Label: "first", Value: 0.5}, {Label: "second", Value: 0.5}}

	label, err := sample.Categorical(src, weights)
	if err != nil {
		t.Fatalf("Categorical: %v", err)
	}
	if label != "first" {
		t.Fatalf("Draw 0.25 selected %q, expected \"first\"", label)
	}

	src = &scriptedSource{values: []float64{0.75}}
	label, err = sample.Categorical(src, weights)
	if err != nil {
		t.Fatalf("Categorical: %v", err)
	}
	if label != "second" {
		t.Fatalf("Draw 0.75 selected %q, expected \"second\"", label)
	}
}
