package scenario

import (
	"reflect"
	"testing"
)

// TestRecordClone_NoAliasing tests that clones share no nested structure
func TestRecordClone_NoAliasing(t *testing.T) {
	original := Record{
		"environment": map[string]any{"temperature": 20, "tags": []any{"cold", "dry"}},
		"name":        "baseline",
	}

	clone := original.Clone()
	if !reflect.DeepEqual(map[string]any(original), map[string]any(clone)) {
		t.Fatalf("Clone differs from original: %v vs %v", original, clone)
	}

	clone.SetPath("environment.temperature", 99)
	clone.SetPath("name", "mutated")
	clone["environment"].(map[string]any)["tags"].([]any)[0] = "hot"

	env := original["environment"].(map[string]any)
	if env["temperature"] != 20 {
		t.Errorf("Mutating the clone changed the original temperature: %v", env["temperature"])
	}
	if original["name"] != "baseline" {
		t.Errorf("Mutating the clone changed the original name: %v", original["name"])
	}
	if tags := env["tags"].([]any); tags[0] != "cold" {
		t.Errorf("Mutating the clone changed the original slice: %v", tags)
	}
}

// TestRecordClone_NilProducesEmpty tests cloning the absent baseline
func TestRecordClone_NilProducesEmpty(t *testing.T) {
	var r Record
	clone := r.Clone()
	if clone == nil || len(clone) != 0 {
		t.Fatalf("Expected a fresh empty record, got %v", clone)
	}
	clone.SetPath("a", 1)
	if len(clone) != 1 {
		t.Errorf("Clone of nil record is not writable")
	}
}

// TestRecordSetPath_CreatesIntermediates tests nested writes through
// missing segments
func TestRecordSetPath_CreatesIntermediates(t *testing.T) {
	r := Record{}
	r.SetPath("npc.personality", "stoic")
	r.SetPath("npc.mood", "wary")

	npc, ok := r["npc"].(Record)
	if !ok {
		t.Fatalf("Expected a single nested npc object, got %T", r["npc"])
	}
	if npc["personality"] != "stoic" || npc["mood"] != "wary" {
		t.Errorf("Nested writes lost values: %v", npc)
	}
}

// TestRecordSetPath_OverwritesScalarIntermediate tests the mismatched
// segment rule: scalars in the way are replaced, not errors
func TestRecordSetPath_OverwritesScalarIntermediate(t *testing.T) {
	r := Record{"weather": "sunny"}
	r.SetPath("weather.condition", "rain")

	weather, ok := r["weather"].(Record)
	if !ok {
		t.Fatalf("Expected the scalar intermediate to be replaced, got %T", r["weather"])
	}
	if weather["condition"] != "rain" {
		t.Errorf("Nested write after overwrite lost the value: %v", weather)
	}
}

// TestRecordSetPath_WritesThroughExistingMaps tests that writes descend
// into both Record and plain map nodes without replacing them
func TestRecordSetPath_WritesThroughExistingMaps(t *testing.T) {
	r := Record{"environment": map[string]any{"temperature": 20}}
	r.SetPath("environment.humidity", 40)

	env := r["environment"].(map[string]any)
	if env["temperature"] != 20 {
		t.Errorf("Sibling write dropped an existing field: %v", env)
	}
	if env["humidity"] != 40 {
		t.Errorf("Write through an existing map did not land: %v", env)
	}
}

// TestRecordGetPath tests resolution of present and absent paths
func TestRecordGetPath(t *testing.T) {
	r := Record{}
	r.SetPath("environment.conditions.wind", 12.5)

	v, ok := r.GetPath("environment.conditions.wind")
	if !ok || v != 12.5 {
		t.Errorf("GetPath(environment.conditions.wind) = %v, %v", v, ok)
	}

	if _, ok := r.GetPath("environment.missing"); ok {
		t.Error("Expected absent leaf to report false")
	}
	if _, ok := r.GetPath("environment.conditions.wind.gust"); ok {
		t.Error("Expected descent through a scalar to report false")
	}
}

// TestRecordFlatten tests leaf enumeration by dot path
func TestRecordFlatten(t *testing.T) {
	r := Record{}
	r.SetPath("npc.age", 31)
	r.SetPath("npc.mood", "wary")
	r.SetPath("title", "scout")

	flat := r.Flatten()
	expected := map[string]any{"npc.age": 31, "npc.mood": "wary", "title": "scout"}
	if !reflect.DeepEqual(flat, expected) {
		t.Errorf("Flatten() = %v, expected %v", flat, expected)
	}
}
