// Package scenario defines the generated record shape and the closed set of
// field operations that produce it.
package scenario

import "strings"

// Record is one generated scenario: string keys over JSON-like values
// (numbers, strings, bools, nested maps, slices). Cycles are unsupported,
// matching the JSON value model.
type Record map[string]any

// Clone deep-copies the record structurally, so no nested map or slice is
// shared with the source. Mutating the clone never touches the original.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = cloneValue(x)
		}
		return out
	default:
		return v
	}
}

// SetPath writes value at the dot-separated path, creating intermediate
// maps for missing segments and overwriting scalar or mismatched
// intermediates rather than erroring.
func (r Record) SetPath(path string, value any) {
	segments := strings.Split(path, ".")
	node := r
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg]
		if ok {
			if next, isMap := asRecord(child); isMap {
				node = next
				continue
			}
		}
		next := Record{}
		node[seg] = next
		node = next
	}
	node[segments[len(segments)-1]] = value
}

// GetPath resolves the dot-separated path; the second result reports
// whether every segment was present.
func (r Record) GetPath(path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = r
	for _, seg := range segments {
		node, ok := asRecord(current)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Flatten maps every leaf value to its dot path. Nested maps recurse;
// slices and scalars count as leaves.
func (r Record) Flatten() map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", r)
	return out
}

func flattenInto(out map[string]any, prefix string, v any) {
	node, ok := asRecord(v)
	if !ok {
		out[prefix] = v
		return
	}
	for k, child := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flattenInto(out, key, child)
	}
}

// asRecord views a value as a mutable string-keyed map when it is one.
// Record and map[string]any alias the same storage, so writes through the
// returned view land in the original structure.
func asRecord(v any) (Record, bool) {
	switch typed := v.(type) {
	case Record:
		return typed, true
	case map[string]any:
		return Record(typed), true
	default:
		return nil, false
	}
}
