package core

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// Seed fully determines a generator's output sequence. Integer seeds are
// reduced to the unsigned 32-bit space; string seeds are folded with FNV-1a
// (stable, content-sensitive, not cryptographic).
type Seed uint32

// SeedFromInt reduces an integer of any sign to the 32-bit seed space.
func SeedFromInt(n int64) Seed {
	return Seed(uint32(n))
}

// SeedFromString folds a string to a seed. Same string, same seed, always.
func SeedFromString(s string) Seed {
	h := fnv.New32a()
	h.Write([]byte(s))
	return Seed(h.Sum32())
}

// SeedFromTime derives a seed from the current clock, for callers that did
// not ask for reproducibility.
func SeedFromTime() Seed {
	return SeedFromInt(time.Now().UnixNano())
}

// ParseSeed accepts the decoded JSON/YAML forms a seed arrives in: nil for a
// clock-derived seed, a number, or a string to fold.
func ParseSeed(v any) (Seed, error) {
	switch s := v.(type) {
	case nil:
		return SeedFromTime(), nil
	case Seed:
		return s, nil
	case int:
		return SeedFromInt(int64(s)), nil
	case int64:
		return SeedFromInt(s), nil
	case uint64:
		return SeedFromInt(int64(s)), nil
	case float64:
		if s != math.Trunc(s) {
			return 0, NewInvalidParameterError("seed", "must be an integer or a string")
		}
		return SeedFromInt(int64(s)), nil
	case string:
		return SeedFromString(s), nil
	default:
		return 0, NewInvalidParameterError("seed", fmt.Sprintf("has unsupported type %T", v))
	}
}

// Derive mixes a run ordinal into the seed so batch runs draw from
// decorrelated streams. Pure function of (seed, ordinal).
func (s Seed) Derive(ordinal int) Seed {
	d := uint32(s) ^ (uint32(ordinal) * 2654435761)
	d = (d ^ (d >> 16)) * 0x85ebca6b
	d = (d ^ (d >> 13)) * 0xc2b2ae35
	return Seed(d ^ (d >> 16))
}

// Ptr returns the seed as an optional. Construction options treat a nil
// *Seed as "derive from the clock", since zero is itself a legal seed.
func (s Seed) Ptr() *Seed {
	return &s
}
