// Package sample holds the pure sampling functions: statistical
// distributions and weighted categorical selection over an explicit uniform
// source, so call sites control draw order and count.
package sample

// Source yields the next uniform float in [0,1), consuming one draw.
// *random.Generator satisfies it; tests substitute scripted sources to pin
// draw-by-draw behavior.
type Source interface {
	Next() float64
}
