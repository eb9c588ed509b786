package sample

import (
	"math"

	"scenforge/domain/core"
)

// Gaussian draws a normal sample with the Box-Muller transform: two uniform
// draws mapped to a standard-normal z, scaled to mean + z*stdDev. A zero
// first draw is redrawn so the logarithm stays in domain.
func Gaussian(src Source, mean, stdDev float64) (float64, error) {
	if stdDev <= 0 {
		return 0, core.NewInvalidParameterError("stdDev", "must be positive")
	}
	u1 := src.Next()
	for u1 == 0 {
		u1 = src.Next()
	}
	u2 := src.Next()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stdDev, nil
}

// Uniform draws from the half-open interval [min,max).
func Uniform(src Source, min, max float64) (float64, error) {
	if min > max {
		return 0, core.NewInvalidParameterError("min", "must not exceed max")
	}
	return min + src.Next()*(max-min), nil
}

// Poisson draws a count with Knuth's algorithm: multiply uniforms into p
// until p falls to e^-lambda. The number of draws consumed varies with
// lambda, so callers must not assume one draw per call.
func Poisson(src Source, lambda float64) (int, error) {
	if lambda <= 0 {
		return 0, core.NewInvalidParameterError("lambda", "must be positive")
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for p > limit {
		k++
		p *= src.Next()
	}
	return k - 1, nil
}
