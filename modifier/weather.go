// Package modifier layers domain consistency rules over the core samplers.
// It is an example consumer of the engine's primitives, not core machinery.
package modifier

import (
	"scenforge/domain/random"
	"scenforge/domain/sample"
	"scenforge/domain/scenario"
)

// Weather writes a coherent weather block onto a record: a condition drawn
// from an ordered weight list, then condition-consistent cloud cover,
// temperature, humidity, and gusts, all from the caller's generator so the
// whole scenario stays reproducible from one seed. Rain and storms always
// come with at least 60% cloud cover.
type Weather struct {
	gen *random.Generator
}

// NewWeather creates a modifier drawing from the given generator.
func NewWeather(gen *random.Generator) *Weather {
	return &Weather{gen: gen}
}

// conditionProfile fixes the per-condition sampling parameters.
type conditionProfile struct {
	cloudMin, cloudMax float64
	tempMean, tempDev  float64
	humidMin, humidMax float64
	gustLambda         float64
}

var conditionWeights = sample.Weights{
	{Label: "clear", Value: 0.4},
	{Label: "cloudy", Value: 0.3},
	{Label: "rain", Value: 0.2},
	{Label: "storm", Value: 0.1},
}

var profiles = map[string]conditionProfile{
	"clear":  {cloudMin: 0, cloudMax: 20, tempMean: 24, tempDev: 4, humidMin: 20, humidMax: 50, gustLambda: 1},
	"cloudy": {cloudMin: 40, cloudMax: 80, tempMean: 18, tempDev: 4, humidMin: 40, humidMax: 70, gustLambda: 2},
	"rain":   {cloudMin: 60, cloudMax: 100, tempMean: 14, tempDev: 3, humidMin: 70, humidMax: 100, gustLambda: 4},
	"storm":  {cloudMin: 80, cloudMax: 100, tempMean: 12, tempDev: 3, humidMin: 80, humidMax: 100, gustLambda: 9},
}

// Apply draws one consistent weather block and writes it under "weather".
func (w *Weather) Apply(rec scenario.Record) error {
	condition, err := sample.Categorical(w.gen, conditionWeights)
	if err != nil {
		return err
	}
	profile := profiles[condition]

	cloud, err := sample.Uniform(w.gen, profile.cloudMin, profile.cloudMax)
	if err != nil {
		return err
	}
	temp, err := sample.Gaussian(w.gen, profile.tempMean, profile.tempDev)
	if err != nil {
		return err
	}
	humidity, err := sample.Uniform(w.gen, profile.humidMin, profile.humidMax)
	if err != nil {
		return err
	}
	gusts, err := sample.Poisson(w.gen, profile.gustLambda)
	if err != nil {
		return err
	}

	rec.SetPath("weather.condition", condition)
	rec.SetPath("weather.cloud_cover", cloud)
	rec.SetPath("weather.temperature", temp)
	rec.SetPath("weather.humidity", humidity)
	rec.SetPath("weather.gusts", gusts)
	return nil
}
