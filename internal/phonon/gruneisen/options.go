package gruneisen

import "math"

// FrequencyLimit selects which (mode, q-point) entries participate in an
// average.
type FrequencyLimit string

const (
	// LimitNone keeps every entry with a non-negative frequency.
	LimitNone FrequencyLimit = ""
	// LimitDebye keeps entries with frequency between zero and the
	// acoustic-Debye-frequency equivalent of the acoustic Debye temperature.
	LimitDebye FrequencyLimit = "debye"
	// LimitAcoustic keeps only the first three mode rows (the acoustic
	// branches), again excluding negative frequencies.
	LimitAcoustic FrequencyLimit = "acoustic"
)

// averageParams collects the knobs shared by Average and
// SlackThermalConductivity. NaN temperature fields mean "default to the
// acoustic Debye temperature".
type averageParams struct {
	temperature float64
	thetaD      float64
	squared     bool
	limit       FrequencyLimit
}

func defaultParams() averageParams {
	return averageParams{
		temperature: math.NaN(),
		thetaD:      math.NaN(),
		squared:     true,
		limit:       LimitNone,
	}
}

// Option adjusts an averaging or Slack-conductivity computation.
type Option func(*averageParams)

// WithTemperature sets the evaluation temperature in K. For
// SlackThermalConductivity this also triggers the theta_d/T rescaling of the
// Debye-point value.
func WithTemperature(t float64) Option {
	return func(p *averageParams) { p.temperature = t }
}

// WithSquared controls whether the average runs on squared Grueneisen values
// with a square root applied to the final scalar. Defaults to true.
func WithSquared(squared bool) Option {
	return func(p *averageParams) { p.squared = squared }
}

// WithFrequencyLimit restricts which modes participate in the average.
func WithFrequencyLimit(limit FrequencyLimit) Option {
	return func(p *averageParams) { p.limit = limit }
}

// WithDebyeTemperature overrides the Debye temperature used by the Slack
// formula (and as the Grueneisen-averaging temperature within it). Ignored
// by Average.
func WithDebyeTemperature(thetaD float64) Option {
	return func(p *averageParams) { p.thetaD = thetaD }
}
