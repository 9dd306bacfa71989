/*
Package bezarc implements cubic Bezier curve evaluation and the numerical
machinery for arc-length parameterization: quadrature-based length
integration and the inversion of arc length into a curve parameter.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezarc

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bezarc'
func tracer() tracing.Trace {
	return tracing.Select("bezarc")
}

// === Numeric Basics ========================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float32 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float32) bool {
	return Abs(n) <= Epsilon
}

// Abs returns |n| for float32, avoiding the float64 round trip of math.Abs.
func Abs(n float32) float32 {
	return math.Float32frombits(math.Float32bits(n) &^ (1 << 31))
}

// Clamp01 clamps t into the unit interval.
func Clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Sqrt for float32.
func Sqrt(n float32) float32 {
	return float32(math.Sqrt(float64(n)))
}

// === Configuration =========================================================

// Config bundles the numeric tuning knobs for the package. It is passed
// explicitly at spline construction rather than living in process-global
// state, so independent splines may run at different accuracies.
type Config struct {
	IntegrationSteps int     // subdivision count for trapezoid/Simpson integrators
	Epsilon          float32 // convergence tolerance for InvertArcLength
	MaxIterations    int     // iteration cap for InvertArcLength
	SampleSpacing    float32 // arc-length distance between approximate-inversion samples
}

// DefaultConfig returns the standard accuracy settings.
func DefaultConfig() Config {
	return Config{
		IntegrationSteps: 12,
		Epsilon:          0.0001,
		MaxIterations:    32,
		SampleSpacing:    0.1,
	}
}

// Sane replaces non-positive fields with their defaults.
func (cfg Config) Sane() Config {
	d := DefaultConfig()
	if cfg.IntegrationSteps < 1 {
		cfg.IntegrationSteps = d.IntegrationSteps
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = d.Epsilon
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = d.MaxIterations
	}
	if cfg.SampleSpacing <= 0 {
		cfg.SampleSpacing = d.SampleSpacing
	}
	return cfg
}
