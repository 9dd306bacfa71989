package bezarc

import (
	"cogentcore.org/core/math32"
)

// === Curve Evaluation ======================================================

// Position evaluates one cubic Bezier segment with control points p0..p3
// at parameter t. Out-of-range parameters are clamped to [0,1], never
// rejected: callers always get a usable point.
func Position(p0, p1, p2, p3 math32.Vector3, t float32) math32.Vector3 {
	t = Clamp01(t)
	mt := 1 - t
	a := p0.MulScalar(mt * mt * mt)
	b := p1.MulScalar(3 * mt * mt * t)
	c := p2.MulScalar(3 * mt * t * t)
	d := p3.MulScalar(t * t * t)
	return a.Add(b).Add(c).Add(d)
}

// Velocity evaluates the first derivative of the segment at t (clamped).
// The result is the derivative with respect to the segment-local
// parameter, i.e. it scales with the geometric size of the segment.
func Velocity(p0, p1, p2, p3 math32.Vector3, t float32) math32.Vector3 {
	t = Clamp01(t)
	mt := 1 - t
	a := p1.Sub(p0).MulScalar(3 * mt * mt)
	b := p2.Sub(p1).MulScalar(6 * mt * t)
	c := p3.Sub(p2).MulScalar(3 * t * t)
	return a.Add(b).Add(c)
}

// Acceleration evaluates the second derivative of the segment at t (clamped).
func Acceleration(p0, p1, p2, p3 math32.Vector3, t float32) math32.Vector3 {
	t = Clamp01(t)
	a := p2.Sub(p1.MulScalar(2)).Add(p0).MulScalar(6 * (1 - t))
	b := p3.Sub(p2.MulScalar(2)).Add(p1).MulScalar(6 * t)
	return a.Add(b)
}

// Speed is the magnitude of Velocity at t, the integrand of all
// arc-length integrators below.
func Speed(p0, p1, p2, p3 math32.Vector3, t float32) float32 {
	return Velocity(p0, p1, p2, p3, t).Length()
}

// === Arc-Length Integrators ================================================

// The four integrators share one contract: they estimate the arc length of
// the segment between parameters t0 and t1 by integrating ‖Velocity‖, and
// return a non-negative scalar. A reversed range is normalized by swapping.
// Integrate (12-point Gauss-Legendre) is the canonical one used by the
// spline layer; the Newton-Cotes variants are interchangeable strategies
// kept for callers that want to trade accuracy against sample count.

// IntegrateTrapezoid estimates arc length with the composite trapezoid
// rule over steps subdivisions (minimum 1).
func IntegrateTrapezoid(p0, p1, p2, p3 math32.Vector3, t0, t1 float32, steps int) float32 {
	t0, t1 = orderRange(t0, t1)
	if steps < 1 {
		steps = 1
	}
	h := (t1 - t0) / float32(steps)
	sum := (Speed(p0, p1, p2, p3, t0) + Speed(p0, p1, p2, p3, t1)) / 2
	for i := 1; i < steps; i++ {
		sum += Speed(p0, p1, p2, p3, t0+float32(i)*h)
	}
	return sum * h
}

// IntegrateSimpson estimates arc length with the composite Simpson rule.
// The step count is rounded down to an even number (minimum 2).
func IntegrateSimpson(p0, p1, p2, p3 math32.Vector3, t0, t1 float32, steps int) float32 {
	t0, t1 = orderRange(t0, t1)
	steps = steps &^ 1
	if steps < 2 {
		steps = 2
	}
	h := (t1 - t0) / float32(steps)
	sum := Speed(p0, p1, p2, p3, t0) + Speed(p0, p1, p2, p3, t1)
	for i := 1; i < steps; i++ {
		w := float32(2)
		if i&1 == 1 {
			w = 4
		}
		sum += w * Speed(p0, p1, p2, p3, t0+float32(i)*h)
	}
	return sum * h / 3
}

// IntegrateSimpson38 estimates arc length with the Simpson 3/8 rule.
// The step count is rounded down to a multiple of 3 (minimum 3).
func IntegrateSimpson38(p0, p1, p2, p3 math32.Vector3, t0, t1 float32, steps int) float32 {
	t0, t1 = orderRange(t0, t1)
	steps = steps - steps%3
	if steps < 3 {
		steps = 3
	}
	h := (t1 - t0) / float32(steps)
	sum := Speed(p0, p1, p2, p3, t0) + Speed(p0, p1, p2, p3, t1)
	for i := 1; i < steps; i++ {
		w := float32(3)
		if i%3 == 0 {
			w = 2
		}
		sum += w * Speed(p0, p1, p2, p3, t0+float32(i)*h)
	}
	return sum * h * 3 / 8
}

// Integrate estimates arc length with 12-point Gauss-Legendre quadrature.
// This is the canonical integrator of the package: highest accuracy per
// velocity sample, with a fixed cost independent of any step count.
func Integrate(p0, p1, p2, p3 math32.Vector3, t0, t1 float32) float32 {
	t0, t1 = orderRange(t0, t1)
	c := (t1 - t0) / 2
	m := (t0 + t1) / 2
	var sum float32
	for _, coeff := range gaussLegendreCoeffs12 {
		wi, xi := coeff[0], coeff[1]
		sum += wi * Speed(p0, p1, p2, p3, m+c*xi)
	}
	return sum * c
}

func orderRange(t0, t1 float32) (float32, float32) {
	t0, t1 = Clamp01(t0), Clamp01(t1)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1
}

// Table of Legendre-Gauss quadrature coefficients {weight, abscissa},
// adapted from <https://pomax.github.io/bezierinfo/legendre-gauss.html>
var gaussLegendreCoeffs12 = [...][2]float32{
	{0.2491470458134028, -0.1252334085114689},
	{0.2491470458134028, 0.1252334085114689},
	{0.2334925365383548, -0.3678314989981802},
	{0.2334925365383548, 0.3678314989981802},
	{0.2031674267230659, -0.5873179542866175},
	{0.2031674267230659, 0.5873179542866175},
	{0.1600783285433462, -0.7699026741943047},
	{0.1600783285433462, 0.7699026741943047},
	{0.1069393259953184, -0.9041172563704749},
	{0.1069393259953184, 0.9041172563704749},
	{0.0471753363865118, -0.9815606342467192},
	{0.0471753363865118, 0.9815606342467192},
}

// === Arc-Length Inversion ==================================================

// InvertArcLength finds the parameter t such that the arc length of the
// segment from 0 to t equals target, within epsilon. guess is the starting
// estimate, usually a linear interpolation by the caller.
//
// The root of F(t) = Integrate(0,t) - target is located by a hybrid
// Newton/bisection iteration on the bracket [0,1]. F' is the integrand
// ‖Velocity(t)‖ itself, so every Newton step costs one quadrature pass and
// one velocity evaluation. A Newton candidate is accepted only if it falls
// strictly inside the current bracket; otherwise the iteration bisects.
//
// The function never fails: after maxIters the last iterate is returned,
// whatever its residual. Real-time callers prefer a usable estimate over
// an error; callers that need exactness supply a tighter epsilon and a
// larger maxIters.
func InvertArcLength(p0, p1, p2, p3 math32.Vector3, target, guess, epsilon float32, maxIters int) float32 {
	lower, upper := float32(0), float32(1)
	t := Clamp01(guess)
	for i := 0; i < maxIters; i++ {
		f := Integrate(p0, p1, p2, p3, 0, t) - target
		if Abs(f) < epsilon {
			return t
		}
		if f > 0 {
			upper = t
		} else {
			lower = t
		}
		deriv := Speed(p0, p1, p2, p3, t)
		next := lower + (upper-lower)/2
		if !Is0(deriv) {
			cand := t - f/deriv
			if cand > lower && cand < upper {
				next = cand
			}
		}
		tracer().Debugf("invert iter %d: t = %.6g, F = %.6g, bracket [%.6g,%.6g]", i, t, f, lower, upper)
		t = next
	}
	tracer().Debugf("invert: iteration cap reached, returning t = %.6g", t)
	return t
}
