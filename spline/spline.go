package spline

import (
	"cogentcore.org/core/math32"
	"github.com/npillmayer/bezarc"
)

// === Evaluation ============================================================

// Evaluate returns the position at whole-spline parameter t in [0,1].
// Out-of-range parameters are clamped.
func (sp *Spline) Evaluate(t float32) math32.Vector3 {
	i, u := sp.segmentAt(t)
	p0, p1, p2, p3 := sp.segment(i)
	return bezarc.Position(p0, p1, p2, p3, u)
}

// Velocity returns the first derivative at whole-spline parameter t, with
// respect to the local parameter of the owning segment.
func (sp *Spline) Velocity(t float32) math32.Vector3 {
	i, u := sp.segmentAt(t)
	return sp.SegmentVelocity(i, u)
}

// Acceleration returns the second derivative at whole-spline parameter t.
func (sp *Spline) Acceleration(t float32) math32.Vector3 {
	i, u := sp.segmentAt(t)
	p0, p1, p2, p3 := sp.segment(i)
	return bezarc.Acceleration(p0, p1, p2, p3, u)
}

// Direction returns the normalized velocity at t. A degenerate zero
// velocity yields the zero vector instead of NaN components.
func (sp *Spline) Direction(t float32) math32.Vector3 {
	v := sp.Velocity(t)
	l := v.Length()
	if bezarc.Is0(l) {
		tracer().Errorf("zero velocity at t = %.6g, returning zero direction", t)
		return math32.Vector3{}
	}
	return v.MulScalar(1 / l)
}

// SegmentVelocity returns the first derivative of segment i at local
// parameter u. The walker uses it to sample the far side of a segment
// boundary, where velocity may jump.
func (sp *Spline) SegmentVelocity(i int, u float32) math32.Vector3 {
	p0, p1, p2, p3 := sp.segment(i)
	return bezarc.Velocity(p0, p1, p2, p3, u)
}

// Remap t in [0,1] over the knot range [k0,k1] to a whole-spline parameter.
func (sp *Spline) remapKnotRange(t float32, k0, k1 int) float32 {
	n := sp.CurveCount()
	k0, k1 = clampKnot(k0, n), clampKnot(k1, n)
	if k0 > k1 {
		k0, k1 = k1, k0
	}
	return (float32(k0) + bezarc.Clamp01(t)*float32(k1-k0)) / float32(n)
}

func clampKnot(k, n int) int {
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

// EvaluateBetween is Evaluate restricted to the knot range [k0,k1]:
// t = 0 maps to knot k0 and t = 1 to knot k1.
func (sp *Spline) EvaluateBetween(t float32, k0, k1 int) math32.Vector3 {
	return sp.Evaluate(sp.remapKnotRange(t, k0, k1))
}

// VelocityBetween is Velocity restricted to the knot range [k0,k1].
func (sp *Spline) VelocityBetween(t float32, k0, k1 int) math32.Vector3 {
	return sp.Velocity(sp.remapKnotRange(t, k0, k1))
}

// AccelerationBetween is Acceleration restricted to the knot range [k0,k1].
func (sp *Spline) AccelerationBetween(t float32, k0, k1 int) math32.Vector3 {
	return sp.Acceleration(sp.remapKnotRange(t, k0, k1))
}

// === Length Caches =========================================================

func (sp *Spline) ensureLengths() {
	if sp.lengthsValid {
		return
	}
	n := sp.CurveCount()
	if cap(sp.segLengths) < n {
		sp.segLengths = make([]float32, n)
		sp.cumLengths = make([]float32, n)
	}
	sp.segLengths = sp.segLengths[:n]
	sp.cumLengths = sp.cumLengths[:n]
	var total float32
	for i := 0; i < n; i++ {
		p0, p1, p2, p3 := sp.segment(i)
		sp.segLengths[i] = bezarc.Integrate(p0, p1, p2, p3, 0, 1)
		total += sp.segLengths[i]
		sp.cumLengths[i] = total
	}
	sp.lengthsValid = true
	tracer().Infof("length cache rebuilt: %d segments, total %.6g", n, total)
}

// Length returns the total arc length of the spline. The value is cached
// and only recomputed after an edit.
func (sp *Spline) Length() float32 {
	sp.ensureLengths()
	return sp.cumLengths[len(sp.cumLengths)-1]
}

// SegmentLength returns the cached arc length of segment i.
func (sp *Spline) SegmentLength(i int) float32 {
	sp.ensureLengths()
	return sp.segLengths[i]
}

// ArcLength returns the exact arc length between two whole-spline
// parameters. The order of t0 and t1 does not matter.
func (sp *Spline) ArcLength(t0, t1 float32) float32 {
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	i0, u0 := sp.segmentAt(t0)
	i1, u1 := sp.segmentAt(t1)
	if i0 == i1 {
		p0, p1, p2, p3 := sp.segment(i0)
		return bezarc.Integrate(p0, p1, p2, p3, u0, u1)
	}
	sp.ensureLengths()
	p0, p1, p2, p3 := sp.segment(i0)
	sum := bezarc.Integrate(p0, p1, p2, p3, u0, 1)
	for i := i0 + 1; i < i1; i++ {
		sum += sp.segLengths[i]
	}
	p0, p1, p2, p3 = sp.segment(i1)
	sum += bezarc.Integrate(p0, p1, p2, p3, 0, u1)
	return sum
}

// ArcLengthBetweenKnots returns the cached arc length between two knots.
func (sp *Spline) ArcLengthBetweenKnots(k0, k1 int) float32 {
	n := sp.CurveCount()
	k0, k1 = clampKnot(k0, n), clampKnot(k1, n)
	if k0 > k1 {
		k0, k1 = k1, k0
	}
	sp.ensureLengths()
	var sum float32
	for i := k0; i < k1; i++ {
		sum += sp.segLengths[i]
	}
	return sum
}

// === Arc-Length Inversion ==================================================

// ParameterAtArcLength returns the whole-spline parameter t at which the
// arc length from the start equals s. Arguments outside [0, Length] clamp
// to 0 and 1. The owning segment is located in the cumulative-length
// array, then the segment-local root-finder takes over.
func (sp *Spline) ParameterAtArcLength(s float32) float32 {
	sp.ensureLengths()
	total := sp.cumLengths[len(sp.cumLengths)-1]
	if s <= 0 {
		return 0
	}
	if s >= total {
		return 1
	}
	seg := 0
	for sp.cumLengths[seg] <= s {
		seg++
	}
	var before float32
	if seg > 0 {
		before = sp.cumLengths[seg-1]
	}
	local := s - before
	segLen := sp.segLengths[seg]
	guess := float32(0.5)
	if !bezarc.Is0(segLen) {
		guess = local / segLen
	}
	p0, p1, p2, p3 := sp.segment(seg)
	u := bezarc.InvertArcLength(p0, p1, p2, p3, local, guess, sp.cfg.Epsilon, sp.cfg.MaxIterations)
	return (float32(seg) + u) / float32(sp.CurveCount())
}

func (sp *Spline) ensureTable() {
	sp.ensureLengths()
	if sp.tableValid && sp.tableSpacing == sp.cfg.SampleSpacing {
		return
	}
	spacing := sp.cfg.SampleSpacing
	total := sp.cumLengths[len(sp.cumLengths)-1]
	count := int(total/spacing) + 2
	sp.samples = make([]sample, count)
	for i := 0; i < count; i++ {
		s := float32(i) * spacing
		if s > total {
			s = total
		}
		sp.samples[i].t = sp.ParameterAtArcLength(s)
	}
	for i := 0; i < count-1; i++ {
		s0 := float32(i) * spacing
		s1 := float32(i+1) * spacing
		if s1 > total {
			s1 = total
		}
		if bezarc.Is0(s1 - s0) {
			sp.samples[i].slope = 0
		} else {
			sp.samples[i].slope = (sp.samples[i+1].t - sp.samples[i].t) / (s1 - s0)
		}
	}
	sp.tableSpacing = spacing
	sp.tableValid = true
	tracer().Infof("sample table rebuilt: %d entries, spacing %.4g", count, spacing)
}

// ParameterAtArcLengthApproximate is the O(1) alternative to
// ParameterAtArcLength. It interpolates linearly in a table of samples
// taken at fixed arc-length intervals; the table is rebuilt when the
// spline was edited or the sample spacing changed.
func (sp *Spline) ParameterAtArcLengthApproximate(s float32) float32 {
	sp.ensureTable()
	total := sp.cumLengths[len(sp.cumLengths)-1]
	if s <= 0 {
		return 0
	}
	if s >= total {
		return 1
	}
	i := int(s / sp.tableSpacing)
	if i > len(sp.samples)-2 {
		i = len(sp.samples) - 2
	}
	return sp.samples[i].t + (s-float32(i)*sp.tableSpacing)*sp.samples[i].slope
}

// === Derived Geometry ======================================================

// Flatten extracts a polyline with vertices spaced at most maxSegLen apart
// in arc length, using the approximate inversion table. A non-positive
// maxSegLen falls back to the configured sample spacing. First and last
// vertex coincide with Evaluate(0) and Evaluate(1).
func (sp *Spline) Flatten(maxSegLen float32) []math32.Vector3 {
	if maxSegLen <= 0 {
		maxSegLen = sp.cfg.SampleSpacing
	}
	total := sp.Length()
	n := int(total/maxSegLen) + 1
	pts := make([]math32.Vector3, 0, n+1)
	pts = append(pts, sp.Evaluate(0))
	for i := 1; i < n; i++ {
		s := float32(i) * total / float32(n)
		pts = append(pts, sp.Evaluate(sp.ParameterAtArcLengthApproximate(s)))
	}
	pts = append(pts, sp.Evaluate(1))
	return pts
}

// Subdivision produces a free-standing cubic segment that best fits the
// spline between arc-length positions s0 and s1.
//
// Endpoint positions and velocities come from exact inversion. When both
// endpoints fall into one segment, the tangent handles use the exact
// subsegment scale (local parameter delta over 3). Across segments the
// handles are scaled by the ratio of the spanned arc length to each
// endpoint's own enclosing-segment length. The cross-segment branch is a
// curve-fitting heuristic, not an exact subdivision.
func (sp *Spline) Subdivision(s0, s1 float32) Segment {
	if s0 > s1 {
		s0, s1 = s1, s0
	}
	t0 := sp.ParameterAtArcLength(s0)
	t1 := sp.ParameterAtArcLength(s1)
	i0, u0 := sp.segmentAt(t0)
	i1, u1 := sp.segmentAt(t1)
	start := sp.Evaluate(t0)
	end := sp.Evaluate(t1)
	v0 := sp.Velocity(t0)
	v1 := sp.Velocity(t1)
	var scale0, scale1 float32
	if i0 == i1 {
		scale0 = (u1 - u0) / 3
		scale1 = scale0
	} else {
		span := s1 - s0
		scale0 = safeRatio(span, sp.SegmentLength(i0)) / 3
		scale1 = safeRatio(span, sp.SegmentLength(i1)) / 3
	}
	return Segment{
		P0: start,
		P1: start.Add(v0.MulScalar(scale0)),
		P2: end.Sub(v1.MulScalar(scale1)),
		P3: end,
	}
}

func safeRatio(a, b float32) float32 {
	if bezarc.Is0(b) {
		return 0
	}
	return a / b
}
