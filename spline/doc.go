// Package spline composes cubic Bezier segments into a continuous path
// with arc-length-accurate traversal.
/*

A spline owns a flat sequence of 3D control points. Every group of four
consecutive points, overlapping by one, forms one cubic segment: segment i
uses points [3i, 3i+3]. Points at indices divisible by 3 are knots, shared
by two adjacent segments; the points on either side of a knot are its
tangent handles. A per-knot mode constrains the handle pair:

   Free      handles move independently (a corner)
   Aligned   handles are kept anti-parallel through the knot
   Mirrored  anti-parallel and at equal distance

The spline caches per-segment arc lengths and their prefix sums, plus a
sample table for O(1) approximate inversion of arc length into a curve
parameter. Both caches are rebuilt lazily on first read after an edit.

Usage

Construct a spline from a point sequence (length 1 mod 3, at least 4) and
a numeric configuration:

   sp, err := spline.New(points, bezarc.DefaultConfig())

then query positions and lengths, or convert arc length to a parameter:

   mid := sp.Evaluate(sp.ParameterAtArcLength(sp.Length() / 2))

Editing goes through SetControlPoint, SetControlPointMode, AddPoint and
DeletePoint, which keep the knot-mode constraints enforced and the caches
invalidated. A spline instance assumes a single writer; no locking is
performed.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// AsString returns a path -- including its control points -- as a
// (debugging) string. One line per segment.
//
// Example, a straight one-segment spline:
//
//	(0,0,0) .. controls (1.0000,0.0000,0.0000) and (2.0000,0.0000,0.0000)
//	  .. (3,0,0)
func AsString(sp *Spline) string {
	var s string
	for i := 0; i < sp.CurveCount(); i++ {
		p0, p1, p2, p3 := sp.segment(i)
		if i == 0 {
			s += ptstring(p0, false)
		}
		s += fmt.Sprintf(" .. controls %s and %s\n  .. %s",
			ptstring(p1, true), ptstring(p2, true), ptstring(p3, false))
	}
	if sp.Loop() {
		s += " .. cycle"
	}
	return s
}

func ptstring(p math32.Vector3, iscontrol bool) string {
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f,%.4f)", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", p.X, p.Y, p.Z)
}
