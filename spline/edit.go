package spline

import (
	"cogentcore.org/core/math32"
	"github.com/npillmayer/bezarc"
)

// SetControlPoint moves the control point at index to pos. Moving a knot
// drags its adjacent handles by the same delta, so the local shape is
// preserved; on a loop spline the welded first/last knot drags the
// neighboring handles of both ends. The affected knot's mode is
// re-enforced afterward and the caches are invalidated.
func (sp *Spline) SetControlPoint(index int, pos math32.Vector3) {
	if index < 0 || index >= len(sp.points) {
		return
	}
	if index%3 == 0 {
		delta := pos.Sub(sp.points[index])
		last := len(sp.points) - 1
		if sp.loop {
			switch index {
			case 0:
				sp.points[1] = sp.points[1].Add(delta)
				sp.points[last-1] = sp.points[last-1].Add(delta)
				sp.points[last] = pos
			case last:
				sp.points[0] = pos
				sp.points[1] = sp.points[1].Add(delta)
				sp.points[index-1] = sp.points[index-1].Add(delta)
			default:
				sp.points[index-1] = sp.points[index-1].Add(delta)
				sp.points[index+1] = sp.points[index+1].Add(delta)
			}
		} else {
			if index > 0 {
				sp.points[index-1] = sp.points[index-1].Add(delta)
			}
			if index+1 <= last {
				sp.points[index+1] = sp.points[index+1].Add(delta)
			}
		}
	}
	sp.points[index] = pos
	sp.EnforceMode(index)
	sp.invalidate()
}

// SetControlPointMode assigns the mode of the knot governing the control
// point at index, re-enforces it and invalidates the caches. On a loop
// spline the welded end knots share one mode.
func (sp *Spline) SetControlPointMode(index int, mode KnotMode) {
	if index < 0 || index >= len(sp.points) {
		return
	}
	k := (index + 1) / 3
	sp.modes[k] = mode
	if sp.loop {
		if k == 0 {
			sp.modes[len(sp.modes)-1] = mode
		} else if k == len(sp.modes)-1 {
			sp.modes[0] = mode
		}
	}
	sp.EnforceMode(index)
	sp.invalidate()
}

// SetLoop welds or unwelds the spline's first and last knot. Welding
// forces the last knot onto the first (position and mode) and re-enforces
// the shared knot.
func (sp *Spline) SetLoop(loop bool) {
	sp.loop = loop
	if loop {
		sp.modes[len(sp.modes)-1] = sp.modes[0]
		sp.SetControlPoint(0, sp.points[0])
		return
	}
	sp.invalidate()
}

// EnforceMode recomputes one tangent handle adjacent to the knot
// governing the control point at index, so the knot's mode constraint
// holds. The handle on the side of index stays fixed; the far handle is
// recomputed from it. Endpoint knots are only enforced on loop splines,
// using wraparound handle indices.
func (sp *Spline) EnforceMode(index int) {
	k := (index + 1) / 3
	mode := sp.modes[k]
	if mode == Free || (!sp.loop && (k == 0 || k == len(sp.modes)-1)) {
		return
	}
	middle := k * 3
	last := len(sp.points) - 1
	var fixed, enforced int
	if index <= middle {
		fixed = middle - 1
		if fixed < 0 {
			fixed = last - 1
		}
		enforced = middle + 1
		if enforced > last {
			enforced = 1
		}
	} else {
		fixed = middle + 1
		if fixed > last {
			fixed = 1
		}
		enforced = middle - 1
		if enforced < 0 {
			enforced = last - 1
		}
	}
	knot := sp.points[middle]
	tangent := knot.Sub(sp.points[fixed])
	if mode == Aligned {
		d := tangent.Length()
		if bezarc.Is0(d) {
			tracer().Errorf("degenerate tangent at knot %d, keeping handle", k)
			return
		}
		tangent = tangent.MulScalar(knot.Sub(sp.points[enforced]).Length() / d)
	}
	sp.points[enforced] = knot.Add(tangent)
}

// AddPoint grows the spline by one segment. A negative index, or one in
// the final segment's last point, appends a segment extrapolated along
// the final tangent direction; any other index splits the segment owning
// that point at its arc-length midpoint.
func (sp *Spline) AddPoint(index int) {
	if index < 0 || index >= len(sp.points)-1 {
		sp.appendSegment()
	} else {
		sp.splitSegment(index / 3)
	}
	sp.invalidate()
}

// Append three points continuing along the last tangent, spaced like the
// final handle. The previous end knot is forced Aligned so the join stays
// smooth; the new end knot starts as a Free corner.
func (sp *Spline) appendSegment() {
	last := len(sp.points) - 1
	end := sp.points[last]
	dir := end.Sub(sp.points[last-1])
	step := dir.Length()
	if bezarc.Is0(step) {
		tracer().Errorf("degenerate final tangent, extrapolating along x")
		dir = math32.Vec3(1, 0, 0)
		step = 1
	} else {
		dir = dir.MulScalar(1 / step)
	}
	sp.points = append(sp.points,
		end.Add(dir.MulScalar(step)),
		end.Add(dir.MulScalar(2*step)),
		end.Add(dir.MulScalar(3*step)),
	)
	sp.modes[len(sp.modes)-1] = Aligned
	sp.modes = append(sp.modes, Free)
	// enforce with the pre-existing handle fixed, so the old last
	// segment keeps its geometry
	sp.EnforceMode(last - 1)
	if sp.loop {
		n := len(sp.points) - 1
		sp.points[n] = sp.points[0]
		sp.modes[len(sp.modes)-1] = sp.modes[0]
		sp.EnforceMode(0)
	}
	tracer().Infof("appended segment, spline now %s", AsString(sp))
}

// Split segment seg at its arc-length midpoint. The split parameter comes
// from exact inversion of half the segment's length; the inserted knot's
// handles are the midpoint tangent scaled by the split parameter and its
// complement (the de Casteljau subsegment handle scale). The outer
// handles of the original segment are kept, so the split is approximate
// for asymmetric segments.
func (sp *Spline) splitSegment(seg int) {
	if seg >= sp.CurveCount() {
		seg = sp.CurveCount() - 1
	}
	p0, p1, p2, p3 := sp.segment(seg)
	half := bezarc.Integrate(p0, p1, p2, p3, 0, 1) / 2
	u := bezarc.InvertArcLength(p0, p1, p2, p3, half, 0.5, sp.cfg.Epsilon, sp.cfg.MaxIterations)
	pos := bezarc.Position(p0, p1, p2, p3, u)
	vel := bezarc.Velocity(p0, p1, p2, p3, u)
	pre := pos.Sub(vel.MulScalar(u / 3))
	post := pos.Add(vel.MulScalar((1 - u) / 3))

	at := seg*3 + 2
	sp.points = append(sp.points, math32.Vector3{}, math32.Vector3{}, math32.Vector3{})
	copy(sp.points[at+3:], sp.points[at:])
	sp.points[at] = pre
	sp.points[at+1] = pos
	sp.points[at+2] = post

	sp.modes = append(sp.modes, Free)
	copy(sp.modes[seg+2:], sp.modes[seg+1:])
	sp.modes[seg+1] = Free
	tracer().Infof("split segment %d at u = %.4g", seg, u)
}

// DeletePoint removes the knot governing the control point at index
// together with one adjacent handle set, shrinking the spline by one
// segment. The call is a silent no-op when only one segment remains: the
// spline never becomes invalid.
func (sp *Spline) DeletePoint(index int) {
	if sp.CurveCount() < 2 {
		tracer().Infof("refusing delete: spline has a single segment")
		return
	}
	if index < 0 || index >= len(sp.points) {
		return
	}
	k := (index + 1) / 3
	last := len(sp.points) - 1
	var from int
	switch {
	case k == 0:
		from = 0 // start knot: drop knot and the two points after it
	case k == len(sp.modes)-1:
		from = last - 2 // end knot: drop the two points before it and the knot
	default:
		from = k*3 - 1 // interior: drop pre-handle, knot, post-handle
	}
	sp.points = append(sp.points[:from], sp.points[from+3:]...)
	sp.modes = append(sp.modes[:k], sp.modes[k+1:]...)
	if sp.loop {
		n := len(sp.points) - 1
		sp.points[n] = sp.points[0]
		sp.modes[len(sp.modes)-1] = sp.modes[0]
	}
	sp.invalidate()
}
