// Package walk advances a progress parameter along a spline at a target
// physical speed.
/*

The parameterization of a Bezier spline is not uniform: equal parameter
steps cover unequal distances. A Walker converts a desired linear speed
and an elapsed-time delta into a parameter delta by normalizing with the
local velocity magnitude, so traversal speed stays constant along the
path. Steps that cross a segment boundary are split at the join, because
velocity magnitude may jump there.

The package performs no timing of its own. A host frame loop calls Step
once per tick with the elapsed time; stopping the walk is simply not
calling Step anymore.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package walk

import (
	"cogentcore.org/core/math32"
	"github.com/npillmayer/bezarc"
	"github.com/npillmayer/bezarc/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bezarc.walk'
func tracer() tracing.Trace {
	return tracing.Select("bezarc.walk")
}

// Mode selects what happens when a walk reaches the end of the spline.
type Mode int

const (
	// Once stops at the limit.
	Once Mode = iota
	// Loop wraps back to the opposite end.
	Loop
	// PingPong reverses direction at either end.
	PingPong
)

func (m Mode) String() string {
	switch m {
	case Once:
		return "once"
	case Loop:
		return "loop"
	case PingPong:
		return "pingpong"
	}
	return "Mode(?)"
}

// Walker traverses a spline. It holds a reference to the spline and never
// mutates it.
type Walker struct {
	sp *spline.Spline
}

// State is the mutable per-walk state, advanced by Step once per tick.
type State struct {
	Progress float32 // whole-spline parameter in [0,1]
	Dir      float32 // +1 forward, -1 backward
	Mode     Mode
	done     bool
}

// NewState returns a walk state at the spline's start, moving forward.
func NewState(mode Mode) *State {
	return &State{Dir: 1, Mode: mode}
}

// Done reports whether a Once walk has reached its limit.
func (st *State) Done() bool {
	return st.done
}

// New creates a Walker over sp.
func New(sp *spline.Spline) *Walker {
	return &Walker{sp: sp}
}

// ProgressAtSpeed converts a desired linear speed into a new progress
// value after elapsed seconds, moving in direction dir (+1 or -1).
//
// The raw parameter delta is elapsed * targetVelocity normalized by the
// local velocity magnitude and the segment count. When the step would
// cross a segment boundary, it is split there: the walk advances to the
// boundary on the current segment's speed, then spends the remaining time
// fraction on the next segment's speed. Without the split, traversal
// speed would glitch visibly at every join of a spline with Free knots.
// The result is clamped to [0,1].
//
// A degenerate zero velocity at the current progress freezes the walk
// (progress is returned unchanged) rather than dividing by zero.
func (w *Walker) ProgressAtSpeed(progress, targetVelocity, elapsed, dir float32) float32 {
	progress = bezarc.Clamp01(progress)
	n := float32(w.sp.CurveCount())
	speed := w.sp.Velocity(progress).Length()
	if bezarc.Is0(speed) {
		tracer().Errorf("zero velocity at progress %.6g, freezing walk", progress)
		return progress
	}
	delta := elapsed * targetVelocity / speed / n * dir
	next := progress + delta

	if boundary, crossed := w.crossing(progress, next, dir); crossed {
		used := (boundary - progress) / delta // fraction of the step up to the join
		remaining := elapsed * (1 - used)
		speed2 := w.speedBeyond(boundary, dir)
		if bezarc.Is0(speed2) {
			tracer().Errorf("zero velocity beyond boundary %.6g, stopping at join", boundary)
			return boundary
		}
		next = boundary + remaining*targetVelocity/speed2/n*dir
		tracer().Debugf("split step at boundary %.6g, %.4g of the time used before", boundary, used)
	}
	return bezarc.Clamp01(next)
}

// Detect whether stepping from progress to next crosses a segment
// boundary strictly inside (0,1), and return that boundary.
func (w *Walker) crossing(progress, next, dir float32) (float32, bool) {
	n := float32(w.sp.CurveCount())
	u0 := progress * n
	u1 := next * n
	if dir > 0 {
		b := math32.Floor(u0) + 1
		if u1 > b && b < n {
			return b / n, true
		}
	} else {
		b := math32.Ceil(u0) - 1
		if u1 < b && b > 0 {
			return b / n, true
		}
	}
	return 0, false
}

// Velocity magnitude on the far side of a boundary, in walking direction.
// For forward walks the whole-spline mapping already selects the next
// segment at the boundary; backward walks sample the previous segment at
// its local end.
func (w *Walker) speedBeyond(boundary, dir float32) float32 {
	n := w.sp.CurveCount()
	seg := int(boundary*float32(n) + 0.5)
	if dir > 0 {
		return w.sp.SegmentVelocity(seg, 0).Length()
	}
	return w.sp.SegmentVelocity(seg-1, 1).Length()
}

// Step advances a walk state by one tick and applies the traversal-mode
// rule at the limits: Once stops, Loop wraps by the traveled range, and
// PingPong reverses direction, the new limit being whichever endpoint
// lies in the new direction.
func (w *Walker) Step(st *State, targetVelocity, elapsed float32) {
	if st.done {
		return
	}
	if st.Dir == 0 {
		st.Dir = 1
	}
	st.Progress = w.ProgressAtSpeed(st.Progress, targetVelocity, elapsed, st.Dir)
	if st.Dir > 0 && st.Progress >= 1 {
		switch st.Mode {
		case Once:
			st.Progress = 1
			st.done = true
		case Loop:
			st.Progress -= 1
		case PingPong:
			st.Progress = 1
			st.Dir = -1
		}
	} else if st.Dir < 0 && st.Progress <= 0 {
		switch st.Mode {
		case Once:
			st.Progress = 0
			st.done = true
		case Loop:
			st.Progress += 1
		case PingPong:
			st.Progress = 0
			st.Dir = 1
		}
	}
}

// At returns the position for a walk state.
func (w *Walker) At(st *State) math32.Vector3 {
	return w.sp.Evaluate(st.Progress)
}

// DirectionAt returns the normalized travel direction for a walk state,
// accounting for backward walks.
func (w *Walker) DirectionAt(st *State) math32.Vector3 {
	return w.sp.Direction(st.Progress).MulScalar(st.Dir)
}
