package walk

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/npillmayer/bezarc"
	"github.com/npillmayer/bezarc/spline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// A one-segment straight spline along x with arc length exactly 3.
func straightSpline(t *testing.T) *spline.Spline {
	t.Helper()
	sp, err := spline.New([]math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0, 0),
		math32.Vec3(3, 0, 0),
	}, bezarc.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sp
}

// Two straight segments with very different speeds: the first spans 3
// units of arc, the second 6. Walking at constant physical speed must not
// glitch at the join.
func unevenSpline(t *testing.T) *spline.Spline {
	t.Helper()
	sp, err := spline.New([]math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0, 0),
		math32.Vec3(3, 0, 0),
		math32.Vec3(5, 0, 0),
		math32.Vec3(7, 0, 0),
		math32.Vec3(9, 0, 0),
	}, bezarc.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sp
}

func TestConstantSpeedStraight(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	progress := float32(0)
	for i := 0; i < 100; i++ {
		progress = w.ProgressAtSpeed(progress, 1, 0.01, 1)
	}
	// one second at speed 1 covers 1 of 3 arc-length units
	assert.InDelta(t, 1.0/3.0, float64(progress), 1e-3)
}

func TestBackwardWalk(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	progress := float32(1)
	for i := 0; i < 100; i++ {
		progress = w.ProgressAtSpeed(progress, 1, 0.01, -1)
	}
	assert.InDelta(t, 2.0/3.0, float64(progress), 1e-3)
}

func TestClampAtLimits(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	if got := w.ProgressAtSpeed(0.9, 10, 1, 1); got != 1 {
		t.Errorf("forward overshoot not clamped: %g", got)
	}
	if got := w.ProgressAtSpeed(0.1, 10, 1, -1); got != 0 {
		t.Errorf("backward overshoot not clamped: %g", got)
	}
}

// Cover the uneven spline at constant physical speed and verify the
// traveled arc length matches speed * time throughout, including the
// tick that crosses the segment boundary.
func TestBoundaryCrossingKeepsSpeed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := unevenSpline(t)
	w := New(sp)
	progress := float32(0)
	elapsed := float32(0)
	dt := float32(0.05)
	for i := 0; i < 120; i++ {
		progress = w.ProgressAtSpeed(progress, 2, dt, 1)
		elapsed += dt
		traveled := sp.ArcLength(0, progress)
		assert.InDelta(t, float64(2*elapsed), float64(traveled), 0.05,
			"arc traveled after %.2fs", elapsed)
		if progress >= 1 {
			break
		}
	}
	// 9 arc units at speed 2 take 4.5 seconds
	assert.InDelta(t, 4.5, float64(elapsed), 0.1)
}

func TestBoundaryCrossingBackward(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := unevenSpline(t)
	w := New(sp)
	progress := float32(1)
	elapsed := float32(0)
	dt := float32(0.05)
	for progress > 0 && elapsed < 10 {
		progress = w.ProgressAtSpeed(progress, 2, dt, -1)
		elapsed += dt
	}
	assert.InDelta(t, 4.5, float64(elapsed), 0.1)
}

func TestZeroVelocityFreezes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := math32.Vec3(1, 1, 1)
	sp, err := spline.New([]math32.Vector3{p, p, p, p}, bezarc.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w := New(sp)
	if got := w.ProgressAtSpeed(0.5, 1, 1, 1); got != 0.5 {
		t.Errorf("degenerate spline advanced progress: %g", got)
	}
}

func TestStepOnceStops(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	st := NewState(Once)
	for i := 0; i < 500 && !st.Done(); i++ {
		w.Step(st, 1, 0.01)
	}
	if !st.Done() {
		t.Fatal("Once walk never finished")
	}
	if st.Progress != 1 {
		t.Errorf("Once walk stopped at %g, want 1", st.Progress)
	}
	w.Step(st, 1, 0.01)
	if st.Progress != 1 {
		t.Errorf("finished walk moved again: %g", st.Progress)
	}
}

func TestStepLoopWraps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	st := NewState(Loop)
	for i := 0; i < 450; i++ { // 4.5 seconds, 1.5 passes over a 3-unit spline
		w.Step(st, 1, 0.01)
		if st.Progress < 0 || st.Progress > 1 {
			t.Fatalf("loop progress escaped [0,1]: %g", st.Progress)
		}
	}
	if st.Done() {
		t.Error("loop walk reported done")
	}
	if st.Progress > 0.9 {
		t.Errorf("loop did not wrap, progress %g", st.Progress)
	}
}

// A ping-pong walk must reach 1, reverse, and come back to 0 without
// overshooting either end.
func TestStepPingPong(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	w := New(straightSpline(t))
	st := NewState(PingPong)
	reachedEnd := false
	for i := 0; i < 1000; i++ { // 10 seconds, > 3 full passes
		w.Step(st, 1, 0.01)
		if st.Progress < 0 || st.Progress > 1 {
			t.Fatalf("pingpong progress escaped [0,1]: %g", st.Progress)
		}
		if st.Progress == 1 {
			reachedEnd = true
			if st.Dir != -1 {
				t.Fatal("direction not reversed at the far end")
			}
		}
		if reachedEnd && st.Progress == 0 {
			if st.Dir != 1 {
				t.Fatal("direction not reversed at the near end")
			}
			return // full round trip done
		}
	}
	t.Fatal("pingpong never completed a round trip")
}

func TestWalkerAccessors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sp := straightSpline(t)
	w := New(sp)
	st := NewState(Once)
	if got := w.At(st); got != sp.Evaluate(0) {
		t.Errorf("At(start) = %v", got)
	}
	dir := w.DirectionAt(st)
	assert.InDelta(t, 1.0, float64(dir.X), 1e-4)
	st.Dir = -1
	dir = w.DirectionAt(st)
	assert.InDelta(t, -1.0, float64(dir.X), 1e-4)
}
