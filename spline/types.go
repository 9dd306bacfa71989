package spline

import (
	"errors"
	"fmt"
	"math"

	"cogentcore.org/core/math32"
	"github.com/npillmayer/bezarc"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bezarc.spline'
func tracer() tracing.Trace {
	return tracing.Select("bezarc.spline")
}

var (
	// ErrBadPointCount indicates a control point sequence that does not
	// describe whole cubic segments (length must be 1 mod 3, at least 4).
	ErrBadPointCount = errors.New("control point count must be 1 mod 3 and at least 4")
	// ErrBadModeCount indicates a mode sequence whose length is not the
	// knot count (segment count + 1).
	ErrBadModeCount = errors.New("knot mode count must equal segment count + 1")
	// ErrInvalidPoint indicates a control point coordinate contains NaN/Inf.
	ErrInvalidPoint = errors.New("control point has invalid coordinate")
)

// KnotMode constrains the two tangent handles adjacent to a knot.
type KnotMode int

const (
	// Free leaves both handles independent.
	Free KnotMode = iota
	// Aligned keeps the handles anti-parallel through the knot; their
	// distances from the knot stay independent.
	Aligned
	// Mirrored keeps the handles anti-parallel and at equal distance.
	Mirrored
)

func (m KnotMode) String() string {
	switch m {
	case Free:
		return "free"
	case Aligned:
		return "aligned"
	case Mirrored:
		return "mirrored"
	}
	return fmt.Sprintf("KnotMode(%d)", int(m))
}

// Spline is an ordered sequence of cubic Bezier segments sharing endpoint
// knots. It owns its point and mode sequences exclusively and assumes a
// single writer.
type Spline struct {
	points []math32.Vector3
	modes  []KnotMode // one per knot
	loop   bool
	cfg    bezarc.Config

	// arc-length caches, rebuilt lazily after edits
	segLengths   []float32
	cumLengths   []float32
	lengthsValid bool

	// approximate-inversion table; depends on the length cache
	samples      []sample
	tableSpacing float32
	tableValid   bool
}

// One approximate-inversion table entry: the parameter at a fixed
// arc-length position, and the local slope dt/ds towards the next entry.
type sample struct {
	t     float32
	slope float32
}

// Segment is one free-standing cubic Bezier, as produced by Subdivision.
type Segment struct {
	P0, P1, P2, P3 math32.Vector3
}

// Editor is the capability surface of an interactive collaborator. The
// core never renders or handles input itself; an external implementation
// calls back into the spline's mutation API.
type Editor interface {
	Render(sp *Spline)
	OnEdit(index int, pos math32.Vector3)
}

// New creates a spline over the given control points, with all knots in
// Free mode. The sequence must describe whole cubic segments.
func New(points []math32.Vector3, cfg bezarc.Config) (*Spline, error) {
	n := len(points)
	if n < 4 || n%3 != 1 {
		return nil, fmt.Errorf("%w: got %d points", ErrBadPointCount, n)
	}
	modes := make([]KnotMode, (n-1)/3+1)
	return NewWithModes(points, modes, cfg)
}

// NewWithModes creates a spline with an explicit knot mode sequence.
// Modes are enforced immediately, so handle positions may be adjusted.
func NewWithModes(points []math32.Vector3, modes []KnotMode, cfg bezarc.Config) (*Spline, error) {
	n := len(points)
	if n < 4 || n%3 != 1 {
		return nil, fmt.Errorf("%w: got %d points", ErrBadPointCount, n)
	}
	if len(modes) != (n-1)/3+1 {
		return nil, fmt.Errorf("%w: got %d modes for %d segments", ErrBadModeCount, len(modes), (n-1)/3)
	}
	for i, p := range points {
		if isBad(p.X) || isBad(p.Y) || isBad(p.Z) {
			return nil, fmt.Errorf("%w at point %d", ErrInvalidPoint, i)
		}
	}
	sp := &Spline{
		points: append([]math32.Vector3(nil), points...),
		modes:  append([]KnotMode(nil), modes...),
		cfg:    cfg.Sane(),
	}
	for k := 0; k < len(sp.modes); k++ {
		sp.EnforceMode(k * 3)
	}
	return sp, nil
}

// Default returns the canonical fresh spline: one straight segment along
// the x axis, both knots Free.
func Default(cfg bezarc.Config) *Spline {
	sp, err := New([]math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0, 0),
		math32.Vec3(3, 0, 0),
	}, cfg)
	if err != nil {
		panic(err) // the default points are valid
	}
	return sp
}

func isBad(x float32) bool {
	f := float64(x)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// CurveCount returns the number of cubic segments.
func (sp *Spline) CurveCount() int {
	return (len(sp.points) - 1) / 3
}

// PointCount returns the number of control points.
func (sp *Spline) PointCount() int {
	return len(sp.points)
}

// Point returns the control point at index i.
func (sp *Spline) Point(i int) math32.Vector3 {
	return sp.points[i]
}

// Points returns a copy of the control point sequence.
func (sp *Spline) Points() []math32.Vector3 {
	return append([]math32.Vector3(nil), sp.points...)
}

// Mode returns the knot mode governing the control point at index i.
// Handles report the mode of their adjacent knot.
func (sp *Spline) Mode(i int) KnotMode {
	return sp.modes[(i+1)/3]
}

// Loop reports whether first and last knot are welded.
func (sp *Spline) Loop() bool {
	return sp.loop
}

// Config returns the numeric configuration.
func (sp *Spline) Config() bezarc.Config {
	return sp.cfg
}

// SetConfig swaps the numeric configuration and invalidates the caches,
// since integration fineness and sample spacing may have changed.
func (sp *Spline) SetConfig(cfg bezarc.Config) {
	sp.cfg = cfg.Sane()
	sp.invalidate()
}

// Control points of segment i.
func (sp *Spline) segment(i int) (p0, p1, p2, p3 math32.Vector3) {
	j := i * 3
	return sp.points[j], sp.points[j+1], sp.points[j+2], sp.points[j+3]
}

// Map a whole-spline parameter to a segment index and local parameter.
// t = 1 maps into the last segment with local parameter 1.
func (sp *Spline) segmentAt(t float32) (int, float32) {
	n := sp.CurveCount()
	u := bezarc.Clamp01(t) * float32(n)
	i := int(u)
	if i >= n {
		i = n - 1
	}
	return i, u - float32(i)
}

func (sp *Spline) invalidate() {
	sp.lengthsValid = false
	sp.tableValid = false
}
