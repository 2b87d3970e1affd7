package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Sweep is the outcome of a swept box test. Time is the fraction of the
// requested displacement travelled before impact, in [0,1]; 0 means the
// boxes already overlapped at the start of the sweep.
type Sweep struct {
	Hit      bool
	Time     float64
	Normal   cp.Vector
	Position cp.Vector
}

// SweepAABB slides box a along delta and reports the first time of
// impact against b. It is the slab test against b expanded by a's
// half-extents (Minkowski sum), so a zero-velocity axis degenerates to
// an "already inside the slab" check instead of a division by zero.
func SweepAABB(a AABB, delta cp.Vector, b AABB) Sweep {
	// Already overlapping: report time 0 with the smaller-overlap normal.
	if a.Intersects(b) {
		c := TestCollision(a, b)
		return Sweep{Hit: true, Time: 0, Normal: c.Normal, Position: a.Center}
	}

	ext := b
	ext.Half = ext.Half.Add(a.Half)
	min := ext.Min()
	max := ext.Max()

	tEntry := math.Inf(-1)
	tExit := math.Inf(1)
	axis := -1 // 0 = X, 1 = Y

	enter, exit, ok := slabTimes(a.Center.X, delta.X, min.X, max.X)
	if !ok {
		return Sweep{Position: a.Center.Add(delta)}
	}
	if enter > tEntry {
		tEntry = enter
		axis = 0
	}
	tExit = math.Min(tExit, exit)

	enter, exit, ok = slabTimes(a.Center.Y, delta.Y, min.Y, max.Y)
	if !ok {
		return Sweep{Position: a.Center.Add(delta)}
	}
	if enter > tEntry {
		tEntry = enter
		axis = 1
	}
	tExit = math.Min(tExit, exit)

	if tEntry > tExit || tEntry < 0 || tEntry > 1 {
		return Sweep{Position: a.Center.Add(delta)}
	}

	var normal cp.Vector
	switch axis {
	case 0:
		normal = cp.Vector{X: -axisSign(delta.X)}
	case 1:
		normal = cp.Vector{Y: -axisSign(delta.Y)}
	}

	return Sweep{
		Hit:      true,
		Time:     tEntry,
		Normal:   normal,
		Position: a.Center.Add(delta.Mult(tEntry)),
	}
}

// slabTimes returns the parametric entry/exit of a point moving at v
// through [lo, hi]. A stationary point is either always inside the slab
// or can never enter it.
func slabTimes(p, v, lo, hi float64) (enter, exit float64, ok bool) {
	if v == 0 {
		if p < lo || p > hi {
			return 0, 0, false
		}
		return math.Inf(-1), math.Inf(1), true
	}
	t0 := (lo - p) / v
	t1 := (hi - p) / v
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
