package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// AABB is an axis-aligned box stored as center + half-extents. Corners
// are derived on demand so translation and expansion never leave stale
// cached state behind.
type AABB struct {
	Center cp.Vector
	Half   cp.Vector
}

// Collision is the outcome of a penetration test. Normal is a unit axis
// vector pointing from B toward A, Depth is the penetration along it.
type Collision struct {
	Collided bool
	Normal   cp.Vector
	Depth    float64
	Point    cp.Vector
}

// NewAABB builds a box from center and half-extents. Negative extents
// are folded to their absolute value.
func NewAABB(center, half cp.Vector) AABB {
	return AABB{
		Center: center,
		Half:   cp.Vector{X: math.Abs(half.X), Y: math.Abs(half.Y)},
	}
}

// AABBFromRect builds a box from a top-left corner and a size.
func AABBFromRect(x, y, w, h float64) AABB {
	half := cp.Vector{X: w / 2, Y: h / 2}
	return NewAABB(cp.Vector{X: x + half.X, Y: y + half.Y}, half)
}

// AABBFromMinMax builds a box from opposite corners.
func AABBFromMinMax(min, max cp.Vector) AABB {
	return NewAABB(min.Add(max).Mult(0.5), max.Sub(min).Mult(0.5))
}

// Min returns the top-left corner.
func (a AABB) Min() cp.Vector {
	return a.Center.Sub(a.Half)
}

// Max returns the bottom-right corner.
func (a AABB) Max() cp.Vector {
	return a.Center.Add(a.Half)
}

// Intersects reports whether the two boxes overlap.
func (a AABB) Intersects(b AABB) bool {
	return math.Abs(a.Center.X-b.Center.X) < a.Half.X+b.Half.X &&
		math.Abs(a.Center.Y-b.Center.Y) < a.Half.Y+b.Half.Y
}

// Overlap returns the signed overlap per axis. The magnitude is the
// penetration depth along that axis; the sign is the direction that
// pushes a out of b. A non-positive magnitude means the boxes are
// separated on that axis.
func (a AABB) Overlap(b AABB) cp.Vector {
	d := a.Center.Sub(b.Center)
	ox := a.Half.X + b.Half.X - math.Abs(d.X)
	oy := a.Half.Y + b.Half.Y - math.Abs(d.Y)
	return cp.Vector{X: math.Copysign(ox, d.X), Y: math.Copysign(oy, d.Y)}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float64) AABB {
	return NewAABB(a.Center, a.Half.Add(cp.Vector{X: margin, Y: margin}))
}

// Translate returns the box moved by d.
func (a AABB) Translate(d cp.Vector) AABB {
	return AABB{Center: a.Center.Add(d), Half: a.Half}
}

// Merge returns the bounding union of two boxes.
func Merge(a, b AABB) AABB {
	min := cp.Vector{X: math.Min(a.Min().X, b.Min().X), Y: math.Min(a.Min().Y, b.Min().Y)}
	max := cp.Vector{X: math.Max(a.Max().X, b.Max().X), Y: math.Max(a.Max().Y, b.Max().Y)}
	return AABBFromMinMax(min, max)
}

// TestCollision resolves the penetration between two overlapping boxes.
// The resolution axis is the one with the smaller overlap; equal
// overlaps resolve on X because it is computed first. The normal points
// from b toward a and centered contact is approximated by the middle of
// the overlap region.
func TestCollision(a, b AABB) Collision {
	d := a.Center.Sub(b.Center)
	ox := a.Half.X + b.Half.X - math.Abs(d.X)
	oy := a.Half.Y + b.Half.Y - math.Abs(d.Y)
	if ox <= 0 || oy <= 0 {
		return Collision{}
	}

	var normal cp.Vector
	depth := ox
	if ox <= oy {
		normal = cp.Vector{X: axisSign(d.X)}
	} else {
		depth = oy
		normal = cp.Vector{Y: axisSign(d.Y)}
	}

	lo := cp.Vector{X: math.Max(a.Min().X, b.Min().X), Y: math.Max(a.Min().Y, b.Min().Y)}
	hi := cp.Vector{X: math.Min(a.Max().X, b.Max().X), Y: math.Min(a.Max().Y, b.Max().Y)}

	return Collision{
		Collided: true,
		Normal:   normal,
		Depth:    depth,
		Point:    lo.Add(hi).Mult(0.5),
	}
}

// axisSign maps a separation delta to a push direction. Perfectly
// coincident centers push positive so the result stays deterministic.
func axisSign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
