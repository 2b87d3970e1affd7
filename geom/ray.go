package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// RayAABB intersects a ray with a box using the slab method. dir should
// be a unit vector so the returned distance is in world units. A
// negative distance means no hit. A ray starting inside the box returns
// distance 0 with a zero normal, since there is no meaningful entry
// side. The normal is the entry face of the box otherwise.
func RayAABB(origin, dir cp.Vector, box AABB) (float64, cp.Vector) {
	min := box.Min()
	max := box.Max()

	if origin.X >= min.X && origin.X <= max.X && origin.Y >= min.Y && origin.Y <= max.Y {
		return 0, cp.Vector{}
	}
	if dir.X == 0 && dir.Y == 0 {
		return -1, cp.Vector{}
	}

	tEntry := math.Inf(-1)
	tExit := math.Inf(1)
	axis := -1

	enter, exit, ok := slabTimes(origin.X, dir.X, min.X, max.X)
	if !ok {
		return -1, cp.Vector{}
	}
	if enter > tEntry {
		tEntry = enter
		axis = 0
	}
	tExit = math.Min(tExit, exit)

	enter, exit, ok = slabTimes(origin.Y, dir.Y, min.Y, max.Y)
	if !ok {
		return -1, cp.Vector{}
	}
	if enter > tEntry {
		tEntry = enter
		axis = 1
	}
	tExit = math.Min(tExit, exit)

	if tEntry > tExit || tExit < 0 || tEntry < 0 {
		return -1, cp.Vector{}
	}

	var normal cp.Vector
	switch axis {
	case 0:
		normal = cp.Vector{X: -axisSign(dir.X)}
	case 1:
		normal = cp.Vector{Y: -axisSign(dir.Y)}
	}
	return tEntry, normal
}
