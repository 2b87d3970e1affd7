package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/geom"
	"github.com/milk9111/tilephys/tile"
)

// RayHit is the result of any raycast variant. Distance is world units
// along the (normalized) ray direction. For tile hits IsTile is set and
// TileX/TileY identify the cell; for entity hits Entity is the hit
// entity.
type RayHit struct {
	Hit      bool
	Distance float64
	Point    cp.Vector
	Normal   cp.Vector
	Entity   ecs.Entity
	TileX    int
	TileY    int
	IsTile   bool
}

// RaycastTiles walks the grid with a DDA traversal: step one tile along
// whichever axis reaches its next cell boundary first, and stop at the
// first solid tile or at maxDist. The hit normal is the entry side of
// the final step. A zero direction or nil source misses.
func RaycastTiles(src tile.Source, origin, dir cp.Vector, maxDist float64) RayHit {
	if src == nil || src.TileSize() <= 0 || maxDist <= 0 {
		return RayHit{}
	}
	if dir.X == 0 && dir.Y == 0 {
		return RayHit{}
	}
	dir = dir.Normalize()
	size := src.TileSize()

	tx := tile.WorldToTile(origin.X, size)
	ty := tile.WorldToTile(origin.Y, size)

	// Starting inside a solid cell: distance 0, no meaningful entry side.
	if src.TileAt(tx, ty).Solid() {
		return RayHit{Hit: true, Point: origin, TileX: tx, TileY: ty, IsTile: true}
	}

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X, dir.X, tx, size)
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y, dir.Y, ty, size)

	for {
		var dist float64
		var normal cp.Vector
		if tMaxX < tMaxY {
			dist = tMaxX
			tMaxX += tDeltaX
			tx += stepX
			normal = cp.Vector{X: float64(-stepX)}
		} else {
			dist = tMaxY
			tMaxY += tDeltaY
			ty += stepY
			normal = cp.Vector{Y: float64(-stepY)}
		}
		if dist > maxDist {
			return RayHit{}
		}
		if src.TileAt(tx, ty).Solid() {
			return RayHit{
				Hit:      true,
				Distance: dist,
				Point:    origin.Add(dir.Mult(dist)),
				Normal:   normal,
				TileX:    tx,
				TileY:    ty,
				IsTile:   true,
			}
		}
	}
}

// ddaAxis prepares one axis of the DDA walk: the cell step direction,
// the distance to the first cell boundary, and the distance between
// boundaries. A zero direction component never crosses a boundary.
func ddaAxis(origin, dir float64, cell int, size float64) (step int, tMax, tDelta float64) {
	if dir == 0 {
		return 0, math.Inf(1), math.Inf(1)
	}
	if dir > 0 {
		return 1, (float64(cell+1)*size - origin) / dir, size / dir
	}
	return -1, (float64(cell)*size - origin) / dir, size / -dir
}

// RaycastEntities scans every enabled, non-trigger collider for the
// closest ray hit. ignore excludes one entity (pass 0 for none);
// colliders whose layer intersects ignoreMask are skipped.
func RaycastEntities(w *ecs.World, origin, dir cp.Vector, maxDist float64, ignore ecs.Entity, ignoreMask uint32) RayHit {
	if w == nil || maxDist <= 0 || (dir.X == 0 && dir.Y == 0) {
		return RayHit{}
	}
	dir = dir.Normalize()

	best := RayHit{Distance: math.Inf(1)}
	for _, id := range ecs.IntersectEntities(w.Colliders(), w.Transforms()) {
		e := w.EntityAt(id)
		if e == ignore {
			continue
		}
		c := w.GetCollider(e)
		if c == nil || c.Disabled || c.IsTrigger {
			continue
		}
		if effLayer(c)&ignoreMask != 0 {
			continue
		}
		t := w.GetTransform(e)
		dist, normal := geom.RayAABB(origin, dir, ColliderBox(t, c))
		if dist < 0 || dist > maxDist {
			continue
		}
		if !best.Hit || dist < best.Distance {
			best = RayHit{
				Hit:      true,
				Distance: dist,
				Point:    origin.Add(dir.Mult(dist)),
				Normal:   normal,
				Entity:   e,
			}
		}
	}
	if !best.Hit {
		return RayHit{}
	}
	return best
}

// Raycast runs the tile and entity queries and returns the closer hit.
// Equal distances favor the tile hit.
func Raycast(src tile.Source, w *ecs.World, origin, dir cp.Vector, maxDist float64, ignore ecs.Entity, ignoreMask uint32) RayHit {
	tileHit := RaycastTiles(src, origin, dir, maxDist)
	entHit := RaycastEntities(w, origin, dir, maxDist, ignore, ignoreMask)
	switch {
	case tileHit.Hit && entHit.Hit:
		if entHit.Distance < tileHit.Distance {
			return entHit
		}
		return tileHit
	case entHit.Hit:
		return entHit
	default:
		return tileHit
	}
}

// ConeCast fans n rays evenly across spread radians centered on dir and
// resolves each independently via the combined query. It returns one
// result per ray, hit or not, in fan order.
func ConeCast(src tile.Source, w *ecs.World, origin, dir cp.Vector, spread float64, n int, maxDist float64, ignore ecs.Entity, ignoreMask uint32) []RayHit {
	if n <= 0 || (dir.X == 0 && dir.Y == 0) {
		return nil
	}
	base := math.Atan2(dir.Y, dir.X)
	out := make([]RayHit, 0, n)
	for i := 0; i < n; i++ {
		angle := base
		if n > 1 {
			angle += -spread/2 + spread*float64(i)/float64(n-1)
		}
		d := cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}
		out = append(out, Raycast(src, w, origin, d, maxDist, ignore, ignoreMask))
	}
	return out
}

// LineOfSight reports whether the segment from a to b is unobstructed.
// Entities are only considered when checkEntities is set; ignore is
// excluded either way.
func LineOfSight(src tile.Source, w *ecs.World, from, to cp.Vector, checkEntities bool, ignore ecs.Entity) bool {
	d := to.Sub(from)
	dist := d.Length()
	if dist == 0 {
		return true
	}
	dir := d.Mult(1 / dist)

	if hit := RaycastTiles(src, from, dir, dist); hit.Hit && hit.Distance < dist {
		return false
	}
	if checkEntities {
		if hit := RaycastEntities(w, from, dir, dist, ignore, 0); hit.Hit && hit.Distance < dist {
			return false
		}
	}
	return true
}
