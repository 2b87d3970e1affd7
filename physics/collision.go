package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/components"
	"github.com/milk9111/tilephys/geom"
)

// Contact is one colliding entity pair from the broad phase. Collision
// carries the normal pointing from B toward A. IsTrigger is set when
// either side is a trigger collider; trigger pairs are reported like
// any other — callers decide whether to apply positional correction.
type Contact struct {
	A         ecs.Entity
	B         ecs.Entity
	Collision geom.Collision
	IsTrigger bool
}

// ColliderBox builds the collider's world-space box from its entity
// transform.
func ColliderBox(t *components.Transform, c *components.Collider) geom.AABB {
	return geom.AABBFromRect(t.X+c.OffsetX, t.Y+c.OffsetY, c.Width, c.Height)
}

// effLayer applies the zero-value conventions: a zero layer is
// category 1.
func effLayer(c *components.Collider) uint32 {
	if c.Layer == 0 {
		return 1
	}
	return c.Layer
}

// effMask applies the zero-value conventions: a zero mask collides
// with everything.
func effMask(c *components.Collider) uint32 {
	if c.Mask == 0 {
		return ^uint32(0)
	}
	return c.Mask
}

// canCollide is the layer/mask gate: each side's layer must intersect
// the other's mask and both colliders must be enabled.
func canCollide(a, b *components.Collider) bool {
	if a == nil || b == nil || a.Disabled || b.Disabled {
		return false
	}
	return effLayer(a)&effMask(b) != 0 && effLayer(b)&effMask(a) != 0
}

// TestPair tests two (transform, collider) pairs, honoring the
// layer/mask gate.
func TestPair(ta *components.Transform, ca *components.Collider, tb *components.Transform, cb *components.Collider) (geom.Collision, bool) {
	if ta == nil || tb == nil || !canCollide(ca, cb) {
		return geom.Collision{}, false
	}
	c := geom.TestCollision(ColliderBox(ta, ca), ColliderBox(tb, cb))
	return c, c.Collided
}

// SweepPair sweeps collider A by delta against collider B, honoring the
// layer/mask gate.
func SweepPair(ta *components.Transform, ca *components.Collider, delta cp.Vector, tb *components.Transform, cb *components.Collider) (geom.Sweep, bool) {
	if ta == nil || tb == nil || !canCollide(ca, cb) {
		return geom.Sweep{}, false
	}
	s := geom.SweepAABB(ColliderBox(ta, ca), delta, ColliderBox(tb, cb))
	return s, s.Hit
}

// ForEachPair runs the O(n²) all-pairs scan over every entity with an
// enabled collider and a transform, invoking fn once per colliding
// pair. Adequate for worlds on the order of a few hundred collider
// entities per frame; larger worlds should swap in a spatially
// partitioned scan behind the same callback contract.
func ForEachPair(w *ecs.World, fn func(Contact)) {
	if w == nil || fn == nil {
		return
	}
	ids := ecs.IntersectEntities(w.Colliders(), w.Transforms())
	for i := 0; i < len(ids); i++ {
		a := w.EntityAt(ids[i])
		ca := w.GetCollider(a)
		if ca == nil || ca.Disabled {
			continue
		}
		ta := w.GetTransform(a)
		for j := i + 1; j < len(ids); j++ {
			b := w.EntityAt(ids[j])
			cb := w.GetCollider(b)
			if cb == nil || cb.Disabled {
				continue
			}
			tb := w.GetTransform(b)
			col, ok := TestPair(ta, ca, tb, cb)
			if !ok {
				continue
			}
			fn(Contact{
				A:         a,
				B:         b,
				Collision: col,
				IsTrigger: ca.IsTrigger || cb.IsTrigger,
			})
		}
	}
}

// CollisionsFor returns every contact between e and all other collider
// entities. An invalid or destroyed entity yields nil.
func CollisionsFor(w *ecs.World, e ecs.Entity) []Contact {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	ca := w.GetCollider(e)
	ta := w.GetTransform(e)
	if ca == nil || ta == nil || ca.Disabled {
		return nil
	}

	var out []Contact
	for _, id := range ecs.IntersectEntities(w.Colliders(), w.Transforms()) {
		b := w.EntityAt(id)
		if b == e {
			continue
		}
		cb := w.GetCollider(b)
		if cb == nil || cb.Disabled {
			continue
		}
		col, ok := TestPair(ta, ca, w.GetTransform(b), cb)
		if !ok {
			continue
		}
		out = append(out, Contact{
			A:         e,
			B:         b,
			Collision: col,
			IsTrigger: ca.IsTrigger || cb.IsTrigger,
		})
	}
	return out
}
