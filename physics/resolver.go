package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilephys/geom"
	"github.com/milk9111/tilephys/tile"
)

const moveEpsilon = 1e-7

// MoveResult is the outcome of a move-and-slide resolution.
type MoveResult struct {
	// Box is the resolved box, Moved the displacement actually applied.
	Box   geom.AABB
	Moved cp.Vector

	HitX bool
	HitY bool

	Grounded   bool
	OnSlope    bool
	OnPlatform bool

	// TileX, TileY identify the last blocking tile, valid when HitX or
	// HitY is set.
	TileX int
	TileY int
	// Normal is the last resolved contact normal.
	Normal cp.Vector
}

// tileContact is one candidate penetration found during an axis pass.
type tileContact struct {
	depth    float64
	tx, ty   int
	flags    tile.Flags
	slope    bool
	platform bool
	normal   cp.Vector
	// surface is the resolved slope surface height, set for slope contacts.
	surface float64
}

// Resolver performs axis-separated iterative move-and-slide of an AABB
// against a tile source. A nil or unbound source resolves every move as
// free motion.
type Resolver struct {
	cfg Config
	src tile.Source
}

func NewResolver(cfg Config, src tile.Source) *Resolver {
	return &Resolver{cfg: cfg, src: src}
}

// Bind replaces the tile source. A nil source is valid and means "no
// world bound".
func (r *Resolver) Bind(src tile.Source) {
	if r == nil {
		return
	}
	r.src = src
}

func (r *Resolver) SetConfig(cfg Config) {
	if r == nil {
		return
	}
	cfg.sanitize()
	r.cfg = cfg
}

func (r *Resolver) source() tile.Source {
	if r == nil || r.src == nil || r.src.TileSize() <= 0 {
		return nil
	}
	return r.src
}

// MoveAABB slides box by delta against the tile grid. Horizontal
// displacement always resolves before vertical; slope and one-way
// platform behavior depend on that order, so it must not change.
func (r *Resolver) MoveAABB(box geom.AABB, delta cp.Vector) MoveResult {
	res := MoveResult{Box: box}
	src := r.source()
	if src == nil {
		res.Box = box.Translate(delta)
		res.Moved = delta
		return res
	}

	remX, remY := delta.X, delta.Y
	for iter := 0; iter < r.cfg.MaxIterations; iter++ {
		progressed := false
		if math.Abs(remX) > moveEpsilon {
			r.stepX(&res, remX)
			remX = 0
			progressed = true
		}
		if r.stepY(&res, remY, delta.Y) {
			progressed = true
		}
		remY = 0
		if !progressed {
			break
		}
	}

	// Even a frame with zero penetration can be "on ground" (resting a
	// skin width above the floor); callers need that for coyote-time
	// style jump logic.
	if !res.Grounded && delta.Y >= 0 {
		r.probeGround(&res)
	}

	res.Moved = res.Box.Center.Sub(box.Center)
	return res
}

// stepX resolves the horizontal component. Platforms and slopes never
// block horizontal motion.
func (r *Resolver) stepX(res *MoveResult, dx float64) {
	test := res.Box.Translate(cp.Vector{X: dx})
	contact := r.deepestBoxContact(test, 0, dx)
	if contact == nil {
		res.Box = test
		return
	}

	sign := 1.0
	if dx < 0 {
		sign = -1
	}
	advance := math.Abs(dx) - contact.depth - r.cfg.SkinWidth
	if advance < 0 {
		// Never push the box backward past its pre-resolution position.
		advance = 0
	}
	res.Box = res.Box.Translate(cp.Vector{X: advance * sign})
	res.HitX = true
	res.TileX, res.TileY = contact.tx, contact.ty
	res.Normal = cp.Vector{X: -sign}
}

// stepY resolves the vertical component. Slopes get a dedicated surface
// test, one-way platforms collide only while falling onto them from
// above, and the deepest violation governs. Returns whether anything
// was resolved.
func (r *Resolver) stepY(res *MoveResult, dy, frameDY float64) bool {
	prevBottom := res.Box.Max().Y
	test := res.Box.Translate(cp.Vector{Y: dy})

	var best *tileContact
	if frameDY >= 0 {
		best = r.slopeContact(test)
	}
	if dy != 0 {
		if c := r.deepestBoxContact(test, 1, dy); c != nil && (best == nil || c.depth > best.depth) {
			best = c
		}
		if dy > 0 {
			if c := r.platformContact(test, prevBottom); c != nil && (best == nil || c.depth > best.depth) {
				best = c
			}
		}
	}
	if best == nil {
		if dy != 0 {
			res.Box = test
			return true
		}
		return false
	}

	skin := r.cfg.SkinWidth
	switch {
	case best.slope:
		// Reposition the bottom edge onto the interpolated surface.
		bottom := best.surface - skin
		res.Box.Center = cp.Vector{X: res.Box.Center.X, Y: bottom - res.Box.Half.Y}
		res.OnSlope = true
		res.Grounded = true
	default:
		sign := 1.0
		if dy < 0 {
			sign = -1
		}
		advance := math.Abs(dy) - best.depth - skin
		if advance < 0 {
			advance = 0
		}
		res.Box = res.Box.Translate(cp.Vector{Y: advance * sign})
		if dy > 0 && best.normal.Y < 0 {
			res.Grounded = true
		}
		res.OnPlatform = res.OnPlatform || best.platform
	}

	res.HitY = true
	res.TileX, res.TileY = best.tx, best.ty
	res.Normal = best.normal
	return true
}

// deepestBoxContact scans every cell touched by test's skin-expanded
// bounds and returns the solid, non-slope tile with the greatest
// penetration along axis (0=X, 1=Y) against motion direction dir. The
// penetration is directional — how far the leading edge crossed the
// tile face being approached — not the symmetric SAT overlap, which
// understates the violation once the box's center passes the tile's.
// Overlap on the other axis must exceed the skin width so a resting
// seam does not read as a wall.
func (r *Resolver) deepestBoxContact(test geom.AABB, axis int, dir float64) *tileContact {
	src := r.source()
	size := src.TileSize()
	skin := r.cfg.SkinWidth

	bounds := test.Expand(skin)
	x0 := tile.WorldToTile(bounds.Min().X, size)
	y0 := tile.WorldToTile(bounds.Min().Y, size)
	x1 := tile.WorldToTile(bounds.Max().X, size)
	y1 := tile.WorldToTile(bounds.Max().Y, size)

	var best *tileContact
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			t := src.TileAt(tx, ty)
			if !t.Solid() || t.Slope() {
				continue
			}
			tb := r.tileBox(tx, ty)
			ox, oy := overlapAmounts(test, tb)
			if ox <= 0 || oy <= 0 {
				continue
			}
			var depth, other float64
			if axis == 0 {
				other = oy
				if dir >= 0 {
					depth = test.Max().X - tb.Min().X
				} else {
					depth = tb.Max().X - test.Min().X
				}
			} else {
				other = ox
				if dir >= 0 {
					depth = test.Max().Y - tb.Min().Y
				} else {
					depth = tb.Max().Y - test.Min().Y
				}
			}
			if depth <= 0 || other <= skin {
				continue
			}
			if best == nil || depth > best.depth {
				var n cp.Vector
				if axis == 0 {
					n = cp.Vector{X: -axisSignOf(dir)}
				} else {
					n = cp.Vector{Y: -axisSignOf(dir)}
				}
				best = &tileContact{depth: depth, tx: tx, ty: ty, flags: t.Flags, normal: n}
			}
		}
	}
	return best
}

// platformContact finds the deepest one-way platform violation. A
// platform only collides when the box was entirely above its top edge
// before this step, so an entity can never snap onto one from below or
// from the side.
func (r *Resolver) platformContact(test geom.AABB, prevBottom float64) *tileContact {
	src := r.source()
	size := src.TileSize()
	skin := r.cfg.SkinWidth

	bounds := test.Expand(skin)
	x0 := tile.WorldToTile(bounds.Min().X, size)
	y0 := tile.WorldToTile(bounds.Min().Y, size)
	x1 := tile.WorldToTile(bounds.Max().X, size)
	y1 := tile.WorldToTile(bounds.Max().Y, size)

	bottom := test.Max().Y
	var best *tileContact
	for ty := y0; ty <= y1; ty++ {
		top := float64(ty) * size
		if prevBottom > top+skin {
			continue
		}
		for tx := x0; tx <= x1; tx++ {
			t := src.TileAt(tx, ty)
			if !t.Platform() || t.Solid() || t.Slope() {
				continue
			}
			ox, _ := overlapAmounts(test, r.tileBox(tx, ty))
			if ox <= skin {
				continue
			}
			depth := bottom - top
			if depth <= 0 {
				continue
			}
			if best == nil || depth > best.depth {
				best = &tileContact{
					depth:    depth,
					tx:       tx,
					ty:       ty,
					flags:    t.Flags,
					platform: true,
					normal:   cp.Vector{Y: -1},
				}
			}
		}
	}
	return best
}

// slopeContact evaluates slope tiles under the box's horizontal center.
// The surface height is lerped across the tile and the response normal
// is the constant 45° normal for the slope's orientation. Boxes wider
// than one tile only see the center column.
func (r *Resolver) slopeContact(test geom.AABB) *tileContact {
	src := r.source()
	size := src.TileSize()

	cx := test.Center.X
	bottom := test.Max().Y
	tx := tile.WorldToTile(cx, size)
	y0 := tile.WorldToTile(test.Min().Y, size)
	y1 := tile.WorldToTile(bottom, size)

	var best *tileContact
	for ty := y0; ty <= y1; ty++ {
		t := src.TileAt(tx, ty)
		if !t.Slope() {
			continue
		}
		top := float64(ty) * size
		u := (cx - float64(tx)*size) / size
		u = math.Max(0, math.Min(1, u))

		var surface float64
		var normal cp.Vector
		if t.SlopeLeft() {
			// High on the left edge, descending to the right.
			surface = top + u*size
			normal = cp.Vector{X: math.Sqrt2 / 2, Y: -math.Sqrt2 / 2}
		} else {
			surface = top + (1-u)*size
			normal = cp.Vector{X: -math.Sqrt2 / 2, Y: -math.Sqrt2 / 2}
		}

		depth := bottom - surface
		if depth <= 0 {
			continue
		}
		if best == nil || depth > best.depth {
			best = &tileContact{
				depth:   depth,
				tx:      tx,
				ty:      ty,
				flags:   t.Flags,
				slope:   true,
				normal:  normal,
				surface: surface,
			}
		}
	}
	return best
}

// probeGround classifies "on ground" without an actual penetration by
// testing a short downward translation of the resolved box.
func (r *Resolver) probeGround(res *MoveResult) {
	probe := res.Box.Translate(cp.Vector{Y: r.cfg.GroundCheckDistance})

	if c := r.slopeContact(probe); c != nil {
		res.Grounded = true
		res.OnSlope = true
		return
	}
	if c := r.deepestBoxContact(probe, 1, 1); c != nil && c.normal.Y < 0 {
		res.Grounded = true
		return
	}
	if c := r.platformContact(probe, res.Box.Max().Y); c != nil {
		res.Grounded = true
		res.OnPlatform = true
	}
}

// GroundCheck reports whether box is within the ground probe distance
// of support below.
func (r *Resolver) GroundCheck(box geom.AABB) bool {
	if r.source() == nil {
		return false
	}
	res := MoveResult{Box: box}
	r.probeGround(&res)
	return res.Grounded
}

// TileSweep is a swept tile query result.
type TileSweep struct {
	geom.Sweep
	TileX int
	TileY int
}

// SweepTiles finds the earliest time of impact of box travelling by
// delta against solid, non-slope tiles. Intended for fast movers such
// as projectiles; slopes are excluded on purpose and fall back to the
// iterative resolver.
func (r *Resolver) SweepTiles(box geom.AABB, delta cp.Vector) TileSweep {
	out := TileSweep{Sweep: geom.Sweep{Position: box.Center.Add(delta)}}
	src := r.source()
	if src == nil {
		return out
	}
	size := src.TileSize()

	bounds := geom.Merge(box, box.Translate(delta)).Expand(r.cfg.SkinWidth)
	x0 := tile.WorldToTile(bounds.Min().X, size)
	y0 := tile.WorldToTile(bounds.Min().Y, size)
	x1 := tile.WorldToTile(bounds.Max().X, size)
	y1 := tile.WorldToTile(bounds.Max().Y, size)

	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			t := src.TileAt(tx, ty)
			if !t.Solid() || t.Slope() {
				continue
			}
			s := geom.SweepAABB(box, delta, r.tileBox(tx, ty))
			if !s.Hit {
				continue
			}
			if !out.Hit || s.Time < out.Time {
				out.Sweep = s
				out.TileX, out.TileY = tx, ty
			}
		}
	}
	return out
}

func (r *Resolver) tileBox(tx, ty int) geom.AABB {
	size := r.src.TileSize()
	return geom.AABBFromRect(float64(tx)*size, float64(ty)*size, size, size)
}

// overlapAmounts returns the unsigned overlap per axis; non-positive
// means separated on that axis.
func overlapAmounts(a, b geom.AABB) (float64, float64) {
	ox := a.Half.X + b.Half.X - math.Abs(a.Center.X-b.Center.X)
	oy := a.Half.Y + b.Half.Y - math.Abs(a.Center.Y-b.Center.Y)
	return ox, oy
}

func axisSignOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
