package physics

import (
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/tilephys/common"
	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/components"
	"github.com/milk9111/tilephys/geom"
	"github.com/milk9111/tilephys/tile"
)

// FixedStep is the timestep used when the physics world runs as a plain
// ecs.System.
const FixedStep = 1.0 / 60.0

// EventContact is the ecs event queue type for published contact events.
const EventContact = "physics.contact"

// ContactEvent is published to subscribers for every contact, from the
// perspective of Entity. IsTile distinguishes tile hits (TileX/TileY
// valid) from entity hits (Other valid).
type ContactEvent struct {
	Entity    ecs.Entity
	Other     ecs.Entity
	IsTile    bool
	TileX     int
	TileY     int
	Normal    cp.Vector
	Point     cp.Vector
	IsTrigger bool
}

// ContactHandler receives published contact events. Handlers run
// synchronously inside Step and must not mutate physics state.
type ContactHandler func(ContactEvent)

// Stats are rolling per-step diagnostics.
type Stats struct {
	Steps          uint64
	Entities       int
	TileHits       int
	EntityContacts int
	TriggerPairs   int
	Elapsed        time.Duration
	TotalElapsed   time.Duration
}

// World is the per-frame physics orchestrator: gravity, tile
// move-and-slide, entity broad phase, trigger tracking, in that strict
// order. It is single-threaded; a multi-threaded host must serialize
// calls into it.
type World struct {
	cfg      Config
	src      tile.Source
	resolver *Resolver
	tracker  *TriggerTracker
	handlers []ContactHandler
	log      *zap.Logger
	stats    Stats
}

// Option configures a World.
type Option func(*World)

// WithConfig overrides the default tuning values.
func WithConfig(cfg Config) Option {
	return func(pw *World) { pw.cfg = cfg }
}

// WithLogger sets the diagnostic logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(pw *World) {
		if l != nil {
			pw.log = l
		}
	}
}

// WithTiles binds the tile source at construction.
func WithTiles(src tile.Source) Option {
	return func(pw *World) { pw.src = src }
}

// NewWorld creates a physics world with default configuration and no
// tile source bound.
func NewWorld(opts ...Option) *World {
	pw := &World{
		cfg: DefaultConfig(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(pw)
	}
	pw.cfg.sanitize()
	pw.resolver = NewResolver(pw.cfg, pw.src)
	pw.tracker = NewTriggerTracker()
	return pw
}

// SetConfig replaces the tuning values.
func (pw *World) SetConfig(cfg Config) {
	if pw == nil {
		return
	}
	cfg.sanitize()
	pw.cfg = cfg
	pw.resolver.SetConfig(cfg)
}

// Config returns the current tuning values.
func (pw *World) Config() Config {
	if pw == nil {
		return DefaultConfig()
	}
	return pw.cfg
}

// BindTiles binds or replaces the tile source. nil unbinds: every
// tile-dependent query then reports no collision.
func (pw *World) BindTiles(src tile.Source) {
	if pw == nil {
		return
	}
	pw.src = src
	pw.resolver.Bind(src)
	pw.log.Debug("tile source bound", zap.Bool("present", src != nil))
}

// Tiles returns the bound tile source, or nil.
func (pw *World) Tiles() tile.Source {
	if pw == nil {
		return nil
	}
	return pw.src
}

// Logger returns the diagnostic logger.
func (pw *World) Logger() *zap.Logger {
	if pw == nil || pw.log == nil {
		return zap.NewNop()
	}
	return pw.log
}

// OnContact registers a collision event subscriber.
func (pw *World) OnContact(h ContactHandler) {
	if pw == nil || h == nil {
		return
	}
	pw.handlers = append(pw.handlers, h)
}

// ClearContactHandlers removes every subscriber.
func (pw *World) ClearContactHandlers() {
	if pw == nil {
		return
	}
	pw.handlers = nil
}

// Triggers returns the trigger tracker.
func (pw *World) Triggers() *TriggerTracker {
	if pw == nil {
		return nil
	}
	return pw.tracker
}

// Stats returns a copy of the rolling diagnostics.
func (pw *World) Stats() Stats {
	if pw == nil {
		return Stats{}
	}
	return pw.stats
}

// Reset clears trigger overlap state and statistics, for world
// teardown.
func (pw *World) Reset() {
	if pw == nil {
		return
	}
	pw.tracker.Reset()
	pw.stats = Stats{}
}

// NotifyDestroyed purges physics state referencing a destroyed entity
// so no stale trigger exit fires next frame.
func (pw *World) NotifyDestroyed(e ecs.Entity) {
	if pw == nil {
		return
	}
	pw.tracker.Forget(e)
}

// Update implements ecs.System with the fixed timestep.
func (pw *World) Update(w *ecs.World) {
	pw.Step(w, FixedStep)
}

// Step runs one physics pass: gravity, move-and-collide, entity
// contacts, triggers, stats. The order is load-bearing; later stages
// assume earlier stages' writes are committed.
func (pw *World) Step(w *ecs.World, dt float64) {
	if pw == nil || w == nil || dt <= 0 {
		return
	}
	start := time.Now()
	pw.stats.Entities = 0
	pw.stats.TileHits = 0
	pw.stats.EntityContacts = 0

	pw.applyGravity(w, dt)
	pw.moveEntities(w, dt)

	ForEachPair(w, func(c Contact) {
		pw.stats.EntityContacts++
		pw.publish(w, ContactEvent{
			Entity:    c.A,
			Other:     c.B,
			Normal:    c.Collision.Normal,
			Point:     c.Collision.Point,
			IsTrigger: c.IsTrigger,
		})
		pw.publish(w, ContactEvent{
			Entity:    c.B,
			Other:     c.A,
			Normal:    c.Collision.Normal.Neg(),
			Point:     c.Collision.Point,
			IsTrigger: c.IsTrigger,
		})
	})

	pw.tracker.Update(w)

	pw.stats.Steps++
	pw.stats.TriggerPairs = pw.tracker.Pairs()
	pw.stats.Elapsed = time.Since(start)
	pw.stats.TotalElapsed += pw.stats.Elapsed
	pw.log.Debug("physics step",
		zap.Uint64("step", pw.stats.Steps),
		zap.Int("entities", pw.stats.Entities),
		zap.Int("tile_hits", pw.stats.TileHits),
		zap.Int("entity_contacts", pw.stats.EntityContacts),
		zap.Duration("elapsed", pw.stats.Elapsed),
	)
}

func (pw *World) applyGravity(w *ecs.World, dt float64) {
	for _, id := range w.Velocities().Entities() {
		e := w.EntityAt(id)
		vel := w.GetVelocity(e)
		if vel == nil {
			continue
		}
		scale := 1.0
		if g := w.GetGravity(e); g != nil {
			if g.Disabled {
				scale = 0
			} else if g.Scale != 0 {
				scale = g.Scale
			}
		}
		vel.X += pw.cfg.Gravity.X * scale * dt
		vel.Y += pw.cfg.Gravity.Y * scale * dt

		vel.X = common.Clamp(vel.X, -pw.cfg.MaxHorizontalSpeed, pw.cfg.MaxHorizontalSpeed)
		if vel.Y > pw.cfg.MaxFallSpeed {
			vel.Y = pw.cfg.MaxFallSpeed
		}
	}
}

func (pw *World) moveEntities(w *ecs.World, dt float64) {
	for _, id := range w.Velocities().Entities() {
		e := w.EntityAt(id)
		vel := w.GetVelocity(e)
		t := w.GetTransform(e)
		if vel == nil || t == nil {
			continue
		}
		pw.stats.Entities++

		delta := cp.Vector{X: vel.X * dt, Y: vel.Y * dt}
		c := w.GetCollider(e)
		if c == nil || c.Disabled {
			t.X += delta.X
			t.Y += delta.Y
			continue
		}

		box := ColliderBox(t, c)
		speed := cp.Vector{X: vel.X, Y: vel.Y}.Length()
		var res MoveResult
		if pw.cfg.SweptCollision && speed > pw.cfg.SweptThreshold {
			res = pw.sweptMove(box, delta)
		} else {
			res = pw.resolver.MoveAABB(box, delta)
		}

		t.X = res.Box.Min().X - c.OffsetX
		t.Y = res.Box.Min().Y - c.OffsetY
		if res.HitX {
			vel.X = 0
		}
		if res.HitY {
			vel.Y = 0
		}

		state := w.GetCollisionState(e)
		if state == nil {
			state = &components.CollisionState{}
			w.SetCollisionState(e, state)
		}
		state.Grounded = res.Grounded
		state.OnSlope = res.OnSlope
		state.OnPlatform = res.OnPlatform
		state.HitX = res.HitX
		state.HitY = res.HitY
		state.TileX = res.TileX
		state.TileY = res.TileY
		state.NormalX = res.Normal.X
		state.NormalY = res.Normal.Y

		if res.HitX || res.HitY {
			pw.stats.TileHits++
			pw.publish(w, ContactEvent{
				Entity: e,
				IsTile: true,
				TileX:  res.TileX,
				TileY:  res.TileY,
				Normal: res.Normal,
				Point:  contactPoint(res.Box, res.Normal),
			})
		}
	}
}

// sweptMove clamps a fast mover to its first time of impact against
// the grid, backing off by the skin width along the hit normal.
func (pw *World) sweptMove(box geom.AABB, delta cp.Vector) MoveResult {
	s := pw.resolver.SweepTiles(box, delta)
	res := MoveResult{Box: box.Translate(delta)}
	if !s.Hit {
		res.Moved = delta
		return res
	}
	center := s.Position.Add(s.Normal.Mult(pw.cfg.SkinWidth))
	res.Box = geom.AABB{Center: center, Half: box.Half}
	res.Moved = center.Sub(box.Center)
	res.HitX = s.Normal.X != 0
	res.HitY = s.Normal.Y != 0
	res.Grounded = s.Normal.Y < 0 && delta.Y >= 0
	res.TileX, res.TileY = s.TileX, s.TileY
	res.Normal = s.Normal
	return res
}

// MoveEntity resolves one entity's movement outside the bulk pass, for
// scripted or networked motion. The transform and collision state are
// written back; velocity is untouched.
func (pw *World) MoveEntity(w *ecs.World, e ecs.Entity, delta cp.Vector) (MoveResult, bool) {
	if pw == nil || w == nil || !w.IsAlive(e) {
		return MoveResult{}, false
	}
	t := w.GetTransform(e)
	c := w.GetCollider(e)
	if t == nil {
		return MoveResult{}, false
	}
	if c == nil || c.Disabled {
		t.X += delta.X
		t.Y += delta.Y
		return MoveResult{Moved: delta}, true
	}
	res := pw.resolver.MoveAABB(ColliderBox(t, c), delta)
	t.X = res.Box.Min().X - c.OffsetX
	t.Y = res.Box.Min().Y - c.OffsetY
	if state := w.GetCollisionState(e); state != nil {
		state.Grounded = res.Grounded
		state.OnSlope = res.OnSlope
		state.OnPlatform = res.OnPlatform
		state.HitX = res.HitX
		state.HitY = res.HitY
		state.TileX = res.TileX
		state.TileY = res.TileY
		state.NormalX = res.Normal.X
		state.NormalY = res.Normal.Y
	}
	return res, true
}

// GroundCheck probes below a single entity's collider.
func (pw *World) GroundCheck(w *ecs.World, e ecs.Entity) bool {
	if pw == nil || w == nil || !w.IsAlive(e) {
		return false
	}
	t := w.GetTransform(e)
	c := w.GetCollider(e)
	if t == nil || c == nil || c.Disabled {
		return false
	}
	return pw.resolver.GroundCheck(ColliderBox(t, c))
}

// ApplyImpulse adds an instantaneous velocity change to an entity.
func (pw *World) ApplyImpulse(w *ecs.World, e ecs.Entity, impulse cp.Vector) {
	if pw == nil || w == nil || !w.IsAlive(e) {
		return
	}
	vel := w.GetVelocity(e)
	if vel == nil {
		return
	}
	vel.X += impulse.X
	vel.Y += impulse.Y
}

// Raycast runs the combined tile+entity query against the bound
// sources.
func (pw *World) Raycast(w *ecs.World, origin, dir cp.Vector, maxDist float64, ignore ecs.Entity, ignoreMask uint32) RayHit {
	if pw == nil {
		return RayHit{}
	}
	return Raycast(pw.src, w, origin, dir, maxDist, ignore, ignoreMask)
}

// RaycastTiles runs the DDA grid query against the bound tile source.
func (pw *World) RaycastTiles(origin, dir cp.Vector, maxDist float64) RayHit {
	if pw == nil {
		return RayHit{}
	}
	return RaycastTiles(pw.src, origin, dir, maxDist)
}

// ConeCast fans rays using the bound sources.
func (pw *World) ConeCast(w *ecs.World, origin, dir cp.Vector, spread float64, n int, maxDist float64, ignore ecs.Entity, ignoreMask uint32) []RayHit {
	if pw == nil {
		return nil
	}
	return ConeCast(pw.src, w, origin, dir, spread, n, maxDist, ignore, ignoreMask)
}

// LineOfSight checks the segment against the bound sources.
func (pw *World) LineOfSight(w *ecs.World, from, to cp.Vector, checkEntities bool, ignore ecs.Entity) bool {
	if pw == nil {
		return true
	}
	return LineOfSight(pw.src, w, from, to, checkEntities, ignore)
}

func (pw *World) publish(w *ecs.World, ev ContactEvent) {
	for _, h := range pw.handlers {
		h(ev)
	}
	if q := w.Events(); q != nil {
		q.Push(ecs.Event{Type: EventContact, Data: ev})
	}
}

// contactPoint approximates the contact location on the box surface
// opposite the contact normal.
func contactPoint(box geom.AABB, normal cp.Vector) cp.Vector {
	return box.Center.Add(cp.Vector{X: -normal.X * box.Half.X, Y: -normal.Y * box.Half.Y})
}
