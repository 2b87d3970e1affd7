package components

// Collider is an AABB relative to the entity transform plus the
// layer/mask gate the physics system uses to decide whether two
// colliders may interact.
type Collider struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64

	// Layer is a bitmask of this collider's collision category. If zero,
	// the physics system treats it as category 1.
	Layer uint32
	// Mask is a bitmask of categories this collider collides with. If
	// zero, the physics system treats it as all-bits set (collide with all).
	Mask uint32

	// IsTrigger marks the collider as a non-blocking sensor: overlaps are
	// reported but never positionally corrected.
	IsTrigger bool
	// Disabled removes the collider from every query. The zero value is
	// an enabled collider.
	Disabled bool
}

// CollisionState is derived physics state written back by the physics
// pass each frame. Gameplay code reads it; only the physics pass writes it.
type CollisionState struct {
	Grounded   bool
	OnSlope    bool
	OnPlatform bool
	HitX       bool
	HitY       bool

	// Tile coordinates of the last blocking tile, valid when HitX or HitY.
	TileX int
	TileY int

	NormalX float64
	NormalY float64
}

// TriggerFunc receives the trigger entity and the other entity as raw
// uint64 handles (convert with ecs.Entity).
type TriggerFunc func(self, other uint64)

// Trigger holds the overlap callbacks fired by the trigger tracker.
// Nil callbacks are skipped.
type Trigger struct {
	OnEnter TriggerFunc
	OnStay  TriggerFunc
	OnExit  TriggerFunc
}
