package ecs

import "github.com/milk9111/tilephys/ecs/components"

// Transforms returns the transform storage.
func (w *World) Transforms() *SparseSet {
	if w == nil {
		return nil
	}
	return w.transforms
}

// Velocities returns the velocity storage.
func (w *World) Velocities() *SparseSet {
	if w == nil {
		return nil
	}
	return w.velocities
}

// Gravities returns the gravity storage.
func (w *World) Gravities() *SparseSet {
	if w == nil {
		return nil
	}
	return w.gravities
}

// Colliders returns the collider storage.
func (w *World) Colliders() *SparseSet {
	if w == nil {
		return nil
	}
	return w.colliders
}

// CollisionStates returns the collision state storage.
func (w *World) CollisionStates() *SparseSet {
	if w == nil {
		return nil
	}
	return w.collStates
}

// Triggers returns the trigger storage.
func (w *World) Triggers() *SparseSet {
	if w == nil {
		return nil
	}
	return w.triggers
}

func (w *World) SetTransform(e Entity, t *components.Transform) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.transforms.Set(e.ID(), t)
}

func (w *World) GetTransform(e Entity) *components.Transform {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.transforms.Get(e.ID()).(*components.Transform); ok {
		return v
	}
	return nil
}

func (w *World) SetVelocity(e Entity, v *components.Velocity) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.velocities.Set(e.ID(), v)
}

func (w *World) GetVelocity(e Entity) *components.Velocity {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.velocities.Get(e.ID()).(*components.Velocity); ok {
		return v
	}
	return nil
}

func (w *World) SetGravity(e Entity, g *components.Gravity) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.gravities.Set(e.ID(), g)
}

func (w *World) GetGravity(e Entity) *components.Gravity {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.gravities.Get(e.ID()).(*components.Gravity); ok {
		return v
	}
	return nil
}

func (w *World) SetCollider(e Entity, c *components.Collider) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.colliders.Set(e.ID(), c)
}

func (w *World) GetCollider(e Entity) *components.Collider {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.colliders.Get(e.ID()).(*components.Collider); ok {
		return v
	}
	return nil
}

func (w *World) SetCollisionState(e Entity, s *components.CollisionState) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.collStates.Set(e.ID(), s)
}

func (w *World) GetCollisionState(e Entity) *components.CollisionState {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.collStates.Get(e.ID()).(*components.CollisionState); ok {
		return v
	}
	return nil
}

func (w *World) SetTrigger(e Entity, t *components.Trigger) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.triggers.Set(e.ID(), t)
}

func (w *World) GetTrigger(e Entity) *components.Trigger {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	if v, ok := w.triggers.Get(e.ID()).(*components.Trigger); ok {
		return v
	}
	return nil
}
