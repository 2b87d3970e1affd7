package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, components, and system order.
type World struct {
	entities entityStore
	systems  []System
	events   EventQueue

	transforms *SparseSet
	velocities *SparseSet
	gravities  *SparseSet
	colliders  *SparseSet
	collStates *SparseSet
	triggers   *SparseSet
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		transforms: &SparseSet{},
		velocities: &SparseSet{},
		gravities:  &SparseSet{},
		colliders:  &SparseSet{},
		collStates: &SparseSet{},
		triggers:   &SparseSet{},
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity marks an entity as dead and drops its components.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	id := e.ID()
	w.transforms.Remove(id)
	w.velocities.Remove(id)
	w.gravities.Remove(id)
	w.colliders.Remove(id)
	w.collStates.Remove(id)
	w.triggers.Remove(id)
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once, in registration order.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// EntityAt rebuilds the live handle for a sparse-set id, or 0 if the
// id was never allocated. Systems iterating a SparseSet use this to get
// back the full generational handle.
func (w *World) EntityAt(id int) Entity {
	if w == nil || id <= 0 || id > len(w.entities.gen) {
		return 0
	}
	return makeEntity(entityID(id), w.entities.gen[id-1])
}
