package physics

import (
	"github.com/milk9111/tilephys/ecs"
)

// pairKey is an ordered (trigger, other) pair. Two triggers overlapping
// each other produce two keys, so each runs its own callback stream.
type pairKey struct {
	trigger ecs.Entity
	other   ecs.Entity
}

// TriggerTracker diffs trigger overlap sets across frames and fires
// enter/stay/exit callbacks on the Trigger component of the trigger
// entity. State persists for the lifetime of a loaded world: call
// Reset on teardown and Forget when an entity is destroyed, otherwise
// the next Update fires exit events against dangling handles.
type TriggerTracker struct {
	prev map[pairKey]struct{}
}

func NewTriggerTracker() *TriggerTracker {
	return &TriggerTracker{prev: make(map[pairKey]struct{})}
}

// Update collects the currently overlapping (trigger, other) pairs and
// fires callbacks: enter for pairs new this frame, stay for pairs seen
// last frame too, exit for pairs gone since last frame. A pair that
// stays overlapped for k frames after entry gets k stay events.
func (tt *TriggerTracker) Update(w *ecs.World) {
	if tt == nil || w == nil {
		return
	}
	if tt.prev == nil {
		tt.prev = make(map[pairKey]struct{})
	}

	current := make(map[pairKey]struct{})
	ForEachPair(w, func(c Contact) {
		if !c.IsTrigger {
			return
		}
		ca := w.GetCollider(c.A)
		cb := w.GetCollider(c.B)
		if ca != nil && ca.IsTrigger {
			current[pairKey{trigger: c.A, other: c.B}] = struct{}{}
		}
		if cb != nil && cb.IsTrigger {
			current[pairKey{trigger: c.B, other: c.A}] = struct{}{}
		}
	})

	for key := range current {
		trig := w.GetTrigger(key.trigger)
		if trig == nil {
			continue
		}
		if _, seen := tt.prev[key]; seen {
			invoke(trig.OnStay, key)
		} else {
			invoke(trig.OnEnter, key)
		}
	}
	for key := range tt.prev {
		if _, still := current[key]; still {
			continue
		}
		if trig := w.GetTrigger(key.trigger); trig != nil {
			invoke(trig.OnExit, key)
		}
	}

	tt.prev = current
}

// Forget purges every pair referencing e. Call it when e is destroyed
// so no exit event fires against a stale handle next frame.
func (tt *TriggerTracker) Forget(e ecs.Entity) {
	if tt == nil {
		return
	}
	for key := range tt.prev {
		if key.trigger == e || key.other == e {
			delete(tt.prev, key)
		}
	}
}

// Reset clears all overlap state, for world teardown.
func (tt *TriggerTracker) Reset() {
	if tt == nil {
		return
	}
	tt.prev = make(map[pairKey]struct{})
}

// Pairs returns the number of tracked overlapping pairs.
func (tt *TriggerTracker) Pairs() int {
	if tt == nil {
		return 0
	}
	return len(tt.prev)
}

func invoke(fn func(self, other uint64), key pairKey) {
	if fn == nil {
		return
	}
	fn(uint64(key.trigger), uint64(key.other))
}
