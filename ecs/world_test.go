package ecs

import (
	"testing"

	"github.com/milk9111/tilephys/ecs/components"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := w.CreateEntity()
				if !e.Valid() || !w.IsAlive(e) {
					t.Fatalf("created entity %v is not alive", e)
				}
				ents = append(ents, e)
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for a live entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("double destroy should report false")
				}
			}
		})
	}
}

func TestEntityIDReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	first := w.CreateEntity()
	w.DestroyEntity(first)

	second := w.CreateEntity()
	if second.ID() != first.ID() {
		t.Fatalf("expected id reuse, got %d and %d", first.ID(), second.ID())
	}
	if second == first {
		t.Fatalf("recycled handle should differ by generation")
	}
	if w.IsAlive(first) {
		t.Fatalf("stale handle reports alive")
	}
	if !w.IsAlive(second) {
		t.Fatalf("new handle reports dead")
	}
	if w.EntityAt(first.ID()) != second {
		t.Fatalf("EntityAt should rebuild the current-generation handle")
	}
}

func TestComponentAccessors(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	if w.GetTransform(e) != nil {
		t.Fatalf("unset transform should be nil")
	}

	w.SetTransform(e, &components.Transform{X: 3, Y: 4})
	w.SetVelocity(e, &components.Velocity{X: -1})
	w.SetCollider(e, &components.Collider{Width: 16, Height: 16})
	w.SetCollisionState(e, &components.CollisionState{Grounded: true})
	w.SetGravity(e, &components.Gravity{Scale: 2})
	w.SetTrigger(e, &components.Trigger{})

	if tr := w.GetTransform(e); tr == nil || tr.X != 3 || tr.Y != 4 {
		t.Fatalf("transform round-trip failed: %+v", w.GetTransform(e))
	}
	if v := w.GetVelocity(e); v == nil || v.X != -1 {
		t.Fatalf("velocity round-trip failed")
	}
	if g := w.GetGravity(e); g == nil || g.Scale != 2 {
		t.Fatalf("gravity round-trip failed")
	}
	if w.GetCollider(e) == nil || w.GetCollisionState(e) == nil || w.GetTrigger(e) == nil {
		t.Fatalf("component round-trip failed")
	}

	// Destroying the entity drops its components and invalidates access.
	w.DestroyEntity(e)
	if w.GetTransform(e) != nil {
		t.Fatalf("transform survives destruction")
	}
	if w.Transforms().Has(e.ID()) {
		t.Fatalf("storage retains destroyed entity")
	}
}

func TestIntersectEntities(t *testing.T) {
	w := NewWorld()
	both := w.CreateEntity()
	onlyTransform := w.CreateEntity()

	w.SetTransform(both, &components.Transform{})
	w.SetCollider(both, &components.Collider{})
	w.SetTransform(onlyTransform, &components.Transform{})

	ids := IntersectEntities(w.Transforms(), w.Colliders())
	if len(ids) != 1 || ids[0] != both.ID() {
		t.Fatalf("IntersectEntities = %v, want [%d]", ids, both.ID())
	}
}

type countingSystem struct{ calls int }

func (s *countingSystem) Update(*World) { s.calls++ }

func TestSystemOrderAndEvents(t *testing.T) {
	w := NewWorld()
	s := &countingSystem{}
	w.AddSystem(s)
	w.AddSystem(nil)

	w.Events().Push(Event{Type: "test"})
	w.Update()
	if s.calls != 1 {
		t.Fatalf("system ran %d times", s.calls)
	}
	// Update flushes events that were never drained.
	if got := w.Events().Drain(); got != nil {
		t.Fatalf("queue should be empty after update, got %v", got)
	}
}
