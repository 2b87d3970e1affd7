package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/components"
)

const (
	layerPlayer = 1 << 0
	layerEnemy  = 1 << 1
)

func TestCanCollideLayerMask(t *testing.T) {
	tests := []struct {
		name string
		a, b components.Collider
		want bool
	}{
		{
			name: "zero values collide with everything",
			a:    components.Collider{},
			b:    components.Collider{},
			want: true,
		},
		{
			name: "mutual interest",
			a:    components.Collider{Layer: layerPlayer, Mask: layerEnemy},
			b:    components.Collider{Layer: layerEnemy, Mask: layerPlayer},
			want: true,
		},
		{
			// The gate is symmetric: A wants enemies and B is one, but B
			// wants enemies too and A is a player.
			name: "one sided interest",
			a:    components.Collider{Layer: layerPlayer, Mask: layerEnemy},
			b:    components.Collider{Layer: layerEnemy, Mask: layerEnemy},
			want: false,
		},
		{
			name: "same layer same mask mismatch",
			a:    components.Collider{Layer: layerPlayer, Mask: layerEnemy},
			b:    components.Collider{Layer: layerPlayer, Mask: layerEnemy},
			want: false,
		},
		{
			name: "zero mask accepts any layer",
			a:    components.Collider{Layer: layerEnemy},
			b:    components.Collider{Mask: layerEnemy},
			want: true,
		},
		{
			name: "disabled never collides",
			a:    components.Collider{Disabled: true},
			b:    components.Collider{},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, canCollide(&tt.a, &tt.b))
		})
	}
}

func TestTestPair(t *testing.T) {
	ta := &components.Transform{X: 0, Y: 0}
	ca := &components.Collider{Width: 16, Height: 16}
	tb := &components.Transform{X: 12, Y: 4}
	cb := &components.Collider{Width: 16, Height: 16}

	col, ok := TestPair(ta, ca, tb, cb)
	require.True(t, ok)
	// B sits to the right of A, so the push-out normal points left.
	require.Equal(t, cp.Vector{X: -1}, col.Normal)
	require.InDelta(t, 4, col.Depth, 1e-9)

	tb.X = 40
	_, ok = TestPair(ta, ca, tb, cb)
	require.False(t, ok)

	_, ok = TestPair(nil, ca, tb, cb)
	require.False(t, ok)
}

func TestTestPairOffsets(t *testing.T) {
	ta := &components.Transform{X: 0, Y: 0}
	ca := &components.Collider{Width: 8, Height: 8, OffsetX: 4, OffsetY: 4}
	tb := &components.Transform{X: 10, Y: 4}
	cb := &components.Collider{Width: 8, Height: 8}

	// Boxes are [4,12)x[4,12) and [10,18)x[4,12).
	col, ok := TestPair(ta, ca, tb, cb)
	require.True(t, ok)
	require.InDelta(t, 2, col.Depth, 1e-9)
}

func TestSweepPair(t *testing.T) {
	ta := &components.Transform{X: 0, Y: 0}
	ca := &components.Collider{Width: 16, Height: 16}
	tb := &components.Transform{X: 48, Y: 0}
	cb := &components.Collider{Width: 16, Height: 16}

	s, ok := SweepPair(ta, ca, cp.Vector{X: 64}, tb, cb)
	require.True(t, ok)
	require.InDelta(t, 0.5, s.Time, 1e-9)
	require.Equal(t, cp.Vector{X: -1}, s.Normal)

	ca.Mask = layerEnemy
	cb.Layer = layerPlayer
	_, ok = SweepPair(ta, ca, cp.Vector{X: 64}, tb, cb)
	require.False(t, ok)
}

func TestForEachPair(t *testing.T) {
	w := ecs.NewWorld()
	a := spawnBox(w, 0, 0, 16, 16)
	b := spawnBox(w, 8, 0, 16, 16)  // overlaps a
	c := spawnBox(w, 12, 0, 16, 16) // overlaps a and b
	spawnBox(w, 100, 0, 16, 16)     // overlaps nothing

	type pair struct{ a, b ecs.Entity }
	seen := map[pair]bool{}
	ForEachPair(w, func(ct Contact) {
		seen[pair{ct.A, ct.B}] = true
	})

	require.Len(t, seen, 3)
	require.True(t, seen[pair{a, b}])
	require.True(t, seen[pair{a, c}])
	require.True(t, seen[pair{b, c}])

	// Each pair is reported once, with A before B in scan order.
	require.False(t, seen[pair{b, a}])

	w.GetCollider(b).Disabled = true
	count := 0
	ForEachPair(w, func(Contact) { count++ })
	require.Equal(t, 1, count)

	ForEachPair(nil, func(Contact) { t.Fatal("nil world must not scan") })
	ForEachPair(w, nil)
}

func TestForEachPairTriggerTagging(t *testing.T) {
	w := ecs.NewWorld()
	spawnBox(w, 0, 0, 16, 16)
	zone := spawnBox(w, 8, 0, 16, 16)
	w.GetCollider(zone).IsTrigger = true

	var got []Contact
	ForEachPair(w, func(ct Contact) { got = append(got, ct) })
	require.Len(t, got, 1)
	require.True(t, got[0].IsTrigger)
}

func TestCollisionsFor(t *testing.T) {
	w := ecs.NewWorld()
	a := spawnBox(w, 0, 0, 16, 16)
	b := spawnBox(w, 8, 0, 16, 16)
	spawnBox(w, 100, 0, 16, 16)

	contacts := CollisionsFor(w, a)
	require.Len(t, contacts, 1)
	require.Equal(t, a, contacts[0].A)
	require.Equal(t, b, contacts[0].B)

	require.Nil(t, CollisionsFor(w, 0))
	w.DestroyEntity(b)
	require.Nil(t, CollisionsFor(w, b))
	require.Empty(t, CollisionsFor(w, a))
}
