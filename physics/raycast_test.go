package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/ecs/components"
	"github.com/milk9111/tilephys/tile"
)

func spawnBox(w *ecs.World, x, y, width, height float64) ecs.Entity {
	e := w.CreateEntity()
	w.SetTransform(e, &components.Transform{X: x, Y: y})
	w.SetCollider(e, &components.Collider{Width: width, Height: height})
	return e
}

func TestRaycastTilesHitsFirstSolid(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(2, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // x in [32,48)

	hit := RaycastTiles(m, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, 100)
	require.True(t, hit.Hit)
	require.InDelta(t, 32, hit.Distance, 1e-9)
	require.Equal(t, cp.Vector{X: -1}, hit.Normal)
	require.Equal(t, cp.Vector{X: 32, Y: 8}, hit.Point)
	require.Equal(t, 2, hit.TileX)
	require.Equal(t, 0, hit.TileY)
	require.True(t, hit.IsTile)
}

func TestRaycastTilesWalksNegativeCells(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(1, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid})

	// Starts in cell (-1, 0); the walk crosses (0,0) before hitting (1,0).
	hit := RaycastTiles(m, cp.Vector{X: -8, Y: 8}, cp.Vector{X: 1}, 100)
	require.True(t, hit.Hit)
	require.InDelta(t, 24, hit.Distance, 1e-9)
	require.Equal(t, 1, hit.TileX)
}

func TestRaycastTilesVertical(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(0, 3, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // y in [48,64)

	hit := RaycastTiles(m, cp.Vector{X: 8, Y: 0}, cp.Vector{Y: 1}, 100)
	require.True(t, hit.Hit)
	require.InDelta(t, 48, hit.Distance, 1e-9)
	require.Equal(t, cp.Vector{Y: -1}, hit.Normal)
}

func TestRaycastTilesStartInsideSolid(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(2, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid})

	hit := RaycastTiles(m, cp.Vector{X: 33, Y: 8}, cp.Vector{X: 1}, 100)
	require.True(t, hit.Hit)
	require.Zero(t, hit.Distance)
	require.Equal(t, cp.Vector{}, hit.Normal)
	require.Equal(t, 2, hit.TileX)
}

func TestRaycastTilesMisses(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(2, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid})

	require.False(t, RaycastTiles(m, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, 20).Hit)
	require.False(t, RaycastTiles(m, cp.Vector{X: 0, Y: 8}, cp.Vector{}, 100).Hit)
	require.False(t, RaycastTiles(nil, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, 100).Hit)
}

func TestRaycastEntities(t *testing.T) {
	w := ecs.NewWorld()
	near := spawnBox(w, 40, 0, 16, 16)
	spawnBox(w, 80, 0, 16, 16)
	origin := cp.Vector{X: 0, Y: 8}
	right := cp.Vector{X: 1}

	hit := RaycastEntities(w, origin, right, 200, 0, 0)
	require.True(t, hit.Hit)
	require.Equal(t, near, hit.Entity)
	require.InDelta(t, 40, hit.Distance, 1e-9)
	require.Equal(t, cp.Vector{X: -1}, hit.Normal)
	require.False(t, hit.IsTile)

	// Excluding the near box exposes the far one.
	far := RaycastEntities(w, origin, right, 200, near, 0)
	require.True(t, far.Hit)
	require.InDelta(t, 80, far.Distance, 1e-9)

	// A mask matching the near box's layer skips it too.
	w.GetCollider(near).Layer = 0b10
	masked := RaycastEntities(w, origin, right, 200, 0, 0b10)
	require.InDelta(t, 80, masked.Distance, 1e-9)
	w.GetCollider(near).Layer = 0

	w.GetCollider(near).IsTrigger = true
	require.InDelta(t, 80, RaycastEntities(w, origin, right, 200, 0, 0).Distance, 1e-9)
	w.GetCollider(near).IsTrigger = false

	w.GetCollider(near).Disabled = true
	require.InDelta(t, 80, RaycastEntities(w, origin, right, 200, 0, 0).Distance, 1e-9)
}

func TestRaycastTieFavorsTile(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(2, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // face at x=32
	w := ecs.NewWorld()
	spawnBox(w, 32, 0, 16, 16) // same face

	hit := Raycast(m, w, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, 100, 0, 0)
	require.True(t, hit.Hit)
	require.True(t, hit.IsTile)
	require.InDelta(t, 32, hit.Distance, 1e-9)
}

func TestRaycastPrefersCloserEntity(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Set(4, 0, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // face at x=64
	w := ecs.NewWorld()
	e := spawnBox(w, 32, 0, 16, 16)

	hit := Raycast(m, w, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, 100, 0, 0)
	require.True(t, hit.Hit)
	require.False(t, hit.IsTile)
	require.Equal(t, e, hit.Entity)
}

func TestConeCast(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Fill(3, -5, 3, 5, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // wall column at x in [48,64)

	hits := ConeCast(m, nil, cp.Vector{X: 0, Y: 8}, cp.Vector{X: 1}, math.Pi/4, 5, 200, 0, 0)
	require.Len(t, hits, 5)
	for i, h := range hits {
		require.True(t, h.Hit, "ray %d", i)
	}
	// The centered ray is perpendicular to the wall and therefore shortest.
	require.LessOrEqual(t, hits[2].Distance, hits[0].Distance)
	require.LessOrEqual(t, hits[2].Distance, hits[4].Distance)

	require.Nil(t, ConeCast(m, nil, cp.Vector{}, cp.Vector{}, math.Pi, 5, 100, 0, 0))
	require.Nil(t, ConeCast(m, nil, cp.Vector{}, cp.Vector{X: 1}, math.Pi, 0, 100, 0, 0))
}

func TestLineOfSight(t *testing.T) {
	m := tile.NewMapSource(tileSize)
	m.Fill(3, 0, 3, 3, tile.Tile{ID: 1, Flags: tile.FlagSolid}) // wall between the endpoints

	a := cp.Vector{X: 8, Y: 8}
	b := cp.Vector{X: 100, Y: 8}
	require.False(t, LineOfSight(m, nil, a, b, false, 0))

	clear := cp.Vector{X: 8, Y: 100}
	require.True(t, LineOfSight(m, nil, a, clear, false, 0))
	require.True(t, LineOfSight(m, nil, a, a, false, 0))

	w := ecs.NewWorld()
	blocker := spawnBox(w, 40, 0, 16, 16)
	open := tile.NewMapSource(tileSize)
	require.True(t, LineOfSight(open, w, a, b, false, 0))
	require.False(t, LineOfSight(open, w, a, b, true, 0))
	require.True(t, LineOfSight(open, w, a, b, true, blocker))
}

func TestRaycastEntitiesNilWorld(t *testing.T) {
	require.False(t, RaycastEntities(nil, cp.Vector{}, cp.Vector{X: 1}, 100, 0, 0).Hit)
}
