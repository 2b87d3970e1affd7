package tile

import "math"

// Flags is the tile collision flag byte.
type Flags uint8

const (
	// FlagSolid blocks movement on every side.
	FlagSolid Flags = 1 << iota
	// FlagPlatform is a one-way platform: collidable only from above
	// while falling.
	FlagPlatform
	// FlagSlopeLeft is a 45° slope, high on the left edge and descending
	// to the right.
	FlagSlopeLeft
	// FlagSlopeRight mirrors FlagSlopeLeft.
	FlagSlopeRight
)

// Tile is the runtime view of one grid cell. A zero Tile is traversable.
type Tile struct {
	ID    uint16
	Flags Flags
}

func (t Tile) Empty() bool {
	return t.ID == 0 && t.Flags == 0
}

func (t Tile) Solid() bool {
	return t.Flags&FlagSolid != 0
}

func (t Tile) Platform() bool {
	return t.Flags&FlagPlatform != 0
}

func (t Tile) SlopeLeft() bool {
	return t.Flags&FlagSlopeLeft != 0
}

func (t Tile) SlopeRight() bool {
	return t.Flags&FlagSlopeRight != 0
}

func (t Tile) Slope() bool {
	return t.Flags&(FlagSlopeLeft|FlagSlopeRight) != 0
}

// WorldToTile converts a world pixel coordinate to a tile coordinate by
// floor division, so negative coordinates land in the correct cell.
func WorldToTile(v, size float64) int {
	return int(math.Floor(v / size))
}

// Source is the tile-lookup contract. Implementations may be backed by
// an infinite, lazily streamed world; callers pass any integer
// coordinate and out-of-world cells come back as the zero Tile.
type Source interface {
	TileAt(tx, ty int) Tile
	TileSize() float64
}

// SourceFunc adapts a closure to Source, letting tests stand in a tile
// provider without a full world implementation.
type SourceFunc struct {
	Fn   func(tx, ty int) Tile
	Size float64
}

func (s SourceFunc) TileAt(tx, ty int) Tile {
	if s.Fn == nil {
		return Tile{}
	}
	return s.Fn(tx, ty)
}

func (s SourceFunc) TileSize() float64 {
	return s.Size
}
