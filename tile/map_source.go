package tile

// Coord is an integer tile coordinate.
type Coord struct {
	X int
	Y int
}

// MapSource is a sparse, map-backed Source. It is unbounded: any cell
// not explicitly set is the zero Tile. Suitable for tests and small
// hand-built worlds; streamed worlds implement Source directly.
type MapSource struct {
	tiles map[Coord]Tile
	size  float64
}

// NewMapSource creates an empty source with the given tile size in pixels.
func NewMapSource(size float64) *MapSource {
	return &MapSource{
		tiles: make(map[Coord]Tile),
		size:  size,
	}
}

func (m *MapSource) TileAt(tx, ty int) Tile {
	if m == nil {
		return Tile{}
	}
	return m.tiles[Coord{X: tx, Y: ty}]
}

func (m *MapSource) TileSize() float64 {
	if m == nil {
		return 0
	}
	return m.size
}

// Set places a tile; setting the zero Tile clears the cell.
func (m *MapSource) Set(tx, ty int, t Tile) {
	if m == nil {
		return
	}
	if t.Empty() {
		delete(m.tiles, Coord{X: tx, Y: ty})
		return
	}
	m.tiles[Coord{X: tx, Y: ty}] = t
}

// Fill places the same tile over an inclusive rectangle of cells.
func (m *MapSource) Fill(x0, y0, x1, y1 int, t Tile) {
	if m == nil {
		return
	}
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			m.Set(tx, ty, t)
		}
	}
}

// Each visits every non-empty cell. Iteration order is unspecified.
func (m *MapSource) Each(fn func(c Coord, t Tile)) {
	if m == nil || fn == nil {
		return
	}
	for c, t := range m.tiles {
		fn(c, t)
	}
}
