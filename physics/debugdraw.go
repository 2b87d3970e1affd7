package physics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/tilephys/ecs"
	"github.com/milk9111/tilephys/tile"
)

var (
	debugColliderColor = color.RGBA{R: 0x40, G: 0xff, B: 0x40, A: 0xff}
	debugTriggerColor  = color.RGBA{R: 0xff, G: 0xe0, B: 0x40, A: 0xff}
	debugSolidColor    = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}
	debugPlatformColor = color.RGBA{R: 0x40, G: 0xa0, B: 0xff, A: 0xff}
)

// DrawDebug strokes collider boxes and the collidable tiles currently
// in view onto screen. camX/camY is the world position of the screen's
// top-left corner. Purely diagnostic; nothing here touches physics
// state.
func (pw *World) DrawDebug(screen *ebiten.Image, w *ecs.World, camX, camY float64) {
	if pw == nil || screen == nil {
		return
	}
	pw.drawTilesDebug(screen, camX, camY)
	drawCollidersDebug(screen, w, camX, camY)
}

func (pw *World) drawTilesDebug(screen *ebiten.Image, camX, camY float64) {
	src := pw.src
	if src == nil || src.TileSize() <= 0 {
		return
	}
	size := src.TileSize()
	bounds := screen.Bounds()

	x0 := tile.WorldToTile(camX, size)
	y0 := tile.WorldToTile(camY, size)
	x1 := tile.WorldToTile(camX+float64(bounds.Dx()), size)
	y1 := tile.WorldToTile(camY+float64(bounds.Dy()), size)

	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			t := src.TileAt(tx, ty)
			if t.Empty() {
				continue
			}
			clr := debugSolidColor
			if t.Platform() && !t.Solid() {
				clr = debugPlatformColor
			}
			sx := float32(float64(tx)*size - camX)
			sy := float32(float64(ty)*size - camY)
			if t.Slope() {
				// Stroke the surface line instead of the full cell.
				if t.SlopeLeft() {
					vector.StrokeLine(screen, sx, sy, sx+float32(size), sy+float32(size), 1, clr, false)
				} else {
					vector.StrokeLine(screen, sx, sy+float32(size), sx+float32(size), sy, 1, clr, false)
				}
				continue
			}
			vector.StrokeRect(screen, sx, sy, float32(size), float32(size), 1, clr, false)
		}
	}
}

func drawCollidersDebug(screen *ebiten.Image, w *ecs.World, camX, camY float64) {
	if w == nil {
		return
	}
	for _, id := range ecs.IntersectEntities(w.Colliders(), w.Transforms()) {
		e := w.EntityAt(id)
		c := w.GetCollider(e)
		if c == nil || c.Disabled {
			continue
		}
		t := w.GetTransform(e)
		clr := debugColliderColor
		if c.IsTrigger {
			clr = debugTriggerColor
		}
		box := ColliderBox(t, c)
		min := box.Min()
		vector.StrokeRect(screen,
			float32(min.X-camX), float32(min.Y-camY),
			float32(c.Width), float32(c.Height),
			1, clr, false)
	}
}
