package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
)

// View maps world coordinates to the screen: the world point (X, Y) lands at
// the screen centre, scaled by Zoom.
type View struct {
	X, Y    float64
	Zoom    float64
	screenW float64
	screenH float64
}

func (v View) ToScreen(x, y float64) (float64, float64) {
	return (x-v.X)*v.Zoom + v.screenW/2, (y-v.Y)*v.Zoom + v.screenH/2
}

// Drawer is a world system that draws after the sprites.
type Drawer interface {
	Draw(w *ecs.World, screen *ebiten.Image, view View)
}

// Renderer draws a world's sprites in render layer order, then its Drawer
// systems.
type Renderer struct {
	Background color.Color
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// ViewOf returns the view of w's first camera, or the origin at zoom 1.
func ViewOf(w *ecs.World, screen *ebiten.Image) View {
	v := View{Zoom: 1}
	if screen != nil {
		b := screen.Bounds()
		v.screenW, v.screenH = float64(b.Dx()), float64(b.Dy())
	}
	for _, e := range w.EntitiesWith(component.CameraComponent) {
		cam, ok := component.Get(w.Registry(), e, component.CameraComponent)
		if !ok || !w.Registry().IsEnabled(e) {
			continue
		}
		v.X, v.Y = cam.X, cam.Y
		if cam.Zoom > 0 {
			v.Zoom = cam.Zoom
		}
		break
	}
	return v
}

func (r *Renderer) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil || !w.Loaded() {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}
	view := ViewOf(w, screen)
	reg := w.Registry()

	entities := w.EntitiesWith(SpriteComponent)
	layers := make(map[ecs.Entity]int, len(entities))
	for _, e := range entities {
		layers[e] = component.Layer(reg, e)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layers[entities[i]], layers[entities[j]]
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		if !reg.IsEnabled(e) || reg.State(e) != ecs.Created {
			continue
		}
		s, ok := component.Get(reg, e, SpriteComponent)
		if !ok {
			continue
		}
		img := s.Texture()
		if img == nil {
			continue
		}
		drawSprite(reg, e, s, img, screen, view)
	}

	for _, system := range w.Scheduler().Systems() {
		if d, ok := system.(Drawer); ok {
			d.Draw(w, screen, view)
		}
	}
}

func drawSprite(reg *ecs.Registry, e ecs.Entity, s *Sprite, img *ebiten.Image, screen *ebiten.Image, view View) {
	ox, oy := s.OriginX, s.OriginY
	if s.CenterOrigin {
		ox = float64(img.Bounds().Dx()) / 2
		oy = float64(img.Bounds().Dy()) / 2
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-ox, -oy)

	sx, sy := 1.0, 1.0
	if t, ok := component.Get(reg, e, component.TransformComponent); ok {
		if t.ScaleX != 0 {
			sx = t.ScaleX
		}
		if t.ScaleY != 0 {
			sy = t.ScaleY
		}
	}
	if s.FacingLeft {
		sx = -sx
	}

	x, y := component.WorldPosition(reg, e)
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(component.WorldRotation(reg, e))
	op.GeoM.Scale(view.Zoom, view.Zoom)
	px, py := view.ToScreen(x, y)
	op.GeoM.Translate(px, py)
	if s.Tint.Color != nil {
		op.ColorScale.ScaleWithColor(s.Tint.Color)
	}

	screen.DrawImage(img, op)
}
