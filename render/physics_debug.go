package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/physics"
)

const debugDotSize = 4

var (
	debugDynamic  = cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
	debugGrounded = cp.FColor{R: 0.2, G: 0.6, B: 1, A: 0.9}
	debugStatic   = cp.FColor{R: 0.6, G: 0.6, B: 0.6, A: 0.9}
	debugSensor   = cp.FColor{R: 1, G: 0.9, B: 0.2, A: 0.6}
	debugDisabled = cp.FColor{R: 0.4, G: 0.4, B: 0.4, A: 0.3}
	debugContact  = cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
)

// PhysicsDebug outlines the shapes of the world's physics space, coloured by
// the state of the owning body, and marks contact points. Add it as a world
// system to enable it.
type PhysicsDebug struct{}

func (PhysicsDebug) Update(*ecs.World) {}

func (PhysicsDebug) Draw(w *ecs.World, screen *ebiten.Image, view View) {
	s, ok := physics.From(w)
	if !ok || s.Space() == nil {
		return
	}
	cp.DrawSpace(s.Space(), &physicsDebugDrawer{
		screen: screen,
		view:   view,
		space:  s,
		reg:    w.Registry(),
	})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   View
	space  *physics.Space
	reg    *ecs.Registry
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	x, y := d.view.ToScreen(pos.X, pos.Y)
	vector.StrokeCircle(d.screen, float32(x), float32(y), float32(radius*d.view.Zoom), 1, toNRGBA(fill), true)
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	x1, y1 := d.view.ToScreen(a.X, a.Y)
	x2, y2 := d.view.ToScreen(b.X, b.Y)
	width := float32(math.Max(1, 2*radius*d.view.Zoom))
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), width, toNRGBA(fill), true)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	verts = verts[:count]
	for i := range verts {
		d.line(verts[i], verts[(i+1)%count], fill)
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.view.ToScreen(pos.X, pos.Y)
	half := size / 2
	vector.FillRect(d.screen, float32(x-half), float32(y-half), float32(size), float32(size), toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return debugDynamic
}

// ShapeColor picks the colour shapes are drawn with from the body's state.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	e, ok := d.space.EntityOf(shape)
	if !ok {
		return debugDisabled
	}
	body, ok := ecs.TryGetComponent(d.reg, e, physics.BodyComponent)
	switch {
	case !ok || !d.reg.IsEnabled(e):
		return debugDisabled
	case body.Sensor:
		return debugSensor
	case body.Static:
		return debugStatic
	case body.Grounded:
		return debugGrounded
	}
	return debugDynamic
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return debugSensor
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return debugContact
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) line(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.ToScreen(a.X, a.Y)
	x2, y2 := d.view.ToScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), true)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return float32(math.Min(1, math.Max(0, float64(v))))
}
