package component

import (
	"math"

	"github.com/milk9111/engine/ecs"
)

// Transform is an entity's position, rotation and scale relative to its
// parent.
type Transform struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{ScaleX: 1, ScaleY: 1}
}

var TransformComponent = ecs.NewComponentKind("transform", NewTransform)

func (t *Transform) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
}

func (t *Transform) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Apply maps a point in t's local space into its parent's space.
func (t *Transform) Apply(x, y float64) (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	x *= sx
	y *= sy
	if t.Rotation != 0 {
		sin, cos := math.Sincos(t.Rotation)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return x + t.X, y + t.Y
}

// WorldPosition composes e's transform with every ancestor that has one.
func WorldPosition(r *ecs.Registry, e ecs.Entity) (x, y float64) {
	for cur := e; cur != ecs.Nil; cur = r.Parent(cur) {
		if t, ok := Get(r, cur, TransformComponent); ok {
			x, y = t.Apply(x, y)
		}
	}
	return x, y
}

// WorldRotation sums the rotations of e and its ancestors.
func WorldRotation(r *ecs.Registry, e ecs.Entity) float64 {
	var rot float64
	for cur := e; cur != ecs.Nil; cur = r.Parent(cur) {
		if t, ok := Get(r, cur, TransformComponent); ok {
			rot += t.Rotation
		}
	}
	return rot
}
