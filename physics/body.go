package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
)

// Body simulates its entity in the world's Space. Dynamic bodies drive the
// entity's Transform; static bodies are placed once from it. Radius > 0 makes
// a circle, otherwise a Width x Height box centred on the Transform plus the
// offset.
type Body struct {
	ecs.Base
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	Static        bool    `yaml:"static"`
	Sensor        bool    `yaml:"sensor"`
	FixedRotation bool    `yaml:"fixed_rotation"`

	// Contacts and Grounded describe the last step.
	Contacts []ecs.Entity `yaml:"-"`
	Grounded bool         `yaml:"-"`

	body  *cp.Body
	shape *cp.Shape
	space *Space
}

func NewBody() *Body {
	return &Body{Mass: 1, Friction: 0.8}
}

var BodyComponent = ecs.NewComponentKind("body", NewBody, ecs.DependsOn(component.TransformComponent))

func (b *Body) OnCreate(ctx ecs.Ctx) {
	s, ok := From(ctx.World())
	if !ok {
		logger.Printf("physics: %v has a body but its world has no space", ctx.Entity())
		return
	}
	x, y := component.WorldPosition(ctx.Registry(), ctx.Entity())
	s.add(ctx.Entity(), b, x, y, component.WorldRotation(ctx.Registry(), ctx.Entity()))
}

func (b *Body) OnDestroy(ctx ecs.Ctx) {
	if b.space != nil {
		b.space.remove(ctx.Entity(), b)
	}
	b.Contacts = nil
}

// CP returns the Chipmunk body, or nil before the component is created.
func (b *Body) CP() *cp.Body     { return b.body }
func (b *Body) Shape() *cp.Shape { return b.shape }

func (b *Body) Position() (x, y float64) {
	if b.body == nil || b.Static {
		return 0, 0
	}
	p := b.body.Position()
	return p.X, p.Y
}

func (b *Body) Velocity() (x, y float64) {
	if b.body == nil || b.Static {
		return 0, 0
	}
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *Body) SetVelocity(x, y float64) {
	if b.body == nil || b.Static {
		return
	}
	b.body.SetVelocity(x, y)
}

// Touching reports whether the last step had b in contact with e.
func (b *Body) Touching(e ecs.Entity) bool {
	for _, c := range b.Contacts {
		if c == e {
			return true
		}
	}
	return false
}

func (b *Body) resetContacts() {
	b.Contacts = b.Contacts[:0]
	b.Grounded = false
}

// touch records a contact whose normal n points from b towards other. With y
// pointing down, a normal pointing down means b rests on other.
func (b *Body) touch(other ecs.Entity, n cp.Vector) {
	if !b.Touching(other) {
		b.Contacts = append(b.Contacts, other)
	}
	if n.Y > 0.5 {
		b.Grounded = true
	}
}

// syncTransform writes the simulated position back into e's Transform,
// relative to e's parent.
func (b *Body) syncTransform(reg *ecs.Registry, e ecs.Entity) {
	t, ok := component.Get(reg, e, component.TransformComponent)
	if !ok || b.body == nil {
		return
	}
	pos := b.body.Position()
	x, y := pos.X-b.OffsetX, pos.Y-b.OffsetY
	angle := b.body.Angle()
	if p := reg.Parent(e); p != ecs.Nil {
		px, py := component.WorldPosition(reg, p)
		x, y = x-px, y-py
		angle -= component.WorldRotation(reg, p)
	}
	t.X, t.Y = x, y
	t.Rotation = angle
}
