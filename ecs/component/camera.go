package component

import "github.com/milk9111/engine/ecs"

// Camera tracks a target entity's world position. Smoothness is the fraction
// of the remaining distance covered per update; 0 or 1 snaps.
type Camera struct {
	ecs.Base
	Target     ecs.Entity `yaml:"-"`
	TargetTag  string     `yaml:"target_tag"`
	Zoom       float64    `yaml:"zoom"`
	Smoothness float64    `yaml:"smoothness"`

	X float64 `yaml:"-"`
	Y float64 `yaml:"-"`
}

var CameraComponent = ecs.NewComponentKind("camera", func() *Camera { return &Camera{Zoom: 1} })

// OnCreate resolves TargetTag to the first tagged entity in the world.
func (c *Camera) OnCreate(ctx ecs.Ctx) {
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	if c.Target != ecs.Nil || c.TargetTag == "" {
		c.snap(ctx)
		return
	}
	tag, ok := Tags()[c.TargetTag]
	if !ok {
		return
	}
	if w := ctx.World(); w != nil {
		if ents := w.EntitiesWithTag(tag); len(ents) > 0 {
			c.Target = ents[0]
		}
	}
	c.snap(ctx)
}

func (c *Camera) OnUpdate(ctx ecs.Ctx) {
	r := ctx.Registry()
	if !r.Valid(c.Target) || r.IsPendingDestroy(c.Target) {
		return
	}
	tx, ty := WorldPosition(r, c.Target)
	s := c.Smoothness
	if s <= 0 || s >= 1 {
		c.X, c.Y = tx, ty
		return
	}
	c.X += (tx - c.X) * s
	c.Y += (ty - c.Y) * s
}

func (c *Camera) snap(ctx ecs.Ctx) {
	if r := ctx.Registry(); r.Valid(c.Target) {
		c.X, c.Y = WorldPosition(r, c.Target)
	}
}
