// Package physics steps a Chipmunk space as a world system and keeps Body
// components and their Transforms in sync with it.
package physics

import (
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/engine/ecs"
)

var logger = log.Default()

// SetLogger replaces the package logger. Passing nil restores the standard
// logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeStatic
)

// Updatable is implemented by components and entity behaviors that react to
// the simulation. OnPhysicsUpdate runs after every step, before the world's
// FixedUpdate hooks.
type Updatable interface {
	OnPhysicsUpdate(ctx ecs.Ctx, s *Space)
}

// Space owns the Chipmunk space for one world. It is a FixedSystem and is
// closed with its world.
type Space struct {
	space         *cp.Space
	step          time.Duration
	handlersReady bool

	shapes map[*cp.Shape]ecs.Entity
	bodies map[ecs.Entity]*Body
	order  []ecs.Entity
}

// NewSpace creates a space with the given gravity, advanced by step on every
// FixedUpdate.
func NewSpace(gravityX, gravityY float64, step time.Duration) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: gravityX, Y: gravityY})

	s := &Space{
		space:  space,
		step:   step,
		shapes: make(map[*cp.Shape]ecs.Entity),
		bodies: make(map[ecs.Entity]*Body),
	}
	s.setupHandlers()
	return s
}

// Install adds s to w's systems and services, so Body components created in
// w find it.
func Install(w *ecs.World, s *Space) {
	w.AddSystem(s)
	ecs.Provide(w.Services(), s)
}

// From returns the space installed in w.
func From(w *ecs.World) (*Space, bool) {
	if w == nil {
		return nil, false
	}
	return ecs.Lookup[*Space](w.Services())
}

// Space returns the underlying Chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) Step() time.Duration { return s.step }
func (s *Space) Len() int            { return len(s.order) }

// EntityOf returns the entity owning shape.
func (s *Space) EntityOf(shape *cp.Shape) (ecs.Entity, bool) {
	e, ok := s.shapes[shape]
	return e, ok
}

// FixedUpdate steps the simulation, writes body positions back to their
// Transforms and runs OnPhysicsUpdate hooks.
func (s *Space) FixedUpdate(w *ecs.World) {
	if s == nil || s.space == nil {
		return
	}
	for _, e := range s.order {
		s.bodies[e].resetContacts()
	}

	s.space.Step(s.step.Seconds())

	reg := w.Registry()
	entities := append([]ecs.Entity(nil), s.order...)
	for _, e := range entities {
		if b, ok := s.bodies[e]; ok && !b.Static {
			b.syncTransform(reg, e)
		}
	}
	for _, e := range entities {
		if _, ok := s.bodies[e]; !ok || !reg.IsEnabled(e) || reg.IsPendingDestroy(e) {
			continue
		}
		ctx := reg.Ctx(e)
		for _, c := range reg.Components(e) {
			if u, ok := c.(Updatable); ok {
				u.OnPhysicsUpdate(ctx, s)
			}
		}
		if u, ok := reg.Behavior(e).(Updatable); ok {
			u.OnPhysicsUpdate(ctx, s)
		}
	}
}

// Close removes every body from the space.
func (s *Space) Close() error {
	for _, e := range append([]ecs.Entity(nil), s.order...) {
		if b, ok := s.bodies[e]; ok {
			s.remove(e, b)
		}
	}
	return nil
}

func (s *Space) add(e ecs.Entity, b *Body, x, y, angle float64) {
	if _, ok := s.bodies[e]; ok {
		logger.Printf("physics: %v already has a body", e)
		return
	}
	x += b.OffsetX
	y += b.OffsetY

	var shape *cp.Shape
	if b.Static {
		if b.Radius > 0 {
			shape = cp.NewCircle(s.space.StaticBody, b.Radius, cp.Vector{X: x, Y: y})
		} else {
			bb := cp.BB{L: x - b.Width/2, B: y - b.Height/2, R: x + b.Width/2, T: y + b.Height/2}
			shape = cp.NewBox2(s.space.StaticBody, bb, 0)
		}
		shape.SetCollisionType(collisionTypeStatic)
		b.body = s.space.StaticBody
	} else {
		mass := b.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		switch {
		case b.FixedRotation:
			moment = math.Inf(1)
		case b.Radius > 0:
			moment = cp.MomentForCircle(mass, 0, b.Radius, cp.Vector{})
		default:
			moment = cp.MomentForBox(mass, b.Width, b.Height)
		}
		body := cp.NewBody(mass, moment)
		body.SetPosition(cp.Vector{X: x, Y: y})
		body.SetAngle(angle)
		body.SetAngularVelocity(0)
		if b.Radius > 0 {
			shape = cp.NewCircle(body, b.Radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, b.Width, b.Height, 0)
		}
		shape.SetCollisionType(collisionTypeBody)
		s.space.AddBody(body)
		b.body = body
	}
	shape.SetFriction(b.Friction)
	shape.SetElasticity(b.Elasticity)
	shape.SetSensor(b.Sensor)
	s.space.AddShape(shape)

	b.shape = shape
	b.space = s
	s.shapes[shape] = e
	s.bodies[e] = b
	s.order = append(s.order, e)
}

func (s *Space) remove(e ecs.Entity, b *Body) {
	if s.bodies[e] != b {
		return
	}
	if b.shape != nil {
		s.space.RemoveShape(b.shape)
		delete(s.shapes, b.shape)
	}
	if b.body != nil && !b.Static {
		s.space.RemoveBody(b.body)
	}
	delete(s.bodies, e)
	for i, o := range s.order {
		if o == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	b.body, b.shape, b.space = nil, nil, nil
}

func (s *Space) setupHandlers() {
	if s.handlersReady {
		return
	}
	for _, other := range []cp.CollisionType{collisionTypeBody, collisionTypeStatic} {
		handler := s.space.NewCollisionHandler(collisionTypeBody, other)
		handler.UserData = s
		handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			world, ok := userData.(*Space)
			if !ok || world == nil {
				return true
			}
			shapeA, shapeB := arb.Shapes()
			a, okA := world.shapes[shapeA]
			b, okB := world.shapes[shapeB]
			if !okA || !okB {
				return true
			}
			n := arb.Normal()
			if body := world.bodies[a]; body != nil {
				body.touch(b, n)
			}
			if body := world.bodies[b]; body != nil {
				body.touch(a, n.Neg())
			}
			return true
		}
	}
	s.handlersReady = true
}
