package physics

import (
	"testing"
	"time"

	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
)

type stepCounter struct {
	ecs.Base
	steps int
}

func (c *stepCounter) OnPhysicsUpdate(ecs.Ctx, *Space) { c.steps++ }

var stepCounterKind = ecs.NewComponentKind("step_counter", func() *stepCounter { return &stepCounter{} })

func newWorld(t *testing.T) (*ecs.World, *Space) {
	t.Helper()
	reg := ecs.NewRegistry()
	w := reg.NewWorld()
	s := NewSpace(0, 100, 20*time.Millisecond)
	Install(w, s)
	if err := w.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return w, s
}

func spawnBody(t *testing.T, w *ecs.World, x, y float64, body *Body) ecs.Entity {
	t.Helper()
	reg := w.Registry()
	e, err := w.CreateEntity(ecs.Plain)
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	tr := component.NewTransform()
	tr.SetPosition(x, y)
	if err := ecs.Attach(reg, e, component.TransformComponent, tr); err != nil {
		t.Fatalf("Attach transform: %v", err)
	}
	if err := ecs.Attach(reg, e, BodyComponent, body); err != nil {
		t.Fatalf("Attach body: %v", err)
	}
	return e
}

func TestBodyFallsAndLands(t *testing.T) {
	w, s := newWorld(t)
	reg := w.Registry()

	box := NewBody()
	box.Width, box.Height, box.FixedRotation = 10, 10, true
	e := spawnBody(t, w, 0, 0, box)

	floor := NewBody()
	floor.Width, floor.Height, floor.Static = 200, 10, true
	ground := spawnBody(t, w, 0, 50, floor)

	if s.Len() != 2 {
		t.Fatalf("expected two bodies in the space, got %d", s.Len())
	}

	w.FixedUpdate()
	tr, _ := component.Get(reg, e, component.TransformComponent)
	if _, vy := box.Velocity(); vy <= 0 {
		t.Fatalf("gravity should accelerate the body on the first step, vy=%v", vy)
	}
	w.FixedUpdate()
	if tr.Y <= 0 {
		t.Fatalf("body should fall under gravity, y=%v", tr.Y)
	}
	for i := 0; i < 200; i++ {
		w.FixedUpdate()
	}
	if tr.Y < 35 || tr.Y > 45 {
		t.Fatalf("body should rest on the floor, y=%v", tr.Y)
	}
	if !box.Touching(ground) || !box.Grounded {
		t.Fatalf("expected grounded contact with the floor, contacts=%v grounded=%v", box.Contacts, box.Grounded)
	}
	if ft, _ := component.Get(reg, ground, component.TransformComponent); ft.Y != 50 {
		t.Fatalf("static body must not move its transform, y=%v", ft.Y)
	}
}

func TestBodyRemovedOnDestroy(t *testing.T) {
	w, s := newWorld(t)
	e := spawnBody(t, w, 0, 0, NewBody())
	if s.Len() != 1 || s.Space() == nil {
		t.Fatalf("expected one body")
	}
	body, _ := component.Get(w.Registry(), e, BodyComponent)
	shape := body.Shape()
	if got, ok := s.EntityOf(shape); !ok || got != e {
		t.Fatalf("shape should map back to its entity")
	}

	if err := w.Registry().Destroy(e); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	w.Update()
	if s.Len() != 0 {
		t.Fatalf("destroyed entity should leave the space, %d left", s.Len())
	}
	if _, ok := s.EntityOf(shape); ok {
		t.Fatalf("stale shape mapping")
	}
}

func TestWorldDestroyClosesSpace(t *testing.T) {
	w, s := newWorld(t)
	spawnBody(t, w, 0, 0, NewBody())
	spawnBody(t, w, 20, 0, NewBody())
	w.Destroy()
	if s.Len() != 0 {
		t.Fatalf("world destroy should empty the space")
	}
	if _, ok := From(w); ok {
		t.Fatalf("space service should be withdrawn with the world")
	}
}

func TestPhysicsUpdateHook(t *testing.T) {
	w, _ := newWorld(t)
	reg := w.Registry()
	e := spawnBody(t, w, 0, 0, NewBody())
	c := &stepCounter{}
	if err := ecs.Attach(reg, e, stepCounterKind, c); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.FixedUpdate()
	w.FixedUpdate()
	_ = reg.Disable(e)
	w.FixedUpdate()
	if c.steps != 2 {
		t.Fatalf("expected 2 physics updates, got %d", c.steps)
	}
}

func TestBodyWithoutSpace(t *testing.T) {
	reg := ecs.NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	b := NewBody()
	spawnBody(t, w, 0, 0, b)
	if b.CP() != nil {
		t.Fatalf("body should stay inert without a space")
	}
	b.SetVelocity(1, 1)
	if x, y := b.Velocity(); x != 0 || y != 0 {
		t.Fatalf("inert body reported velocity")
	}
}
