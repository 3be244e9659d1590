package component

import (
	"math"
	"testing"

	"github.com/milk9111/engine/ecs"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWorldPosition(t *testing.T) {
	cases := []struct {
		name         string
		parent       Transform
		child        Transform
		wantX, wantY float64
	}{
		{"translate", Transform{X: 10, Y: 5, ScaleX: 1, ScaleY: 1}, Transform{X: 1, Y: 2, ScaleX: 1, ScaleY: 1}, 11, 7},
		{"scale", Transform{X: 10, ScaleX: 2, ScaleY: 3}, Transform{X: 1, Y: 1, ScaleX: 1, ScaleY: 1}, 12, 3},
		{"rotate", Transform{Rotation: math.Pi / 2, ScaleX: 1, ScaleY: 1}, Transform{X: 1, ScaleX: 1, ScaleY: 1}, 0, 1},
		{"zero_scale_is_identity", Transform{X: 1}, Transform{X: 2}, 3, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reg := ecs.NewRegistry()
			p, _ := reg.NewEntity(ecs.Plain)
			ch, _ := reg.NewEntity(ecs.Plain, ecs.WithParent(p))
			pt, ct := c.parent, c.child
			if err := ecs.Attach(reg, p, TransformComponent, &pt); err != nil {
				t.Fatalf("attach parent: %v", err)
			}
			if err := ecs.Attach(reg, ch, TransformComponent, &ct); err != nil {
				t.Fatalf("attach child: %v", err)
			}
			x, y := WorldPosition(reg, ch)
			if !near(x, c.wantX) || !near(y, c.wantY) {
				t.Fatalf("expected (%v,%v), got (%v,%v)", c.wantX, c.wantY, x, y)
			}
		})
	}
}

func TestTTLDestroysOwner(t *testing.T) {
	reg := ecs.NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	e, _ := w.CreateEntity(ecs.Plain)
	ttl := &TTL{Frames: 2}
	if err := ecs.Attach(reg, e, TTLComponent, ttl); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	w.Update()
	if reg.IsPendingDestroy(e) {
		t.Fatalf("destroyed too early")
	}
	w.Update()
	if !reg.IsPendingDestroy(e) {
		t.Fatalf("expected destroy request after two ticks")
	}
	w.Update()
	if reg.Valid(e) || w.Len() != 0 {
		t.Fatalf("entity should be gone")
	}
}

func TestCameraFollowsTaggedTarget(t *testing.T) {
	reg := ecs.NewRegistry()
	w := reg.NewWorld()
	player, _ := w.CreateEntity(ecs.Plain, ecs.WithTags(PlayerTag))
	pt := &Transform{X: 100, Y: 50, ScaleX: 1, ScaleY: 1}
	_ = ecs.Attach(reg, player, TransformComponent, pt)

	cam, _ := w.CreateEntity(ecs.Plain, ecs.WithTags(CameraTag))
	c := &Camera{TargetTag: "player", Smoothness: 0.5}
	_ = ecs.Attach(reg, cam, CameraComponent, c)
	_ = w.Load()

	if c.Target != player || c.X != 100 || c.Y != 50 || c.Zoom != 1 {
		t.Fatalf("camera should resolve and snap to its target: %+v", *c)
	}
	pt.SetPosition(200, 50)
	w.Update()
	if !near(c.X, 150) {
		t.Fatalf("expected smoothed x=150, got %v", c.X)
	}
}
