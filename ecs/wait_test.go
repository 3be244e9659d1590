package ecs

import (
	"testing"
	"time"
)

type manualClock struct {
	now time.Duration
}

func (c *manualClock) Now() time.Duration { return c.now }

// waiter schedules a wait from its create hook.
type waiter struct {
	Base
	start func(ctx Ctx) *Wait
	wait  *Wait
	fired int
}

func (w *waiter) OnCreate(ctx Ctx) {
	w.wait = w.start(ctx)
}

var waiterKind = NewComponentKind("waiter", func() *waiter { return &waiter{} })

func spawnWaiter(t *testing.T, w *World, start func(ctx Ctx, fire func()) *Wait) (Entity, *waiter) {
	t.Helper()
	e := mustCreate(t, w, Plain)
	c := &waiter{}
	c.start = func(ctx Ctx) *Wait { return start(ctx, func() { c.fired++ }) }
	if err := Attach(w.Registry(), e, waiterKind, c); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return e, c
}

func TestWaits(t *testing.T) {
	cases := []struct {
		name    string
		start   func(ctx Ctx, fire func()) *Wait
		advance func(c *manualClock)
		ticks   int // updates until resolved
	}{
		{
			name:  "frames",
			start: func(ctx Ctx, fire func()) *Wait { return ctx.WaitFrames(3, fire) },
			ticks: 3,
		},
		{
			name:    "duration",
			start:   func(ctx Ctx, fire func()) *Wait { return ctx.WaitFor(100*time.Millisecond, fire) },
			advance: func(c *manualClock) { c.now += 40 * time.Millisecond },
			ticks:   4,
		},
		{
			name: "predicate",
			start: func(ctx Ctx, fire func()) *Wait {
				w := ctx.World()
				return ctx.WaitUntil(func() bool { return w.Tick() >= 2 }, fire)
			},
			ticks: 3,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clock := &manualClock{}
			reg := NewRegistry()
			w := reg.NewWorld(WithClock(clock))
			_ = w.Load()
			_, comp := spawnWaiter(t, w, c.start)

			for i := 1; i <= c.ticks; i++ {
				if comp.fired != 0 {
					t.Fatalf("resolved early at tick %d", i)
				}
				w.Update()
				if c.advance != nil {
					c.advance(clock)
				}
			}
			if comp.fired != 1 || comp.wait.State() != WaitResolved {
				t.Fatalf("expected one resolution, fired=%d state=%v", comp.fired, comp.wait.State())
			}
			w.Update()
			if comp.fired != 1 || reg.Waits() != 0 {
				t.Fatalf("resolved wait should not fire again")
			}
		})
	}
}

func TestWaitCancelledByDestroy(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	e, comp := spawnWaiter(t, w, func(ctx Ctx, fire func()) *Wait {
		return ctx.WaitUntil(func() bool { return true }, fire)
	})

	if err := reg.Destroy(e); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	w.Update()
	if comp.fired != 0 {
		t.Fatalf("cancelled wait must not run its continuation")
	}
	if comp.wait.State() != WaitCancelled || reg.Waits() != 0 {
		t.Fatalf("expected cancelled wait, got %v (%d pending)", comp.wait.State(), reg.Waits())
	}
}

func TestWaitCancelledByComponentDestroy(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	e, comp := spawnWaiter(t, w, func(ctx Ctx, fire func()) *Wait {
		return ctx.WaitFrames(1, fire)
	})

	reg.DestroyComponent(e, waiterKind)
	w.Update()
	if comp.fired != 0 || comp.wait.State() != WaitCancelled {
		t.Fatalf("wait tied to a destroyed component should cancel, state=%v", comp.wait.State())
	}
	if !reg.Valid(e) {
		t.Fatalf("entity should survive its component")
	}
}

func TestWaitCancelledByWorldDestroy(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	_, comp := spawnWaiter(t, w, func(ctx Ctx, fire func()) *Wait {
		return ctx.WaitFrames(5, fire)
	})
	w.Destroy()
	if comp.wait.State() != WaitCancelled || reg.Waits() != 0 {
		t.Fatalf("world destroy should cancel waits")
	}
}

func TestWaitManualCancel(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	_, comp := spawnWaiter(t, w, func(ctx Ctx, fire func()) *Wait {
		return ctx.WaitFrames(1, fire)
	})
	comp.wait.Cancel()
	w.Update()
	if comp.fired != 0 {
		t.Fatalf("cancelled wait fired")
	}
}

func TestWaitsOnlyPolledByOwnerWorld(t *testing.T) {
	reg := NewRegistry()
	w1 := reg.NewWorld()
	w2 := reg.NewWorld()
	_ = w1.Load()
	_ = w2.Load()
	_, comp := spawnWaiter(t, w1, func(ctx Ctx, fire func()) *Wait {
		return ctx.WaitFrames(1, fire)
	})
	w2.Update()
	if comp.fired != 0 {
		t.Fatalf("another world's tick must not resolve the wait")
	}
	w1.Update()
	if comp.fired != 1 {
		t.Fatalf("expected resolution on the owner's tick")
	}
}
