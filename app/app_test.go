package app

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/engine/config"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/resource"
)

func TestClockFixedSteps(t *testing.T) {
	cases := []struct {
		name   string
		frames []time.Duration
		scale  float64
		want   []int
	}{
		{"exact", []time.Duration{20 * time.Millisecond, 20 * time.Millisecond}, 1, []int{1, 1}},
		{"accumulates", []time.Duration{15 * time.Millisecond, 15 * time.Millisecond, 15 * time.Millisecond}, 1, []int{0, 1, 1}},
		{"scaled", []time.Duration{20 * time.Millisecond}, 2, []int{2}},
		{"paused_scale", []time.Duration{time.Second}, 0, []int{0}},
		{"capped", []time.Duration{time.Second, 20 * time.Millisecond}, 1, []int{3, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clk := NewClock(20*time.Millisecond, c.scale, 3)
			var got []int
			for _, dt := range c.frames {
				clk.Advance(dt)
				got = append(got, clk.FixedSteps())
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestClockNow(t *testing.T) {
	clk := NewClock(10*time.Millisecond, 0.5, 1)
	clk.Advance(100 * time.Millisecond)
	clk.Advance(-time.Second)
	if clk.Now() != 50*time.Millisecond || clk.Frame() != 2 || clk.Delta() != 0 {
		t.Fatalf("unexpected clock state now=%v frame=%d delta=%v", clk.Now(), clk.Frame(), clk.Delta())
	}
}

type counter struct {
	ecs.Base
	updates, fixed, destroyed int
}

func (c *counter) OnUpdate(ecs.Ctx)      { c.updates++ }
func (c *counter) OnFixedUpdate(ecs.Ctx) { c.fixed++ }
func (c *counter) OnDestroy(ecs.Ctx)     { c.destroyed++ }

var counterKind = ecs.NewComponentKind("counter", func() *counter { return &counter{} })

func spawnCounter(c *counter) ecs.Scene {
	return ecs.SceneFunc(func(w *ecs.World) error {
		e, err := w.CreateEntity(ecs.Plain)
		if err != nil {
			return err
		}
		return ecs.Attach(w.Registry(), e, counterKind, c)
	})
}

type recorder struct {
	name   string
	events *[]string
}

func (m *recorder) Begin(*Runner) error { *m.events = append(*m.events, m.name+":begin"); return nil }
func (m *recorder) Update(*Runner)      { *m.events = append(*m.events, m.name+":update") }
func (m *recorder) End(*Runner)         { *m.events = append(*m.events, m.name+":end") }

type otherManager struct{ recorder }

func testConfig() config.Launch {
	cfg := config.Default()
	cfg.FixedRate = 50
	return cfg
}

func TestRunnerTick(t *testing.T) {
	r := NewRunner(testConfig(), resource.MapLoader{})
	c := &counter{}
	if err := r.Start(spawnCounter(c)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := r.Tick(20 * time.Millisecond); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if c.updates != 3 || c.fixed != 3 {
		t.Fatalf("expected 3 updates and 3 fixed updates, got %d and %d", c.updates, c.fixed)
	}

	r.SetPaused(true)
	_ = r.Tick(20 * time.Millisecond)
	if c.updates != 3 || r.Clock().Frame() != 3 {
		t.Fatalf("paused runner should not tick")
	}
	r.SetPaused(false)

	r.Shutdown()
	if c.destroyed != 1 {
		t.Fatalf("shutdown should destroy the active world")
	}
	if err := r.Tick(time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRunnerManagers(t *testing.T) {
	var events []string
	r := NewRunner(testConfig(), resource.MapLoader{})
	Register(r, &recorder{name: "a", events: &events})
	Register(r, &otherManager{recorder{name: "b", events: &events}})

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_ = r.Tick(time.Millisecond)
	r.Shutdown()

	want := []string{"a:begin", "b:begin", "a:update", "b:update", "b:end", "a:end"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	if m, ok := Manager[*otherManager](r); !ok || m.name != "b" {
		t.Fatalf("manager lookup by type failed")
	}
	if _, ok := ecs.Lookup[*resource.Table](r.Services()); !ok {
		t.Fatalf("resource table should be a registry service")
	}
}

func TestRunnerSwitchWorld(t *testing.T) {
	r := NewRunner(testConfig(), resource.MapLoader{})
	first, second := &counter{}, &counter{}
	var setups int
	r.setups = append(r.setups, func(*Runner, *ecs.World) error { setups++; return nil })

	if err := r.Start(spawnCounter(first)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	old := r.Active()
	r.SwitchWorld(spawnCounter(second))
	if r.Active() != old {
		t.Fatalf("switch should wait for the next frame")
	}
	_ = r.Tick(time.Millisecond)

	if r.Active() == old || !old.Destroyed() {
		t.Fatalf("old world should be destroyed and replaced")
	}
	if first.destroyed != 1 || second.updates != 1 || setups != 2 {
		t.Fatalf("unexpected counts first=%+v second=%+v setups=%d", *first, *second, setups)
	}
}

func TestGlobalWorldOutlivesSwitch(t *testing.T) {
	r := NewRunner(testConfig(), resource.MapLoader{})
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g := &counter{}
	e, _ := r.Global().CreateEntity(ecs.Plain)
	_ = ecs.Attach(r.Registry(), e, counterKind, g)

	r.SwitchWorld()
	_ = r.Tick(time.Millisecond)
	_ = r.Tick(time.Millisecond)
	if g.updates != 2 || g.destroyed != 0 {
		t.Fatalf("global entity should survive switches, got %+v", *g)
	}
}

func TestRunnerSetupError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner(testConfig(), resource.MapLoader{}, WithWorldSetup(func(*Runner, *ecs.World) error { return boom }))
	if err := r.Start(); !errors.Is(err, boom) {
		t.Fatalf("expected setup error, got %v", err)
	}
}
