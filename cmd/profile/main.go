// Profiling:
// go build ./cmd/profile
// ./profile -mode cpu
// go tool pprof -http=":8000" ./profile cpu.pprof

package main

import (
	"flag"
	"log"

	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
	"github.com/pkg/profile"
)

type mover struct {
	ecs.Base
	t      *component.Transform
	vx, vy float64
}

func (m *mover) OnCreate(ctx ecs.Ctx) {
	m.t, _ = component.Get(ctx.Registry(), ctx.Entity(), component.TransformComponent)
}

func (m *mover) OnFixedUpdate(ecs.Ctx) {
	if m.t != nil {
		m.t.Translate(m.vx, m.vy)
	}
}

var moverKind = ecs.NewComponentKind("mover", func() *mover { return &mover{vx: 1, vy: 0.5} }, ecs.DependsOn(component.TransformComponent))

func main() {
	mode := flag.String("mode", "mem", "profile to record: cpu or mem")
	rounds := flag.Int("rounds", 20, "worlds to build and tear down")
	ticks := flag.Int("ticks", 600, "updates per world")
	entities := flag.Int("entities", 2000, "root entities per world")
	flag.Parse()

	var p interface{ Stop() }
	switch *mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	run(*rounds, *ticks, *entities)
	p.Stop()
}

// run builds worlds of two-level hierarchies whose children expire on a
// timer, so creation, ticking and destruction all show up.
func run(rounds, ticks, numEntities int) {
	reg := ecs.NewRegistry()
	for range rounds {
		w := reg.NewWorld()
		for i := range numEntities {
			e, err := w.CreateEntity(ecs.Plain, ecs.WithTags(component.StaticTag))
			if err != nil {
				log.Fatal(err)
			}
			_, _ = ecs.CreateComponent(reg, e, component.TransformComponent)
			_, _ = ecs.CreateComponent(reg, e, moverKind)
			child, _ := reg.NewEntity(ecs.Plain, ecs.WithParent(e))
			_, _ = ecs.CreateComponent(reg, child, component.TransformComponent)
			_ = ecs.Attach(reg, child, component.TTLComponent, &component.TTL{Frames: 30 + i%60})
		}
		if err := w.Load(); err != nil {
			log.Fatal(err)
		}
		for range ticks {
			w.Update()
			w.FixedUpdate()
		}
		w.Destroy()
	}
	log.Printf("done: %d live entities", reg.Len())
}
