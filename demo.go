package main

import (
	"log"
	"time"

	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
	"github.com/milk9111/engine/prefabs"
	"github.com/milk9111/engine/resource"
)

const (
	dropInterval = 2 * time.Second
	cratePrefab  = "prefabs/crate.yaml"
	crateTTL     = 600 // updates
)

var dropperKind = ecs.NewEntityKind("dropper", func() any { return &dropper{} })

// dropper spawns a short-lived crate on a timer for as long as it lives.
type dropper struct {
	dropped int
}

func (d *dropper) OnCreate(ctx ecs.Ctx) {
	d.schedule(ctx)
}

func (d *dropper) schedule(ctx ecs.Ctx) {
	ctx.WaitFor(dropInterval, func() {
		d.drop(ctx)
		d.schedule(ctx)
	})
}

func (d *dropper) drop(ctx ecs.Ctx) {
	services := ctx.Registry().Services()
	catalog, ok := ecs.Lookup[*prefabs.Catalog](services)
	if !ok {
		return
	}
	table, _ := ecs.Lookup[*resource.Table](services)

	scene := prefabs.NewScene(catalog, table, prefabs.SceneSpec{
		Entities: []prefabs.EntitySpec{{Prefab: cratePrefab}},
	})
	defer scene.Close()
	if err := scene.Spawn(ctx.World()); err != nil {
		log.Printf("dropper: %v", err)
		return
	}

	d.dropped++
	x := 80.0
	if d.dropped%2 == 0 {
		x = -x
	}
	for _, e := range scene.Roots() {
		if t, ok := component.Get(ctx.Registry(), e, component.TransformComponent); ok {
			t.SetPosition(x, -200)
		}
		_ = ecs.Attach(ctx.Registry(), e, component.TTLComponent, &component.TTL{Frames: crateTTL})
	}
}
