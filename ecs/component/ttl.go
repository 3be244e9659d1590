package component

import "github.com/milk9111/engine/ecs"

// TTL destroys its entity after the given number of update ticks.
type TTL struct {
	ecs.Base
	Frames int `yaml:"frames"`
}

var TTLComponent = ecs.NewComponentKind("ttl", func() *TTL { return &TTL{} })

func (t *TTL) OnUpdate(ctx ecs.Ctx) {
	t.Frames--
	if t.Frames > 0 {
		return
	}
	t.SetDoesUpdate(false)
	_ = ctx.Registry().Destroy(ctx.Entity())
}
