package component

import "github.com/milk9111/engine/ecs"

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int `yaml:"index"`
}

var RenderLayerComponent = ecs.NewComponentKind("render_layer", func() *RenderLayer { return &RenderLayer{} })

// Layer returns e's render layer, or 0.
func Layer(r *ecs.Registry, e ecs.Entity) int {
	if l, ok := Get(r, e, RenderLayerComponent); ok {
		return l.Index
	}
	return 0
}
