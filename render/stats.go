package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/engine/ecs"
)

// Stats prints the world's entity counts in the top-left corner.
type Stats struct{}

func (Stats) Update(*ecs.World) {}

func (Stats) Draw(w *ecs.World, screen *ebiten.Image, view View) {
	adds, destroys := w.Pending()
	text := fmt.Sprintf("%s tick %d\nEntities: %d (%d enabled, %d roots)\nPending: +%d -%d\nWaits: %d\nTPS: %0.1f FPS: %0.1f",
		w.Name(), w.Tick(), w.Len(), len(w.EnabledEntities()), len(w.Roots()),
		adds, destroys, w.Registry().Waits(), ebiten.ActualTPS(), ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}
