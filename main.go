package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/engine/app"
	"github.com/milk9111/engine/assets"
	"github.com/milk9111/engine/config"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/physics"
	"github.com/milk9111/engine/prefabs"
	"github.com/milk9111/engine/render"
	"github.com/milk9111/engine/resource"
)

const gravity = 600

func main() {
	configPath := flag.String("config", "engine.yaml", "launch options file (YAML)")
	scenePath := flag.String("scene", "", "scene document to load, relative to the content root")
	content := flag.String("content", "", "directory overlaid on the embedded assets")
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "hot reload content from the content directory")
	validate := flag.Bool("validate", false, "warn about missing component dependencies")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		log.Fatal(err)
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	if *content != "" {
		cfg.ContentRoot = *content
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Watch = cfg.Watch || *watch
	cfg.Validate = cfg.Validate || *validate

	catalog := prefabs.Default()
	catalog.RegisterKind(playerKind)
	catalog.RegisterKind(dropperKind)
	prefabs.ComponentFromYAML(catalog, physics.BodyComponent)
	prefabs.ComponentFromYAML(catalog, render.SpriteComponent)

	opts := []app.Option{app.WithWorldSetup(func(r *app.Runner, w *ecs.World) error {
		physics.Install(w, physics.NewSpace(0, gravity, r.Clock().FixedStep()))
		if r.Config().Debug {
			w.AddSystem(render.PhysicsDebug{})
			w.AddSystem(render.Stats{})
		}
		return nil
	})}
	if cfg.Watch {
		watcher, err := resource.NewWatcher(cfg.ContentRoot, ".yaml", ".png", ".bmp", ".webp")
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			opts = append(opts, app.WithWatcher(watcher))
		}
	}

	runner := app.NewRunner(cfg, assets.Loader(cfg.ContentRoot), opts...)
	defer runner.Shutdown()
	ecs.Provide(runner.Services(), catalog)

	scene, err := prefabs.LoadScene(catalog, runner.Resources(), cfg.Scene)
	if err != nil {
		log.Fatal(err)
	}
	defer scene.Close()

	game := NewGame(cfg, runner, scene)
	app.Register(runner, &hotkeys{game: game})
	if err := runner.Start(scene); err != nil {
		log.Printf("start: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetTPS(cfg.TPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// hotkeys is an application manager for developer shortcuts.
type hotkeys struct {
	game *Game
}

func (h *hotkeys) Update(r *app.Runner) {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		h.game.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		scale := 1.0
		if r.Clock().Scale() == 1 {
			scale = 0.25
		}
		r.Clock().SetScale(scale)
	}
}
