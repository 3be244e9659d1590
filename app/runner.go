// Package app drives worlds from an outer loop: it owns the registry, the
// resource table, the clock and the application-lifetime managers, and turns
// each frame into Update and FixedUpdate calls.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/engine/config"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/resource"
)

var logger = log.Default()

// SetLogger replaces the package logger. Passing nil restores the standard
// logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

var ErrClosed = errors.New("app: runner shut down")

// WorldSetup prepares a freshly created world, typically by adding systems
// and services, before any scene is spawned into it.
type WorldSetup func(r *Runner, w *ecs.World) error

// Option configures a Runner.
type Option func(*Runner)

// WithWorldSetup runs setup on the active world and every world switched to.
func WithWorldSetup(setup WorldSetup) Option {
	return func(r *Runner) {
		if setup != nil {
			r.setups = append(r.setups, setup)
		}
	}
}

// WithWatcher hot-reloads resources from w at the start of every frame.
func WithWatcher(w *resource.Watcher) Option {
	return func(r *Runner) {
		r.watcher = w
	}
}

// Runner owns the application's worlds. The global world lives as long as
// the runner and ticks before the active world; the active world can be
// swapped with SwitchWorld.
type Runner struct {
	cfg       config.Launch
	reg       *ecs.Registry
	resources *resource.Table
	clock     *Clock
	watcher   *resource.Watcher
	setups    []WorldSetup

	global   *ecs.World
	active   *ecs.World
	next     []ecs.Scene
	switched bool
	seq      int

	managers []any
	paused   bool
	started  bool
	closed   bool
}

// NewRunner creates a runner reading content through loader.
func NewRunner(cfg config.Launch, loader resource.Loader, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		reg:       ecs.NewRegistry(ecs.WithValidation(cfg.Validate)),
		resources: resource.NewTable(loader),
		clock:     NewClock(cfg.FixedStep(), cfg.TimeScale, cfg.MaxFixedSteps),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	ecs.Provide(r.reg.Services(), r.resources)
	ecs.Provide(r.reg.Services(), r.clock)
	r.global = r.reg.NewWorld(ecs.WithName("global"), ecs.WithClock(r.clock))
	return r
}

func (r *Runner) Config() config.Launch      { return r.cfg }
func (r *Runner) Registry() *ecs.Registry    { return r.reg }
func (r *Runner) Resources() *resource.Table { return r.resources }
func (r *Runner) Clock() *Clock              { return r.clock }
func (r *Runner) Global() *ecs.World         { return r.global }
func (r *Runner) Active() *ecs.World         { return r.active }
func (r *Runner) Paused() bool               { return r.paused }
func (r *Runner) Closed() bool               { return r.closed }
func (r *Runner) Watcher() *resource.Watcher { return r.watcher }
func (r *Runner) SetPaused(paused bool)      { r.paused = paused }
func (r *Runner) Services() *ecs.Services    { return r.reg.Services() }

// Start begins the managers, loads the global world and loads scenes into a
// new active world.
func (r *Runner) Start(scenes ...ecs.Scene) error {
	if r.closed {
		return ErrClosed
	}
	if r.started {
		return nil
	}
	r.started = true
	for _, m := range r.managers {
		if b, ok := m.(Beginner); ok {
			if err := b.Begin(r); err != nil {
				return fmt.Errorf("app: begin %T: %w", m, err)
			}
		}
	}
	if err := r.global.Load(); err != nil {
		return err
	}
	w, err := r.openWorld(scenes)
	if err != nil {
		return err
	}
	r.active = w
	return nil
}

func (r *Runner) openWorld(scenes []ecs.Scene) (*ecs.World, error) {
	r.seq++
	w := r.reg.NewWorld(ecs.WithName(fmt.Sprintf("scene-%d", r.seq)), ecs.WithClock(r.clock))
	for _, setup := range r.setups {
		if err := setup(r, w); err != nil {
			w.Destroy()
			return nil, fmt.Errorf("app: setup %s: %w", w.Name(), err)
		}
	}
	if err := w.Load(scenes...); err != nil {
		return w, err
	}
	return w, nil
}

// SwitchWorld replaces the active world at the start of the next frame. The
// old world and everything in it is destroyed first.
func (r *Runner) SwitchWorld(scenes ...ecs.Scene) {
	r.next = scenes
	r.switched = true
}

// Tick runs one frame of real duration dt.
func (r *Runner) Tick(dt time.Duration) error {
	if r.closed {
		return ErrClosed
	}
	if !r.started {
		if err := r.Start(); err != nil {
			return err
		}
	}
	if r.watcher != nil {
		r.watcher.Pump(r.resources)
	}
	if r.paused {
		return nil
	}
	var err error
	if r.switched {
		r.switched = false
		scenes := r.next
		r.next = nil
		if r.active != nil {
			r.active.Destroy()
		}
		r.active, err = r.openWorld(scenes)
	}

	r.clock.Advance(dt)
	for _, m := range r.managers {
		if u, ok := m.(Updater); ok {
			u.Update(r)
		}
	}
	r.global.Update()
	if r.active != nil {
		r.active.Update()
	}
	for i := r.clock.FixedSteps(); i > 0; i-- {
		r.global.FixedUpdate()
		if r.active != nil {
			r.active.FixedUpdate()
		}
	}
	return err
}

// Shutdown destroys the worlds, ends the managers in reverse order and frees
// every resource. It is idempotent.
func (r *Runner) Shutdown() {
	if r.closed {
		return
	}
	r.closed = true
	if r.active != nil {
		r.active.Destroy()
	}
	r.global.Destroy()
	for i := len(r.managers) - 1; i >= 0; i-- {
		if e, ok := r.managers[i].(Ender); ok && r.started {
			e.End(r)
		}
	}
	if r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			logger.Printf("app: close watcher: %v", err)
		}
	}
	r.resources.Close()
}
