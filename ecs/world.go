package ecs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock supplies a world's notion of elapsed time for timed waits.
type Clock interface {
	Now() time.Duration
}

// frameClock counts Update ticks at a nominal 60 per second.
type frameClock struct {
	w *World
}

func (c frameClock) Now() time.Duration {
	return time.Duration(c.w.tick) * time.Second / 60
}

// World owns root entities, indexes every entity it holds by kind, component
// and tag, and drives the update tick.
type World struct {
	id   string
	name string
	reg  *Registry
	life Lifecycle

	ticking   bool
	tick      uint64
	fixedTick uint64

	all     entitySet
	roots   entitySet
	enabled entitySet

	byKind      map[KindID]*entitySet
	byComponent map[KindID]*entitySet
	byTag       map[KindID]*entitySet

	pendingAdd     queue[Entity]
	pendingDestroy queue[Entity]

	scheduler Scheduler
	services  Services
	clock     Clock
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithName sets the name used in log lines.
func WithName(name string) WorldOption {
	return func(w *World) {
		w.name = name
	}
}

// WithClock replaces the default frame-counting clock.
func WithClock(c Clock) WorldOption {
	return func(w *World) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithSystems adds systems in order; see AddSystem.
func WithSystems(systems ...any) WorldOption {
	return func(w *World) {
		for _, s := range systems {
			w.AddSystem(s)
		}
	}
}

// NewWorld creates an unloaded world that shares r's entity arena.
func (r *Registry) NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:          uuid.NewString(),
		reg:         r,
		byKind:      make(map[KindID]*entitySet),
		byComponent: make(map[KindID]*entitySet),
		byTag:       make(map[KindID]*entitySet),
	}
	w.clock = frameClock{w: w}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.name == "" {
		w.name = "world-" + w.id[:8]
	}
	return w
}

func (w *World) ID() string            { return w.id }
func (w *World) Name() string          { return w.name }
func (w *World) Registry() *Registry   { return w.reg }
func (w *World) State() State          { return w.life.State() }
func (w *World) Loaded() bool          { return w.life.Created() }
func (w *World) Destroyed() bool       { return w.life.Destroyed() }
func (w *World) Ticking() bool         { return w.ticking }
func (w *World) Tick() uint64          { return w.tick }
func (w *World) FixedTick() uint64     { return w.fixedTick }
func (w *World) Services() *Services   { return &w.services }
func (w *World) Now() time.Duration    { return w.clock.Now() }
func (w *World) String() string        { return w.name + "(" + WorldState(w.life.State()) + ")" }
func (w *World) Scheduler() *Scheduler { return &w.scheduler }

// AddSystem appends a System and/or FixedSystem to the world's run order.
func (w *World) AddSystem(s any) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Scene spawns content into a world.
type Scene interface {
	Spawn(w *World) error
}

// SceneFunc adapts a function to Scene.
type SceneFunc func(w *World) error

func (f SceneFunc) Spawn(w *World) error { return f(w) }

// Load spawns scenes and, on the first call, creates every entity the world
// holds. Later calls spawn additively into the live world.
func (w *World) Load(scenes ...Scene) error {
	if w == nil {
		return ErrWorldDestroyed
	}
	if w.life.Destroyed() {
		return report(fmt.Errorf("%w: load %s", ErrWorldDestroyed, w.name))
	}
	var errs []error
	for _, s := range scenes {
		if s == nil {
			continue
		}
		if err := s.Spawn(w); err != nil {
			errs = append(errs, err)
		}
	}
	if w.life.Create() {
		for _, e := range w.roots.Snapshot() {
			w.reg.createIfReady(e)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return report(fmt.Errorf("ecs: load %s: %w", w.name, err))
	}
	return nil
}

// CreateEntity constructs an entity and admits it to the world. In a loaded
// world it is created immediately, or at the next tick boundary when called
// from inside a tick. In an unloaded world creation waits for Load.
func (w *World) CreateEntity(kind EntityKind, opts ...EntityOption) (Entity, error) {
	if w == nil || w.life.Destroyed() {
		return Nil, report(ErrWorldDestroyed)
	}
	return w.reg.construct(w, kind, opts)
}

// DestroyEntity requests destruction of an entity of this world.
func (w *World) DestroyEntity(e Entity) error {
	if w == nil {
		return ErrUnknownEntity
	}
	rec := w.reg.store.get(e)
	if rec == nil || rec.world != w {
		return report(fmt.Errorf("%w: %v in %s", ErrUnknownEntity, e, w.name))
	}
	return w.reg.Destroy(e)
}

// ClaimEntity moves e and its subtree into this world as a root. It leaves
// its old parent and its old world's indices first.
func (w *World) ClaimEntity(e Entity) error {
	if w == nil || w.life.Destroyed() {
		return report(ErrWorldDestroyed)
	}
	rec, err := w.reg.lookup(e)
	if err != nil {
		return err
	}
	if rec.life.Destroyed() {
		return report(fmt.Errorf("%w: %v", ErrEntityNotAlive, e))
	}
	if rec.parent != Nil {
		if p := w.reg.store.get(rec.parent); p != nil {
			p.removeChild(e)
		}
		rec.parent = Nil
	} else if rec.world == w {
		return nil
	}
	if rec.world == w {
		if !rec.pendingAdd {
			addEntity(&w.roots, e)
		}
		w.reg.createIfReady(e)
		return nil
	}
	if rec.world != nil {
		rec.world.releaseTree(e)
	}
	w.admit(e)
	w.reg.refileDestroys(e, w)
	return nil
}

// admit brings e's subtree into the world. The subtree is indexed and created
// at once unless a tick is running or e's parent is itself still pending, in
// which case it is queued breadth-first for the next tick boundary.
func (w *World) admit(e Entity) {
	nodes := w.reg.subtree(e)
	for _, n := range nodes {
		if rec := w.reg.store.get(n); rec != nil {
			rec.world = w
		}
	}
	queued := w.ticking
	if rec := w.reg.store.get(e); rec != nil && rec.parent != Nil {
		if p := w.reg.store.get(rec.parent); p != nil && p.pendingAdd {
			queued = true
		}
	}
	if queued {
		for _, n := range nodes {
			if rec := w.reg.store.get(n); rec != nil && !rec.pendingAdd {
				rec.pendingAdd = true
				w.pendingAdd.Push(n)
			}
		}
		return
	}
	for _, n := range nodes {
		if rec := w.reg.store.get(n); rec != nil {
			w.index(n, rec)
		}
	}
	w.reg.createIfReady(e)
}

// releaseTree drops e's subtree from the world's indices and queues.
func (w *World) releaseTree(e Entity) {
	for _, n := range w.reg.subtree(e) {
		rec := w.reg.store.get(n)
		if rec == nil || rec.world != w {
			continue
		}
		if rec.pendingAdd {
			rec.pendingAdd = false
		} else {
			w.unindex(n, rec)
		}
		rec.world = nil
	}
}

func indexFor(m map[KindID]*entitySet, id KindID) *entitySet {
	set := m[id]
	if set == nil {
		set = &entitySet{}
		m[id] = set
	}
	return set
}

func (w *World) index(e Entity, rec *record) {
	addEntity(&w.all, e)
	if rec.parent == Nil {
		addEntity(&w.roots, e)
	}
	if rec.enabled {
		addEntity(&w.enabled, e)
	}
	addEntity(indexFor(w.byKind, rec.kind.id), e)
	for _, s := range rec.comps.Values() {
		addEntity(indexFor(w.byComponent, s.kind.id), e)
	}
	for _, t := range rec.tags {
		addEntity(indexFor(w.byTag, t.id), e)
	}
}

func (w *World) unindex(e Entity, rec *record) {
	removeEntity(&w.all, e)
	removeEntity(&w.roots, e)
	removeEntity(&w.enabled, e)
	if set := w.byKind[rec.kind.id]; set != nil {
		removeEntity(set, e)
	}
	for _, s := range rec.comps.Values() {
		if set := w.byComponent[s.kind.id]; set != nil {
			removeEntity(set, e)
		}
	}
	for _, t := range rec.tags {
		if set := w.byTag[t.id]; set != nil {
			removeEntity(set, e)
		}
	}
}

// applyPending runs queued destroys, then queued adds, in FIFO order.
func (w *World) applyPending() {
	for {
		e, ok := w.pendingDestroy.Pop()
		if !ok {
			break
		}
		if rec := w.reg.store.get(e); rec == nil || rec.world != w {
			// moved away; the new world holds the request
			continue
		}
		w.reg.destroyNow(e)
	}
	var added []Entity
	for {
		e, ok := w.pendingAdd.Pop()
		if !ok {
			break
		}
		rec := w.reg.store.get(e)
		if rec == nil || rec.world != w || !rec.pendingAdd {
			continue
		}
		rec.pendingAdd = false
		w.index(e, rec)
		added = append(added, e)
	}
	for _, e := range added {
		w.reg.createIfReady(e)
	}
}

// Destroy destroys every entity in the world, clears its indices and closes
// its systems. It is idempotent.
func (w *World) Destroy() {
	if w == nil || !w.life.Destroy() {
		return
	}
	w.ticking = false
	for _, wt := range w.reg.waits {
		if rec := w.reg.store.get(wt.owner); rec != nil && rec.world == w {
			wt.Cancel()
		}
	}
	w.reg.compactWaits()

	for _, e := range w.roots.Snapshot() {
		w.reg.destroyNow(e)
	}
	for _, e := range w.pendingAdd.Drain() {
		if rec := w.reg.store.get(e); rec != nil && rec.world == w && rec.parent == Nil {
			w.reg.destroyNow(e)
		}
	}
	for _, e := range w.all.Snapshot() {
		w.reg.destroyNow(e)
	}
	w.pendingDestroy.Clear()

	w.all.Clear()
	w.roots.Clear()
	w.enabled.Clear()
	clear(w.byKind)
	clear(w.byComponent)
	clear(w.byTag)
	w.scheduler.Close(w)
	w.services.Clear()
}
