package ecs

import "fmt"

// Registry is the context shared by every World of an application: it owns the
// entity arena, registry-level services and pending waits. Entities are
// addressed by handle through the registry, whether they are detached or live
// in a World.
type Registry struct {
	store    entityStore
	services Services
	validate bool
	waits    []*Wait
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithValidation turns on component dependency checks at create time.
func WithValidation(on bool) RegistryOption {
	return func(r *Registry) {
		r.validate = on
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// SetValidate toggles component dependency checks.
func (r *Registry) SetValidate(on bool) {
	if r == nil {
		return
	}
	r.validate = on
}

func (r *Registry) Validate() bool {
	return r != nil && r.validate
}

// Services returns the registry-level services, shared by all worlds.
func (r *Registry) Services() *Services {
	if r == nil {
		return nil
	}
	return &r.services
}

// Len returns the number of live entities, detached ones included.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.store.len()
}

type entityOptions struct {
	disabled bool
	tags     []Tag
	parent   Entity
}

// EntityOption configures an entity at construction.
type EntityOption func(*entityOptions)

// Disabled constructs the entity disabled. It is not created until enabled.
func Disabled() EntityOption {
	return func(o *entityOptions) {
		o.disabled = true
	}
}

// WithTags adds tags to the entity before it is indexed.
func WithTags(tags ...Tag) EntityOption {
	return func(o *entityOptions) {
		o.tags = append(o.tags, tags...)
	}
}

// WithParent attaches the entity under parent, moving it into the parent's
// world.
func WithParent(parent Entity) EntityOption {
	return func(o *entityOptions) {
		o.parent = parent
	}
}

// NewEntity constructs a detached entity. It is created once it joins a
// loaded World.
func (r *Registry) NewEntity(kind EntityKind, opts ...EntityOption) (Entity, error) {
	if r == nil {
		return Nil, ErrInvalidKind
	}
	return r.construct(nil, kind, opts)
}

func (r *Registry) construct(w *World, kind EntityKind, opts []EntityOption) (Entity, error) {
	if !kind.Valid() {
		return Nil, report(fmt.Errorf("%w: entity kind %q", ErrInvalidKind, kind.name))
	}
	var o entityOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.parent != Nil && r.store.get(o.parent) == nil {
		return Nil, report(fmt.Errorf("%w: parent %v", ErrEntityNotAlive, o.parent))
	}

	e, rec := r.store.create()
	rec.kind = kind
	rec.enabled = !o.disabled
	rec.token = newToken(nil)
	for _, t := range o.tags {
		if t.Valid() && !rec.hasTag(t) {
			rec.tags = append(rec.tags, t)
		}
	}
	if kind.newBehavior != nil {
		rec.behavior = kind.newBehavior()
	}
	if b, ok := rec.behavior.(Builder); ok {
		b.Build(Ctx{reg: r, entity: e, token: rec.token})
		if r.store.get(e) == nil {
			return Nil, report(fmt.Errorf("%w: %v destroyed while building", ErrEntityNotAlive, e))
		}
	}

	switch {
	case o.parent != Nil:
		if err := r.AddChild(o.parent, e); err != nil {
			if w != nil {
				w.admit(e)
			}
			return e, err
		}
	case w != nil:
		w.admit(e)
	}
	return e, nil
}

// Valid reports whether e refers to a live entity.
func (r *Registry) Valid(e Entity) bool {
	return r != nil && r.store.get(e) != nil
}

func (r *Registry) lookup(e Entity) (*record, error) {
	if r == nil {
		return nil, ErrEntityNotAlive
	}
	rec := r.store.get(e)
	if rec == nil {
		return nil, report(fmt.Errorf("%w: %v", ErrEntityNotAlive, e))
	}
	return rec, nil
}

// Kind returns the entity's kind.
func (r *Registry) Kind(e Entity) (EntityKind, bool) {
	if !r.Valid(e) {
		return EntityKind{}, false
	}
	return r.store.get(e).kind, true
}

// Behavior returns the value built by the entity kind, or nil.
func (r *Registry) Behavior(e Entity) any {
	if !r.Valid(e) {
		return nil
	}
	return r.store.get(e).behavior
}

// State returns the entity's lifecycle state. Freed handles report Destroyed.
func (r *Registry) State(e Entity) State {
	if !r.Valid(e) {
		return Destroyed
	}
	return r.store.get(e).life.State()
}

// IsDestroyed reports whether the entity has been destroyed. Destruction is
// terminal, so a stale handle is always destroyed.
func (r *Registry) IsDestroyed(e Entity) bool {
	return r.State(e) == Destroyed
}

// IsPendingDestroy reports whether a destroy request is queued for e.
func (r *Registry) IsPendingDestroy(e Entity) bool {
	if !r.Valid(e) {
		return false
	}
	return r.store.get(e).pendingDestroy
}

// WorldOf returns the world e belongs to, or nil when detached.
func (r *Registry) WorldOf(e Entity) *World {
	if !r.Valid(e) {
		return nil
	}
	return r.store.get(e).world
}

// Token returns the entity's cancellation token.
func (r *Registry) Token(e Entity) *Token {
	if !r.Valid(e) {
		return nil
	}
	return r.store.get(e).token
}

// Ctx returns an entity-level hook context for e, for collaborators that run
// hooks of their own outside the world tick.
func (r *Registry) Ctx(e Entity) Ctx {
	return Ctx{reg: r, entity: e, token: r.Token(e)}
}

// Enable turns the entity on. A never-created entity in a loaded world is
// created right away, along with its enabled children.
func (r *Registry) Enable(e Entity) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if rec.enabled {
		return nil
	}
	rec.enabled = true
	if w := rec.world; w != nil && !rec.pendingAdd {
		addEntity(&w.enabled, e)
	}
	r.createIfReady(e)
	return nil
}

// Disable stops the entity and its subtree from ticking.
func (r *Registry) Disable(e Entity) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if !rec.enabled {
		return nil
	}
	rec.enabled = false
	if w := rec.world; w != nil {
		removeEntity(&w.enabled, e)
	}
	return nil
}

// IsEnabled reports the entity's own enabled flag.
func (r *Registry) IsEnabled(e Entity) bool {
	if !r.Valid(e) {
		return false
	}
	return r.store.get(e).enabled
}

// Destroy requests destruction of e and its subtree. In a loaded world the
// request is queued until the next tick boundary; otherwise it is applied
// immediately. The entity's token is cancelled right away either way.
func (r *Registry) Destroy(e Entity) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if rec.pendingDestroy || rec.life.Destroyed() {
		logf("destroy requested twice for %v", e)
		return nil
	}
	w := rec.world
	if w == nil || !w.life.Created() {
		r.destroyNow(e)
		return nil
	}
	rec.pendingDestroy = true
	rec.token.cancel()
	w.pendingDestroy.Push(e)
	return nil
}

// refileDestroys hands the queued destroy requests of e's subtree to w after
// the subtree moved there. Without a loaded destination they apply at once.
func (r *Registry) refileDestroys(e Entity, w *World) {
	for _, n := range r.subtree(e) {
		rec := r.store.get(n)
		if rec == nil || !rec.pendingDestroy {
			continue
		}
		if w != nil && w.life.Created() {
			w.pendingDestroy.Push(n)
			continue
		}
		r.destroyNow(n)
	}
}

// createIfReady runs the create cascade on e when it and its parent allow it.
func (r *Registry) createIfReady(e Entity) {
	rec := r.store.get(e)
	if rec == nil || rec.world == nil || !rec.world.life.Created() {
		return
	}
	if !rec.enabled || rec.pendingAdd || rec.pendingDestroy || rec.life.State() != Uncreated {
		return
	}
	if rec.parent != Nil {
		if p := r.store.get(rec.parent); p == nil || !p.life.Created() {
			return
		}
	}
	r.createCascade(e, rec)
}

// createCascade creates components in insertion order, then the behavior, then
// enabled children.
func (r *Registry) createCascade(e Entity, rec *record) {
	if !rec.life.Create() {
		return
	}
	for _, s := range rec.comps.Snapshot() {
		if r.store.get(e) == nil {
			return
		}
		r.createSlot(e, rec, s)
	}
	if r.store.get(e) == nil || rec.pendingDestroy {
		return
	}
	if c, ok := rec.behavior.(Creator); ok {
		c.OnCreate(Ctx{reg: r, entity: e, token: rec.token})
	}
	if r.store.get(e) == nil {
		return
	}
	for _, child := range snapshot(rec.children) {
		r.createIfReady(child)
	}
}

func (r *Registry) createSlot(e Entity, rec *record, s *slot) {
	if !s.life.Create() {
		return
	}
	if r.validate {
		for _, dep := range s.kind.deps {
			if !rec.comps.Has(uint32(dep.id)) {
				report(fmt.Errorf("%w: %s on %v requires %s", ErrMissingDependency, s.kind.name, e, dep.name))
			}
		}
	}
	if c, ok := s.value.(Creator); ok {
		c.OnCreate(Ctx{reg: r, entity: e, token: s.token})
	}
}

// destroyNow runs the destroy cascade on e, detaches it and frees its subtree.
func (r *Registry) destroyNow(e Entity) {
	rec := r.store.get(e)
	if rec == nil {
		return
	}
	r.destroyCascade(e, rec)
	if r.store.get(e) == nil {
		return
	}
	if rec.parent != Nil {
		if p := r.store.get(rec.parent); p != nil {
			p.removeChild(e)
		}
		rec.parent = Nil
	}
	for _, n := range r.subtree(e) {
		nr := r.store.get(n)
		if nr == nil {
			continue
		}
		if !nr.life.Destroyed() {
			r.destroyCascade(n, nr)
		}
		if w := nr.world; w != nil {
			w.unindex(n, nr)
		}
		r.store.destroy(n)
	}
}

// destroyCascade destroys components, then the behavior, then children. Hooks
// fire only for things that were created.
func (r *Registry) destroyCascade(e Entity, rec *record) {
	created := rec.life.Created()
	if !rec.life.Destroy() {
		return
	}
	rec.token.cancel()
	for _, s := range rec.comps.Snapshot() {
		r.destroySlot(e, s)
	}
	if created {
		if d, ok := rec.behavior.(Destroyer); ok {
			d.OnDestroy(Ctx{reg: r, entity: e, token: rec.token})
		}
	}
	for _, child := range snapshot(rec.children) {
		if cr := r.store.get(child); cr != nil {
			r.destroyCascade(child, cr)
		}
	}
}

func (r *Registry) destroySlot(e Entity, s *slot) {
	created := s.life.Created()
	if !s.life.Destroy() {
		return
	}
	s.token.cancel()
	if created {
		if d, ok := s.value.(Destroyer); ok {
			d.OnDestroy(Ctx{reg: r, entity: e, token: s.token})
		}
	}
	if a, ok := s.value.(attachable); ok {
		a.base().detach()
	}
}

// subtree lists e and its descendants breadth-first.
func (r *Registry) subtree(e Entity) []Entity {
	out := []Entity{e}
	for i := 0; i < len(out); i++ {
		rec := r.store.get(out[i])
		if rec == nil {
			continue
		}
		out = append(out, rec.children...)
	}
	return out
}

func snapshot(ents []Entity) []Entity {
	if len(ents) == 0 {
		return nil
	}
	out := make([]Entity, len(ents))
	copy(out, ents)
	return out
}
