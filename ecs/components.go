package ecs

import "fmt"

func (r *Registry) attach(e Entity, k *kindInfo, value any) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if value == nil {
		return report(fmt.Errorf("%w: %s on %v", ErrNilComponent, k.name, e))
	}
	if rec.life.Destroyed() || rec.pendingDestroy {
		return report(fmt.Errorf("%w: %v is being destroyed", ErrEntityNotAlive, e))
	}
	if rec.comps.Has(uint32(k.id)) {
		return report(fmt.Errorf("%w: %s on %v", ErrDuplicateComponent, k.name, e))
	}
	s := &slot{kind: k, value: value, updates: true, token: newToken(rec.token)}
	if w := rec.world; w != nil && w.ticking {
		s.midTick, s.attachTick, s.attachFix = true, w.tick, w.fixedTick
	}
	if a, ok := value.(attachable); ok {
		if err := a.base().attach(e, s); err != nil {
			return report(fmt.Errorf("%w: %s", err, k.name))
		}
	}
	rec.comps.Set(uint32(k.id), s)
	if w := rec.world; w != nil && !rec.pendingAdd {
		addEntity(indexFor(w.byComponent, k.id), e)
	}
	if rec.life.Created() {
		r.createSlot(e, rec, s)
	}
	return nil
}

// Component returns e's component of kind as an untyped value.
func (r *Registry) Component(e Entity, kind AnyComponentKind) (any, bool) {
	if kind == nil || !r.Valid(e) {
		return nil, false
	}
	s, ok := r.store.get(e).comps.Get(uint32(kind.ID()))
	if !ok {
		return nil, false
	}
	return s.value, true
}

// HasComponent reports whether e has a component of kind.
func (r *Registry) HasComponent(e Entity, kind AnyComponentKind) bool {
	_, ok := r.Component(e, kind)
	return ok
}

// Components returns a snapshot of e's components in insertion order.
func (r *Registry) Components(e Entity) []any {
	if !r.Valid(e) {
		return nil
	}
	slots := r.store.get(e).comps.Values()
	out := make([]any, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.value)
	}
	return out
}

// DestroyComponent detaches and destroys e's component of kind, running its
// destroy hook if it was created. It reports whether one was present.
func (r *Registry) DestroyComponent(e Entity, kind AnyComponentKind) bool {
	if kind == nil || !r.Valid(e) {
		return false
	}
	rec := r.store.get(e)
	s, ok := rec.comps.Get(uint32(kind.ID()))
	if !ok {
		return false
	}
	rec.comps.Remove(uint32(kind.ID()))
	if w := rec.world; w != nil {
		if set := w.byComponent[kind.ID()]; set != nil {
			removeEntity(set, e)
		}
	}
	r.destroySlot(e, s)
	return true
}

// SetComponentUpdates toggles OnUpdate for e's component of kind.
func (r *Registry) SetComponentUpdates(e Entity, kind AnyComponentKind, on bool) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if kind == nil {
		return report(ErrInvalidKind)
	}
	s, ok := rec.comps.Get(uint32(kind.ID()))
	if !ok {
		return report(fmt.Errorf("%w: %s on %v", ErrComponentNotPresent, kind.Name(), e))
	}
	s.updates = on
	if a, ok := s.value.(attachable); ok {
		a.base().noUpdate = !on
	}
	return nil
}

// ComponentUpdates reports whether OnUpdate fires for e's component of kind.
func (r *Registry) ComponentUpdates(e Entity, kind AnyComponentKind) bool {
	if kind == nil || !r.Valid(e) {
		return false
	}
	s, ok := r.store.get(e).comps.Get(uint32(kind.ID()))
	return ok && s.updates
}
