package ecs

import "fmt"

// CreateComponent builds a component of kind with the kind's constructor and
// attaches it to e. If e is already created the component's create hook runs
// before CreateComponent returns.
func CreateComponent[T any](r *Registry, e Entity, kind ComponentKind[T]) (T, error) {
	var zero T
	if !kind.Valid() {
		return zero, report(fmt.Errorf("%w: component kind %q", ErrInvalidKind, kind.Name()))
	}
	value := kind.New()
	if err := r.attach(e, kind.kind, value); err != nil {
		return zero, err
	}
	return value, nil
}

// Attach attaches an already-built value, such as one decoded from a prefab.
func Attach[T any](r *Registry, e Entity, kind ComponentKind[T], value T) error {
	if kind.kind == nil {
		return report(fmt.Errorf("%w: component kind %q", ErrInvalidKind, kind.Name()))
	}
	return r.attach(e, kind.kind, value)
}

// GetComponent returns e's component of kind. A missing component is a
// programmer error: it is logged and the zero value is returned.
func GetComponent[T any](r *Registry, e Entity, kind ComponentKind[T]) T {
	v, ok := TryGetComponent(r, e, kind)
	if !ok {
		logf("%v: %s on %v", ErrComponentNotPresent, kind.Name(), e)
	}
	return v
}

// TryGetComponent returns e's component of kind, if present.
func TryGetComponent[T any](r *Registry, e Entity, kind ComponentKind[T]) (T, bool) {
	var zero T
	v, ok := r.Component(e, kind)
	if !ok {
		return zero, false
	}
	cast, ok := v.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// ForEach calls fn for every enabled, created entity in w that has a live
// component of kind.
func ForEach[T any](w *World, kind ComponentKind[T], fn func(Entity, T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.EntitiesWith(kind) {
		rec := w.reg.store.get(e)
		if rec == nil || !rec.enabled || !rec.life.Created() || rec.pendingDestroy {
			continue
		}
		if v, ok := TryGetComponent(w.reg, e, kind); ok {
			fn(e, v)
		}
	}
}
