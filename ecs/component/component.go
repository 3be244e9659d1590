// Package component holds the engine's built-in components and tags. They
// carry plain data plus the hooks that keep that data current; rendering and
// physics bindings live in their own packages.
package component

import "github.com/milk9111/engine/ecs"

// Get is a shorthand for looking up a built-in component without logging.
func Get[T any](r *ecs.Registry, e ecs.Entity, kind ecs.ComponentKind[T]) (T, bool) {
	return ecs.TryGetComponent(r, e, kind)
}
