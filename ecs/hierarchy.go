package ecs

import "fmt"

// Parent returns e's parent, or Nil for roots and detached entities.
func (r *Registry) Parent(e Entity) Entity {
	if !r.Valid(e) {
		return Nil
	}
	return r.store.get(e).parent
}

// Children returns a snapshot of e's children in insertion order.
func (r *Registry) Children(e Entity) []Entity {
	if !r.Valid(e) {
		return nil
	}
	return snapshot(r.store.get(e).children)
}

// IsAncestor reports whether a is a strict ancestor of e.
func (r *Registry) IsAncestor(a, e Entity) bool {
	if !r.Valid(a) {
		return false
	}
	for cur := r.Parent(e); cur != Nil; cur = r.Parent(cur) {
		if cur == a {
			return true
		}
	}
	return false
}

// AddChild reparents child under parent. The child leaves its old parent or
// its world's root set first. When the parent lives in another world, or the
// child is detached, the child's whole subtree moves into the parent's world.
func (r *Registry) AddChild(parent, child Entity) error {
	pr, err := r.lookup(parent)
	if err != nil {
		return err
	}
	cr, err := r.lookup(child)
	if err != nil {
		return err
	}
	if parent == child || r.IsAncestor(child, parent) {
		return report(fmt.Errorf("%w: %v under %v", ErrCyclicParenting, child, parent))
	}
	if pr.life.Destroyed() || cr.life.Destroyed() {
		return report(fmt.Errorf("%w: reparenting destroyed entity", ErrEntityNotAlive))
	}
	if cr.parent == parent {
		return nil
	}

	old := cr.world
	if cr.parent != Nil {
		if op := r.store.get(cr.parent); op != nil {
			op.removeChild(child)
		}
	} else if old != nil {
		removeEntity(&old.roots, child)
	}
	cr.parent = parent
	pr.children = append(pr.children, child)

	if pr.world == old {
		r.createIfReady(child)
		return nil
	}
	if old != nil {
		old.releaseTree(child)
	}
	if pr.world != nil {
		pr.world.admit(child)
	}
	r.refileDestroys(child, pr.world)
	return nil
}

// RemoveChild detaches child from parent. A child that belongs to a world is
// re-admitted as one of its roots and keeps ticking.
func (r *Registry) RemoveChild(parent, child Entity) error {
	pr, err := r.lookup(parent)
	if err != nil {
		return err
	}
	cr, err := r.lookup(child)
	if err != nil {
		return err
	}
	if cr.parent != parent {
		return report(fmt.Errorf("%w: %v of %v", ErrNotChild, child, parent))
	}
	pr.removeChild(child)
	cr.parent = Nil
	if w := cr.world; w != nil {
		if !cr.pendingAdd {
			addEntity(&w.roots, child)
		}
		r.createIfReady(child)
	}
	return nil
}
