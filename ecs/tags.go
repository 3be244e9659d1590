package ecs

import "fmt"

// AddTag adds t to e. The owning world's tag index is updated immediately.
func (r *Registry) AddTag(e Entity, t Tag) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return report(fmt.Errorf("%w: tag %q", ErrInvalidKind, t.name))
	}
	if rec.hasTag(t) {
		return nil
	}
	rec.tags = append(rec.tags, t)
	if w := rec.world; w != nil && !rec.pendingAdd {
		addEntity(indexFor(w.byTag, t.id), e)
	}
	return nil
}

// RemoveTag removes t from e. Removing an absent tag is a no-op.
func (r *Registry) RemoveTag(e Entity, t Tag) error {
	rec, err := r.lookup(e)
	if err != nil {
		return err
	}
	for i, have := range rec.tags {
		if have.id != t.id {
			continue
		}
		rec.tags = append(rec.tags[:i], rec.tags[i+1:]...)
		if w := rec.world; w != nil {
			if set := w.byTag[t.id]; set != nil {
				removeEntity(set, e)
			}
		}
		return nil
	}
	return nil
}

func (r *Registry) HasTag(e Entity, t Tag) bool {
	if !r.Valid(e) {
		return false
	}
	return r.store.get(e).hasTag(t)
}

// Tags returns a snapshot of e's tags.
func (r *Registry) Tags(e Entity) []Tag {
	if !r.Valid(e) {
		return nil
	}
	tags := r.store.get(e).tags
	if len(tags) == 0 {
		return nil
	}
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}
