package ecs

// Queries return snapshots valid for the current tick. After the world is
// destroyed they return nil.

// EntitiesOfKind returns the world's entities of kind.
func (w *World) EntitiesOfKind(kind EntityKind) []Entity {
	if w == nil {
		return nil
	}
	return w.byKind[kind.id].Snapshot()
}

// EntitiesWith returns the world's entities carrying a component of kind.
func (w *World) EntitiesWith(kind AnyComponentKind) []Entity {
	if w == nil || kind == nil {
		return nil
	}
	return w.byComponent[kind.ID()].Snapshot()
}

// EntitiesWithTag returns the world's entities tagged t.
func (w *World) EntitiesWithTag(t Tag) []Entity {
	if w == nil {
		return nil
	}
	return w.byTag[t.id].Snapshot()
}

// EntitiesWithAll returns the entities carrying every listed component kind.
func (w *World) EntitiesWithAll(kinds ...AnyComponentKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*entitySet, 0, len(kinds))
	for _, k := range kinds {
		if k == nil {
			return nil
		}
		set := w.byComponent[k.ID()]
		if set.Len() == 0 {
			return nil
		}
		sets = append(sets, set)
	}
	// iterate smallest set
	smallest := 0
	for i, set := range sets {
		if set.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	var out []Entity
	for _, e := range sets[smallest].Values() {
		all := true
		for i, set := range sets {
			if i != smallest && !hasEntity(set, e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) Roots() []Entity {
	if w == nil {
		return nil
	}
	return w.roots.Snapshot()
}

func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.all.Snapshot()
}

func (w *World) EnabledEntities() []Entity {
	if w == nil {
		return nil
	}
	return w.enabled.Snapshot()
}

// Len returns the number of indexed entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.all.Len()
}

// Contains reports whether e is indexed in this world.
func (w *World) Contains(e Entity) bool {
	return w != nil && hasEntity(&w.all, e)
}

// Pending returns the number of queued adds and destroys.
func (w *World) Pending() (adds, destroys int) {
	if w == nil {
		return 0, 0
	}
	return w.pendingAdd.Len(), w.pendingDestroy.Len()
}
