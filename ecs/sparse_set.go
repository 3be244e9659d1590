package ecs

// sparseSet maps small positive integer keys to values. Dense storage keeps
// insertion order, and removal preserves it, so iteration is deterministic.
type sparseSet[V any] struct {
	denseKeys   []uint32
	denseValues []V
	sparse      []int
}

func (s *sparseSet[V]) Has(key uint32) bool {
	if s == nil || key == 0 || int(key)-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[key-1]
	return idx >= 0 && idx < len(s.denseKeys) && s.denseKeys[idx] == key
}

func (s *sparseSet[V]) Get(key uint32) (V, bool) {
	if !s.Has(key) {
		var zero V
		return zero, false
	}
	return s.denseValues[s.sparse[key-1]], true
}

// Set inserts or updates the value for key. New keys go to the end.
func (s *sparseSet[V]) Set(key uint32, v V) {
	if s == nil || key == 0 {
		return
	}
	for int(key)-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(key) {
		s.denseValues[s.sparse[key-1]] = v
		return
	}
	s.denseKeys = append(s.denseKeys, key)
	s.denseValues = append(s.denseValues, v)
	s.sparse[key-1] = len(s.denseKeys) - 1
}

// Remove deletes key and reports whether it was present.
func (s *sparseSet[V]) Remove(key uint32) bool {
	if s == nil || !s.Has(key) {
		return false
	}
	idx := s.sparse[key-1]
	copy(s.denseKeys[idx:], s.denseKeys[idx+1:])
	copy(s.denseValues[idx:], s.denseValues[idx+1:])
	last := len(s.denseKeys) - 1
	var zero V
	s.denseValues[last] = zero
	s.denseKeys = s.denseKeys[:last]
	s.denseValues = s.denseValues[:last]
	for i := idx; i < len(s.denseKeys); i++ {
		s.sparse[s.denseKeys[i]-1] = i
	}
	s.sparse[key-1] = -1
	return true
}

func (s *sparseSet[V]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseKeys)
}

// Values returns the dense value list. Callers must not retain it across
// mutations.
func (s *sparseSet[V]) Values() []V {
	if s == nil {
		return nil
	}
	return s.denseValues
}

// Snapshot copies the dense values.
func (s *sparseSet[V]) Snapshot() []V {
	if s == nil || len(s.denseValues) == 0 {
		return nil
	}
	out := make([]V, len(s.denseValues))
	copy(out, s.denseValues)
	return out
}

func (s *sparseSet[V]) Clear() {
	if s == nil {
		return
	}
	clear(s.denseValues)
	s.denseKeys = s.denseKeys[:0]
	s.denseValues = s.denseValues[:0]
	s.sparse = s.sparse[:0]
}

// entitySet is a sparse set of entity handles keyed by slot id.
type entitySet = sparseSet[Entity]

func addEntity(s *entitySet, e Entity) {
	s.Set(uint32(e.id()), e)
}

func removeEntity(s *entitySet, e Entity) {
	if cur, ok := s.Get(uint32(e.id())); ok && cur == e {
		s.Remove(uint32(e.id()))
	}
}

func hasEntity(s *entitySet, e Entity) bool {
	cur, ok := s.Get(uint32(e.id()))
	return ok && cur == e
}
