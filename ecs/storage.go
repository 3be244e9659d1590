package ecs

// record is one arena slot. Records are heap-allocated and reused, so a
// *record stays stable while the slot is live.
type record struct {
	gen  generation
	live bool

	kind     EntityKind
	behavior any
	life     Lifecycle
	enabled  bool
	token    *Token

	world    *World
	parent   Entity
	children []Entity
	tags     []Tag
	comps    sparseSet[*slot]

	pendingAdd     bool
	pendingDestroy bool
	lastTick       uint64
	lastFixed      uint64
}

func (r *record) hasTag(t Tag) bool {
	for _, have := range r.tags {
		if have.id == t.id {
			return true
		}
	}
	return false
}

func (r *record) removeChild(child Entity) bool {
	for i, c := range r.children {
		if c == child {
			copy(r.children[i:], r.children[i+1:])
			r.children[len(r.children)-1] = Nil
			r.children = r.children[:len(r.children)-1]
			return true
		}
	}
	return false
}

// entityStore tracks entity generations and free ids.
type entityStore struct {
	records []*record
	free    []entityID
	live    int
}

func (s *entityStore) create() (Entity, *record) {
	var id entityID
	var r *record
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
		r = s.records[id-1]
	} else {
		r = &record{gen: 1}
		s.records = append(s.records, r)
		id = entityID(len(s.records))
	}
	r.live = true
	s.live++
	return makeEntity(id, r.gen), r
}

func (s *entityStore) get(e Entity) *record {
	id := e.id()
	if s == nil || id == 0 || int(id) > len(s.records) {
		return nil
	}
	r := s.records[id-1]
	if !r.live || r.gen != e.generation() {
		return nil
	}
	return r
}

// destroy releases the slot; the generation bump invalidates old handles.
func (s *entityStore) destroy(e Entity) {
	r := s.get(e)
	if r == nil {
		return
	}
	gen := r.gen + 1
	if gen == 0 {
		gen = 1
	}
	comps := r.comps
	comps.Clear()
	*r = record{gen: gen, comps: comps, children: r.children[:0], tags: r.tags[:0]}
	s.free = append(s.free, e.id())
	s.live--
}

func (s *entityStore) len() int {
	if s == nil {
		return 0
	}
	return s.live
}
