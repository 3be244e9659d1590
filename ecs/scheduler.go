package ecs

import "io"

// System runs once per Update, before entity hooks.
type System interface {
	Update(w *World)
}

// FixedSystem runs once per FixedUpdate, before entity hooks.
type FixedSystem interface {
	FixedUpdate(w *World)
}

// Scheduler keeps a world's systems in insertion order. A value may be both a
// System and a FixedSystem; values implementing io.Closer are closed when the
// world is destroyed.
type Scheduler struct {
	systems []any
}

// Add appends a system. Values that are neither System nor FixedSystem are
// logged and ignored.
func (s *Scheduler) Add(system any) {
	if s == nil || system == nil {
		return
	}
	_, isSystem := system.(System)
	_, isFixed := system.(FixedSystem)
	if !isSystem && !isFixed {
		logf("ignoring %T: not a System or FixedSystem", system)
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		if u, ok := system.(System); ok {
			u.Update(w)
		}
	}
}

func (s *Scheduler) FixedUpdate(w *World) {
	for _, system := range s.systems {
		if u, ok := system.(FixedSystem); ok {
			u.FixedUpdate(w)
		}
	}
}

// Close closes systems in reverse order and empties the scheduler.
func (s *Scheduler) Close(w *World) {
	for i := len(s.systems) - 1; i >= 0; i-- {
		if c, ok := s.systems[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				logf("closing system %T in %s: %v", s.systems[i], w.Name(), err)
			}
		}
	}
	s.systems = nil
}

func (s *Scheduler) Systems() []any {
	systems := make([]any, 0, len(s.systems))
	return append(systems, s.systems...)
}
