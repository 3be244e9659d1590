package ecs

// Services is a type-keyed store of singletons handed to hooks through a
// World or Registry: a physics space, the resource table, and so on. At most
// one value per type is held.
type Services struct {
	items map[any]any
}

// key uses a typed nil pointer, which is comparable and distinct per T.
func key[T any]() any {
	return (*T)(nil)
}

// Provide stores v, replacing any previous value of type T.
func Provide[T any](s *Services, v T) {
	if s == nil {
		return
	}
	if s.items == nil {
		s.items = make(map[any]any)
	}
	s.items[key[T]()] = v
}

// Lookup returns the value of type T, if any.
func Lookup[T any](s *Services) (T, bool) {
	var zero T
	if s == nil || s.items == nil {
		return zero, false
	}
	v, ok := s.items[key[T]()]
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Withdraw removes the value of type T and reports whether one was present.
func Withdraw[T any](s *Services) bool {
	if s == nil || s.items == nil {
		return false
	}
	k := key[T]()
	if _, ok := s.items[k]; !ok {
		return false
	}
	delete(s.items, k)
	return true
}

func (s *Services) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Services) Clear() {
	if s == nil {
		return
	}
	clear(s.items)
}
