package ecs

import "sync/atomic"

// KindID is a small interned integer identifying a component kind, entity kind
// or tag. Ids are handed out at registration, normally from package-level var
// initialisers, and are never reused.
type KindID uint32

var (
	nextComponentID  atomic.Uint32
	nextEntityKindID atomic.Uint32
	nextTagID        atomic.Uint32
)

type kindInfo struct {
	id   KindID
	name string
	deps []*kindInfo
}

// AnyComponentKind is implemented only by ComponentKind[T]. It lets
// non-generic code (DestroyComponent, dependency lists, queries) accept any
// component kind.
type AnyComponentKind interface {
	ID() KindID
	Name() string
	info() *kindInfo
}

// ComponentKind identifies one component type and carries its constructor.
// An entity holds at most one component per kind.
type ComponentKind[T any] struct {
	kind  *kindInfo
	newFn func() T
}

// KindOption configures a component kind at registration.
type KindOption func(*kindInfo)

// DependsOn declares component kinds that must be attached before a component
// of this kind is created. Violations are reported, never refused.
func DependsOn(kinds ...AnyComponentKind) KindOption {
	return func(k *kindInfo) {
		for _, dep := range kinds {
			if dep == nil || dep.info() == nil {
				continue
			}
			k.deps = append(k.deps, dep.info())
		}
	}
}

// NewComponentKind registers a component kind. newFn builds a fresh instance
// for CreateComponent; registering without one is a startup error.
func NewComponentKind[T any](name string, newFn func() T, opts ...KindOption) ComponentKind[T] {
	if newFn == nil {
		panic("ecs: component kind " + name + " registered without constructor")
	}
	k := &kindInfo{id: KindID(nextComponentID.Add(1)), name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return ComponentKind[T]{kind: k, newFn: newFn}
}

func (k ComponentKind[T]) ID() KindID {
	if k.kind == nil {
		return 0
	}
	return k.kind.id
}

func (k ComponentKind[T]) Name() string {
	if k.kind == nil {
		return ""
	}
	return k.kind.name
}

func (k ComponentKind[T]) Valid() bool {
	return k.kind != nil && k.newFn != nil
}

// New builds an unattached instance.
func (k ComponentKind[T]) New() T {
	if k.newFn == nil {
		var zero T
		return zero
	}
	return k.newFn()
}

func (k ComponentKind[T]) info() *kindInfo {
	return k.kind
}

// EntityKind identifies a family of entities. Worlds index entities by kind,
// and a kind may supply a behavior value carrying the entity's own hooks.
type EntityKind struct {
	id          KindID
	name        string
	newBehavior func() any
}

// NewEntityKind registers an entity kind. newBehavior may be nil for plain
// entities.
func NewEntityKind(name string, newBehavior func() any) EntityKind {
	return EntityKind{
		id:          KindID(nextEntityKindID.Add(1)),
		name:        name,
		newBehavior: newBehavior,
	}
}

func (k EntityKind) ID() KindID   { return k.id }
func (k EntityKind) Name() string { return k.name }
func (k EntityKind) Valid() bool  { return k.id != 0 }

// Plain is the kind used for entities with no behavior of their own.
var Plain = NewEntityKind("entity", nil)

// Tag is a marker kind an entity can carry zero or more of.
type Tag struct {
	id   KindID
	name string
}

// NewTag registers a tag.
func NewTag(name string) Tag {
	return Tag{id: KindID(nextTagID.Add(1)), name: name}
}

func (t Tag) ID() KindID     { return t.id }
func (t Tag) Name() string   { return t.name }
func (t Tag) Valid() bool    { return t.id != 0 }
func (t Tag) String() string { return t.name }
