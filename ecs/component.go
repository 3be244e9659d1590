package ecs

// Lifecycle hooks are opt-in capability interfaces. Components and entity
// behaviors implement whichever stages they care about; the owning entity is
// the only caller.
type (
	Creator interface {
		OnCreate(ctx Ctx)
	}
	Updater interface {
		OnUpdate(ctx Ctx)
	}
	FixedUpdater interface {
		OnFixedUpdate(ctx Ctx)
	}
	Destroyer interface {
		OnDestroy(ctx Ctx)
	}
)

// Builder is implemented by entity behaviors that attach their initial
// components when the entity is constructed, before it is created.
type Builder interface {
	Build(ctx Ctx)
}

// slot is the per-entity bookkeeping for one attached component.
type slot struct {
	kind    *kindInfo
	value   any
	life    Lifecycle
	updates bool
	token   *Token

	// set when attached during a tick; the slot skips the rest of that tick
	midTick    bool
	attachTick uint64
	attachFix  uint64
}

// heldUpdate reports whether s was attached during w's current Update.
func (s *slot) heldUpdate(w *World) bool {
	return s.midTick && s.attachTick == w.tick
}

// heldFixed reports whether s was attached during w's current FixedUpdate.
func (s *slot) heldFixed(w *World) bool {
	return s.midTick && s.attachFix == w.fixedTick
}

// Base may be embedded in a component to observe its owner and lifecycle.
// The owner is set once when the component is attached and cleared when it
// is destroyed.
type Base struct {
	owner     Entity
	slot      *slot
	destroyed bool
	noUpdate  bool
}

type attachable interface {
	base() *Base
}

func (b *Base) base() *Base { return b }

// Owner returns the entity the component is attached to, or Nil.
func (b *Base) Owner() Entity {
	if b == nil {
		return Nil
	}
	return b.owner
}

// Destroyed reports whether the component has been destroyed.
func (b *Base) Destroyed() bool {
	return b != nil && b.destroyed
}

// DoesUpdate reports whether OnUpdate fires for this component.
func (b *Base) DoesUpdate() bool {
	if b == nil {
		return false
	}
	if b.slot != nil {
		return b.slot.updates
	}
	return !b.noUpdate
}

// SetDoesUpdate toggles OnUpdate for this component. It may be called before
// the component is attached.
func (b *Base) SetDoesUpdate(v bool) {
	if b == nil {
		return
	}
	b.noUpdate = !v
	if b.slot != nil {
		b.slot.updates = v
	}
}

// Cancelled reports whether the component's cancellation token has fired.
func (b *Base) Cancelled() bool {
	if b == nil {
		return true
	}
	if b.slot == nil {
		return b.destroyed
	}
	return b.slot.token.Cancelled()
}

func (b *Base) attach(e Entity, s *slot) error {
	if b.owner != Nil || b.destroyed {
		return ErrComponentAttached
	}
	b.owner = e
	b.slot = s
	s.updates = !b.noUpdate
	return nil
}

func (b *Base) detach() {
	b.owner = Nil
	b.slot = nil
	b.destroyed = true
}
