package ecs

// Token is a cancellation flag owned by an entity or a component. Destroying
// the owner cancels it. A component token also reports cancelled once its
// entity's token is.
type Token struct {
	cancelled bool
	parent    *Token
}

func newToken(parent *Token) *Token {
	return &Token{parent: parent}
}

// Cancelled reports whether the token or its parent has been cancelled. A nil
// token is never cancelled.
func (t *Token) Cancelled() bool {
	for ; t != nil; t = t.parent {
		if t.cancelled {
			return true
		}
	}
	return false
}

func (t *Token) cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// WaitState is the progress of a pending wait.
type WaitState uint8

const (
	WaitPending WaitState = iota
	WaitResolved
	WaitCancelled
)

func (s WaitState) String() string {
	switch s {
	case WaitPending:
		return "pending"
	case WaitResolved:
		return "resolved"
	case WaitCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Wait is one cooperative wait. It is polled once per Update of its owner's
// world, after queued mutations are applied and before any hook runs.
type Wait struct {
	owner Entity
	token *Token
	cond  func(*World) bool
	then  func()
	state WaitState
}

func (w *Wait) State() WaitState {
	if w == nil {
		return WaitCancelled
	}
	return w.state
}

func (w *Wait) Owner() Entity {
	if w == nil {
		return Nil
	}
	return w.owner
}

// Cancel drops the wait without running its continuation.
func (w *Wait) Cancel() {
	if w != nil && w.state == WaitPending {
		w.state = WaitCancelled
	}
}

// poll advances the wait and reports whether it is finished.
func (w *Wait) poll(world *World) bool {
	if w.state != WaitPending {
		return true
	}
	if w.token.Cancelled() {
		w.state = WaitCancelled
		return true
	}
	if !w.cond(world) {
		return false
	}
	w.state = WaitResolved
	if w.then != nil {
		w.then()
	}
	return true
}

func (r *Registry) wait(owner Entity, token *Token, cond func(*World) bool, then func()) *Wait {
	if r == nil {
		return nil
	}
	if r.store.get(owner) == nil || token.Cancelled() {
		report(ErrEntityNotAlive)
		return &Wait{owner: owner, state: WaitCancelled}
	}
	w := &Wait{owner: owner, token: token, cond: cond, then: then}
	r.waits = append(r.waits, w)
	return w
}

// pollWaits resolves the waits owned by entities of world. Waits added by a
// continuation are polled on the next tick.
func (r *Registry) pollWaits(world *World) {
	n := len(r.waits)
	for i := 0; i < n; i++ {
		w := r.waits[i]
		if w.state != WaitPending {
			continue
		}
		rec := r.store.get(w.owner)
		if rec == nil {
			w.state = WaitCancelled
			continue
		}
		if rec.world != world || rec.pendingAdd {
			continue
		}
		w.poll(world)
	}
	r.compactWaits()
}

func (r *Registry) compactWaits() {
	kept := r.waits[:0]
	for _, w := range r.waits {
		if w.state == WaitPending {
			kept = append(kept, w)
		}
	}
	clear(r.waits[len(kept):])
	r.waits = kept
}

// Waits returns the number of pending waits.
func (r *Registry) Waits() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, w := range r.waits {
		if w.state == WaitPending {
			n++
		}
	}
	return n
}
