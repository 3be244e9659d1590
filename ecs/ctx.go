package ecs

import "time"

// Ctx is handed to every lifecycle hook. It names the owning entity and the
// cancellation token of whatever is running the hook: the component for
// component hooks, the entity for behavior hooks.
type Ctx struct {
	reg    *Registry
	entity Entity
	token  *Token
}

func (c Ctx) Registry() *Registry { return c.reg }
func (c Ctx) Entity() Entity      { return c.entity }
func (c Ctx) Token() *Token       { return c.token }

// World returns the entity's current world, or nil when it is detached.
func (c Ctx) World() *World {
	if c.reg == nil {
		return nil
	}
	return c.reg.WorldOf(c.entity)
}

// Services returns the world's services, falling back to the registry's.
func (c Ctx) Services() *Services {
	if w := c.World(); w != nil {
		return w.Services()
	}
	if c.reg != nil {
		return c.reg.Services()
	}
	return nil
}

// WaitUntil resolves then once cond reports true at a tick boundary.
func (c Ctx) WaitUntil(cond func() bool, then func()) *Wait {
	if cond == nil {
		return nil
	}
	return c.reg.wait(c.entity, c.token, func(*World) bool { return cond() }, then)
}

// WaitFrames resolves then after n Update ticks of the owner's world.
func (c Ctx) WaitFrames(n int, then func()) *Wait {
	remaining := n
	return c.reg.wait(c.entity, c.token, func(*World) bool {
		remaining--
		return remaining <= 0
	}, then)
}

// WaitFor resolves then once d has elapsed on the owner's world clock.
func (c Ctx) WaitFor(d time.Duration, then func()) *Wait {
	var deadline time.Duration
	started := false
	return c.reg.wait(c.entity, c.token, func(w *World) bool {
		now := w.Now()
		if !started {
			deadline = now + d
			started = true
		}
		return now >= deadline
	}, then)
}
