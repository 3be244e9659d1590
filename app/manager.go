package app

import "github.com/milk9111/engine/ecs"

// Managers are application-lifetime singletons. Each may implement any of
// Beginner, Updater and Ender; the runner calls them in registration order
// (End in reverse).
type (
	Beginner interface {
		Begin(r *Runner) error
	}
	Updater interface {
		Update(r *Runner)
	}
	Ender interface {
		End(r *Runner)
	}
)

// Register adds a manager and makes it available to hooks through the
// registry services under its type T.
func Register[T any](r *Runner, m T) {
	if r == nil {
		return
	}
	ecs.Provide(r.reg.Services(), m)
	r.managers = append(r.managers, m)
	if r.started {
		if b, ok := any(m).(Beginner); ok {
			if err := b.Begin(r); err != nil {
				logger.Printf("app: begin %T: %v", m, err)
			}
		}
	}
}

// Manager returns the manager registered under type T.
func Manager[T any](r *Runner) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	return ecs.Lookup[T](r.reg.Services())
}
