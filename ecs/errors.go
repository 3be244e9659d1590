package ecs

import (
	"errors"
	"log"
)

var (
	ErrEntityNotAlive      = errors.New("ecs: entity not alive")
	ErrDuplicateComponent  = errors.New("ecs: duplicate component")
	ErrCyclicParenting     = errors.New("ecs: cyclic parenting")
	ErrMissingDependency   = errors.New("ecs: missing component dependency")
	ErrUnknownEntity       = errors.New("ecs: entity not in world")
	ErrWorldDestroyed      = errors.New("ecs: world destroyed")
	ErrInvalidKind         = errors.New("ecs: invalid kind")
	ErrNotChild            = errors.New("ecs: entity is not a child of parent")
	ErrComponentAttached   = errors.New("ecs: component already attached to an entity")
	ErrNilComponent        = errors.New("ecs: component is nil")
	ErrComponentNotPresent = errors.New("ecs: component not present")
)

var logger = log.Default()

// SetLogger replaces the logger used for invariant violations and warnings.
// Passing nil restores the standard logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

func logf(format string, args ...any) {
	logger.Printf("ecs: "+format, args...)
}

// report logs err and hands it back so call sites can `return report(...)`.
func report(err error) error {
	if err != nil {
		logger.Print(err)
	}
	return err
}
