package ecs

import "strconv"

// Entity is a stable handle into a Registry's entity arena. The low 32 bits
// hold the slot id and the high 32 bits its generation, so a handle to a
// destroyed entity never aliases the entity that later reuses the slot.
type Entity uint64

// Nil is the zero handle. It never refers to a live entity.
const Nil Entity = 0

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	if e == Nil {
		return "entity(nil)"
	}
	return "entity(" + strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10) + ")"
}

// Valid reports whether the handle is non-zero. It says nothing about
// liveness; use Registry.Valid for that.
func (e Entity) Valid() bool {
	return e.id() > 0
}
