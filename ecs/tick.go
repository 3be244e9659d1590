package ecs

// Update runs one variable-rate tick: queued destroys and adds from the last
// tick are applied, waits are polled, systems run, then every enabled root is
// updated depth-first (components, then the entity, then its children).
// Structural requests made during the tick are queued for the next one.
func (w *World) Update() {
	if w == nil || !w.life.Created() {
		return
	}
	w.applyPending()
	w.reg.pollWaits(w)
	if !w.life.Created() {
		return
	}
	w.tick++
	w.ticking = true
	defer func() { w.ticking = false }()

	w.scheduler.Update(w)
	for _, e := range w.roots.Snapshot() {
		if !w.life.Created() {
			return
		}
		w.updateEntity(e)
	}
}

// FixedUpdate runs one fixed-rate tick with the same queue discipline as
// Update. Waits are only polled by Update.
func (w *World) FixedUpdate() {
	if w == nil || !w.life.Created() {
		return
	}
	w.applyPending()
	w.fixedTick++
	w.ticking = true
	defer func() { w.ticking = false }()

	w.scheduler.FixedUpdate(w)
	for _, e := range w.roots.Snapshot() {
		if !w.life.Created() {
			return
		}
		w.fixedUpdateEntity(e)
	}
}

// tickable reports whether rec may receive hooks this tick.
func (w *World) tickable(rec *record) bool {
	return rec != nil && rec.world == w && rec.enabled && rec.life.Created() &&
		!rec.pendingAdd && !rec.pendingDestroy
}

func (w *World) updateEntity(e Entity) {
	rec := w.reg.store.get(e)
	if !w.tickable(rec) || rec.lastTick == w.tick {
		return
	}
	rec.lastTick = w.tick
	for _, s := range rec.comps.Snapshot() {
		if !w.tickable(w.reg.store.get(e)) {
			return
		}
		if !s.updates || !s.life.Created() || s.heldUpdate(w) {
			continue
		}
		if u, ok := s.value.(Updater); ok {
			u.OnUpdate(Ctx{reg: w.reg, entity: e, token: s.token})
		}
	}
	if !w.tickable(w.reg.store.get(e)) {
		return
	}
	if u, ok := rec.behavior.(Updater); ok {
		u.OnUpdate(Ctx{reg: w.reg, entity: e, token: rec.token})
	}
	for _, child := range snapshot(rec.children) {
		if !w.tickable(w.reg.store.get(e)) {
			return
		}
		w.updateEntity(child)
	}
}

func (w *World) fixedUpdateEntity(e Entity) {
	rec := w.reg.store.get(e)
	if !w.tickable(rec) || rec.lastFixed == w.fixedTick {
		return
	}
	rec.lastFixed = w.fixedTick
	for _, s := range rec.comps.Snapshot() {
		if !w.tickable(w.reg.store.get(e)) {
			return
		}
		if !s.life.Created() || s.heldFixed(w) {
			continue
		}
		if u, ok := s.value.(FixedUpdater); ok {
			u.OnFixedUpdate(Ctx{reg: w.reg, entity: e, token: s.token})
		}
	}
	if !w.tickable(w.reg.store.get(e)) {
		return
	}
	if u, ok := rec.behavior.(FixedUpdater); ok {
		u.OnFixedUpdate(Ctx{reg: w.reg, entity: e, token: rec.token})
	}
	for _, child := range snapshot(rec.children) {
		if !w.tickable(w.reg.store.get(e)) {
			return
		}
		w.fixedUpdateEntity(child)
	}
}
