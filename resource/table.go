package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

type entry struct {
	value Resource
	refs  int
}

// Table caches loaded resources by path.
type Table struct {
	loader  Loader
	entries map[string]*entry
}

// NewTable creates a table reading through loader.
func NewTable(loader Loader) *Table {
	return &Table{loader: loader, entries: make(map[string]*entry)}
}

// Load returns the resource cached at path, incrementing its reference count,
// or reads and materialises it on first use. PT is the pointer type that
// implements Resource, so callers write Load[Text](t, "a.txt").
func Load[T any, PT interface {
	*T
	Resource
}](t *Table, p string) (PT, error) {
	if t == nil {
		return nil, ErrNotLoaded
	}
	key := Clean(p)
	if e, ok := t.entries[key]; ok {
		v, ok := e.value.(PT)
		if !ok {
			return nil, report(fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, key, e.value))
		}
		e.refs++
		return v, nil
	}

	data, err := t.read(key)
	if err != nil {
		return nil, err
	}
	v := PT(new(T))
	if err := v.OnLoad(data); err != nil {
		return nil, report(fmt.Errorf("resource: load %s: %w", key, err))
	}
	t.entries[key] = &entry{value: v, refs: 1}
	return v, nil
}

func (t *Table) read(key string) ([]byte, error) {
	if t.loader == nil || key == "" {
		return nil, report(fmt.Errorf("%w: %q", ErrResourceNotFound, key))
	}
	data, err := t.loader.ReadResource(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, report(fmt.Errorf("%w: %s", ErrResourceNotFound, key))
		}
		return nil, report(fmt.Errorf("resource: read %s: %w", key, err))
	}
	return data, nil
}

// Release drops one reference to path. The last release frees the resource
// and evicts it. Releasing a path that is not loaded is logged and ignored.
func (t *Table) Release(p string) error {
	if t == nil {
		return ErrNotLoaded
	}
	key := Clean(p)
	e, ok := t.entries[key]
	if !ok {
		return report(fmt.Errorf("%w: release %s", ErrNotLoaded, key))
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(t.entries, key)
	e.value.OnFree()
	return nil
}

// Reload re-reads path and hands the bytes to the cached resource if it
// implements Reloader. It reports whether a reload happened. The reference
// count is unchanged and OnLoad/OnFree are not called.
func (t *Table) Reload(p string) (bool, error) {
	if t == nil {
		return false, ErrNotLoaded
	}
	key := Clean(p)
	e, ok := t.entries[key]
	if !ok {
		return false, nil
	}
	r, ok := e.value.(Reloader)
	if !ok {
		return false, nil
	}
	data, err := t.read(key)
	if err != nil {
		return false, err
	}
	if err := r.OnReload(data); err != nil {
		return false, report(fmt.Errorf("resource: reload %s: %w", key, err))
	}
	return true, nil
}

// RefCount returns the number of live references to path.
func (t *Table) RefCount(p string) int {
	if t == nil {
		return 0
	}
	if e, ok := t.entries[Clean(p)]; ok {
		return e.refs
	}
	return 0
}

func (t *Table) Loaded(p string) bool {
	return t.RefCount(p) > 0
}

// Paths returns the loaded paths in sorted order.
func (t *Table) Paths() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Close frees every cached resource regardless of reference counts.
func (t *Table) Close() {
	if t == nil {
		return
	}
	for _, key := range t.Paths() {
		e := t.entries[key]
		delete(t.entries, key)
		e.value.OnFree()
	}
}
