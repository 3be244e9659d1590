package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/resource"
)

// maxPrefabDepth bounds prefab chains so a document cannot extend itself.
const maxPrefabDepth = 8

var ErrPrefabDepth = errors.New("prefabs: prefab chain too deep")

// Scene spawns a SceneSpec into a world. Each root subtree is built detached
// from any world and claimed only once complete, so a failing entity never
// leaves half a tree behind.
type Scene struct {
	catalog *Catalog
	table   *resource.Table
	doc     *resource.YAML[SceneSpec]
	path    string
	spec    SceneSpec
	held    []string
	roots   []ecs.Entity
}

// NewScene wraps an in-memory spec. Prefab references are resolved through
// table, which may be nil when the scene references no prefabs.
func NewScene(c *Catalog, table *resource.Table, spec SceneSpec) *Scene {
	return &Scene{catalog: c, table: table, spec: spec}
}

// LoadScene reads a scene document from table. The document stays cached,
// and reloaded, until Close.
func LoadScene(c *Catalog, table *resource.Table, path string) (*Scene, error) {
	doc, err := resource.Load[resource.YAML[SceneSpec]](table, path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return &Scene{catalog: c, table: table, doc: doc, path: path}, nil
}

// Spec returns the current spec, reflecting any hot reload of the document.
func (s *Scene) Spec() SceneSpec {
	if s.doc != nil {
		return s.doc.Value
	}
	return s.spec
}

// Roots returns the root entities created by the last Spawn.
func (s *Scene) Roots() []ecs.Entity {
	return append([]ecs.Entity(nil), s.roots...)
}

// Spawn implements ecs.Scene.
func (s *Scene) Spawn(w *ecs.World) error {
	reg := w.Registry()
	s.roots = s.roots[:0]
	var errs []error
	for _, spec := range s.Spec().Entities {
		root, err := s.build(reg, spec, ecs.Nil, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := w.ClaimEntity(root); err != nil {
			_ = reg.Destroy(root)
			errs = append(errs, err)
			continue
		}
		s.roots = append(s.roots, root)
	}
	return errors.Join(errs...)
}

// Close releases the scene document and every prefab it pulled in.
func (s *Scene) Close() {
	if s.table == nil {
		return
	}
	for _, p := range s.held {
		_ = s.table.Release(p)
	}
	s.held = nil
	if s.doc != nil {
		_ = s.table.Release(s.path)
		s.doc = nil
	}
}

func (s *Scene) resolve(spec EntitySpec, depth int) (EntitySpec, error) {
	for spec.Prefab != "" {
		if depth >= maxPrefabDepth {
			return EntitySpec{}, fmt.Errorf("%w: %s", ErrPrefabDepth, spec.Prefab)
		}
		depth++
		base, err := resource.Load[resource.YAML[EntitySpec]](s.table, spec.Prefab)
		if err != nil {
			return EntitySpec{}, fmt.Errorf("prefabs: prefab %s: %w", spec.Prefab, err)
		}
		s.held = append(s.held, spec.Prefab)
		if spec, err = spec.extend(base.Value); err != nil {
			return EntitySpec{}, err
		}
		spec.Prefab = base.Value.Prefab
	}
	return spec, nil
}

// build creates spec's subtree under parent. On failure the partial subtree
// is destroyed.
func (s *Scene) build(reg *ecs.Registry, spec EntitySpec, parent ecs.Entity, depth int) (ecs.Entity, error) {
	spec, err := s.resolve(spec, depth)
	if err != nil {
		return ecs.Nil, err
	}
	kind, err := s.catalog.Kind(spec.Kind)
	if err != nil {
		return ecs.Nil, fmt.Errorf("prefabs: entity %q: %w", spec.Name, err)
	}
	opts := make([]ecs.EntityOption, 0, 3)
	if spec.Disabled {
		opts = append(opts, ecs.Disabled())
	}
	if parent != ecs.Nil {
		opts = append(opts, ecs.WithParent(parent))
	}
	for _, name := range spec.Tags {
		t, err := s.catalog.Tag(name)
		if err != nil {
			return ecs.Nil, fmt.Errorf("prefabs: entity %q: %w", spec.Name, err)
		}
		opts = append(opts, ecs.WithTags(t))
	}

	comps, err := spec.ComponentSpecs()
	if err != nil {
		return ecs.Nil, fmt.Errorf("prefabs: %w", err)
	}
	factories := make([]ComponentFactory, len(comps))
	for i, c := range comps {
		if factories[i], err = s.catalog.Component(c.Kind); err != nil {
			return ecs.Nil, fmt.Errorf("prefabs: entity %q: %w", spec.Name, err)
		}
	}

	e, err := reg.NewEntity(kind, opts...)
	if err != nil {
		return ecs.Nil, err
	}
	fail := func(err error) (ecs.Entity, error) {
		if parent == ecs.Nil {
			_ = reg.Destroy(e)
		}
		return ecs.Nil, err
	}
	for i, c := range comps {
		if err := factories[i](reg, e, c.Node); err != nil {
			return fail(fmt.Errorf("prefabs: entity %q: %w", spec.Name, err))
		}
	}
	for _, child := range spec.Children {
		if _, err := s.build(reg, child, e, 0); err != nil {
			return fail(err)
		}
	}
	return e, nil
}
