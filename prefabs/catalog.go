package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKind      = errors.New("prefabs: unknown entity kind")
	ErrUnknownTag       = errors.New("prefabs: unknown tag")
	ErrUnknownComponent = errors.New("prefabs: unknown component")
)

// ComponentFactory attaches a component described by node to e.
type ComponentFactory func(reg *ecs.Registry, e ecs.Entity, node *yaml.Node) error

// Catalog maps the names used in documents to kinds, tags and component
// factories.
type Catalog struct {
	kinds      map[string]ecs.EntityKind
	tags       map[string]ecs.Tag
	components map[string]ComponentFactory
}

func NewCatalog() *Catalog {
	c := &Catalog{
		kinds:      make(map[string]ecs.EntityKind),
		tags:       make(map[string]ecs.Tag),
		components: make(map[string]ComponentFactory),
	}
	c.RegisterKind(ecs.Plain)
	return c
}

// Default returns a catalog knowing the built-in components and tags.
func Default() *Catalog {
	c := NewCatalog()
	for _, t := range component.Tags() {
		c.RegisterTag(t)
	}
	ComponentFromYAML(c, component.TransformComponent)
	ComponentFromYAML(c, component.RenderLayerComponent)
	ComponentFromYAML(c, component.TTLComponent)
	ComponentFromYAML(c, component.CameraComponent)
	return c
}

func (c *Catalog) RegisterKind(k ecs.EntityKind) {
	c.kinds[k.Name()] = k
}

func (c *Catalog) RegisterTag(t ecs.Tag) {
	c.tags[t.Name()] = t
}

func (c *Catalog) RegisterComponent(name string, f ComponentFactory) {
	c.components[name] = f
}

// ComponentFromYAML registers kind under its name. The component is built by
// kind's constructor and then decoded from the document, so fields left out
// keep the constructor's defaults. T must be a pointer type.
func ComponentFromYAML[T any](c *Catalog, kind ecs.ComponentKind[T]) {
	c.RegisterComponent(kind.Name(), func(reg *ecs.Registry, e ecs.Entity, node *yaml.Node) error {
		v, err := DecodeComponent(kind, node)
		if err != nil {
			return err
		}
		return ecs.Attach(reg, e, kind, v)
	})
}

// DecodeComponent constructs a kind's value and fills it from node.
func DecodeComponent[T any](kind ecs.ComponentKind[T], node *yaml.Node) (T, error) {
	v := kind.New()
	if node == nil || node.Kind == 0 || isNull(node) {
		return v, nil
	}
	if err := node.Decode(v); err != nil {
		var zero T
		return zero, fmt.Errorf("prefabs: decode %s: %w", kind.Name(), err)
	}
	return v, nil
}

func (c *Catalog) Kind(name string) (ecs.EntityKind, error) {
	if name == "" {
		return ecs.Plain, nil
	}
	k, ok := c.kinds[name]
	if !ok {
		return ecs.EntityKind{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

func (c *Catalog) Tag(name string) (ecs.Tag, error) {
	t, ok := c.tags[name]
	if !ok {
		return ecs.Tag{}, fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return t, nil
}

// Component returns the factory registered under name.
func (c *Catalog) Component(name string) (ComponentFactory, error) {
	f, ok := c.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return f, nil
}
