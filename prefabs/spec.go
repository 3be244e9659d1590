// Package prefabs turns YAML entity descriptions into scenes for
// ecs.World.Load.
package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneSpec is the document form of a scene: a list of root entities.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity and its subtree. Components is a mapping of
// component kind name to that component's fields; attachment follows document
// order. Prefab names another document whose EntitySpec this one extends.
type EntitySpec struct {
	Name       string       `yaml:"name"`
	Prefab     string       `yaml:"prefab"`
	Kind       string       `yaml:"kind"`
	Disabled   bool         `yaml:"disabled"`
	Tags       []string     `yaml:"tags"`
	Components yaml.Node    `yaml:"components"`
	Children   []EntitySpec `yaml:"children"`
}

// ComponentSpec is a single entry of EntitySpec.Components.
type ComponentSpec struct {
	Kind string
	Node *yaml.Node
}

// ComponentSpecs returns the component entries in document order.
func (s *EntitySpec) ComponentSpecs() ([]ComponentSpec, error) {
	n := &s.Components
	if n.Kind == 0 || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("components of %q must be a mapping", s.Name)
	}
	out := make([]ComponentSpec, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, ComponentSpec{Kind: n.Content[i].Value, Node: n.Content[i+1]})
	}
	return out, nil
}

// extend overlays s onto base. Scalars set in s win, tags are merged, a
// component named in both takes s's fields and base's children come first.
func (s EntitySpec) extend(base EntitySpec) (EntitySpec, error) {
	out := base
	out.Prefab = ""
	if s.Name != "" {
		out.Name = s.Name
	}
	if s.Kind != "" {
		out.Kind = s.Kind
	}
	out.Disabled = base.Disabled || s.Disabled

	out.Tags = append([]string(nil), base.Tags...)
	for _, t := range s.Tags {
		if !contains(out.Tags, t) {
			out.Tags = append(out.Tags, t)
		}
	}

	baseComps, err := base.ComponentSpecs()
	if err != nil {
		return EntitySpec{}, err
	}
	comps, err := s.ComponentSpecs()
	if err != nil {
		return EntitySpec{}, err
	}
	merged := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	overridden := make(map[string]*yaml.Node, len(comps))
	for _, c := range comps {
		overridden[c.Kind] = c.Node
	}
	for _, c := range baseComps {
		node := c.Node
		if o, ok := overridden[c.Kind]; ok {
			node = o
			delete(overridden, c.Kind)
		}
		merged.Content = append(merged.Content, keyNode(c.Kind), node)
	}
	for _, c := range comps {
		if _, ok := overridden[c.Kind]; ok {
			merged.Content = append(merged.Content, keyNode(c.Kind), c.Node)
		}
	}
	out.Components = merged

	out.Children = append(append([]EntitySpec(nil), base.Children...), s.Children...)
	return out, nil
}

func keyNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
