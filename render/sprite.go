// Package render draws worlds with ebiten.
package render

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
	"github.com/milk9111/engine/prefabs"
	"github.com/milk9111/engine/resource"
)

var logger = log.Default()

// SetLogger replaces the package logger. Passing nil restores the standard
// logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger = l
}

// Sprite draws an image resource at its entity's Transform. The image is
// acquired from the registry's resource table on create and released on
// destroy.
type Sprite struct {
	ecs.Base
	Image        string            `yaml:"image"`
	OriginX      float64           `yaml:"origin_x"`
	OriginY      float64           `yaml:"origin_y"`
	CenterOrigin bool              `yaml:"center_origin"`
	FacingLeft   bool              `yaml:"facing_left"`
	Source       *SourceRect       `yaml:"source"`
	Tint         prefabs.YAMLColor `yaml:"tint"`

	table   *resource.Table
	res     *resource.Image
	img     *ebiten.Image
	version int
}

// SourceRect selects part of the image.
type SourceRect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

var SpriteComponent = ecs.NewComponentKind("sprite", func() *Sprite { return &Sprite{} }, ecs.DependsOn(component.TransformComponent))

func (s *Sprite) OnCreate(ctx ecs.Ctx) {
	table, ok := ecs.Lookup[*resource.Table](ctx.Registry().Services())
	if !ok {
		logger.Printf("render: no resource table for sprite %q", s.Image)
		return
	}
	res, err := resource.Load[resource.Image](table, s.Image)
	if err != nil {
		logger.Printf("render: sprite on %v: %v", ctx.Entity(), err)
		return
	}
	s.table = table
	s.res = res
}

func (s *Sprite) OnDestroy(ecs.Ctx) {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	if s.table != nil && s.res != nil {
		_ = s.table.Release(s.Image)
	}
	s.table, s.res = nil, nil
}

// Loaded reports whether the image resource is held.
func (s *Sprite) Loaded() bool { return s.res != nil }

// Texture returns the GPU image, uploading it again after a hot reload.
func (s *Sprite) Texture() *ebiten.Image {
	if s.res == nil || s.res.Image == nil {
		return nil
	}
	if s.img == nil || s.version != s.res.Version() {
		if s.img != nil {
			s.img.Deallocate()
		}
		s.img = ebiten.NewImageFromImage(s.res.Image)
		s.version = s.res.Version()
	}
	if s.Source == nil {
		return s.img
	}
	r := image.Rect(s.Source.X, s.Source.Y, s.Source.X+s.Source.W, s.Source.Y+s.Source.H)
	if sub, ok := s.img.SubImage(r).(*ebiten.Image); ok {
		return sub
	}
	return s.img
}
