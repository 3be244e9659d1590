package resource

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"
)

// Binary holds raw bytes.
type Binary struct {
	Data  []byte
	freed bool
}

func (b *Binary) OnLoad(data []byte) error {
	b.Data = data
	return nil
}

func (b *Binary) OnReload(data []byte) error {
	b.Data = data
	return nil
}

func (b *Binary) OnFree() {
	b.Data = nil
	b.freed = true
}

// Freed reports whether the table has released the payload.
func (b *Binary) Freed() bool { return b.freed }

// Text holds UTF-8 text.
type Text struct {
	String string
}

func (t *Text) OnLoad(data []byte) error {
	t.String = string(data)
	return nil
}

func (t *Text) OnReload(data []byte) error {
	return t.OnLoad(data)
}

func (t *Text) OnFree() {
	t.String = ""
}

// YAML decodes its bytes into Value.
type YAML[T any] struct {
	Value T
}

func (y *YAML[T]) OnLoad(data []byte) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	y.Value = v
	return nil
}

// OnReload keeps the previous value when the new bytes do not decode.
func (y *YAML[T]) OnReload(data []byte) error {
	return y.OnLoad(data)
}

func (y *YAML[T]) OnFree() {
	var zero T
	y.Value = zero
}

// Image decodes png, bmp or webp bytes.
type Image struct {
	Image  image.Image
	Format string

	version int
}

func (i *Image) OnLoad(data []byte) error {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	i.Image = img
	i.Format = format
	i.version++
	return nil
}

func (i *Image) OnReload(data []byte) error {
	return i.OnLoad(data)
}

func (i *Image) OnFree() {
	i.Image = nil
}

// Version increments every time the pixels change, so GPU copies can tell
// when to refresh.
func (i *Image) Version() int { return i.version }

func (i *Image) Bounds() image.Rectangle {
	if i == nil || i.Image == nil {
		return image.Rectangle{}
	}
	return i.Image.Bounds()
}
