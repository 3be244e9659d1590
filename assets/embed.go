// Package assets embeds the default content: scenes, prefabs and images.
package assets

import (
	"embed"
	"io/fs"

	"github.com/milk9111/engine/resource"
)

//go:embed scenes/*.yaml prefabs/*.yaml images/*.png
var assetsFS embed.FS

// FS returns the embedded content, rooted at the assets directory.
func FS() fs.FS {
	return assetsFS
}

// Loader reads from dir first, when given, and falls back to the embedded
// content, so files edited on disk shadow the built-in ones.
func Loader(dir string) resource.Loader {
	embedded := resource.FSLoader{FS: assetsFS}
	if dir == "" {
		return embedded
	}
	return resource.OverlayLoader{resource.DirLoader(dir), embedded}
}
