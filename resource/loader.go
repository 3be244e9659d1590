package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FSLoader reads resources from an fs.FS, typically an embed.FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) ReadResource(p string) ([]byte, error) {
	if l.FS == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(l.FS, Clean(p))
}

// DirLoader reads resources from a directory on disk.
func DirLoader(root string) FSLoader {
	return FSLoader{FS: os.DirFS(root)}
}

// OverlayLoader tries each loader in order and returns the first hit. Only
// not-found errors fall through; any other error stops the search.
type OverlayLoader []Loader

func (o OverlayLoader) ReadResource(p string) ([]byte, error) {
	for _, l := range o {
		if l == nil {
			continue
		}
		data, err := l.ReadResource(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
}

// MapLoader serves resources from memory.
type MapLoader map[string][]byte

func (m MapLoader) ReadResource(p string) ([]byte, error) {
	data, ok := m[Clean(p)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	return data, nil
}
