// Package resource is a path-keyed, reference-counted cache of byte-backed
// assets. Bytes come from a Loader; the table never touches the filesystem
// itself. A Table is owned by the tick thread and is not safe for concurrent
// use.
package resource

import (
	"errors"
	"log"
	"path"
	"path/filepath"
	"strings"
)

// Resource is a value materialised from bytes. OnLoad runs once when the
// first holder loads the path and OnFree once when the last holder releases
// it.
type Resource interface {
	OnLoad(data []byte) error
	OnFree()
}

// Reloader is implemented by resources that can refresh themselves in place
// when their backing bytes change.
type Reloader interface {
	OnReload(data []byte) error
}

// Loader returns the raw bytes for a path. A missing path is reported with
// an error wrapping fs.ErrNotExist.
type Loader interface {
	ReadResource(path string) ([]byte, error)
}

var (
	ErrResourceNotFound = errors.New("resource: not found")
	ErrTypeMismatch     = errors.New("resource: cached with a different type")
	ErrNotLoaded        = errors.New("resource: not loaded")
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

func report(err error) error {
	if err != nil {
		logger.Print(err)
	}
	return err
}

// Clean normalises a resource path to the slash-separated, assets-relative
// key used by the table.
func Clean(p string) string {
	if p == "" {
		return ""
	}
	s := path.Clean(filepath.ToSlash(p))
	s = strings.TrimPrefix(s, "/")
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	if s == "." {
		return ""
	}
	return s
}
