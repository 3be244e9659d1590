package resource

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changed files under a content root as table keys. Events
// are produced on a background goroutine and consumed on the tick thread with
// Pump, so the table is never touched concurrently.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	exts    map[string]bool
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and every directory below it. With no extensions
// given, every file is reported.
func NewWatcher(root string, exts ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := newWatcher(root, exts)
	w.watcher = fw
	go w.run()
	return w, nil
}

func newWatcher(root string, exts []string) *Watcher {
	w := &Watcher{
		root:    root,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	if len(exts) > 0 {
		w.exts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			w.exts[strings.ToLower(ext)] = true
		}
	}
	return w
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := w.key(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[key]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[key] = now
			select {
			case w.Events <- key:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// key maps a watched file name to its table key.
func (w *Watcher) key(name string) (string, bool) {
	if w.exts != nil && !w.exts[strings.ToLower(filepath.Ext(name))] {
		return "", false
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return Clean(rel), true
}

// Pump drains pending change events without blocking and reloads every
// changed path that is currently loaded in t. It returns the number of
// resources reloaded.
func (w *Watcher) Pump(t *Table) int {
	if w == nil {
		return 0
	}
	n := 0
	for {
		select {
		case key := <-w.Events:
			if !t.Loaded(key) {
				continue
			}
			ok, err := t.Reload(key)
			if err != nil {
				continue
			}
			if ok {
				logger.Printf("resource: reloaded %s", key)
				n++
			}
		case err := <-w.Errors:
			report(err)
		default:
			return n
		}
	}
}
