package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before its change is reported.
const settle = 100 * time.Millisecond

// Change is a prefab file that was written, created, renamed or removed.
type Change struct {
	Path string
	// Kind is the file's base name, prefixed with "script:" for tengo
	// scripts: "level", "animset", "script:graph".
	Kind string
}

// Watcher reports prefab changes once a file has settled, so an editor that
// saves in several writes yields one Change carrying the final content.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 && watched(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case now := <-tick.C:
			for path, seen := range pending {
				if now.Sub(seen) < settle {
					continue
				}
				delete(pending, path)
				select {
				case w.Changes <- Change{Path: path, Kind: Kind(path)}:
				case <-w.stop:
					return
				}
			}
		case <-w.stop:
			return
		}
	}
}

func watched(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}

// Kind classifies a changed file by its base name so callers know what to
// reload.
func Kind(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if strings.EqualFold(ext, ".tengo") {
		return "script:" + base
	}
	return base
}
