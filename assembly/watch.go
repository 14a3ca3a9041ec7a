package assembly

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses editor write bursts into one reload.
const debounceWindow = 100 * time.Millisecond

// Watcher reports edits to on-disk assembly definitions so the viewer can
// reload them live. Delivery is best-effort: the viewer reloads the whole
// definition on any change, so a dropped event behind an undrained channel
// costs nothing.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the given directories for yaml definition changes.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:     fsw,
		Events:  make(chan string, 8),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops watching. The Events and Errors channels stay open; readers
// poll them non-blocking and are unaffected.
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.closeCh) })
	return w.fsw.Close()
}

func (w *Watcher) run() {
	lastSeen := make(map[string]time.Time)
	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			now := time.Now()
			if t, ok := lastSeen[event.Name]; ok && now.Sub(t) < debounceWindow {
				continue
			}
			lastSeen[event.Name] = now
			select {
			case w.Events <- event.Name:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}
