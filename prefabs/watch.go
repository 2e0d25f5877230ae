package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says what sort of file a Change touched.
type ChangeKind uint8

const (
	ChangeNone ChangeKind = iota
	ChangeTuning
	ChangeScript
	ChangeStage
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	case ChangeStage:
		return "stage"
	default:
		return "none"
	}
}

// Classify maps a path to the kind of change an edit to it would be.
func Classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeTuning
	case ".tengo":
		return ChangeScript
	case ".json", ".stage":
		return ChangeStage
	}
	return ChangeNone
}

// Change is one settled edit. Removed is set when the file is gone.
type Change struct {
	Path    string
	Kind    ChangeKind
	Removed bool
}

// settle is how long a file must stay quiet before its edit is reported.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// Watcher reports edits to tuning specs, input scripts and stage files so a
// running front end can reload them. Bursts of events for one path are
// coalesced into a single Change.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
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
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	defer close(w.Errors)

	pending := make(map[string]Change)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			kind := Classify(ev.Name)
			if kind == ChangeNone || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending[ev.Name] = Change{
				Path:    ev.Name,
				Kind:    kind,
				Removed: ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
			}
			timer.Reset(settle)
		case <-timer.C:
			if !w.flush(pending) {
				return
			}
		case err, ok := <-w.fs.Errors:
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

// flush sends pending changes in path order and empties the set. It returns
// false once the watcher is closing.
func (w *Watcher) flush(pending map[string]Change) bool {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		select {
		case w.Changes <- pending[p]:
		case <-w.closeCh:
			return false
		}
		delete(pending, p)
	}
	return true
}
