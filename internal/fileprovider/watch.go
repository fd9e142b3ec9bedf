// internal/fileprovider/watch.go
//
// fsnotify-backed change tokens.
//
// Context
// -------
// A filter such as `Pages/**/*.html` is split into a static prefix
// (`Pages`) and the glob tail.  The watcher registers every directory
// under the prefix, since fsnotify is not recursive, and matches each
// event's root-relative path against the filter with doublestar.  The
// first match fires the token and drops the subscription; Token.Stop drops
// it without firing.
//
// When the prefix does not exist yet, the nearest existing ancestor inside
// the root is watched instead, so a filter registered before its directory
// is created still fires.
//
// Notes
// -----
// • Directories created after registration are added on their Create event.
// • Chmod-only events are ignored.
// • Oxford commas, two spaces after periods.
package fileprovider

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

type watcher struct {
	root string
	fsw  *fsnotify.Watcher

	mu   sync.Mutex
	subs map[*Token]string // token → root-relative glob
	dirs map[string]struct{}
}

func newWatcher(root string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		root: root,
		fsw:  fsw,
		subs: map[*Token]string{},
		dirs: map[string]struct{}{},
	}
	go w.run()
	return w, nil
}

func (w *watcher) subscribe(pattern string) *Token {
	t := newToken()
	t.stop = func() { w.unsubscribe(t) }

	w.mu.Lock()
	w.subs[t] = pattern
	w.mu.Unlock()

	_ = w.addTree(w.existingBase(staticPrefix(pattern)))
	return t
}

func (w *watcher) unsubscribe(t *Token) {
	w.mu.Lock()
	delete(w.subs, t)
	w.mu.Unlock()
}

// pending reports the number of live subscriptions.
func (w *watcher) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *watcher) close() error {
	w.mu.Lock()
	w.subs = map[*Token]string{}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.mu.Lock()
		delete(w.dirs, ev.Name)
		w.mu.Unlock()
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// Files may land in the new directory before it is watched.
			_ = w.addTree(ev.Name)
			_ = filepath.WalkDir(ev.Name, func(p string, d fs.DirEntry, err error) error {
				if err == nil && !d.IsDir() {
					w.notify(p)
				}
				return nil
			})
		}
	}

	w.notify(ev.Name)
}

// notify fires every subscription whose glob matches the physical path.
func (w *watcher) notify(physical string) {
	rel, err := filepath.Rel(w.root, physical)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	var fired []*Token
	w.mu.Lock()
	for t, pattern := range w.subs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			fired = append(fired, t)
			delete(w.subs, t)
		}
	}
	w.mu.Unlock()

	for _, t := range fired {
		t.fire()
	}
}

// addTree watches dir and every non-hidden directory below it.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDir(p)
	})
}

func (w *watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// existingBase climbs from the root-relative prefix to the nearest
// directory that exists, never leaving the root.
func (w *watcher) existingBase(prefix string) string {
	for {
		full := filepath.Join(w.root, filepath.FromSlash(prefix))
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			return full
		}
		if prefix == "." || prefix == "" {
			return w.root
		}
		prefix = path.Dir(prefix)
	}
}

//
// filter helpers
//

// relativeFilter normalises a watch filter to a root-relative glob.
func relativeFilter(filter string) (string, bool) {
	pattern := strings.TrimLeft(filepath.ToSlash(filter), "/")
	if pattern == "" {
		return "", false
	}
	for _, seg := range strings.Split(pattern, "/") {
		if seg == ".." {
			return "", false
		}
	}
	if !doublestar.ValidatePattern(pattern) {
		return "", false
	}
	return pattern, true
}

// staticPrefix returns the leading directory segments of pattern that
// contain no glob metacharacters.
func staticPrefix(pattern string) string {
	segs := strings.Split(pattern, "/")
	var static []string
	for i, seg := range segs {
		if strings.ContainsAny(seg, `*?[{\`) {
			break
		}
		if i == len(segs)-1 { // a literal file name; watch its directory
			break
		}
		static = append(static, seg)
	}
	if len(static) == 0 {
		return "."
	}
	return path.Join(static...)
}
