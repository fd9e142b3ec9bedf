// internal/fileprovider/physical.go
//
// Physical is a Provider over one directory on local disk.
//
// Context
// -------
// Paths are root-relative with an optional leading “/”.  Any path that is
// absolute after trimming, or that climbs out of the root with “..”, is
// answered with not-found.  A path with any dot-prefixed segment (`.env`,
// `.git/config`) is hidden from both lookups and listings, so configuration
// files that live next to the content never leak through the view layer.
//
// GetFileInfo answers not-found for directories; only GetDirectoryContents
// reports them.  The themed resolver relies on this when it falls back from
// a themed path to the unthemed one.
//
// Notes
// -----
// • The fsnotify watcher is created lazily on the first Watch call.
// • Oxford commas, two spaces after periods.
package fileprovider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrClosed is returned by Close on a provider that was already closed.
var ErrClosed = errors.New("fileprovider: closed")

// Physical serves files from Root.  Safe for concurrent use.
type Physical struct {
	root string

	mu      sync.Mutex
	watcher *watcher
	closed  bool
}

// New returns a Physical rooted at root, which must be an absolute path to
// an existing directory.
func New(root string) (*Physical, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("fileprovider: root %q is not absolute", root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fileprovider: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fileprovider: root %q is not a directory", root)
	}
	return &Physical{root: filepath.Clean(root)}, nil
}

// Root returns the absolute directory this provider serves.
func (p *Physical) Root() string { return p.root }

// GetFileInfo locates a file by root-relative path.
func (p *Physical) GetFileInfo(subpath string) FileInfo {
	full, ok := p.physicalPath(subpath)
	if !ok || full == p.root {
		return notFound(subpath)
	}
	if p.hidden(full) {
		return notFound(subpath)
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return notFound(subpath)
	}
	return FileInfo{name: info.Name(), physical: full, info: info}
}

// GetDirectoryContents lists a directory by root-relative path.  An empty
// subpath lists the root itself.
func (p *Physical) GetDirectoryContents(subpath string) DirectoryContents {
	full, ok := p.physicalPath(subpath)
	if !ok || p.hidden(full) {
		return DirectoryContents{}
	}
	dirents, err := os.ReadDir(full)
	if err != nil {
		return DirectoryContents{}
	}

	entries := make([]FileInfo, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
		info, err := d.Info()
		if err != nil { // removed between ReadDir and Info
			continue
		}
		entries = append(entries, FileInfo{
			name:     d.Name(),
			physical: filepath.Join(full, d.Name()),
			info:     info,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return DirectoryContents{exists: true, entries: entries}
}

// Watch returns a token that fires on the first change to a file matching
// filter.  Invalid or out-of-root filters yield a token that never fires.
func (p *Physical) Watch(filter string) *Token {
	pattern, ok := relativeFilter(filter)
	if !ok {
		return Never()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return Never()
	}
	if p.watcher == nil {
		w, err := newWatcher(p.root)
		if err != nil {
			return Never()
		}
		p.watcher = w
	}
	return p.watcher.subscribe(pattern)
}

// Subscriptions reports how many watch tokens are still waiting for a
// change.  Fired and stopped tokens are not counted.
func (p *Physical) Subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher == nil {
		return 0
	}
	return p.watcher.pending()
}

// Close stops the watcher.  Outstanding tokens never fire afterwards.
func (p *Physical) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	if p.watcher != nil {
		return p.watcher.close()
	}
	return nil
}

//
// helpers
//

// physicalPath joins subpath onto the root, rejecting escapes.
func (p *Physical) physicalPath(subpath string) (string, bool) {
	rel := strings.TrimLeft(filepath.ToSlash(subpath), "/")
	if rel == "" {
		return p.root, true
	}
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return "", false
	}
	return filepath.Join(p.root, local), true
}

// hidden reports whether any segment of full below the root is
// dot-prefixed.  The root itself is never hidden.
func (p *Physical) hidden(full string) bool {
	rel, err := filepath.Rel(p.root, full)
	if err != nil || rel == "." {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
