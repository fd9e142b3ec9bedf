// internal/view/render.go
//
// Page engine: template lookup through a file provider, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an io.Writer.
//   - RenderToString – return template.HTML (fragments, e-mails).
//   - Purge          – drop every cached set (wired to theme switches).
//
// Lookup
// ------
// A page named "Index" is read from `/Pages/Index.html`.  Every *.html file
// in `/Pages/Shared` is parsed into the same set so layouts and partials
// ({{ template "layout" . }}) work out-of-the-box.  When the provider
// is the themed resolver, the page falls back to the base tree but the
// Shared listing does not, so a theme that overrides anything must carry
// its own Shared directory.
//
// Caching
// -------
// Sets are keyed by "<theme>::<name>".  Each entry holds a watch token on
// `/Pages/**/*.html` taken before parsing; once the token fires the entry
// is stale and is parsed again.  A token is stopped whenever its entry
// leaves the cache or is never stored, so watch subscriptions stay bounded
// by the cache size.  Concurrent misses for one key share a
// single parse through singleflight.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/themable/internal/cache"
	"github.com/yanizio/themable/internal/fileprovider"
	"github.com/yanizio/themable/internal/metrics"
	"github.com/yanizio/themable/internal/theme"
)

// ErrNotFound is returned for pages that resolve to no file.
var ErrNotFound = fmt.Errorf("view: page not found: %w", fs.ErrNotExist)

const (
	sharedDir   = theme.ViewRoot + "/Shared"
	watchFilter = theme.ViewRoot + "/**/*.html"
)

// Engine renders pages.  Safe for concurrent use.
type Engine struct {
	files  fileprovider.Provider
	themes interface{ CurrentThemeName() string }
	cache  *cache.LRU[*entry]
	sfg    singleflight.Group
	log    *zap.SugaredLogger
}

type entry struct {
	tpl   *template.Template
	token *fileprovider.Token
}

// New returns an Engine reading through files.  themes is consulted for the
// cache key and the {{ theme }} helper.
func New(files fileprovider.Provider, themes interface{ CurrentThemeName() string }, cacheSize int, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		files:  files,
		themes: themes,
		cache:  cache.NewWithEvict(cacheSize, func(_ string, ent *entry) { ent.token.Stop() }),
		log:    log,
	}
}

//
// public helpers
//

// Render executes the page and writes it to w.  Output is buffered so a
// failing template never leaves a half-written response.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	t, err := e.load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderToString mirrors Render but returns the HTML.
func (e *Engine) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Purge drops all cached template sets.
func (e *Engine) Purge() {
	e.cache.Purge()
	e.log.Debugw("view cache purged")
}

//
// internal: load
//

func (e *Engine) load(name string) (*template.Template, error) {
	if name == "" || !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	current := e.themes.CurrentThemeName()
	key := current + "::" + name

	if ent, ok := e.cache.Get(key); ok {
		if !ent.token.HasChanged() {
			metrics.ViewCacheTotal.WithLabelValues("hit").Inc()
			return ent.tpl, nil
		}
		metrics.ViewCacheTotal.WithLabelValues("stale").Inc()
		e.cache.Remove(key)
	} else {
		metrics.ViewCacheTotal.WithLabelValues("miss").Inc()
	}

	v, err, _ := e.sfg.Do(key, func() (any, error) {
		ent, err := e.parse(name)
		if err != nil {
			return nil, err
		}
		// A switch mid-parse means the set may mix trees; don't keep it.
		if e.themes.CurrentThemeName() == current {
			e.cache.Add(key, ent)
		} else {
			ent.token.Stop()
		}
		return ent.tpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse reads the page plus the Shared partials into one set.
func (e *Engine) parse(name string) (*entry, error) {
	// Watch first so an edit racing with the reads still invalidates.
	token := e.files.Watch(watchFilter)

	root, page, err := e.parseSet(name)
	if err != nil {
		token.Stop()
		return nil, err
	}

	e.log.Debugw("view parsed", "page", name, "file", page.PhysicalPath())
	return &entry{tpl: root, token: token}, nil
}

func (e *Engine) parseSet(name string) (*template.Template, fileprovider.FileInfo, error) {
	page := e.files.GetFileInfo(theme.ViewRoot + "/" + name + ".html")
	if !page.Exists() {
		return nil, page, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	root := template.New(name).Funcs(e.funcMap())
	for _, fi := range e.files.GetDirectoryContents(sharedDir).Entries() {
		if fi.IsDir() || !strings.HasSuffix(strings.ToLower(fi.Name()), ".html") {
			continue
		}
		if err := parseFile(root, fi.Name(), fi); err != nil {
			return nil, page, err
		}
	}
	if err := parseFile(root, name+".html", page); err != nil {
		return nil, page, err
	}
	return root, page, nil
}

func parseFile(root *template.Template, name string, fi fileprovider.FileInfo) error {
	rc, err := fi.Open()
	if err != nil {
		return fmt.Errorf("view: open %s: %w", name, err)
	}
	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("view: read %s: %w", name, err)
	}
	if _, err := root.New(name).Parse(string(src)); err != nil {
		return fmt.Errorf("view: parse %s: %w", name, err)
	}
	return nil
}

//
// func-map
//

func (e *Engine) funcMap() template.FuncMap {
	return template.FuncMap{
		"dict":  dict,
		"theme": e.themes.CurrentThemeName,
	}
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
