// internal/pages/pages.go
//
// URL → page dispatch.
//
// Context
// -------
// Every GET that no other route claims lands here.  The URL path names a
// page under /Pages:
//
//	/             → Index
//	/About        → About
//	/Admin/       → Admin/Index
//	/Admin/Users  → Admin/Users
//
// Partials are not routable: any segment starting with “_”, and anything
// under Shared, answers 404.  Rendering goes through view.Engine, so the
// active theme decides which file is used.
//
// Notes
// -----
// • ErrorPage renders the “Error” page and is handed to the Recover
//   middleware for production panics.
// • Oxford commas, two spaces after periods.

package pages

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/themable/internal/view"
)

// Handler serves pages.
type Handler struct {
	Views *view.Engine
	Log   *zap.SugaredLogger
}

// ServeHTTP renders the page named by the URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := PageName(r.URL.Path)
	if !ok {
		h.notFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.Views.Render(w, name, map[string]any{
		"Path":  r.URL.Path,
		"Query": r.URL.Query(),
	})
	switch {
	case err == nil:
	case errors.Is(err, view.ErrNotFound):
		h.notFound(w, r)
	default:
		h.Log.Errorw("render failed", "page", name, "err", err)
		h.ErrorPage().ServeHTTP(w, r)
	}
}

// ErrorPage renders the Error page with status 500, or a bare 500 when the
// page itself is missing or broken.
func (h *Handler) ErrorPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html, err := h.Views.RenderToString("Error", map[string]any{"Path": r.URL.Path})
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(html))
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	html, err := h.Views.RenderToString("NotFound", map[string]any{"Path": r.URL.Path})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(html))
}

// PageName maps a URL path to a page name.  ok is false for paths that
// must not be served as pages.
func PageName(urlPath string) (name string, ok bool) {
	p := strings.TrimPrefix(urlPath, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "Index"
	}
	for i, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.HasPrefix(seg, "_") {
			return "", false
		}
		if i == 0 && seg == "Shared" {
			return "", false
		}
	}
	return p, true
}
