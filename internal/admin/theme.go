// internal/admin/theme.go
//
// Theme administration component.
//
// Context
// -------
// Exposes the theming capability set over HTTP so operators can inspect
// and switch the active theme at runtime.  Mounted by cmd/web under
// `/admin/theme`:
//
//	GET  /   → {"current":"dark","themes":["dark","light"]}
//	PUT  /   → body {"theme":"light"} or form value theme=light
//	POST /   → same as PUT, for plain HTML forms
//
// Successful switches answer 204.  A rejected name answers 400 with a
// JSON error; a missing themes directory answers 500.
//
// Notes
// -----
// • The component only sees theme.Themer, never the file provider.
// • Oxford commas, two spaces after periods.

package admin

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/themable/internal/theme"
)

// Component serves the theme admin endpoints.
type Component struct {
	Themes theme.Themer
	Log    *zap.SugaredLogger
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "admin/theme" }

// Routes builds the router mounted at /admin/theme.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleState)
	r.Put("/", c.handleChange)
	r.Post("/", c.handleChange)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

type stateResponse struct {
	Current string   `json:"current"`
	Themes  []string `json:"themes"`
}

type changeRequest struct {
	Theme string `json:"theme"`
}

func (c *Component) handleState(w http.ResponseWriter, r *http.Request) {
	names, err := c.Themes.ThemeNames()
	if err != nil {
		c.logger().Errorw("list themes failed", "err", err)
		writeError(w, http.StatusInternalServerError, "themes unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Current: c.Themes.CurrentThemeName(),
		Themes:  names,
	})
}

func (c *Component) handleChange(w http.ResponseWriter, r *http.Request) {
	name, err := themeFromRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := c.Themes.ChangeTheme(name); err != nil {
		if errors.Is(err, theme.ErrInvalidTheme) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.logger().Errorw("theme change failed", "theme", name, "err", err)
		writeError(w, http.StatusInternalServerError, "themes unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// themeFromRequest accepts a JSON body or a form field.
func themeFromRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req changeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil {
			return "", err
		}
		return req.Theme, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostForm.Get("theme"), nil
}

func (c *Component) logger() *zap.SugaredLogger {
	if c.Log == nil {
		return zap.S()
	}
	return c.Log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
