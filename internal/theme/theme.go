// Package theme redirects view lookups to the active theme.
//
// A content root holds two trees:
//
//   - /Pages         – the default (unthemed) views.
//   - /Themes/<name> – one directory per theme, mirroring /Pages.
//
// When a theme is active, a request for `/Pages/Index.html` is first tried
// at `/Themes/<name>/Index.html`; if no such file exists the original path
// is served instead.  Directory listings and watch filters are rewritten
// without that fallback.
//
// The package hands out two separate handles that share one Switcher:
//
//   - *FileProvider – the file capability set, given to the view engine.
//   - *Switcher     – the theming capability set, given to admin code.
//
// Both are safe for concurrent use.  Theme switches are serialized, and a
// lookup always observes a complete theme name, old or new.
package theme

import (
	"go.uber.org/zap"

	"github.com/yanizio/themable/internal/fileprovider"
)

// New builds the themed resolver for contentRoot.  No theme is active until
// ChangeTheme succeeds.
func New(contentRoot string, log *zap.SugaredLogger) (*FileProvider, *Switcher, error) {
	phys, err := fileprovider.New(contentRoot)
	if err != nil {
		return nil, nil, err
	}
	sw := NewSwitcher(NewCatalog(phys.Root()), log)
	return NewFileProvider(phys, sw), sw, nil
}
