package theme

import (
	"github.com/yanizio/themable/internal/fileprovider"
	"github.com/yanizio/themable/internal/metrics"
)

// FileProvider rewrites lookups under ViewRoot to the active theme.  It
// satisfies fileprovider.Provider, so it can stand in for the physical
// provider anywhere.
type FileProvider struct {
	files  fileprovider.Provider
	themes interface{ CurrentThemeName() string }
}

var _ fileprovider.Provider = (*FileProvider)(nil)

// NewFileProvider wraps files.  themes supplies the active theme name on
// every call; a *Switcher is the usual choice.
func NewFileProvider(files fileprovider.Provider, themes interface{ CurrentThemeName() string }) *FileProvider {
	return &FileProvider{files: files, themes: themes}
}

// GetFileInfo returns the themed override when it exists, otherwise the
// file at the original path, which may itself be not-found.
func (p *FileProvider) GetFileInfo(subpath string) fileprovider.FileInfo {
	themed := Rewrite(subpath, p.themes.CurrentThemeName())
	if themed == subpath {
		fi := p.files.GetFileInfo(subpath)
		recordLookup(fi, metrics.LookupUnthemed)
		return fi
	}

	if fi := p.files.GetFileInfo(themed); fi.Exists() {
		metrics.ThemeLookupTotal.WithLabelValues(metrics.LookupThemed).Inc()
		return fi
	}

	fi := p.files.GetFileInfo(subpath)
	recordLookup(fi, metrics.LookupFallback)
	return fi
}

// GetDirectoryContents lists the themed directory only.  Themes are
// expected to mirror the view tree, so there is no fallback here.
func (p *FileProvider) GetDirectoryContents(subpath string) fileprovider.DirectoryContents {
	return p.files.GetDirectoryContents(Rewrite(subpath, p.themes.CurrentThemeName()))
}

// Watch registers filter against the theme active right now.  The token
// keeps watching that tree after a later switch.
func (p *FileProvider) Watch(filter string) *fileprovider.Token {
	return p.files.Watch(Rewrite(filter, p.themes.CurrentThemeName()))
}

// Close releases the underlying provider.  Do not call it while lookups
// are still in flight.
func (p *FileProvider) Close() error { return p.files.Close() }

func recordLookup(fi fileprovider.FileInfo, hit string) {
	if !fi.Exists() {
		hit = metrics.LookupMiss
	}
	metrics.ThemeLookupTotal.WithLabelValues(hit).Inc()
}
