package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog discovers themes.  Every directory under <contentRoot>/Themes is
// a theme; nothing is cached, so each call reflects the disk at that moment.
type Catalog struct {
	contentRoot string
}

// NewCatalog returns a Catalog for the given content root.
func NewCatalog(contentRoot string) *Catalog {
	return &Catalog{contentRoot: contentRoot}
}

// Root is the physical themes directory, e.g. /app/Themes.
func (c *Catalog) Root() string {
	return filepath.Join(c.contentRoot, filepath.FromSlash(strings.TrimPrefix(ThemeRoot, "/")))
}

// Names lists the available themes sorted by name.  A missing themes
// directory is a deployment error and is returned as such (it satisfies
// errors.Is(err, fs.ErrNotExist)), never as an empty list.
func (c *Catalog) Names() ([]string, error) {
	root := c.Root()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("theme: list %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		isDir := e.IsDir()
		if !isDir && e.Type()&os.ModeSymlink != 0 {
			// Follow links so a theme can live elsewhere on disk.
			if info, err := os.Stat(filepath.Join(root, e.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
