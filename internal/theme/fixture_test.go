package theme

import (
	"os"
	"path/filepath"
	"testing"
)

// newContentRoot lays out files (relative path → body) under a temp dir.
// Directories are created for paths ending in "/".
func newContentRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func standardRoot(t *testing.T) string {
	return newContentRoot(t, map[string]string{
		"Pages/Index.html":          "base index",
		"Pages/Privacy.html":        "base privacy",
		"Pages/Shared/_layout.html": "base layout",
		"Themes/dark/Index.html":    "dark index",
		"Themes/dark/Shared/":       "",
		"Themes/light/Privacy.html": "light privacy",
		"Themes/readme.txt":         "not a theme",
	})
}
