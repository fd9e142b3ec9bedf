package theme

import "strings"

// Logical prefixes, relative to the content root.
const (
	ViewRoot  = "/Pages"
	ThemeRoot = "/Themes"
)

// Rewrite maps a logical path onto the themed tree.  Paths outside
// ViewRoot, or any path when theme is empty, come back unchanged.  No
// filesystem access happens here.
func Rewrite(path, theme string) string {
	if theme == "" || !strings.HasPrefix(path, ViewRoot) {
		return path
	}
	return ThemeRoot + "/" + theme + path[len(ViewRoot):]
}
