package theme

import (
	"errors"
	"fmt"
)

// ErrInvalidTheme is the sentinel behind every rejected theme name.
var ErrInvalidTheme = errors.New("invalid theme")

// InvalidThemeError carries the offending name and, when the name was not
// found, the themes directory that was searched.
type InvalidThemeError struct {
	Name string
	Root string
}

func (e *InvalidThemeError) Error() string {
	if e.Name == "" {
		return "theme name cannot be empty"
	}
	return fmt.Sprintf("theme %q does not exist in %s", e.Name, e.Root)
}

func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }
