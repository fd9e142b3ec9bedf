// internal/theme/switcher.go
//
// Active theme state and the switch operation.
//
// Context
// -------
// The active theme is one string shared by every lookup.  Reads are a
// single atomic.Pointer load, so the hot path never takes a lock.  Writes
// go through ChangeTheme, which holds mu across the whole
// validate-then-store sequence; two concurrent switches therefore cannot
// interleave, and a reader sees either the old name or the new one.
//
// Switch rules, in order:
//
//  1. Empty name                    → *InvalidThemeError.
//  2. Same as the current theme     → nil, without touching the disk.
//  3. Not listed by the Catalog     → *InvalidThemeError with the root.
//  4. Otherwise                     → store, record metrics, notify.
//
// Notes
// -----
// • OnChange listeners run after the lock is released, so a listener may
//   read CurrentThemeName but must not call ChangeTheme synchronously.
// • Oxford commas, two spaces after periods.
package theme

import (
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/themable/internal/metrics"
)

// Themer is the theming capability set exposed to administrative code.
type Themer interface {
	CurrentThemeName() string
	ChangeTheme(name string) error
	ThemeNames() ([]string, error)
}

// Switcher owns the active theme.  Create with NewSwitcher.
type Switcher struct {
	catalog *Catalog
	log     *zap.SugaredLogger

	current atomic.Pointer[string]

	mu        sync.Mutex
	listeners []func(old, new string)
}

var _ Themer = (*Switcher)(nil)

// NewSwitcher returns a Switcher with no active theme.  A nil log disables
// logging.
func NewSwitcher(catalog *Catalog, log *zap.SugaredLogger) *Switcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Switcher{catalog: catalog, log: log}
	empty := ""
	s.current.Store(&empty)
	return s
}

// CurrentThemeName returns the active theme, or "" when none is active.
func (s *Switcher) CurrentThemeName() string { return *s.current.Load() }

// ThemeNames lists the themes currently on disk.
func (s *Switcher) ThemeNames() ([]string, error) { return s.catalog.Names() }

// OnChange registers fn to run after every successful switch.
func (s *Switcher) OnChange(fn func(old, new string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// ChangeTheme activates name.  See the file header for the rules.
func (s *Switcher) ChangeTheme(name string) error {
	old, listeners, changed, err := s.swap(name)
	if err != nil {
		metrics.ThemeSwitchErrorsTotal.Inc()
		s.log.Warnw("theme change rejected", "theme", name, "err", err)
		return err
	}
	if !changed {
		return nil
	}

	s.log.Infow("theme changed", "from", old, "to", name)
	for _, fn := range listeners {
		fn(old, name)
	}
	return nil
}

// swap is the critical section of ChangeTheme.
func (s *Switcher) swap(name string) (old string, listeners []func(string, string), changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return "", nil, false, &InvalidThemeError{}
	}

	old = s.CurrentThemeName()
	if name == old {
		return old, nil, false, nil
	}

	names, err := s.catalog.Names()
	if err != nil {
		return old, nil, false, err
	}
	if !slices.Contains(names, name) {
		return old, nil, false, &InvalidThemeError{Name: name, Root: s.catalog.Root()}
	}

	s.current.Store(&name)

	metrics.ThemeSwitchTotal.Inc()
	metrics.ThemeActive.WithLabelValues(name).Set(1)
	if old != "" {
		metrics.ThemeActive.DeleteLabelValues(old)
	}

	return old, slices.Clone(s.listeners), true, nil
}
