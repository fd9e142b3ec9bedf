package fileprovider

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile creates root/rel with body, making parent directories.
func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func newPhysical(t *testing.T) (*Physical, string) {
	t.Helper()
	root := t.TempDir()
	p, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p, root
}

func TestNew_RejectsRelativeAndMissingRoots(t *testing.T) {
	if _, err := New("relative/dir"); err == nil {
		t.Fatal("expected error for relative root")
	}
	if _, err := New(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestGetFileInfo(t *testing.T) {
	p, root := newPhysical(t)
	writeFile(t, root, "Pages/Index.html", "hello")
	writeFile(t, root, "Pages/.secret", "nope")
	writeFile(t, root, "Pages/.git/config.html", "nope")

	tests := []struct {
		name    string
		subpath string
		exists  bool
	}{
		{"leading slash", "/Pages/Index.html", true},
		{"no leading slash", "Pages/Index.html", true},
		{"missing", "/Pages/Missing.html", false},
		{"directory", "/Pages", false},
		{"root", "/", false},
		{"escape", "/../etc/passwd", false},
		{"inner escape", "/Pages/../../x", false},
		{"dotfile", "/Pages/.secret", false},
		{"inside dot directory", "/Pages/.git/config.html", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.GetFileInfo(tc.subpath).Exists(); got != tc.exists {
				t.Fatalf("Exists(%q) = %v, want %v", tc.subpath, got, tc.exists)
			}
		})
	}
}

func TestFileInfo_OpenAndMetadata(t *testing.T) {
	p, root := newPhysical(t)
	writeFile(t, root, "Pages/Index.html", "hello")

	fi := p.GetFileInfo("/Pages/Index.html")
	if fi.Name() != "Index.html" || fi.Size() != 5 || fi.IsDir() {
		t.Fatalf("unexpected metadata: name=%q size=%d dir=%v", fi.Name(), fi.Size(), fi.IsDir())
	}
	if fi.PhysicalPath() != filepath.Join(root, "Pages", "Index.html") {
		t.Fatalf("PhysicalPath = %q", fi.PhysicalPath())
	}
	rc, err := fi.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "hello" {
		t.Fatalf("content = %q, want hello", b)
	}

	missing := p.GetFileInfo("/Pages/Nope.html")
	if missing.Size() != -1 {
		t.Fatalf("missing Size = %d, want -1", missing.Size())
	}
	if _, err := missing.Open(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing Open err = %v, want fs.ErrNotExist", err)
	}
}

func TestGetDirectoryContents(t *testing.T) {
	p, root := newPhysical(t)
	writeFile(t, root, "Pages/b.html", "b")
	writeFile(t, root, "Pages/a.html", "a")
	writeFile(t, root, "Pages/Shared/_layout.html", "l")
	writeFile(t, root, "Pages/.hidden", "h")
	writeFile(t, root, "Pages/.git/HEAD", "h")

	dc := p.GetDirectoryContents("/Pages")
	if !dc.Exists() {
		t.Fatal("expected directory to exist")
	}
	var names []string
	for _, e := range dc.Entries() {
		names = append(names, e.Name())
	}
	want := []string{"Shared", "a.html", "b.html"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entries = %v, want %v", names, want)
		}
	}
	if !dc.Entries()[0].IsDir() {
		t.Fatal("Shared should be reported as a directory")
	}

	if p.GetDirectoryContents("/Pages/.git").Exists() {
		t.Fatal("dot directory listed")
	}
	if p.GetDirectoryContents("/Nope").Exists() {
		t.Fatal("missing directory reported as existing")
	}
	if p.GetDirectoryContents("/../").Exists() {
		t.Fatal("escaping directory reported as existing")
	}
	if !p.GetDirectoryContents("").Exists() {
		t.Fatal("root listing should exist")
	}
}

func TestWatch_FiresOnMatchingWrite(t *testing.T) {
	p, root := newPhysical(t)
	writeFile(t, root, "Pages/Index.html", "v1")

	tok := p.Watch("/Pages/**/*.html")
	if tok.HasChanged() {
		t.Fatal("token fired before any change")
	}

	called := make(chan struct{})
	tok.RegisterCallback(func() { close(called) })

	writeFile(t, root, "Pages/Index.html", "v2")

	select {
	case <-tok.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("token did not fire")
	}
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
	if !tok.HasChanged() {
		t.Fatal("HasChanged = false after Done")
	}
}

func TestWatch_NewSubdirectory(t *testing.T) {
	p, root := newPhysical(t)
	if err := os.MkdirAll(filepath.Join(root, "Pages"), 0o755); err != nil {
		t.Fatal(err)
	}

	tok := p.Watch("Pages/**/*.html")
	writeFile(t, root, "Pages/Admin/Users.html", "x")

	select {
	case <-tok.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("token did not fire for file in new directory")
	}
}

func TestWatch_InvalidFiltersNeverFire(t *testing.T) {
	p, _ := newPhysical(t)
	for _, f := range []string{"", "/", "../outside/*", "Pages/[", "Pages/../../x"} {
		if tok := p.Watch(f); tok.HasChanged() {
			t.Fatalf("Watch(%q) returned a fired token", f)
		}
	}
}

func TestToken_StopReleasesSubscription(t *testing.T) {
	p, root := newPhysical(t)
	writeFile(t, root, "Pages/Index.html", "v1")

	kept := p.Watch("Pages/**/*.html")
	stopped := p.Watch("Pages/**/*.html")
	if got := p.Subscriptions(); got != 2 {
		t.Fatalf("Subscriptions = %d, want 2", got)
	}

	stopped.Stop()
	stopped.Stop()
	if got := p.Subscriptions(); got != 1 {
		t.Fatalf("Subscriptions after Stop = %d, want 1", got)
	}

	writeFile(t, root, "Pages/Index.html", "v2")
	select {
	case <-kept.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("remaining token did not fire")
	}
	if stopped.HasChanged() {
		t.Fatal("stopped token fired")
	}
	if got := p.Subscriptions(); got != 0 {
		t.Fatalf("Subscriptions after fire = %d, want 0", got)
	}

	Never().Stop()
}

func TestRegisterCallback_AfterFireRunsImmediately(t *testing.T) {
	tok := newToken()
	tok.fire()
	ran := false
	tok.RegisterCallback(func() { ran = true })
	if !ran {
		t.Fatal("callback registered after fire did not run")
	}
}

func TestClose_Idempotent(t *testing.T) {
	root := t.TempDir()
	p, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	_ = p.Watch("*.html")
	if err := p.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v, want ErrClosed", err)
	}
	if tok := p.Watch("*.html"); tok.HasChanged() {
		t.Fatal("token from closed provider fired")
	}
}

func TestStaticPrefix(t *testing.T) {
	tests := map[string]string{
		"Pages/**/*.html":       "Pages",
		"Pages/Index.html":      "Pages",
		"Themes/dark/*.html":    "Themes/dark",
		"*.html":                ".",
		"Index.html":            ".",
		"Pages/{a,b}/page.html": "Pages",
	}
	for in, want := range tests {
		if got := staticPrefix(in); got != want {
			t.Errorf("staticPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
