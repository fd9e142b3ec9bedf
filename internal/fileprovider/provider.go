// internal/fileprovider/provider.go
//
// Root-relative file access for the view layer.
//
// Context
// -------
// Everything above this package (the themed resolver, the view engine, and
// the host) asks for files by *logical* path, for example
// `/Pages/Index.html`.  A Provider maps those paths onto some backing store
// and answers three questions:
//
//   - Does this file exist, and what is in it?        → GetFileInfo
//   - What does this directory contain?               → GetDirectoryContents
//   - Tell me when something matching a glob changes. → Watch
//
// Missing files are values, not errors.  A FileInfo whose Exists() is false
// is the normal “not found” answer, so callers can chain lookups without
// juggling error types.
//
// Notes
// -----
// • Physical (physical.go) is the only backing store today.
// • The themed resolver in internal/theme implements Provider as well, so
//   the host can hand either one to the view engine.
// • Oxford commas, two spaces after periods.
package fileprovider

import (
	"io"
	"io/fs"
	"os"
	"time"
)

// Provider is the capability set shared by every file source.
type Provider interface {
	GetFileInfo(subpath string) FileInfo
	GetDirectoryContents(subpath string) DirectoryContents
	Watch(filter string) *Token
	Close() error
}

//
// FileInfo
//

// FileInfo describes one file.  The zero value is a nameless not-found file.
type FileInfo struct {
	name     string
	physical string
	info     fs.FileInfo // nil when the file does not exist
}

func notFound(name string) FileInfo { return FileInfo{name: name} }

// Exists reports whether the file was found.
func (f FileInfo) Exists() bool { return f.info != nil }

// Name returns the base name of the file.
func (f FileInfo) Name() string {
	if f.info != nil {
		return f.info.Name()
	}
	return f.name
}

// Size returns the length in bytes, or -1 when the file does not exist.
func (f FileInfo) Size() int64 {
	if f.info == nil {
		return -1
	}
	return f.info.Size()
}

// ModTime returns the last modification time.
func (f FileInfo) ModTime() time.Time {
	if f.info == nil {
		return time.Time{}
	}
	return f.info.ModTime()
}

// IsDir is true only for entries returned by GetDirectoryContents.
func (f FileInfo) IsDir() bool { return f.info != nil && f.info.IsDir() }

// PhysicalPath is the absolute path on disk, empty when not found.
func (f FileInfo) PhysicalPath() string { return f.physical }

// Open returns a reader over the file content.  Callers must Close it.
func (f FileInfo) Open() (io.ReadCloser, error) {
	if f.info == nil {
		return nil, &fs.PathError{Op: "open", Path: f.name, Err: fs.ErrNotExist}
	}
	if f.info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: f.physical, Err: fs.ErrInvalid}
	}
	return os.Open(f.physical)
}

//
// DirectoryContents
//

// DirectoryContents is the listing of one directory.
type DirectoryContents struct {
	exists  bool
	entries []FileInfo
}

// Exists reports whether the directory was found.
func (d DirectoryContents) Exists() bool { return d.exists }

// Entries returns files and sub-directories sorted by name.
func (d DirectoryContents) Entries() []FileInfo { return d.entries }
