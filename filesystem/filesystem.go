// Package filesystem provides a swappable filesystem backend for all disk access.
//
// Everything that touches disk goes through API(), so tests can switch to an
// in-memory backend with SetMemMapFs.
package filesystem

import (
	"os"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// SetBackend installs an arbitrary afero filesystem, e.g. a read-only overlay.
func SetBackend(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

// WriteAtomic writes data to a sibling temporary file and renames it over path,
// so readers never observe a partially written file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := backend.WriteFile(tmp, data, perm); err != nil {
		return err
	}

	if err := backend.Rename(tmp, path); err != nil {
		_ = backend.Remove(tmp)
		return err
	}

	return nil
}
