// Package storage manages the directory the recorder and the transcriber
// hand artifacts through.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Dir is a storage directory on the local filesystem.
type Dir struct {
	path string
}

// Open creates the directory if it does not exist yet.
func Open(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: path is required")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Join returns the path of name inside the directory.
func (d *Dir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// CheckWritable verifies the directory still exists and accepts new files.
func (d *Dir) CheckWritable() error {
	f, err := os.CreateTemp(d.path, ".whisperclip-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Exists reports whether a regular file called name is present.
func (d *Dir) Exists(name string) (bool, error) {
	info, err := os.Stat(d.Join(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Read returns the contents of name.
func (d *Dir) Read(name string) ([]byte, error) {
	return os.ReadFile(d.Join(name))
}

// Find returns the names of regular files accepted by match, sorted by name.
func (d *Dir) Find(match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if match(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes every file accepted by match. It keeps going after a
// failed delete; the returned error joins all failures.
func (d *Dir) Remove(match func(name string) bool) ([]string, error) {
	names, err := d.Find(match)
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, name := range names {
		if err := os.Remove(d.Join(name)); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", name, err))
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}
