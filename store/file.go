// store/file.go
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
)

// FileBackend stores each document as <dir>/<name>.json
type FileBackend struct {
	Dir string
}

// NewFileBackend creates the data directory if it doesn't exist
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileBackend{Dir: dir}, nil
}

// DocumentKey is the file/object name for a document
func DocumentKey(name string) string {
	return name + ".json"
}

// KeyPrefix normalises an operator supplied key prefix into a slug followed
// by sep: "Crucible Staging" becomes "crucible-staging/" for sep "/".
// A prefix with no usable characters yields "".
func KeyPrefix(raw, sep string) string {
	s := slug.Make(raw)
	if s == "" {
		return ""
	}
	return s + sep
}

// Path returns the full path for a document inside the data directory
func (f *FileBackend) Path(name string) string {
	return filepath.Join(f.Dir, DocumentKey(name))
}

func (f *FileBackend) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Put writes to a temp file in the same directory and renames it over the
// target, so readers never see a half-written document.
func (f *FileBackend) Put(_ context.Context, name string, data []byte) error {
	dest := f.Path(name)
	tmp, err := os.CreateTemp(f.Dir, ".tmp-"+DocumentKey(name)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
