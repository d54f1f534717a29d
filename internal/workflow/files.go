package workflow

import (
	"io"
	"os"
	"path/filepath"
)

// File is a selected local file, abstracted so tests and non-filesystem
// sources can supply uploads.
type File interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type osFile struct {
	path string
	size int64
}

// OpenPath wraps a file on disk as a File. The file is opened lazily at
// upload time.
func OpenPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &osFile{path: path, size: info.Size()}, nil
}

func (f *osFile) Name() string { return filepath.Base(f.path) }
func (f *osFile) Size() int64  { return f.size }

func (f *osFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
