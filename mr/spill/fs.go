package spill

import (
	"io"
	"os"
	"path/filepath"
)

// FS creates, reads, and deletes the task's private segment files.
// Names are flat; implementations decide where the bytes live.
type FS interface {
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	Rename(oldn, newn string) error
	Remove(name string) error
}

type dirFS struct {
	dir string
}

// NewDirFS backs segment files by a directory on the local
// filesystem, creating it if needed.
func NewDirFS(dir string) (FS, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	return &dirFS{dir: dir}, nil
}

func (fs *dirFS) path(name string) string {
	return filepath.Join(fs.dir, name)
}

func (fs *dirFS) Create(name string) (io.WriteCloser, error) {
	return os.OpenFile(fs.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
}

func (fs *dirFS) Open(name string) (io.ReadCloser, error) {
	return os.Open(fs.path(name))
}

func (fs *dirFS) Rename(oldn, newn string) error {
	return os.Rename(fs.path(oldn), fs.path(newn))
}

func (fs *dirFS) Remove(name string) error {
	return os.Remove(fs.path(name))
}
