package fsops

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// BillyFS implements FS on top of a billy.Filesystem. Tests use it with
// memfs; it also lets the engine be pointed at any billy-backed tree.
type BillyFS struct {
	fs billy.Filesystem
}

// NewBillyFS wraps a billy filesystem in the FS interface.
func NewBillyFS(fs billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fs}
}

// MkdirAll creates a directory and all parent directories.
func (b *BillyFS) MkdirAll(path string, perm os.FileMode) error {
	return b.fs.MkdirAll(path, perm)
}

// RemoveAll removes a path and all its contents.
func (b *BillyFS) RemoveAll(path string) error {
	return util.RemoveAll(b.fs, path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (b *BillyFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := b.fs.Join(path, "..")
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create parent directory")
	}

	tmpFile, err := b.fs.TempFile(dir, ".postall-tmp-")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = b.fs.Remove(tmpPath)
		return errors.Wrap(err, "failed to write to temp file")
	}
	if err := tmpFile.Close(); err != nil {
		_ = b.fs.Remove(tmpPath)
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := b.fs.Rename(tmpPath, path); err != nil {
		_ = b.fs.Remove(tmpPath)
		return errors.Wrap(err, "failed to rename temp file")
	}

	return nil
}

// ReadFile reads the entire contents of a file.
func (b *BillyFS) ReadFile(path string) ([]byte, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

// Exists checks if a path exists.
func (b *BillyFS) Exists(path string) (bool, error) {
	_, err := b.fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
