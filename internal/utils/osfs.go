package utils

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// OSFileSystem is an absfs.FileSystem rooted at a directory on disk. Paths
// are slash separated and always resolve inside the root.
type OSFileSystem struct {
	root string
	cwd  string
}

// NewOSFileSystem returns a filesystem rooted at root, creating it if needed.
func NewOSFileSystem(root string) (*OSFileSystem, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, err
	}
	return &OSFileSystem{root: root, cwd: "/"}, nil
}

func (f *OSFileSystem) native(name string) string {
	if !path.IsAbs(name) {
		name = path.Join(f.cwd, name)
	}
	return filepath.Join(f.root, filepath.FromSlash(path.Clean("/"+name)))
}

func (f *OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(f.native(name), flag, perm)
}

func (f *OSFileSystem) Open(name string) (absfs.File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

func (f *OSFileSystem) Create(name string) (absfs.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
}

func (f *OSFileSystem) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(f.native(name), perm)
}

func (f *OSFileSystem) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(f.native(name), perm)
}

func (f *OSFileSystem) Remove(name string) error {
	return os.Remove(f.native(name))
}

func (f *OSFileSystem) RemoveAll(name string) error {
	return os.RemoveAll(f.native(name))
}

func (f *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(f.native(oldpath), f.native(newpath))
}

func (f *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(f.native(name))
}

func (f *OSFileSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(f.native(name), mode)
}

func (f *OSFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(f.native(name), atime, mtime)
}

func (f *OSFileSystem) Chown(name string, uid, gid int) error {
	return os.Chown(f.native(name), uid, gid)
}

func (f *OSFileSystem) Truncate(name string, size int64) error {
	return os.Truncate(f.native(name), size)
}

func (f *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(f.native(name))
}

func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.native(name))
}

func (f *OSFileSystem) Sub(dir string) (fs.FS, error) {
	return os.DirFS(f.native(dir)), nil
}

func (f *OSFileSystem) Separator() uint8 {
	return '/'
}

func (f *OSFileSystem) ListSeparator() uint8 {
	return ':'
}

func (f *OSFileSystem) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Join(f.cwd, dir)
	}
	f.cwd = path.Clean(dir)
	return nil
}

func (f *OSFileSystem) Getwd() (string, error) {
	return f.cwd, nil
}

func (f *OSFileSystem) TempDir() string {
	return os.TempDir()
}
