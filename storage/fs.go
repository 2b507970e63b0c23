package storage

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"
)

const fileMode = 0644

// Filesystem is the local side of a transfer.
type Filesystem struct {
	followSymlinks bool
}

// NewFilesystem returns a Filesystem. Symbolic links met during a directory
// walk are followed when followSymlinks is set.
func NewFilesystem(followSymlinks bool) *Filesystem {
	return &Filesystem{followSymlinks: followSymlinks}
}

// Stat calls os.Stat.
func (f *Filesystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Open opens the given file for reading.
func (f *Filesystem) Open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY, fileMode)
}

// Glob returns the regular files matching the pattern. '**' matches any
// number of directories and hidden entries are matched like any other.
func (f *Filesystem) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}

// Walk calls fn for every file under root, recursively. Directories are not
// reported.
func (f *Filesystem) Walk(root string, fn func(path string) error) error {
	return godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(pathname string, dirent *godirwalk.Dirent) error {
			// we're interested in files
			isDir, err := dirent.IsDirOrSymlinkToDir()
			if err != nil {
				return err
			}
			if isDir {
				return nil
			}
			return fn(pathname)
		},
		FollowSymbolicLinks: f.followSymlinks,
		Unsorted:            true,
	})
}

// MkdirAll calls os.MkdirAll.
func (f *Filesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// CreateTemp creates a hidden temporary file next to the given destination.
// The file gets the mode of a regularly created file so that it can replace
// the destination as is.
func (f *Filesystem) CreateTemp(dst string) (*os.File, error) {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	file, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return nil, err
	}
	if err := file.Chmod(fileMode); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, err
	}
	return file, nil
}

// Rename calls os.Rename.
func (f *Filesystem) Rename(from, to string) error {
	return os.Rename(from, to)
}

// Remove calls os.Remove.
func (f *Filesystem) Remove(path string) error {
	return os.Remove(path)
}
