// Package fsx contains io/fs extensions.
package fsx

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// OpenFile is a wrapper for os.Open that ensures that we're opening
// a file rather than a directory. If you are opening a directory, this
// func returns an *os.PathError error with Err set to syscall.EISDIR.
func OpenFile(pathname string) (fs.File, error) {
	return openWithFS(filesystem{}, pathname)
}

// openWithFS is like OpenFile but with explicit file system argument.
func openWithFS(fsys fs.FS, pathname string) (fs.File, error) {
	file, err := fsys.Open(pathname)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, &os.PathError{
			Op:   "openFile",
			Path: pathname,
			Err:  syscall.EISDIR,
		}
	}
	return file, nil
}

// filesystem is a private implementation of fs.FS.
type filesystem struct{}

// Open implements fs.FS.Open.
func (filesystem) Open(pathname string) (fs.File, error) {
	return os.Open(pathname)
}

// ReadFile is like os.ReadFile but uses OpenFile.
func ReadFile(pathname string) ([]byte, error) {
	file, err := OpenFile(pathname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// WriteFileAtomic writes data to a temporary file in the same directory
// of pathname and then renames it over pathname, so that readers see
// either the old or the new content. The new file has the given mode.
func WriteFileAtomic(pathname string, data []byte, mode fs.FileMode) error {
	dir, base := filepath.Split(pathname)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	tmpname := tmp.Name()
	defer os.Remove(tmpname) // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpname, mode); err != nil {
		return err
	}
	return os.Rename(tmpname, pathname)
}

// CopyFile atomically replaces destination with a byte-exact copy of
// source, preserving the permission bits of source.
func CopyFile(source, destination string) error {
	file, err := OpenFile(source)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	return WriteFileAtomic(destination, data, info.Mode().Perm())
}

// FileMode returns the permission bits of pathname or fallback
// when we cannot stat it.
func FileMode(pathname string, fallback fs.FileMode) fs.FileMode {
	info, err := os.Stat(pathname)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
