package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PermissionError reports a file system failure while normalizing the
// permissions of an unpacked extension tree.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("failed to set permissions on %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// NormalizePermissions applies mode to every file and directory below dir.
// The root itself keeps its mode. Each directory is changed before it is read,
// so trees unpacked without the execute bit can still be traversed.
// It returns only after the whole tree has been visited.
func NormalizePermissions(dir string, mode os.FileMode) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &PermissionError{Path: path, Err: err}
		}
		if path == dir {
			return nil
		}
		// Links are left alone; chmod would follow them out of the tree.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if err := os.Chmod(path, mode); err != nil {
			return &PermissionError{Path: path, Err: err}
		}
		return nil
	})
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// RemoveIfExists removes path and everything below it. A missing path is not an error.
func RemoveIfExists(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
