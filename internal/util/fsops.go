package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MovePath relocates src to dest. Rename is tried first; when src and
// dest sit on different filesystems (scratch lives under os.TempDir)
// the tree is copied and the source removed.
func MovePath(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := CopyTree(src, dest); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// CopyTree recursively copies the file or directory at src to dest,
// preserving file modes and recreating symlinks.
func CopyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return fmt.Errorf("readlink %s: %w", src, err)
		}
		return os.Symlink(target, dest)
	case info.IsDir():
		if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
			return fmt.Errorf("creating %s: %w", dest, err)
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return fmt.Errorf("reading %s: %w", src, err)
		}
		for _, entry := range entries {
			if err := CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	default:
		return copyFile(src, dest, info.Mode().Perm())
	}
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
