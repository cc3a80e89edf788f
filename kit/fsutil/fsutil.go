// Package fsutil holds small file helpers shared by the build and CLI code.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates path and its parents if they do not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("fsutil.EnsureDir: create %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dest, creating dest's directory.
func CopyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fsutil.CopyFile: %w", err)
	}
	defer in.Close()

	if err := EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("fsutil.CopyFile: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("fsutil.CopyFile: copy %s: %w", src, err)
	}
	return out.Close()
}

// CopyInto copies src into dir under its own base name and returns the
// destination path.
func CopyInto(src, dir string) (string, error) {
	dest := filepath.Join(dir, filepath.Base(src))
	return dest, CopyFile(src, dest)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("fsutil.WriteFileAtomic: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("fsutil.WriteFileAtomic: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fsutil.WriteFileAtomic: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("fsutil.WriteFileAtomic: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("fsutil.WriteFileAtomic: rename into %s: %w", path, err)
	}
	return nil
}
