package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ownerWrite is the permission bit that backs the readonly attribute.
const ownerWrite os.FileMode = 0o200

// Storage provides low-level file operations with security validations.
type Storage struct {
	fs afero.Fs
}

// New creates a new Storage instance.
func New(fs afero.Fs) *Storage {
	return &Storage{fs: fs}
}

// ValidatePathSafety checks that the path is not a symlink, preventing symlink attacks.
// It returns nil if the path doesn't exist or is a regular file/directory.
func (s *Storage) ValidatePathSafety(path string) error {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to check path: %w", err)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to operate on symlink: %s", path)
		}
	}
	return nil
}

// CopyFile copies a file from src to dst, atomically replacing the destination.
func (s *Storage) CopyFile(src, dst string) (err error) {
	if err := s.ValidatePathSafety(src); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}
	if err := s.ValidatePathSafety(dst); err != nil {
		return fmt.Errorf("validate destination: %w", err)
	}

	source, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	return s.writeAtomic(dst, source)
}

// WriteFileAtomic writes data to path through a temp file in the same directory.
func (s *Storage) WriteFileAtomic(path string, data []byte) error {
	if err := s.ValidatePathSafety(path); err != nil {
		return fmt.Errorf("validate destination: %w", err)
	}
	return s.writeAtomic(path, bytes.NewReader(data))
}

func (s *Storage) writeAtomic(dst string, r io.Reader) error {
	dir := filepath.Dir(dst)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Same directory as dst so the rename stays on one volume.
	tmp := dst + ".tmp"
	dest, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, copyErr := io.Copy(dest, r)
	closeErr := dest.Close()

	if copyErr != nil || closeErr != nil {
		s.fs.Remove(tmp)
		if copyErr != nil {
			return fmt.Errorf("copy data: %w", copyErr)
		}
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := s.fs.Rename(tmp, dst); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// Readonly reports whether the file at path has its write bit cleared.
func (s *Storage) Readonly(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().Perm()&ownerWrite == 0, nil
}

// SetReadonly clears or restores the owner write bit of path. Setting the
// current value again leaves the mode untouched.
func (s *Storage) SetReadonly(path string, readonly bool) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	next := perm | ownerWrite
	if readonly {
		next = perm &^ 0o222
	}
	if next == perm {
		return nil
	}
	if err := s.fs.Chmod(path, next); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the entire file.
func (s *Storage) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// Open opens a file for reading.
func (s *Storage) Open(path string) (afero.File, error) {
	return s.fs.Open(path)
}

// Create creates or truncates a file with secure permissions.
func (s *Storage) Create(path string) (afero.File, error) {
	return s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

// Exists checks if a path exists.
func (s *Storage) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// IsDir checks if a path exists and is a directory.
func (s *Storage) IsDir(path string) (bool, error) {
	return afero.IsDir(s.fs, path)
}

// Stat returns file information.
func (s *Storage) Stat(path string) (os.FileInfo, error) {
	return s.fs.Stat(path)
}

// MkdirAll creates directory with secure permissions.
func (s *Storage) MkdirAll(path string) error {
	return s.fs.MkdirAll(path, 0o700)
}

// Mkdir creates a single directory and fails if it already exists.
func (s *Storage) Mkdir(path string) error {
	return s.fs.Mkdir(path, 0o700)
}

// ReadDir reads directory contents.
func (s *Storage) ReadDir(path string) ([]os.FileInfo, error) {
	return afero.ReadDir(s.fs, path)
}

// Rename moves a file or directory.
func (s *Storage) Rename(oldpath, newpath string) error {
	return s.fs.Rename(oldpath, newpath)
}

// Remove deletes a file.
func (s *Storage) Remove(path string) error {
	return s.fs.Remove(path)
}

// RemoveAll deletes a directory tree.
func (s *Storage) RemoveAll(path string) error {
	return s.fs.RemoveAll(path)
}

// Chtimes changes file access and modification times.
func (s *Storage) Chtimes(path string, atime, mtime time.Time) error {
	return s.fs.Chtimes(path, atime, mtime)
}
