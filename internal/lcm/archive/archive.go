// Package archive packs and unpacks profile files as zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
)

// ErrUnsafeEntry is returned for entries that would land outside the target directory.
var ErrUnsafeEntry = errors.New("archive entry escapes target directory")

// Write creates a deflate-compressed archive at dest holding files at its root.
func Write(st *storage.Storage, dest string, files []string) (err error) {
	out, err := st.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
		if err != nil {
			st.Remove(dest)
		}
	}()

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addFile(st, zw, file); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addFile(st *storage.Storage, zw *zip.Writer, path string) error {
	src, err := st.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(path),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return nil
}

// Extract unpacks every entry of the archive at src under dir, keeping the
// relative structure. It returns the extracted file paths.
func Extract(st *storage.Storage, src, dir string) ([]string, error) {
	f, err := st.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	var extracted []string
	for _, entry := range zr.File {
		target, err := entryPath(dir, entry.Name)
		if err != nil {
			return extracted, err
		}
		if entry.FileInfo().IsDir() {
			if err := st.MkdirAll(target); err != nil {
				return extracted, err
			}
			continue
		}
		if err := extractFile(st, entry, target); err != nil {
			return extracted, err
		}
		extracted = append(extracted, target)
	}
	return extracted, nil
}

func entryPath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, name)
	}
	return target, nil
}

func extractFile(st *storage.Storage, entry *zip.File, target string) error {
	if err := st.MkdirAll(filepath.Dir(target)); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := st.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return out.Close()
}
