package storage

// Tests for atomic file operations and the readonly attribute.
//
// Focus: CopyFile and WriteFileAtomic (temp file + rename), ValidatePathSafety,
// Readonly/SetReadonly (owner write bit), secure permissions (0600 files, 0700 dirs).

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
)

func TestCopyFile_Success(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/test/game.cfg"
	dst := "/active/game.cfg"

	if err := afero.WriteFile(fs, src, []byte("[General]\nWidth=1920\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	content, err := afero.ReadFile(fs, dst)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(content) != "[General]\nWidth=1920\n" {
		t.Errorf("unexpected content %q", string(content))
	}
	if exists, _ := afero.Exists(fs, dst+".tmp"); exists {
		t.Error("temp file should not exist after successful copy")
	}
}

func TestCopyFile_OverwritesExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/test/source.json"
	dst := "/test/dest.json"

	if err := afero.WriteFile(fs, src, []byte("new"), 0o644); err != nil {
		t.Fatalf("setup src: %v", err)
	}
	if err := afero.WriteFile(fs, dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup dst: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	content, err := afero.ReadFile(fs, dst)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(content) != "new" {
		t.Errorf("expected 'new', got %q", string(content))
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	err := storage.CopyFile("/nonexistent", "/dest")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist in chain, got: %v", err)
	}
}

func TestCopyFile_SecurePermissions(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	src := "/test/source.json"
	dst := "/deeply/nested/dest.json"

	if err := afero.WriteFile(fs, src, []byte("secret"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	info, err := fs.Stat(dst)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected file mode 0600, got %o", info.Mode().Perm())
	}
	dirInfo, err := fs.Stat("/deeply/nested")
	if err != nil {
		t.Fatalf("stat directory: %v", err)
	}
	if dirInfo.Mode().Perm() != 0o700 {
		t.Errorf("expected directory mode 0700, got %o", dirInfo.Mode().Perm())
	}
}

func TestWriteFileAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	path := "/data/config.json"
	if err := storage.WriteFileAtomic(path, []byte(`{"path":null}`)); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := storage.WriteFileAtomic(path, []byte(`{"path":"/games/lol"}`)); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != `{"path":"/games/lol"}` {
		t.Errorf("unexpected content %q", string(content))
	}
}

func TestSetReadonly_TogglesOwnerWriteBit(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	path := "/active/game.cfg"
	if err := afero.WriteFile(fs, path, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := storage.SetReadonly(path, true); err != nil {
		t.Fatalf("SetReadonly(true): %v", err)
	}
	ro, err := storage.Readonly(path)
	if err != nil {
		t.Fatalf("Readonly: %v", err)
	}
	if !ro {
		t.Fatal("expected readonly after SetReadonly(true)")
	}
	info, _ := fs.Stat(path)
	if info.Mode().Perm() != 0o444 {
		t.Errorf("expected mode 0444, got %o", info.Mode().Perm())
	}

	if err := storage.SetReadonly(path, false); err != nil {
		t.Fatalf("SetReadonly(false): %v", err)
	}
	ro, err = storage.Readonly(path)
	if err != nil {
		t.Fatalf("Readonly: %v", err)
	}
	if ro {
		t.Fatal("expected writable after SetReadonly(false)")
	}
	info, _ = fs.Stat(path)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("expected mode 0644, got %o", info.Mode().Perm())
	}
}

func TestSetReadonly_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	path := "/active/PersistedSettings.json"
	if err := afero.WriteFile(fs, path, []byte("{}"), 0o640); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := storage.SetReadonly(path, true); err != nil {
			t.Fatalf("SetReadonly #%d: %v", i, err)
		}
	}
	info, _ := fs.Stat(path)
	if info.Mode().Perm() != 0o440 {
		t.Errorf("expected mode 0440, got %o", info.Mode().Perm())
	}
}

func TestSetReadonly_MissingFile(t *testing.T) {
	storage := New(afero.NewMemMapFs())

	if err := storage.SetReadonly("/missing", true); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestValidatePathSafety_NonExistentPath(t *testing.T) {
	storage := New(afero.NewMemMapFs())

	if err := storage.ValidatePathSafety("/nonexistent/file.json"); err != nil {
		t.Errorf("non-existent path should be safe: %v", err)
	}
}

func TestValidatePathSafety_Symlink(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	storage := New(afero.NewOsFs())

	if err := afero.WriteFile(fs, "target.cfg", []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	link := dir + "/link.cfg"
	if err := os.Symlink(dir+"/target.cfg", link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if err := storage.ValidatePathSafety(link); err == nil {
		t.Error("expected symlink to be rejected")
	}
}

func TestMkdirAll_SecurePermissions(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := New(fs)

	path := "/deeply/nested/path"
	if err := storage.MkdirAll(path); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	info, err := fs.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("path should be a directory")
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("expected secure mode 0700, got %o", info.Mode().Perm())
	}
}
