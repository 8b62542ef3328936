package profile

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/afero"

	"github.com/OpenGG/league-config-manager/internal/lcm/backup"
	"github.com/OpenGG/league-config-manager/internal/lcm/champion"
	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
	"github.com/OpenGG/league-config-manager/internal/lcm/gamesettings"
	"github.com/OpenGG/league-config-manager/internal/lcm/paths"
	"github.com/OpenGG/league-config-manager/internal/lcm/storage"
)

type fixture struct {
	store   *Store
	storage *storage.Storage
	paths   *paths.PathBuilder
	active  *gamesettings.GameSettings
	tmp     string
}

// newFixture uses the OS filesystem because profile renames move whole
// directory trees.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmp := t.TempDir()
	st := storage.New(afero.NewOsFs())
	pb := paths.New(filepath.Join(tmp, "data"))
	if err := st.MkdirAll(pb.DataDir()); err != nil {
		t.Fatalf("setup data dir: %v", err)
	}

	install := filepath.Join(tmp, "League of Legends")
	writeFile(t, st, filepath.Join(paths.InstallConfig(install), paths.GameFileName), "[General]\nWidth=1920\n")
	writeFile(t, st, filepath.Join(paths.InstallConfig(install), paths.SettingsFileName), `{"files":[]}`)
	active, err := gamesettings.FromInstall(st, install)
	if err != nil {
		t.Fatalf("FromInstall: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backups := backup.New(st, pb.BackupDir(), logger)
	return &fixture{
		store:   NewStore(st, pb, backups, logger),
		storage: st,
		paths:   pb,
		active:  active,
		tmp:     tmp,
	}
}

func writeFile(t *testing.T, st *storage.Storage, path, content string) {
	t.Helper()
	if err := st.MkdirAll(filepath.Dir(path)); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := st.WriteFileAtomic(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, st *storage.Storage, path string) string {
	t.Helper()
	data, err := st.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCreate_GeneratesSequentialNames(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < MaxGeneratedNames; i++ {
		p, err := f.store.Create(f.active)
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if want := "profile_" + strconv.Itoa(i); p.Name != want {
			t.Fatalf("Create #%d named %q, want %q", i, p.Name, want)
		}
	}

	if _, err := f.store.Create(f.active); !errors.Is(err, domain.ErrNoFreeName) {
		t.Fatalf("expected ErrNoFreeName after %d profiles, got %v", MaxGeneratedNames, err)
	}

	names, err := f.store.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != MaxGeneratedNames {
		t.Errorf("expected %d profiles, got %d", MaxGeneratedNames, len(names))
	}
}

func TestCreate_FillsGaps(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		if _, err := f.store.Create(f.active); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := f.store.Delete("profile_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Name != "profile_1" {
		t.Errorf("expected gap profile_1 to be reused, got %q", p.Name)
	}
}

func TestCreate_SnapshotsActiveFiles(t *testing.T) {
	f := newFixture(t)

	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := readFile(t, f.storage, f.paths.ProfileFile(p.Name, paths.GameFileName))
	if got != "[General]\nWidth=1920\n" {
		t.Errorf("snapshot game.cfg = %q", got)
	}
	if p.Champion != nil || p.LastLink != "" {
		t.Errorf("new profile should be unbound without link, got %+v", p)
	}
}

func TestList_SkipsFilesAndHiddenDirs(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.Create(f.active); err != nil {
		t.Fatalf("Create: %v", err)
	}
	writeFile(t, f.storage, f.paths.ConfigFile(), `{"path":"x"}`)
	writeFile(t, f.storage, filepath.Join(f.paths.BackupDir(), "abc.cfg"), "x")

	profiles, err := f.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "profile_0" {
		t.Fatalf("expected only profile_0, got %+v", profiles)
	}
}

func TestList_MissingRootIsEmpty(t *testing.T) {
	st := storage.New(afero.NewMemMapFs())
	store := NewStore(st, paths.New("/nowhere"), nil, nil)

	profiles, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}
}

func TestSaveMeta_RoundTrip(t *testing.T) {
	f := newFixture(t)
	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.Champion = champion.Ptr(523)
	p.LastLink = "https://dpaste.com/ABCD"
	if err := f.store.SaveMeta(p); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}

	profiles, err := f.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := profiles[0]
	if !got.BoundTo(523) || got.LastLink != "https://dpaste.com/ABCD" {
		t.Errorf("metadata not restored: %+v", got)
	}
}

func TestSaveMeta_DisabledIsNull(t *testing.T) {
	f := newFixture(t)
	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.store.SaveMeta(p); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	raw := readFile(t, f.storage, f.paths.SidecarPath(p.Name))
	if raw != `{"champion":null,"last_link":""}` {
		t.Errorf("unexpected sidecar %s", raw)
	}
}

func TestList_CorruptSidecarUsesDefaults(t *testing.T) {
	f := newFixture(t)
	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	writeFile(t, f.storage, f.paths.SidecarPath(p.Name), "{not json")

	profiles, err := f.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if profiles[0].Champion != nil || profiles[0].LastLink != "" {
		t.Errorf("expected defaults for corrupt sidecar, got %+v", profiles[0])
	}
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)
	p.Champion = champion.Ptr(64)
	if err := f.store.SaveMeta(p); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}

	got, err := f.store.Rename(p.Name, "  Lee Sin mains  ")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got != "Lee Sin mains" {
		t.Errorf("expected trimmed name, got %q", got)
	}

	profiles, _ := f.store.List()
	if len(profiles) != 1 || profiles[0].Name != "Lee Sin mains" || !profiles[0].BoundTo(64) {
		t.Errorf("rename lost data: %+v", profiles)
	}
}

func TestRename_CollisionLeavesBothUnchanged(t *testing.T) {
	f := newFixture(t)
	x, _ := f.store.Create(f.active)
	y, _ := f.store.Create(f.active)
	writeFile(t, f.storage, f.paths.ProfileFile(y.Name, paths.GameFileName), "y")

	if _, err := f.store.Rename(x.Name, y.Name); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if got := readFile(t, f.storage, f.paths.ProfileFile(x.Name, paths.GameFileName)); got != "[General]\nWidth=1920\n" {
		t.Errorf("source changed: %q", got)
	}
	if got := readFile(t, f.storage, f.paths.ProfileFile(y.Name, paths.GameFileName)); got != "y" {
		t.Errorf("target changed: %q", got)
	}
}

func TestRename_SameNameIsNoop(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)

	got, err := f.store.Rename(p.Name, p.Name)
	if err != nil || got != p.Name {
		t.Errorf("expected no-op rename, got %q err=%v", got, err)
	}
}

func TestRename_InvalidName(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)

	for _, name := range []string{"", "   ", ".hidden", "a/b", "CON"} {
		if _, err := f.store.Rename(p.Name, name); err == nil {
			t.Errorf("Rename to %q should fail", name)
		}
	}
}

func TestRename_Missing(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.Rename("ghost", "other"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)

	if err := f.store.Delete(p.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := f.storage.Exists(f.paths.ProfileDir(p.Name)); ok {
		t.Error("profile directory still exists")
	}
	if err := f.store.Delete(p.Name); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound on second delete, got %v", err)
	}
}

func TestSaveMeta_AfterDeleteKeepsProfileGone(t *testing.T) {
	f := newFixture(t)
	p, err := f.store.Create(f.active)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.store.Delete(p.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	p.LastLink = "https://dpaste.com/late"
	if err := f.store.SaveMeta(p); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if ok, _ := f.storage.Exists(f.paths.ProfileDir(p.Name)); ok {
		t.Error("SaveMeta recreated the deleted profile directory")
	}
	names, err := f.store.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no profiles, got %v", names)
	}
}

func TestCreate_FailedCopyLeavesNothing(t *testing.T) {
	f := newFixture(t)
	if err := f.storage.Remove(f.active.Settings); err != nil {
		t.Fatalf("remove active settings: %v", err)
	}

	if _, err := f.store.Create(f.active); err == nil {
		t.Fatal("expected Create to fail without the settings file")
	}
	if ok, _ := f.storage.Exists(f.paths.ProfileDir("profile_0")); ok {
		t.Error("partial profile directory left behind")
	}
	name, err := f.store.GenerateName()
	if err != nil || name != "profile_0" {
		t.Errorf("GenerateName = %q, %v; want profile_0 free again", name, err)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)
	if _, err := f.store.Rename(p.Name, "ranked"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	exportDir := filepath.Join(f.tmp, "exports")
	if err := f.storage.MkdirAll(exportDir); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	archivePath, err := f.store.ExportArchive("ranked", exportDir)
	if err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}
	if filepath.Base(archivePath) != "ranked.zip" {
		t.Errorf("unexpected archive name %s", archivePath)
	}

	// Name is taken, so the import falls back to a generated name.
	imported, err := f.store.ImportArchive(archivePath)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if imported.Name != "profile_0" {
		t.Errorf("expected generated name, got %q", imported.Name)
	}
	for _, file := range []string{paths.GameFileName, paths.SettingsFileName} {
		want := readFile(t, f.storage, f.paths.ProfileFile("ranked", file))
		got := readFile(t, f.storage, f.paths.ProfileFile(imported.Name, file))
		if got != want {
			t.Errorf("%s differs after round trip: %q vs %q", file, got, want)
		}
	}
}

func TestImportArchive_UsesStem(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)
	archivePath, err := f.store.ExportArchive(p.Name, f.tmp)
	if err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}
	renamed := filepath.Join(f.tmp, "aram.zip")
	if err := os.Rename(archivePath, renamed); err != nil {
		t.Fatalf("rename archive: %v", err)
	}

	imported, err := f.store.ImportArchive(renamed)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if imported.Name != "aram" {
		t.Errorf("expected stem name, got %q", imported.Name)
	}
}

func TestImportArchive_CorruptCleansUp(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.tmp, "broken.zip")
	writeFile(t, f.storage, bad, "not a zip")

	if _, err := f.store.ImportArchive(bad); !errors.Is(err, domain.ErrZipImport) {
		t.Fatalf("expected ErrZipImport, got %v", err)
	}
	if ok, _ := f.storage.Exists(f.paths.ProfileDir("broken")); ok {
		t.Error("partial profile left behind")
	}
}

func TestExportArchive_MissingProfile(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.ExportArchive("ghost", f.tmp); !errors.Is(err, domain.ErrZipExport) {
		t.Errorf("expected ErrZipExport, got %v", err)
	}
}

func TestShareThenImportBlob(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)

	blob, err := f.store.Share(p.Name)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	imported, err := f.store.ImportBlob(blob)
	if err != nil {
		t.Fatalf("ImportBlob: %v", err)
	}
	if imported.Name != "profile_1" {
		t.Errorf("expected profile_1, got %q", imported.Name)
	}
	if got := readFile(t, f.storage, f.paths.ProfileFile(imported.Name, paths.SettingsFileName)); got != `{"files":[]}` {
		t.Errorf("imported settings = %q", got)
	}
}

func TestImportBlob_NoSeparator(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.ImportBlob("just some text"); !errors.Is(err, domain.ErrImport) {
		t.Fatalf("expected ErrImport, got %v", err)
	}
	names, _ := f.store.Names()
	if len(names) != 0 {
		t.Errorf("expected no profile to be created, got %v", names)
	}
}

func TestApply_OverwritesActiveAndBacksUp(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)
	writeFile(t, f.storage, f.paths.ProfileFile(p.Name, paths.GameFileName), "[General]\nWidth=2560\n")
	if err := f.active.SetReadonly(true); err != nil {
		t.Fatalf("SetReadonly: %v", err)
	}

	if err := f.store.Apply(p.Name, f.active); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readFile(t, f.storage, f.active.Game); got != "[General]\nWidth=2560\n" {
		t.Errorf("active game.cfg = %q", got)
	}
	if ro, _ := f.active.Readonly(); ro {
		t.Error("Apply should leave the readonly attribute cleared")
	}

	entries, err := f.storage.ReadDir(f.paths.BackupDir())
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected both active files backed up, got %d entries", len(entries))
	}
}

func TestApply_MissingProfileFiles(t *testing.T) {
	f := newFixture(t)
	p, _ := f.store.Create(f.active)
	if err := f.storage.Remove(f.paths.ProfileFile(p.Name, paths.SettingsFileName)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := f.store.Apply(p.Name, f.active); !errors.Is(err, domain.ErrWrongPath) {
		t.Errorf("expected ErrWrongPath, got %v", err)
	}
	if got := readFile(t, f.storage, f.active.Game); got != "[General]\nWidth=1920\n" {
		t.Errorf("active file modified: %q", got)
	}
}
