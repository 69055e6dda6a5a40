package updates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAllowed(t *testing.T) {
	tests := map[string]bool{
		"setup.exe":        true,
		"App.DMG":          true,
		"latest.yml":       true,
		"app.exe.blockmap": true,
		"bundle.zip":       true,
		"notes.txt":        false,
		"noextension":      false,
		"archive.tar.gz":   false,
		"trailing-dot.":    false,
	}
	for name, want := range tests {
		if got := Allowed(name); got != want {
			t.Errorf("Allowed(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestEnsurePlatforms(t *testing.T) {
	root := filepath.Join(t.TempDir(), "updates")
	s := New(root)
	if err := s.EnsurePlatforms(); err != nil {
		t.Fatalf("EnsurePlatforms() error = %v", err)
	}
	for _, platform := range []string{PlatformWindows, PlatformMac} {
		if info, err := os.Stat(filepath.Join(root, platform)); err != nil || !info.IsDir() {
			t.Fatalf("%s dir missing: %v", platform, err)
		}
	}
}

func TestSaveReplacesSpacesAndVersionsDuplicates(t *testing.T) {
	s := New(t.TempDir())

	first, err := s.Save("win32", "2.1.0", "My App Setup.exe", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.Path != "win32/2.1.0/My-App-Setup.exe" || first.Size != 3 {
		t.Fatalf("first = %+v", first)
	}

	second, err := s.Save("win32", "2.1.0", "My App Setup.exe", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if second.Path != "win32/2.1.0/My-App-Setup-2.1.0.exe" {
		t.Fatalf("second = %+v", second)
	}
	data, err := os.ReadFile(filepath.Join(s.Root, "win32", "2.1.0", "My-App-Setup.exe"))
	if err != nil || string(data) != "one" {
		t.Fatalf("original overwritten: %q, %v", data, err)
	}

	entries, _ := os.ReadDir(filepath.Join(s.Root, "win32", "2.1.0"))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".part") {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestSaveDefaults(t *testing.T) {
	s := New(t.TempDir())
	saved, err := s.Save("", "", "latest.yml", strings.NewReader("version: 1"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Path != "unknown-platform/1.0.0/latest.yml" {
		t.Fatalf("path = %s", saved.Path)
	}
}

func TestSaveRejects(t *testing.T) {
	s := New(t.TempDir())
	tests := []struct {
		platform, version, name string
		want                    error
	}{
		{"win32", "1.0.0", "", ErrEmptyFilename},
		{"win32", "1.0.0", "readme.txt", ErrExtensionNotAllowed},
		{"..", "1.0.0", "app.exe", ErrInvalidSegment},
		{"win32", "../../etc", "app.exe", ErrInvalidSegment},
	}
	for _, tt := range tests {
		if _, err := s.Save(tt.platform, tt.version, tt.name, strings.NewReader("x")); !errors.Is(err, tt.want) {
			t.Errorf("Save(%q, %q, %q) error = %v, want %v", tt.platform, tt.version, tt.name, err, tt.want)
		}
	}
}

func TestListSplitsAndSortsNewestFirst(t *testing.T) {
	s := New(t.TempDir())
	if err := s.EnsurePlatforms(); err != nil {
		t.Fatal(err)
	}
	base := time.Now().Add(-time.Hour)
	files := []struct {
		platform, version, name string
		age                     time.Duration
	}{
		{"win32", "1.0.0", "old.exe", 3 * time.Minute},
		{"win32", "1.1.0", "new.exe", time.Minute},
		{"darwin", "1.0.0", "app.dmg", 2 * time.Minute},
		{"linux", "1.0.0", "app.zip", time.Minute},
	}
	for _, f := range files {
		saved, err := s.Save(f.platform, f.version, f.name, strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		mod := base.Add(-f.age)
		if err := os.Chtimes(filepath.Join(s.Root, filepath.FromSlash(saved.Path)), mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	listing, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listing.Windows) != 2 || listing.Windows[0].Path != "win32/1.1.0/new.exe" || listing.Windows[1].Path != "win32/1.0.0/old.exe" {
		t.Fatalf("windows = %+v", listing.Windows)
	}
	if len(listing.Mac) != 1 || listing.Mac[0].Path != "darwin/1.0.0/app.dmg" {
		t.Fatalf("mac = %+v", listing.Mac)
	}
}

func TestListMissingRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"))
	listing, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listing.Windows) != 0 || len(listing.Mac) != 0 {
		t.Fatalf("listing = %+v", listing)
	}
}

func TestUsage(t *testing.T) {
	usage, err := New(t.TempDir()).Usage()
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if usage.Total == 0 {
		t.Fatalf("usage = %+v", usage)
	}
}
