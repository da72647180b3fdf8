package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"portatune/internal/space"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MaxFileCount != 100 {
		t.Errorf("MaxFileCount = %d, want 100", s.MaxFileCount)
	}
	if s.PlaylistFormat != "m3u" {
		t.Errorf("PlaylistFormat = %q, want m3u", s.PlaylistFormat)
	}
	if s.ReserveBytes != space.DefaultReserve {
		t.Errorf("ReserveBytes = %d, want %d", s.ReserveBytes, space.DefaultReserve)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.MaxFileCount != 100 {
		t.Errorf("MaxFileCount = %d, want defaults", s.MaxFileCount)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	dest := t.TempDir()
	path := SettingsPath(dest)

	s := DefaultSettings()
	s.LibraryPath = "/Users/me/Music/Library.xml"
	s.UseSubfolders = true
	s.MaxFileCount = 50
	s.RandomFill = true
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LibraryPath != s.LibraryPath {
		t.Errorf("LibraryPath = %q", loaded.LibraryPath)
	}
	if !loaded.UseSubfolders || loaded.MaxFileCount != 50 || !loaded.RandomFill {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestValidateDestination(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		ok   bool
	}{
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "nope"), false},
		{"plain file", file, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDestination(tt.path)
			if tt.ok && err != nil {
				t.Errorf("ValidateDestination() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrBadDestination) {
				t.Errorf("ValidateDestination() error = %v, want ErrBadDestination", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	dest := "/media/player"

	if got := Dir(dest); got != filepath.Join(dest, DirName) {
		t.Errorf("Dir() = %q", got)
	}
	if got := StatePath(dest); got != filepath.Join(dest, DirName, "state.json") {
		t.Errorf("StatePath() = %q", got)
	}
	if got := IncludesPath(dest); got != filepath.Join(dest, DirName, "includes.json") {
		t.Errorf("IncludesPath() = %q", got)
	}
	if got := ExcludesPath(dest); got != filepath.Join(dest, DirName, "excludes.json") {
		t.Errorf("ExcludesPath() = %q", got)
	}
}
