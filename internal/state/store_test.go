package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.json")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Set("PID1", "0/one.mp3")
	s.Set("PID2", "two.mp3")
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	if rel, ok := loaded.Path("PID1"); !ok || rel != "0/one.mp3" {
		t.Errorf("Path(PID1) = %q, %v; want %q, true", rel, ok, "0/one.mp3")
	}
	if !loaded.Has("PID2") {
		t.Error("Has(PID2) = false, want true")
	}
}

func TestStore_DeleteAndIDs(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	s.Set("b", "b.mp3")
	s.Set("a", "a.mp3")
	s.Set("c", "c.mp3")
	s.Delete("b")

	want := []string{"a", "c"}
	if got := s.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}
