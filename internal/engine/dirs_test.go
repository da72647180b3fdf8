package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirPicker_RootWhenDisabled(t *testing.T) {
	root := t.TempDir()
	d := newDirPicker(root, false, 0)

	dir, err := d.next()
	if err != nil {
		t.Fatal(err)
	}
	if dir != root {
		t.Errorf("next() = %q, want root", dir)
	}
}

func TestDirPicker_AdvancesWhenFull(t *testing.T) {
	root := t.TempDir()
	d := newDirPicker(root, true, 2)

	want := []string{"0", "0", "1", "1", "2"}
	for i, sub := range want {
		dir, err := d.next()
		if err != nil {
			t.Fatal(err)
		}
		if dir != filepath.Join(root, sub) {
			t.Errorf("next() #%d = %q, want %q", i, dir, filepath.Join(root, sub))
		}
		// Simulate the copy that follows each pick.
		name := filepath.Join(dir, string(rune('a'+i))+".mp3")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDirPicker_IgnoresDotFiles(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "0")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// One visible file plus metadata the picker must not count.
	if err := os.WriteFile(filepath.Join(sub, "a.mp3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, ".DS_Store"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	d := newDirPicker(root, true, 2)
	dir, err := d.next()
	if err != nil {
		t.Fatal(err)
	}
	if dir != sub {
		t.Errorf("next() = %q, want %q", dir, sub)
	}
}
