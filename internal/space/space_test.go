package space

import (
	"os"
	"path/filepath"
	"testing"

	"portatune/internal/state"
)

func newTestMeter(dest string, free uint64) *Meter {
	m := NewMeter(dest, 1)
	m.SetStatfs(func(string) (uint64, error) {
		return free, nil
	})
	return m
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMeter_DefaultReserve(t *testing.T) {
	m := NewMeter(t.TempDir(), 0)
	m.SetStatfs(func(string) (uint64, error) {
		return DefaultReserve + 100, nil
	})

	free, err := m.Free()
	if err != nil {
		t.Fatal(err)
	}
	if free != 100 {
		t.Errorf("Free() = %d, want 100", free)
	}
}

func TestMeter_FreeCanGoNegative(t *testing.T) {
	m := newTestMeter(t.TempDir(), 0)

	free, err := m.Free()
	if err != nil {
		t.Fatal(err)
	}
	if free != -1 {
		t.Errorf("Free() = %d, want -1", free)
	}
}

func TestMeter_EffectiveAddsTrackedSizes(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "a.mp3"), 300)
	writeFile(t, filepath.Join(dest, "0", "b.mp3"), 200)

	st, err := state.Load(filepath.Join(dest, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	st.Set("PID-A", "a.mp3")
	st.Set("PID-B", filepath.Join("0", "b.mp3"))

	m := newTestMeter(dest, 1001)
	budget, err := m.Effective(st)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 1000+300+200 {
		t.Errorf("Effective() = %d, want %d", budget, 1500)
	}
}

func TestMeter_EffectivePrunesMissingEntries(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "a.mp3"), 300)

	statePath := filepath.Join(dest, "state.json")
	st, err := state.Load(statePath)
	if err != nil {
		t.Fatal(err)
	}
	st.Set("PID-A", "a.mp3")
	st.Set("PID-GONE", "gone.mp3")

	m := newTestMeter(dest, 1001)
	budget, err := m.Effective(st)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 1300 {
		t.Errorf("Effective() = %d, want 1300", budget)
	}
	if st.Has("PID-GONE") {
		t.Error("stale entry survived the space pass")
	}

	// The prune must have been persisted.
	reloaded, err := state.Load(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Has("PID-GONE") {
		t.Error("stale entry still in the persisted document")
	}
}

func TestMeter_EstimateDoesNotPrune(t *testing.T) {
	dest := t.TempDir()

	st, err := state.Load(filepath.Join(dest, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	st.Set("PID-GONE", "gone.mp3")

	m := newTestMeter(dest, 1001)
	budget, err := m.Estimate(st)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 1000 {
		t.Errorf("Estimate() = %d, want 1000", budget)
	}
	if !st.Has("PID-GONE") {
		t.Error("Estimate removed a store entry")
	}
}
