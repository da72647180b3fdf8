// Package space computes the byte budget available for a sync run.
package space

import (
	"os"
	"path/filepath"

	"portatune/internal/state"
)

// DefaultReserve is how many bytes are kept free on the destination
// for filesystem metadata when no explicit reserve is configured.
const DefaultReserve = 5 * 1024 * 1024

// StatfsFunc reports the free bytes on the volume containing path.
// Tests stub this; the default queries the operating system.
type StatfsFunc func(path string) (free uint64, err error)

// Meter measures destination space.
//
// Free is the raw headroom; Effective adds back the bytes occupied by
// everything the state store currently tracks, because a plan may
// reuse or replace any of it. Effective is therefore budget-neutral
// for a re-sync that keeps the same selection.
type Meter struct {
	dest    string
	reserve int64
	statfs  StatfsFunc
}

// NewMeter returns a Meter for the destination volume. A reserve of
// zero or less selects DefaultReserve.
func NewMeter(dest string, reserve int64) *Meter {
	if reserve <= 0 {
		reserve = DefaultReserve
	}
	return &Meter{
		dest:    dest,
		reserve: reserve,
		statfs:  statfs,
	}
}

// SetStatfs replaces the filesystem query, for tests.
func (m *Meter) SetStatfs(fn StatfsFunc) {
	m.statfs = fn
}

// Free returns the bytes available on the destination volume, minus
// the reserve. The result can be negative on a nearly full volume.
func (m *Meter) Free() (int64, error) {
	free, err := m.statfs(m.dest)
	if err != nil {
		return 0, err
	}
	return int64(free) - m.reserve, nil
}

// Effective returns the budget a plan may spend: free space plus the
// sizes of all files the store currently tracks.
//
// Entries whose file no longer exists (removed by hand, or by another
// tool) are pruned from the store, which is written back when anything
// was pruned. That is self-healing, not an error.
func (m *Meter) Effective(st *state.Store) (int64, error) {
	return m.effective(st, true)
}

// Estimate is Effective without the self-healing write: entries whose
// file is gone are skipped but kept in the store. Used for dry runs.
func (m *Meter) Estimate(st *state.Store) (int64, error) {
	return m.effective(st, false)
}

func (m *Meter) effective(st *state.Store, prune bool) (int64, error) {
	budget, err := m.Free()
	if err != nil {
		return 0, err
	}

	pruned := false
	for _, id := range st.IDs() {
		rel, _ := st.Path(id)
		info, err := os.Stat(filepath.Join(m.dest, rel))
		if err != nil {
			if os.IsNotExist(err) {
				if prune {
					st.Delete(id)
					pruned = true
				}
				continue
			}
			return 0, err
		}
		budget += info.Size()
	}
	if pruned {
		if err := st.Save(); err != nil {
			return 0, err
		}
	}
	return budget, nil
}
