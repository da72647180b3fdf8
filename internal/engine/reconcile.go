package engine

import (
	"os"
	"path/filepath"
)

// reconcile brings the destination in line with the plan.
//
// Store entries still in the plan are already satisfied: they are
// removed from the plan and left untouched on disk, so what remains in
// plan afterwards is exactly the set of tracks to copy. Entries no
// longer in the plan have their destination file deleted and their
// store entry dropped.
//
// A delete that fails because the file is already gone is reported as
// a recoverable error and the entry is left for the next space pass to
// prune; no per-item failure aborts the pass. The store is persisted
// once, after the full pass.
func (e *Engine) reconcile(plan map[string]struct{}, sum *Summary) error {
	for _, id := range e.store.IDs() {
		if _, ok := plan[id]; ok {
			delete(plan, id)
			continue
		}

		rel, _ := e.store.Path(id)
		e.beforeDelete(e.catalog.TrackByPersistentID(id), rel)

		if err := os.Remove(filepath.Join(e.opts.Destination, rel)); err != nil {
			e.emitError(rel, Classify(err), err)
			continue
		}
		e.store.Delete(id)
		sum.Deleted++
	}
	return e.store.Save()
}
