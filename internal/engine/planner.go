package engine

import "portatune/internal/model"

// DryRun computes what a run against the given budget would do: the
// tracks the plan admits, in catalog order, and the state-store
// entries reconciliation would remove. Neither the destination nor the
// store is touched.
func (e *Engine) DryRun(budget int64) (planned []*model.Track, reclaim []string) {
	plan := e.plan(budget)
	for _, t := range e.catalog.Tracks() {
		if _, ok := plan[t.PersistentID]; ok {
			planned = append(planned, t)
		}
	}
	for _, id := range e.store.IDs() {
		if _, ok := plan[id]; !ok {
			reclaim = append(reclaim, id)
		}
	}
	return planned, reclaim
}

// plan computes the set of persistent IDs that should exist on the
// destination after this run, spending at most budget bytes.
//
// Selection is first-fit in catalog order: cheap and deterministic,
// at the cost of possibly leaving budget unused compared to a
// knapsack-style solver. Exclusion always wins: a track matching both
// rule sets is never admitted. A track larger than the remaining
// budget is skipped, not deferred.
func (e *Engine) plan(budget int64) map[string]struct{} {
	plan := make(map[string]struct{})
	tracks := e.catalog.Tracks()

	for _, t := range tracks {
		if e.excludes.Matches(t) {
			continue
		}
		if !e.includes.Matches(t) {
			continue
		}
		if budget >= t.Size {
			budget -= t.Size
			plan[t.PersistentID] = struct{}{}
		}
	}

	if !e.opts.RandomFill {
		return plan
	}

	// Best-effort fill: consider every track exactly once, in random
	// order, admitting whatever still fits. Not space-optimal.
	rng := e.fillRand()
	for _, i := range rng.Perm(len(tracks)) {
		t := tracks[i]
		if e.excludes.Matches(t) {
			continue
		}
		if _, ok := plan[t.PersistentID]; ok {
			continue
		}
		if budget >= t.Size {
			budget -= t.Size
			plan[t.PersistentID] = struct{}{}
		}
	}
	return plan
}
