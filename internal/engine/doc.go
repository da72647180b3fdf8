// Package engine implements the synchronization pipeline: planning
// which tracks should exist on the destination, reconciling the
// destination against that plan, and copying what is missing.
//
// The pipeline runs strictly sequentially:
//
//	budget := meter.Effective(store)   // free space + reclaimable
//	plan := planner(budget)            // first-fit selection
//	toCopy := reconcile(plan, store)   // delete unwanted, dedupe wanted
//	copy(toCopy)                       // place files, record state
//
// Progress is reported synchronously through a Notifier; per-item
// failures become error notifications and never abort the run.
// Cancellation is cooperative, checked once per copied track.
package engine
