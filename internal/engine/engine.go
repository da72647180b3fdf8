package engine

import (
	"context"
	"math/rand"
	"time"

	"portatune/internal/filter"
	"portatune/internal/model"
	"portatune/internal/space"
	"portatune/internal/state"
)

// Catalog is the read-only view of the source library the engine
// consumes. library.Library satisfies it.
type Catalog interface {
	// Tracks returns every track, in catalog order. The engine iterates
	// it several times per run; the order must be stable.
	Tracks() []*model.Track

	// Playlists returns every playlist.
	Playlists() []*model.Playlist

	// TrackByPersistentID resolves a track, nil when absent.
	TrackByPersistentID(id string) *model.Track
}

// Options controls how a run selects and places files.
type Options struct {
	// Destination is the root of the destination volume. It must exist
	// and be a directory; the caller validates it before the run.
	Destination string

	// UseSubfolders enables numbered destination subfolders.
	UseSubfolders bool

	// MaxFileCount is the visible-file limit per subfolder.
	MaxFileCount int

	// RandomFill tops the plan up with random unfiltered tracks until
	// the budget is spent or the catalog is exhausted.
	RandomFill bool

	// Rand drives random fill. Callers seed it for reproducible fills;
	// when nil, a time-seeded source is used.
	Rand *rand.Rand
}

// Config wires an Engine together.
type Config struct {
	Catalog  Catalog
	Includes *filter.Resolved
	Excludes *filter.Resolved
	Store    *state.Store
	Meter    *space.Meter
	Options  Options
	Notify   Notifier
}

// Engine runs the sync pipeline: plan, reconcile, copy.
//
// The pipeline is strictly sequential, so the engine needs no internal
// locking. Callers typically run it on a background goroutine and
// consume progress through the Notifier; cancellation is cooperative,
// observed once per copied track.
type Engine struct {
	catalog  Catalog
	includes *filter.Resolved
	excludes *filter.Resolved
	store    *state.Store
	meter    *space.Meter
	opts     Options
	notify   Notifier
}

// New creates an Engine from the given configuration.
func New(cfg Config) *Engine {
	return &Engine{
		catalog:  cfg.Catalog,
		includes: cfg.Includes,
		excludes: cfg.Excludes,
		store:    cfg.Store,
		meter:    cfg.Meter,
		opts:     cfg.Options,
		notify:   cfg.Notify,
	}
}

// Summary reports what a run did.
type Summary struct {
	// Budget is the effective byte budget the plan was built against:
	// free space plus what the tracked files occupy.
	Budget int64

	// Planned is the size of the computed plan, before reconciliation.
	Planned int

	// Deleted counts destination files removed by reconciliation.
	Deleted int

	// Copied counts tracks copied this run.
	Copied int

	// CopiedBytes is the byte total of the copied tracks.
	CopiedBytes int64

	// Failed counts tracks whose copy failed; they are retried on the
	// next run.
	Failed int

	// Cancelled is true when the run stopped at the cancellation point
	// with tracks left unprocessed.
	Cancelled bool
}

// Run executes one full sync: compute the effective budget, plan the
// target set, reconcile the destination against it, and copy what is
// missing.
//
// Per-item failures are reported through the Notifier and never abort
// the run; only whole-run failures (the budget computation or the
// state-store write after reconciliation) return an error. When ctx is
// cancelled the copy phase stops at the next track boundary and the
// returned Summary has Cancelled set.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	budget, err := e.meter.Effective(e.store)
	if err != nil {
		return nil, err
	}
	sum.Budget = budget

	plan := e.plan(budget)
	sum.Planned = len(plan)

	if err := e.reconcile(plan, sum); err != nil {
		return nil, err
	}

	e.copyAll(ctx, plan, sum)
	return sum, nil
}

func (e *Engine) fillRand() *rand.Rand {
	if e.opts.Rand != nil {
		return e.opts.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
