package engine

import (
	"errors"
	"io/fs"

	"portatune/internal/model"
)

// FailureKind classifies a per-item filesystem failure for reporting.
type FailureKind int

const (
	// KindOther covers failures with no more specific classification.
	KindOther FailureKind = iota

	// KindNotFound means the file in question was missing.
	KindNotFound

	// KindNoSpace means the destination volume ran out of room.
	KindNoSpace
)

// String renders the kind for display.
func (k FailureKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindNoSpace:
		return "insufficient space"
	default:
		return "error"
	}
}

// Notifier carries the caller's progress callbacks.
//
// Every field is optional. Callbacks fire synchronously from inside
// the pipeline, so they must return promptly. Ordering guarantees:
// deletion notifications happen before any copy-phase notification,
// and copy-phase notifications follow catalog order. No guarantee is
// made beyond that.
type Notifier struct {
	// CopyStart fires once when the copy phase begins, with the number
	// of tracks that remain to be copied after reconciliation.
	CopyStart func(pending int)

	// BeforeCopy fires before a track's bytes are copied.
	BeforeCopy func(t *model.Track)

	// AfterCopy fires after a successful copy, once the state store
	// records it.
	AfterCopy func(t *model.Track)

	// BeforeDelete fires before a previously-synced file is removed
	// during reconciliation. t is nil when the catalog no longer has
	// the track (deleted or renamed upstream); relPath is always set.
	BeforeDelete func(t *model.Track, relPath string)

	// Error fires for every per-item failure; the run continues with
	// the next item. subject names the failing item for display.
	Error func(subject string, kind FailureKind, err error)
}

func (e *Engine) copyStart(pending int) {
	if e.notify.CopyStart != nil {
		e.notify.CopyStart(pending)
	}
}

func (e *Engine) beforeCopy(t *model.Track) {
	if e.notify.BeforeCopy != nil {
		e.notify.BeforeCopy(t)
	}
}

func (e *Engine) afterCopy(t *model.Track) {
	if e.notify.AfterCopy != nil {
		e.notify.AfterCopy(t)
	}
}

func (e *Engine) beforeDelete(t *model.Track, relPath string) {
	if e.notify.BeforeDelete != nil {
		e.notify.BeforeDelete(t, relPath)
	}
}

func (e *Engine) emitError(subject string, kind FailureKind, err error) {
	if e.notify.Error != nil {
		e.notify.Error(subject, kind, err)
	}
}

// Classify maps an OS error onto a FailureKind.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case isNoSpace(err):
		return KindNoSpace
	default:
		return KindOther
	}
}
