package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"portatune/internal/model"
)

// copyAll copies every track left in the plan after reconciliation.
//
// Iteration follows catalog order, not plan order. Cancellation is
// checked once per track; an in-flight file copy is never interrupted.
// The state store is rewritten after each successful copy so a crash
// loses at most the file being written.
func (e *Engine) copyAll(ctx context.Context, toCopy map[string]struct{}, sum *Summary) {
	e.copyStart(len(toCopy))
	if len(toCopy) == 0 {
		return
	}

	dirs := newDirPicker(e.opts.Destination, e.opts.UseSubfolders, e.opts.MaxFileCount)
	for _, t := range e.catalog.Tracks() {
		if _, ok := toCopy[t.PersistentID]; !ok {
			continue
		}
		if ctx.Err() != nil {
			sum.Cancelled = true
			return
		}

		e.beforeCopy(t)
		rel, err := e.copyTrack(t, dirs)
		if err != nil {
			sum.Failed++
			e.emitError(t.String(), Classify(err), err)
			continue
		}

		e.store.Set(t.PersistentID, rel)
		if err := e.store.Save(); err != nil {
			sum.Failed++
			e.emitError(t.String(), KindOther, err)
			continue
		}
		sum.Copied++
		sum.CopiedBytes += t.Size
		e.afterCopy(t)
	}
}

// copyTrack copies one source file into the next destination directory
// and returns the destination-relative path. A failed copy leaves no
// partial file behind.
func (e *Engine) copyTrack(t *model.Track, dirs *dirPicker) (string, error) {
	dir, err := dirs.next()
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, t.Filename())
	if err := copyFile(t.Location, dst); err != nil {
		os.Remove(dst) // best effort
		return "", err
	}
	return filepath.Rel(e.opts.Destination, dst)
}

// copyFile copies src to dst byte for byte, truncating an existing
// destination file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
