package engine

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// dirPicker chooses the destination directory for each copied file.
//
// With subfolders disabled it always returns the destination root.
// Enabled, it fills numbered subfolders ("0", "1", ...) up to maxFiles
// visible files each, creating folders as needed. The index only moves
// forward within a run: a folder emptied behind our back by a
// concurrent cleanup is not refilled until the next run. That keeps
// the scan cheap at the price of occasionally sparse early folders.
type dirPicker struct {
	root          string
	useSubfolders bool
	maxFiles      int
	index         int
}

func newDirPicker(root string, useSubfolders bool, maxFiles int) *dirPicker {
	return &dirPicker{
		root:          root,
		useSubfolders: useSubfolders,
		maxFiles:      maxFiles,
	}
}

// next returns the directory the next file should land in.
func (d *dirPicker) next() (string, error) {
	if !d.useSubfolders {
		return d.root, nil
	}
	for {
		dir := filepath.Join(d.root, strconv.Itoa(d.index))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", err
			}
			return dir, nil
		}
		if visibleCount(entries) < d.maxFiles {
			return dir, nil
		}
		d.index++
	}
}

// visibleCount counts entries whose name does not start with a dot.
func visibleCount(entries []os.DirEntry) int {
	n := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n
}
