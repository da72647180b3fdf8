package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"golang.org/x/sync/errgroup"
	"portatune/internal/model"
)

// scanConcurrency bounds the number of files read at once during a
// folder scan.
const scanConcurrency = 8

// audioExtensions lists the file types a folder scan picks up. These
// match what the tag reader can parse.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// ScanFolder builds a Library from a directory tree of audio files,
// for sources that have no XML export.
//
// Every file with a recognized audio extension becomes a track:
//   - PersistentID is the slash-separated path relative to root, which
//     is stable as long as the file is not moved
//   - Name/Artist/Album/Genre come from the file's metadata tags, with
//     the file name (sans extension) as the title fallback
//   - Size comes from the filesystem
//
// Files are walked in lexical order, so the catalog order is
// deterministic. Tag reading runs on a bounded number of goroutines.
// A file whose tags cannot be parsed still becomes a track; a file
// that cannot be opened fails the scan.
//
// Folder libraries have no playlists.
func ScanFolder(root string) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library folder %s is not a directory", abs)
	}

	var rels []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", abs, err)
	}

	tracks := make([]*model.Track, len(rels))
	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for i, rel := range rels {
		i, rel := i, rel
		g.Go(func() error {
			t, err := readTrack(abs, rel, i+1)
			if err != nil {
				return err
			}
			tracks[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", abs, err)
	}

	lib := &Library{
		path:           abs,
		musicFolder:    abs,
		byPersistentID: make(map[string]*model.Track, len(tracks)),
	}
	for _, t := range tracks {
		lib.addTrack(t)
	}
	return lib, nil
}

// readTrack stats and tags a single file found by the scan.
func readTrack(root, rel string, id int) (*model.Track, error) {
	path := filepath.Join(root, rel)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(rel)
	t := &model.Track{
		PersistentID: filepath.ToSlash(rel),
		ID:           id,
		Name:         strings.TrimSuffix(base, filepath.Ext(base)),
		Size:         info.Size(),
		Location:     path,
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files keep their filename-derived title.
		return t, nil
	}
	if md.Title() != "" {
		t.Name = md.Title()
	}
	t.Artist = md.Artist()
	t.Album = md.Album()
	t.Genre = md.Genre()
	return t, nil
}
