package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Track represents a single track in the source library.
//
// Track carries the metadata the sync engine needs to select and copy
// a file:
//   - PersistentID for the durable destination state record
//   - ID for playlist membership lookups (playlists reference the
//     library-local numeric ID, not the persistent one)
//   - Album/Artist/Genre for filter matching
//   - Size for space accounting
//   - Location for the byte copy
//
// Tracks are immutable once parsed; they live as long as the library
// snapshot that produced them.
type Track struct {
	// PersistentID is the stable string identifier the library assigns
	// to the track. It survives library rewrites and is the key used in
	// the destination state store.
	PersistentID string

	// ID is the library-local numeric identifier. Playlists reference
	// their members by this ID.
	ID int

	// Name is the track title.
	Name string

	// Artist is the performing artist.
	Artist string

	// Album is the album title.
	Album string

	// Genre is the genre name, empty when the library has none.
	Genre string

	// Size is the file size in bytes, as recorded by the library.
	Size int64

	// Location is the absolute path of the source file.
	Location string
}

// Filename returns the base name of the track's source file, sanitized
// for the destination. Copies on the destination use this name.
func (t *Track) Filename() string {
	return SanitizeFilename(filepath.Base(t.Location))
}

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	multiWhitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename replaces characters that destination filesystems
// reject. Portable players are usually FAT-formatted, which shares
// Windows' rules, the most restrictive in common use:
//   - invalid characters (<>:"/\|?* and control chars) become "_"
//   - trailing dots are removed
//   - whitespace runs collapse to a single space, none trailing
func SanitizeFilename(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiWhitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// String renders the track for display, "Artist - Name".
func (t *Track) String() string {
	if t.Artist == "" {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Name)
}
