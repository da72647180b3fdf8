// Package library reads source music libraries and exposes them as
// read-only catalogs of tracks and playlists.
//
// Two sources are supported:
//
//  1. Open parses an XML library export (the property-list format
//     written by desktop music players).
//  2. ScanFolder walks a plain directory of audio files, reading
//     metadata tags to fill in track attributes.
//
// Both produce a *Library, which the sync engine consumes through its
// Catalog interface. A Library is an immutable snapshot: mutating the
// underlying files or export after opening has no effect on it.
package library
