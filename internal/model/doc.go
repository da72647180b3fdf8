// Package model defines the core data structures shared by the
// portatune packages.
//
// # Track
//
// Track is an immutable record of one library item. The engine refers
// to tracks by PersistentID everywhere except playlist membership,
// which uses the numeric library-local ID:
//
//	t := &model.Track{PersistentID: "A1B2", ID: 42, Size: 5 << 20}
//	fmt.Println(t.Filename()) // base name of the source file
//
// # Playlist
//
// Playlist carries a name and the numeric IDs of its member tracks.
// Filter rules written against playlist names are resolved to track
// IDs once per run.
package model
