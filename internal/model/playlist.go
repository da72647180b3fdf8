package model

// Playlist represents one playlist in the source library.
//
// Membership is indirect: TrackIDs holds the numeric library-local IDs
// of the member tracks (see Track.ID). Filter rules that name a
// playlist are resolved to this ID set once per sync run.
type Playlist struct {
	// Name is the playlist title as shown in the library.
	Name string

	// PersistentID is the stable identifier the library assigns to the
	// playlist.
	PersistentID string

	// Master is true for the library's built-in master playlist.
	Master bool

	// Smart is true for rule-generated (smart) playlists.
	Smart bool

	// Visible is false for internal playlists the library hides.
	Visible bool

	// TrackIDs lists the member tracks by their numeric library IDs.
	TrackIDs []int
}
