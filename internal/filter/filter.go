package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"portatune/internal/model"
)

// ErrInvalid reports a filter document that is missing or cannot be
// parsed. Callers are expected to recover explicitly rather than have
// this package guess defaults.
var ErrInvalid = errors.New("invalid filter document")

// Rules is a named set of inclusion or exclusion rules over tracks.
//
// A rule names an album, artist, genre or playlist. Rules are mutated
// only through the Add methods (user-driven selection) and persist as
// a JSON document with one list per rule kind. The engine never sees
// Rules directly: Resolve produces the immutable value the planner
// consumes.
type Rules struct {
	Albums    map[string]struct{}
	Artists   map[string]struct{}
	Genres    map[string]struct{}
	Playlists map[string]struct{}
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{
		Albums:    make(map[string]struct{}),
		Artists:   make(map[string]struct{}),
		Genres:    make(map[string]struct{}),
		Playlists: make(map[string]struct{}),
	}
}

// AddAlbum adds an album name to the rule set.
func (r *Rules) AddAlbum(name string) { r.Albums[name] = struct{}{} }

// AddArtist adds an artist name to the rule set.
func (r *Rules) AddArtist(name string) { r.Artists[name] = struct{}{} }

// AddGenre adds a genre name to the rule set.
func (r *Rules) AddGenre(name string) { r.Genres[name] = struct{}{} }

// AddPlaylist adds a playlist name to the rule set.
func (r *Rules) AddPlaylist(name string) { r.Playlists[name] = struct{}{} }

// Empty reports whether the rule set has no entries at all.
func (r *Rules) Empty() bool {
	return len(r.Albums) == 0 && len(r.Artists) == 0 &&
		len(r.Genres) == 0 && len(r.Playlists) == 0
}

// Clear resets every rule list.
func (r *Rules) Clear() {
	*r = *NewRules()
}

// rulesDoc is the persisted form. Empty groups are omitted entirely.
type rulesDoc struct {
	Albums    []string `json:"albums,omitempty"`
	Artists   []string `json:"artists,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Playlists []string `json:"playlists,omitempty"`
}

// Load reads a rule set from a JSON document.
//
// A missing field is an empty list. A missing file or malformed
// content returns an error wrapping ErrInvalid; the underlying read
// error stays in the chain, so a caller that treats a fresh volume as
// "no rules yet" can detect fs.ErrNotExist and recover itself.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	var doc rulesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	r := NewRules()
	for _, name := range doc.Albums {
		r.AddAlbum(name)
	}
	for _, name := range doc.Artists {
		r.AddArtist(name)
	}
	for _, name := range doc.Genres {
		r.AddGenre(name)
	}
	for _, name := range doc.Playlists {
		r.AddPlaylist(name)
	}
	return r, nil
}

// Save writes the rule set as a JSON document, creating parent
// directories as needed. Groups with no entries are omitted.
func (r *Rules) Save(path string) error {
	doc := rulesDoc{
		Albums:    sortedKeys(r.Albums),
		Artists:   sortedKeys(r.Artists),
		Genres:    sortedKeys(r.Genres),
		Playlists: sortedKeys(r.Playlists),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolved is the immutable form of a rule set used by the planner.
//
// It is produced once per sync run by Resolve, which freezes the name
// sets and resolves playlist names to the numeric IDs of their member
// tracks. Because a Resolved never changes, the planner's output
// depends only on the catalog and the budget.
type Resolved struct {
	albums   map[string]struct{}
	artists  map[string]struct{}
	genres   map[string]struct{}
	trackIDs map[int]struct{}
}

// Resolve freezes the rule set against the given playlists.
//
// Playlist rules whose name matches no playlist contribute nothing; a
// name matching several playlists contributes all their members.
func (r *Rules) Resolve(playlists []*model.Playlist) *Resolved {
	res := &Resolved{
		albums:   copySet(r.Albums),
		artists:  copySet(r.Artists),
		genres:   copySet(r.Genres),
		trackIDs: make(map[int]struct{}),
	}
	for _, p := range playlists {
		if _, ok := r.Playlists[p.Name]; !ok {
			continue
		}
		for _, id := range p.TrackIDs {
			res.trackIDs[id] = struct{}{}
		}
	}
	return res
}

// Matches reports whether the track is caught by any rule: its album,
// artist or genre is named, or it belongs to a named playlist.
func (res *Resolved) Matches(t *model.Track) bool {
	if _, ok := res.albums[t.Album]; ok {
		return true
	}
	if _, ok := res.artists[t.Artist]; ok {
		return true
	}
	if _, ok := res.genres[t.Genre]; ok {
		return true
	}
	_, ok := res.trackIDs[t.ID]
	return ok
}

func copySet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
