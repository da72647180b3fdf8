package library

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"portatune/internal/model"
)

// locationPrefix is what the library XML prepends to every file path.
const locationPrefix = "file://localhost"

// Library is a read-only snapshot of one source music library.
//
// A Library is produced either by Open (parsing an XML library export)
// or by ScanFolder (walking a directory of audio files). Once built it
// never changes: Tracks and Playlists return the same data on every
// call, in document order.
//
// Example:
//
//	lib, err := library.Open("/Users/me/Music/Library.xml")
//	if err != nil {
//	    return err
//	}
//	for _, t := range lib.Tracks() {
//	    fmt.Printf("%s (%d bytes)\n", t, t.Size)
//	}
type Library struct {
	path           string
	musicFolder    string
	tracks         []*model.Track
	byPersistentID map[string]*model.Track
	playlists      []*model.Playlist
}

// Open parses an XML library export and returns the resulting Library.
//
// The document is a property list: a top-level dict whose "Tracks"
// entry maps numeric IDs to track dicts and whose "Playlists" entry is
// an array of playlist dicts. Track fields are decoded through an
// explicit field-name schema (see trackSchema); unknown fields are
// skipped, so exports from newer library versions parse cleanly.
//
// Returns an error if the file cannot be read or is not a well-formed
// library document.
func Open(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lib := &Library{
		path:           path,
		byPersistentID: make(map[string]*model.Track),
	}
	if err := lib.parse(xml.NewDecoder(f)); err != nil {
		return nil, fmt.Errorf("parse library %s: %w", path, err)
	}
	return lib, nil
}

// Path returns the location the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// MusicFolder returns the media folder recorded in the library export,
// empty for folder-scanned libraries.
func (l *Library) MusicFolder() string {
	return l.musicFolder
}

// Tracks returns every track in the library, in document order. The
// returned slice is shared; callers must not modify it.
func (l *Library) Tracks() []*model.Track {
	return l.tracks
}

// Playlists returns every playlist in the library, in document order.
func (l *Library) Playlists() []*model.Playlist {
	return l.playlists
}

// TrackByPersistentID resolves a track by its persistent identifier.
// Returns nil when the library has no such track.
func (l *Library) TrackByPersistentID(id string) *model.Track {
	return l.byPersistentID[id]
}

// Albums returns the distinct album names in the library, sorted
// case-insensitively. Intended for selection UIs.
func (l *Library) Albums() []string {
	return l.collect(func(t *model.Track) string { return t.Album })
}

// Artists returns the distinct artist names, sorted case-insensitively.
func (l *Library) Artists() []string {
	return l.collect(func(t *model.Track) string { return t.Artist })
}

// Genres returns the distinct genre names, sorted case-insensitively.
func (l *Library) Genres() []string {
	return l.collect(func(t *model.Track) string { return t.Genre })
}

// PlaylistNames returns the distinct playlist names, sorted
// case-insensitively. Includes the library's built-in playlists.
func (l *Library) PlaylistNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range l.playlists {
		if p.Name == "" {
			continue
		}
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	sortFold(names)
	return names
}

func (l *Library) collect(field func(*model.Track) string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, t := range l.tracks {
		v := field(t)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		items = append(items, v)
	}
	sortFold(items)
	return items
}

func sortFold(items []string) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i]) < strings.ToLower(items[j])
	})
}

func (l *Library) addTrack(t *model.Track) {
	l.tracks = append(l.tracks, t)
	if t.PersistentID != "" {
		l.byPersistentID[t.PersistentID] = t
	}
}

// trackSchema maps library field names to typed setters. Decoding
// walks the key/value pairs of a track dict and applies the setter for
// each known field; everything else is ignored.
var trackSchema = map[string]func(*model.Track, string){
	"Track ID":      func(t *model.Track, s string) { t.ID = atoi(s) },
	"Persistent ID": func(t *model.Track, s string) { t.PersistentID = s },
	"Name":          func(t *model.Track, s string) { t.Name = s },
	"Artist":        func(t *model.Track, s string) { t.Artist = s },
	"Album":         func(t *model.Track, s string) { t.Album = s },
	"Genre":         func(t *model.Track, s string) { t.Genre = s },
	"Size":          func(t *model.Track, s string) { t.Size = atoi64(s) },
	"Location":      func(t *model.Track, s string) { t.Location = cleanLocation(s) },
}

func (l *Library) parse(dec *xml.Decoder) error {
	root, err := nextElement(dec)
	if err != nil {
		return err
	}
	if root.Name.Local != "plist" {
		return fmt.Errorf("expected <plist> root, found <%s>", root.Name.Local)
	}
	top, err := nextElement(dec)
	if err != nil {
		return err
	}
	if top.Name.Local != "dict" {
		return fmt.Errorf("expected top-level <dict>, found <%s>", top.Name.Local)
	}

	return forEachKey(dec, func(key string, value xml.StartElement) error {
		switch key {
		case "Music Folder":
			s, err := readText(dec)
			if err != nil {
				return err
			}
			l.musicFolder = cleanLocation(s)
			return nil
		case "Tracks":
			return l.parseTracks(dec, value)
		case "Playlists":
			return l.parsePlaylists(dec, value)
		default:
			return dec.Skip()
		}
	})
}

func (l *Library) parseTracks(dec *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local != "dict" {
		return fmt.Errorf("expected Tracks <dict>, found <%s>", start.Name.Local)
	}
	return forEachKey(dec, func(_ string, value xml.StartElement) error {
		if value.Name.Local != "dict" {
			return dec.Skip()
		}
		t := &model.Track{}
		err := forEachKey(dec, func(field string, v xml.StartElement) error {
			if v.Name.Local == "dict" || v.Name.Local == "array" {
				return dec.Skip()
			}
			s, err := readText(dec)
			if err != nil {
				return err
			}
			if set, ok := trackSchema[field]; ok {
				set(t, s)
			}
			return nil
		})
		if err != nil {
			return err
		}
		l.addTrack(t)
		return nil
	})
}

func (l *Library) parsePlaylists(dec *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local != "array" {
		return fmt.Errorf("expected Playlists <array>, found <%s>", start.Name.Local)
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "dict" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			p, err := parsePlaylist(dec)
			if err != nil {
				return err
			}
			l.playlists = append(l.playlists, p)
		case xml.EndElement:
			return nil
		}
	}
}

func parsePlaylist(dec *xml.Decoder) (*model.Playlist, error) {
	p := &model.Playlist{Visible: true}
	err := forEachKey(dec, func(field string, value xml.StartElement) error {
		switch field {
		case "Name":
			s, err := readText(dec)
			if err != nil {
				return err
			}
			p.Name = s
			return nil
		case "Playlist Persistent ID":
			s, err := readText(dec)
			if err != nil {
				return err
			}
			p.PersistentID = s
			return nil
		case "Master":
			p.Master = true
			return dec.Skip()
		case "Smart Info":
			p.Smart = true
			return dec.Skip()
		case "Visible":
			// The key only appears on hidden playlists.
			p.Visible = false
			return dec.Skip()
		case "Playlist Items":
			return parsePlaylistItems(dec, value, p)
		default:
			return dec.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parsePlaylistItems(dec *xml.Decoder, start xml.StartElement, p *model.Playlist) error {
	if start.Name.Local != "array" {
		return dec.Skip()
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "dict" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			err := forEachKey(dec, func(field string, _ xml.StartElement) error {
				if field != "Track ID" {
					return dec.Skip()
				}
				s, err := readText(dec)
				if err != nil {
					return err
				}
				p.TrackIDs = append(p.TrackIDs, atoi(s))
				return nil
			})
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// forEachKey iterates the key/value pairs of a dict whose start element
// has already been consumed. fn receives the key text and the value's
// start element and must consume the value completely (readText or
// dec.Skip). Returns when the dict's end element is reached.
func forEachKey(dec *xml.Decoder, fn func(key string, value xml.StartElement) error) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "key" {
				return fmt.Errorf("expected <key>, found <%s>", t.Name.Local)
			}
			key, err := readText(dec)
			if err != nil {
				return err
			}
			value, err := nextElement(dec)
			if err != nil {
				return err
			}
			if err := fn(key, value); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// nextElement advances to the next start element, skipping character
// data and comments.
func nextElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return xml.StartElement{}, io.ErrUnexpectedEOF
		}
	}
}

// readText consumes character data up to and including the current
// element's end tag.
func readText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", err
			}
		}
	}
}

// cleanLocation turns the escaped file URLs used in library exports
// into plain filesystem paths.
func cleanLocation(loc string) string {
	loc = strings.TrimPrefix(loc, locationPrefix)
	if unescaped, err := url.PathUnescape(loc); err == nil {
		return unescaped
	}
	return loc
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
