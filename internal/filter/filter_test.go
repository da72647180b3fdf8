package filter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portatune/internal/model"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "includes.json"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
	// The caller decides whether "no document yet" is recoverable, so
	// the not-exist error must stay detectable in the chain.
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist in the chain", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "includes.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestRules_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rules.json")

	r := NewRules()
	r.AddArtist("Alpha")
	r.AddArtist("Beta")
	r.AddGenre("Rock")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Empty groups must not appear in the document.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "albums") {
		t.Errorf("document contains empty group: %s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded.Artists["Alpha"]; !ok {
		t.Error("loaded rules missing artist Alpha")
	}
	if _, ok := loaded.Genres["Rock"]; !ok {
		t.Error("loaded rules missing genre Rock")
	}
	if len(loaded.Albums) != 0 || len(loaded.Playlists) != 0 {
		t.Error("loaded rules have entries in groups that were empty")
	}
}

func TestResolve_PlaylistMembership(t *testing.T) {
	playlists := []*model.Playlist{
		{Name: "Road Trip", TrackIDs: []int{101, 103}},
		{Name: "Other", TrackIDs: []int{102}},
	}

	r := NewRules()
	r.AddPlaylist("Road Trip")
	res := r.Resolve(playlists)

	tests := []struct {
		name  string
		track model.Track
		want  bool
	}{
		{"member by ID", model.Track{ID: 101}, true},
		{"other playlist", model.Track{ID: 102}, false},
		{"second member", model.Track{ID: 103}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.Matches(&tt.track); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_UnknownPlaylist(t *testing.T) {
	r := NewRules()
	r.AddPlaylist("No Such List")
	res := r.Resolve(nil)

	if res.Matches(&model.Track{ID: 1}) {
		t.Error("Matches() = true for a rule naming no existing playlist")
	}
}

func TestResolved_Matches(t *testing.T) {
	r := NewRules()
	r.AddAlbum("Album One")
	r.AddArtist("Alpha")
	r.AddGenre("Rock")
	res := r.Resolve(nil)

	tests := []struct {
		name  string
		track model.Track
		want  bool
	}{
		{"by album", model.Track{Album: "Album One"}, true},
		{"by artist", model.Track{Artist: "Alpha"}, true},
		{"by genre", model.Track{Genre: "Rock"}, true},
		{"no match", model.Track{Album: "Album Two", Artist: "Beta", Genre: "Jazz"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.Matches(&tt.track); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolved_EmptyMatchesNothing(t *testing.T) {
	res := NewRules().Resolve(nil)

	if res.Matches(&model.Track{ID: 1, Album: "X", Artist: "Y", Genre: "Z"}) {
		t.Error("empty rule set matched a track")
	}
}

func TestRules_Clear(t *testing.T) {
	r := NewRules()
	r.AddAlbum("A")
	r.AddPlaylist("P")
	r.Clear()

	if !r.Empty() {
		t.Error("Empty() = false after Clear")
	}
}
