package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"portatune/internal/space"
)

// ErrBadDestination reports a destination path that does not exist or
// is not a directory. The caller should re-prompt for a valid one.
var ErrBadDestination = errors.New("destination is not a directory")

// ErrInvalidConfig reports a settings document that exists but cannot
// be parsed.
var ErrInvalidConfig = errors.New("invalid settings document")

// DirName is the directory on the destination volume that holds the
// per-volume settings, filter and state documents.
const DirName = ".portatune"

// Settings holds the per-destination configuration.
//
// Settings live on the destination volume itself, so each device
// carries its own sync policy. The destination path is never part of
// the document; it is where the document was found.
type Settings struct {
	// LibraryPath locates the source library: an XML export, or a
	// directory to scan when it points at one.
	LibraryPath string `json:"library_path"`

	// UseSubfolders spreads copies over numbered subfolders.
	UseSubfolders bool `json:"use_subfolders"`

	// MaxFileCount is the visible-file limit per subfolder.
	MaxFileCount int `json:"max_file_count"`

	// RandomFill tops the plan up with random unfiltered tracks.
	RandomFill bool `json:"random_fill"`

	// CreatePlaylist writes a playlist of the synced set at the
	// destination root after each run.
	CreatePlaylist bool `json:"create_playlist"`

	// PlaylistFormat is "m3u" or "pls".
	PlaylistFormat string `json:"playlist_format"`

	// ReserveBytes is the headroom left free on the volume. Zero means
	// the default (5 MiB).
	ReserveBytes int64 `json:"reserve_bytes"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		MaxFileCount:   100,
		PlaylistFormat: "m3u",
		ReserveBytes:   space.DefaultReserve,
	}
}

// ValidateDestination checks that the destination is an existing
// directory. Returns an error wrapping ErrBadDestination otherwise.
func ValidateDestination(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadDestination, dest)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBadDestination, dest)
	}
	return nil
}

// Dir returns the settings directory for a destination volume.
func Dir(dest string) string {
	return filepath.Join(dest, DirName)
}

// SettingsPath returns the settings document path for a destination.
func SettingsPath(dest string) string {
	return filepath.Join(Dir(dest), "config.json")
}

// StatePath returns the destination state document path.
func StatePath(dest string) string {
	return filepath.Join(Dir(dest), "state.json")
}

// IncludesPath returns the include rule document path.
func IncludesPath(dest string) string {
	return filepath.Join(Dir(dest), "includes.json")
}

// ExcludesPath returns the exclude rule document path.
func ExcludesPath(dest string) string {
	return filepath.Join(Dir(dest), "excludes.json")
}

// Load reads settings from a JSON document. A missing file yields the
// defaults; malformed content returns an error wrapping
// ErrInvalidConfig.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return settings, nil
}

// Save writes the settings to a JSON document, creating the settings
// directory as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
