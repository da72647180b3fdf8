// Package playlist renders playlist files for the synced track set, so
// players without library browsing can play everything that was
// copied.
package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"portatune/internal/model"
)

// Format represents the supported playlist file formats.
type Format int

const (
	// FormatM3U creates .m3u files (most widely supported). Can be
	// extended with EXTINF lines carrying artist and title.
	FormatM3U Format = iota

	// FormatPLS creates .pls files (INI-style, Winamp lineage).
	FormatPLS
)

// ParseFormat maps a settings string to a Format, defaulting to M3U.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension for the format, including the
// dot.
func (f Format) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// Entry is one playlist line: a destination-relative path plus the
// track it holds.
type Entry struct {
	Path  string
	Track *model.Track
}

// Writer renders playlists in a fixed format.
type Writer struct {
	format   Format
	extended bool // for M3U: include EXTINF lines
}

// NewWriter creates a Writer. extended only affects M3U output.
func NewWriter(format Format, extended bool) *Writer {
	return &Writer{format: format, extended: extended}
}

// Render produces the playlist content for the given entries, ready to
// be written next to the synced files. Paths are emitted with forward
// slashes, which every player in the wild accepts.
func (w *Writer) Render(entries []Entry) string {
	if w.format == FormatPLS {
		return w.renderPLS(entries)
	}
	return w.renderM3U(entries)
}

func (w *Writer) renderM3U(entries []Entry) string {
	var sb strings.Builder

	if w.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if w.extended && e.Track != nil {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", e.Track))
		}
		sb.WriteString(filepath.ToSlash(e.Path) + "\n")
	}
	return sb.String()
}

func (w *Writer) renderPLS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.ToSlash(e.Path)))
		if e.Track != nil {
			sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.Track))
		}
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}
	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")
	return sb.String()
}
