package playlist

import (
	"strings"
	"testing"

	"portatune/internal/model"
)

func testEntries() []Entry {
	return []Entry{
		{Path: "0/one.mp3", Track: &model.Track{Artist: "Alpha", Name: "One"}},
		{Path: "0/two.mp3", Track: &model.Track{Artist: "Beta", Name: "Two"}},
	}
}

func TestWriter_M3U(t *testing.T) {
	content := NewWriter(FormatM3U, false).Render(testEntries())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not carry the extended header")
	}
	if !strings.Contains(content, "0/one.mp3\n") {
		t.Errorf("M3U missing entry path:\n%s", content)
	}
	if !strings.Contains(content, "0/two.mp3\n") {
		t.Errorf("M3U missing entry path:\n%s", content)
	}
}

func TestWriter_M3UExtended(t *testing.T) {
	content := NewWriter(FormatM3U, true).Render(testEntries())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Alpha - One\n") {
		t.Errorf("extended M3U missing EXTINF line:\n%s", content)
	}
}

func TestWriter_PLS(t *testing.T) {
	content := NewWriter(FormatPLS, false).Render(testEntries())

	if !strings.HasPrefix(content, "[playlist]\n") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=0/one.mp3\n") {
		t.Errorf("PLS missing File1:\n%s", content)
	}
	if !strings.Contains(content, "Title2=Beta - Two\n") {
		t.Errorf("PLS missing Title2:\n%s", content)
	}
	if !strings.Contains(content, "NumberOfEntries=2\n") {
		t.Errorf("PLS missing entry count:\n%s", content)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"pls", FormatPLS},
		{"PLS", FormatPLS},
		{"m3u", FormatM3U},
		{"", FormatM3U},
		{"unknown", FormatM3U},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	if got := FormatM3U.Extension(); got != ".m3u" {
		t.Errorf("Extension() = %q, want .m3u", got)
	}
	if got := FormatPLS.Extension(); got != ".pls" {
		t.Errorf("Extension() = %q, want .pls", got)
	}
}
