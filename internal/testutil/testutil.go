// Package testutil provides fixtures shared by package tests: tagged MP3
// files, playlist export files and helpers for inspecting rendered output.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/charmbracelet/x/ansi"
)

// MP3Tags describes the ID3 frames written by WriteMP3.
// Empty fields are not written.
type MP3Tags struct {
	Title  string
	Artist string
	Genre  string
}

// WriteMinimalMP3 writes a single MPEG1 Layer3 frame (128kbps, 44100Hz,
// stereo) with no tag to path.
func WriteMinimalMP3(t *testing.T, path string) {
	t.Helper()
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	mp3Frame[3] = 0x00

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for test MP3: %v", err)
	}
	if err := os.WriteFile(path, mp3Frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

// WriteMP3 writes a minimal MP3 at dir/name carrying the given ID3v2 frames
// and returns its path. A nil tags value leaves the file untagged.
func WriteMP3(t *testing.T, dir, name string, tags *MP3Tags) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteMinimalMP3(t, path)
	if tags == nil {
		return path
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to open MP3 for tagging: %v", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Genre != "" {
		tag.SetGenre(tags.Genre)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("failed to save ID3 tags: %v", err)
	}
	return path
}

// WriteManifest writes a playlist export at dir/name: a header line followed
// by one line per row, columns joined with tabs. Returns the file path.
func WriteManifest(t *testing.T, dir, name string, rows ...[]string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("#\tArtwork\tTrack Title\tArtist\tBPM\n")
	for _, row := range rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("failed to write manifest %s: %v", name, err)
	}
	return path
}

// Row builds a playlist export row with the given title in the third column.
func Row(title string) []string {
	return []string{"1", "", title, "Some Artist", "124.00"}
}

// StripANSI removes ANSI escape codes from a string for easier testing.
// This allows comparing rendered output without style interference.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsLine checks if any line in the output contains the given substring.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
