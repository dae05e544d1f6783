// Package manifest parses playlist export files and builds the title index
// used to route tracks into crates.
//
// An export is a tab-separated text file with a header line followed by one
// line per track; the third column holds the track title. The file name,
// extension included, identifies the bucket the titles belong to.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the extension of playlist export files, matched case-insensitively.
const Ext = ".txt"

// titleColumn is the zero-based column holding the track title.
const titleColumn = 2

const maxLineSize = 1024 * 1024

// Manifest is one parsed playlist export.
type Manifest struct {
	// SourceFileName is the export's base name including its extension.
	// The extension is stripped only when copying (see crates.FolderName).
	SourceFileName string
	// Titles in file order. Duplicates are kept.
	Titles []string
}

// IsManifest returns true if name has a txt extension, in any letter case.
func IsManifest(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}

// Parse reads the playlist export at path.
func Parse(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseReader(filepath.Base(path), f)
}

// ParseReader reads a playlist export named name from r.
//
// The first line is always discarded as a header. Every other line is split
// on tabs; lines without a title column are skipped silently, and the title
// is trimmed of surrounding whitespace.
func ParseReader(name string, r io.Reader) (*Manifest, error) {
	m := &Manifest{SourceFileName: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		if title, ok := titleField(scanner.Text()); ok {
			m.Titles = append(m.Titles, title)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return m, nil
}

// titleField extracts the title column from one export line.
// Lines with fewer than two fields carry no entry. A line with exactly two
// fields has no title column either and is skipped the same way.
func titleField(line string) (string, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) <= titleColumn {
		return "", false
	}
	return strings.TrimSpace(parts[titleColumn]), true
}

// Build parses every playlist export directly inside dir and merges its
// titles into idx. Subdirectories are not descended into.
//
// The first I/O error stops the build; exports merged before it stay in
// idx, the failing export contributes nothing. Returns the number of
// exports merged.
func Build(dir string, idx *Index) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read playlists dir: %w", err)
	}

	merged := 0
	for _, entry := range entries {
		if !IsManifest(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		// Stat rather than entry.Type() so symlinked exports are followed.
		info, err := os.Stat(path)
		if err != nil {
			return merged, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		m, err := Parse(path)
		if err != nil {
			return merged, err
		}
		idx.Merge(m)
		merged++
	}

	return merged, nil
}
