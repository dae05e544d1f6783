// Package tags reads the tag fields used to route tracks into crates.
// Only the fields the classifier consults are extracted.
package tags

import (
	"path/filepath"
	"strings"
)

// ExtMP3 is the only extension the sorter picks up.
const ExtMP3 = ".mp3"

// Tag contains the tag metadata read from a music file.
// Fields are left empty when the file carries no value for them; in
// particular Title is never derived from the file name.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Genre  string
}

// HasTitle returns true if the tag yielded a non-empty title.
func (t *Tag) HasTitle() bool {
	return t != nil && t.Title != ""
}

// HasGenre returns true if the tag yielded a non-empty genre.
func (t *Tag) HasGenre() bool {
	return t != nil && strings.TrimSpace(t.Genre) != ""
}

// IsMP3 returns true if the path has an mp3 extension, in any letter case.
func IsMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ExtMP3)
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
