// Package classify decides which crate a track belongs to.
//
// Classification evaluates an ordered list of lookup strategies against the
// title index, stopping at the first one that has something to look up:
//
//  1. the tag title, when the file's tag yields one;
//  2. the file's name stem, only when no tag title could be read at all.
//
// A tag title that is missing from the index ends the chain: the name stem
// is not consulted. Tracks that no strategy matched fall back to a genre
// bucket in the unsorted area.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/itsdinok/rekordscratch/internal/tags"
)

// DefaultUnknownGenre is the genre bucket used when a track has no genre.
const DefaultUnknownGenre = "Unknown Genre"

// Kind identifies how a track was classified.
type Kind int

const (
	Unmatched Kind = iota
	MatchedByTitle
	MatchedByFilename
)

func (k Kind) String() string {
	switch k {
	case MatchedByTitle:
		return "title"
	case MatchedByFilename:
		return "filename"
	default:
		return "unmatched"
	}
}

// Result is the outcome of classifying one track.
type Result struct {
	Kind Kind
	// Bucket is the manifest file name for matches, or the genre for
	// unmatched tracks. It is never empty for unmatched tracks.
	Bucket string
	// Stem is the file name without extension; recorded for review when
	// the track is unmatched.
	Stem string
	// Title is the tag title, empty when none could be read.
	Title string
	// Genre is the tag genre, or the unknown-genre bucket. Always set, so a
	// matched track whose copy fails can still be placed in the unsorted
	// area.
	Genre string
	// Reason explains an unmatched result.
	Reason string
	// TagErr is set when the file's tag could not be read.
	TagErr error
}

// Matched returns true if a playlist bucket was found.
func (r Result) Matched() bool {
	return r.Kind != Unmatched
}

// Lookup resolves a title to a bucket. manifest.Index implements it.
type Lookup interface {
	Lookup(title string) (string, bool)
}

// TagReader reads tag metadata from a file.
type TagReader func(path string) (*tags.Tag, error)

// AudioFile is one track being classified.
type AudioFile struct {
	Path string
	Stem string
	// Tag is nil when the tag could not be read.
	Tag    *tags.Tag
	TagErr error
}

// NewAudioFile reads path's tag with read.
func NewAudioFile(path string, read TagReader) *AudioFile {
	f := &AudioFile{Path: path, Stem: Stem(path)}
	f.Tag, f.TagErr = read(path)
	if f.TagErr != nil {
		f.Tag = nil
	}
	return f
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTagReader replaces the tag reader (tags.Read by default).
func WithTagReader(r TagReader) Option {
	return func(c *Classifier) {
		c.readTags = r
	}
}

// WithUnknownGenre sets the bucket for tracks without a genre.
// Blank values are ignored.
func WithUnknownGenre(genre string) Option {
	return func(c *Classifier) {
		if strings.TrimSpace(genre) != "" {
			c.unknownGenre = genre
		}
	}
}

// Classifier classifies tracks against a title index. It holds no
// per-track state and may be shared.
type Classifier struct {
	readTags     TagReader
	unknownGenre string
	strategies   []strategy
}

// New creates a Classifier with the title-then-filename strategy order.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		readTags:     tags.Read,
		unknownGenre: DefaultUnknownGenre,
		strategies:   defaultStrategies(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify reads path's tag and classifies it against idx.
func (c *Classifier) Classify(path string, idx Lookup) Result {
	return c.ClassifyFile(NewAudioFile(path, c.readTags), idx)
}

// ClassifyFile classifies an already-read track against idx.
func (c *Classifier) ClassifyFile(f *AudioFile, idx Lookup) Result {
	title := ""
	if f.Tag.HasTitle() {
		title = f.Tag.Title
	}

	reason := ""
	for _, s := range c.strategies {
		key, ok := s.key(f)
		if !ok {
			continue
		}
		if bucket, hit := idx.Lookup(key); hit {
			return Result{Kind: s.kind, Bucket: bucket, Stem: f.Stem, Title: title, Genre: c.genre(f), TagErr: f.TagErr}
		}
		reason = s.missReason
		break
	}

	genre := c.genre(f)
	return Result{
		Kind:   Unmatched,
		Bucket: genre,
		Stem:   f.Stem,
		Title:  title,
		Genre:  genre,
		Reason: reason,
		TagErr: f.TagErr,
	}
}

func (c *Classifier) genre(f *AudioFile) string {
	if f.Tag.HasGenre() {
		return f.Tag.Genre
	}
	return c.unknownGenre
}
