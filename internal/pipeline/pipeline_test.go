package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsdinok/rekordscratch/internal/classify"
	"github.com/itsdinok/rekordscratch/internal/crates"
	"github.com/itsdinok/rekordscratch/internal/manifest"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/tags"
	"github.com/itsdinok/rekordscratch/internal/testutil"
)

// recordingSink captures everything the pipeline reports.
type recordingSink struct {
	mu       sync.Mutex
	progress []float64
	files    []string
	statuses []string
	errors   []string
	matched  int
	unmatch  int
}

func (s *recordingSink) SetProgress(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, f)
}

func (s *recordingSink) SetCurrentFile(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, desc)
}

func (s *recordingSink) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, msg)
}

func (s *recordingSink) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

func (s *recordingSink) SetCounts(matched, unmatched int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matched = matched
	s.unmatch = unmatched
}

type fixture struct {
	source    string
	desktop   string
	playlists string
	review    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		source:    filepath.Join(base, "usb"),
		desktop:   filepath.Join(base, "Desktop"),
		playlists: filepath.Join(base, "Playlists"),
		review:    filepath.Join(base, DefaultReviewFile),
	}
	for _, dir := range []string{f.source, f.desktop, f.playlists} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return f
}

func (f fixture) index(t *testing.T) *manifest.Index {
	t.Helper()
	idx := manifest.NewIndex()
	_, err := manifest.Build(f.playlists, idx)
	require.NoError(t, err)
	return idx
}

func (f fixture) orchestrator() *Orchestrator {
	return NewOrchestrator(Options{ReviewPath: f.review})
}

func TestRun_EndToEnd(t *testing.T) {
	f := newFixture(t)
	testutil.WriteManifest(t, f.playlists, "House.txt", testutil.Row("Song A"))

	music := filepath.Join(f.source, "Contents", "Artist")
	testutil.WriteMP3(t, music, "01 tagged.mp3", &testutil.MP3Tags{Title: "Song A", Genre: "House"})
	testutil.WriteMP3(t, filepath.Join(music, "untagged"), "Song A.mp3", nil)
	testutil.WriteMP3(t, music, "Mystery.mp3", &testutil.MP3Tags{Title: "Not In Any Playlist", Genre: "Techno"})

	sink := &recordingSink{}
	stats, err := f.orchestrator().Run(f.index(t), f.source, f.desktop, sink)
	require.NoError(t, err)

	crateRoot := filepath.Join(f.desktop, crates.DefaultRootName)
	assert.Equal(t, crateRoot, stats.CratesRoot)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)
	assert.Equal(t, []string{"Mystery"}, stats.Unsorted)
	assert.Zero(t, stats.CopyFailures)
	assert.Positive(t, stats.Bytes)

	assert.FileExists(t, filepath.Join(crateRoot, "House", "01 tagged.mp3"))
	assert.FileExists(t, filepath.Join(crateRoot, "House", "Song A.mp3"))
	assert.FileExists(t, filepath.Join(crateRoot, crates.DefaultUnsortedName, "Techno", "Mystery.mp3"))

	review, err := os.ReadFile(f.review)
	require.NoError(t, err)
	assert.Equal(t, "Mystery\n", string(review))
	assert.Equal(t, f.review, stats.ReviewPath)

	assert.Equal(t, 2, sink.matched)
	assert.Equal(t, 1, sink.unmatch)
	assert.Contains(t, sink.errors, "Failed to identify playlist for: Mystery")
	assert.Contains(t, sink.errors, "1 tracks not matched.")
	require.NotEmpty(t, sink.statuses)
	assert.True(t, strings.HasPrefix(sink.statuses[len(sink.statuses)-1], "2 tracks matched successfully"))
}

func TestRun_ProgressMonotonic(t *testing.T) {
	f := newFixture(t)
	testutil.WriteManifest(t, f.playlists, "Deep.txt", testutil.Row("One"), testutil.Row("Two"))
	for _, name := range []string{"One.mp3", "Two.mp3", "Three.mp3", "Four.mp3", "Five.mp3"} {
		testutil.WriteMP3(t, f.source, name, nil)
	}

	sink := &recordingSink{}
	_, err := f.orchestrator().Run(f.index(t), f.source, f.desktop, sink)
	require.NoError(t, err)

	require.Len(t, sink.progress, 5)
	ones := 0
	for i, p := range sink.progress {
		if i > 0 {
			assert.GreaterOrEqual(t, p, sink.progress[i-1], "progress went backwards at %d", i)
		}
		if p == 1.0 {
			ones++
		}
	}
	assert.Equal(t, 1, ones)
	assert.Equal(t, 1.0, sink.progress[len(sink.progress)-1])
	assert.Len(t, sink.files, 5)
	for _, desc := range sink.files {
		assert.True(t, strings.HasPrefix(desc, "Processing: "), desc)
	}
}

func TestRun_NoFiles(t *testing.T) {
	f := newFixture(t)

	sink := &recordingSink{}
	stats, err := f.orchestrator().Run(manifest.NewIndex(), f.source, f.desktop, sink)
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Empty(t, sink.progress)
	assert.DirExists(t, filepath.Join(f.desktop, crates.DefaultRootName))

	review, err := os.ReadFile(f.review)
	require.NoError(t, err)
	assert.Empty(t, review)
}

func TestRun_CratesRootFailure(t *testing.T) {
	f := newFixture(t)
	testutil.WriteMP3(t, f.source, "Song.mp3", nil)

	// A regular file where the desktop should be.
	desktop := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(desktop, []byte("x"), 0o600))

	sink := &recordingSink{}
	stats, err := f.orchestrator().Run(manifest.NewIndex(), f.source, desktop, sink)
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Empty(t, sink.progress)
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "create crates folder")
	assert.NoFileExists(t, f.review)
}

func TestRun_CopyFailureFallsBackToUnsorted(t *testing.T) {
	f := newFixture(t)
	testutil.WriteManifest(t, f.playlists, "House.txt", testutil.Row("Song A"))
	testutil.WriteMP3(t, f.source, "Song A.mp3", nil)

	// Block the House crate with a regular file.
	root := filepath.Join(f.desktop, crates.DefaultRootName)
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "House"), []byte("x"), 0o600))

	sink := &recordingSink{}
	stats, err := f.orchestrator().Run(f.index(t), f.source, f.desktop, sink)
	require.NoError(t, err)

	assert.Zero(t, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)
	assert.Equal(t, 1, stats.CopyFailures)
	assert.Equal(t, []string{"Song A"}, stats.Unsorted)
	assert.FileExists(t, filepath.Join(root, crates.DefaultUnsortedName, "Unknown Genre", "Song A.mp3"))
}

func TestRun_TagReadFailureIsReported(t *testing.T) {
	f := newFixture(t)
	testutil.WriteMP3(t, f.source, "Broken.mp3", nil)
	path := filepath.Join(f.source, "Broken.mp3")

	var logs bytes.Buffer
	o := NewOrchestrator(Options{
		Classifier: classify.New(classify.WithTagReader(func(string) (*tags.Tag, error) {
			return nil, errors.New("corrupt ID3 frame")
		})),
		ReviewPath: f.review,
		Logger:     log.New(&logs),
	})
	sink := &recordingSink{}
	stats, err := o.Run(manifest.NewIndex(), f.source, f.desktop, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TagFailures)
	assert.Equal(t, 1, stats.Unmatched)
	assert.Equal(t, []string{
		"Failed to read tags '" + path + "': corrupt ID3 frame",
		"Failed to identify playlist for: Broken",
		"1 tracks not matched.",
	}, sink.errors)
	assert.Contains(t, logs.String(), "corrupt ID3 frame")
	assert.FileExists(t, filepath.Join(f.desktop, crates.DefaultRootName, crates.DefaultUnsortedName, "Unknown Genre", "Broken.mp3"))
}

func TestRun_AllMatchedResetsErrorLine(t *testing.T) {
	f := newFixture(t)
	testutil.WriteManifest(t, f.playlists, "House.txt", testutil.Row("Song A"))
	testutil.WriteMP3(t, f.source, "Song A.mp3", nil)

	st := progress.New()
	st.SetError("Failed to identify playlist for: earlier")
	stats, err := f.orchestrator().Run(f.index(t), f.source, f.desktop, st)
	require.NoError(t, err)

	assert.Zero(t, stats.Unmatched)
	assert.Equal(t, "0 tracks not matched.", st.Snapshot().LastError)
}

func TestRun_ReviewWriteFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	testutil.WriteMP3(t, f.source, "Lost.mp3", nil)

	o := NewOrchestrator(Options{ReviewPath: filepath.Join(t.TempDir(), "missing", "review.txt")})
	sink := &recordingSink{}
	stats, err := o.Run(manifest.NewIndex(), f.source, f.desktop, sink)
	require.NoError(t, err)

	assert.Empty(t, stats.ReviewPath)
	assert.Equal(t, 1, stats.Unmatched)
	found := false
	for _, msg := range sink.errors {
		if strings.Contains(msg, "write review file") {
			found = true
		}
	}
	assert.True(t, found, "review write error not reported: %v", sink.errors)
}

func TestEnumerate(t *testing.T) {
	root := t.TempDir()
	testutil.WriteMP3(t, root, "a.mp3", nil)
	testutil.WriteMP3(t, filepath.Join(root, "sub", "deeper"), "b.MP3", nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.flac"), []byte("x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.mp3"), 0o755))

	files := Enumerate(root)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.mp3"),
		filepath.Join(root, "sub", "deeper", "b.MP3"),
	}, files)
}

func TestEnumerate_MissingRoot(t *testing.T) {
	assert.Empty(t, Enumerate(filepath.Join(t.TempDir(), "gone")))
}

func TestWriteReview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.txt")
	require.NoError(t, os.WriteFile(path, []byte("old contents\n"), 0o600))

	require.NoError(t, WriteReview(path, []string{"one", "two"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}
