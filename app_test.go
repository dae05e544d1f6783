package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsdinok/rekordscratch/internal/config"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/state"
	"github.com/itsdinok/rekordscratch/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := &config.Config{
		SourceRoot:     filepath.Join(base, "usb"),
		DesktopPath:    filepath.Join(base, "Desktop"),
		PlaylistsPath:  filepath.Join(base, "Playlists"),
		CratesRoot:     config.DefaultCratesRoot,
		UnsortedDir:    config.DefaultUnsortedDir,
		UnknownGenre:   config.DefaultUnknownGenre,
		ReviewFile:     filepath.Join(base, config.DefaultReviewFile),
		Markers:        config.DefaultMarkers,
		PollIntervalMS: 5,
		LogLevel:       "debug",
	}
	for _, dir := range []string{cfg.SourceRoot, cfg.DesktopPath, cfg.PlaylistsPath} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return cfg
}

func TestRunHeadless(t *testing.T) {
	cfg := testConfig(t)
	testutil.WriteManifest(t, cfg.PlaylistsPath, "House.txt", testutil.Row("Song A"))
	testutil.WriteMP3(t, cfg.SourceRoot, "Song A.mp3", nil)
	testutil.WriteMP3(t, cfg.SourceRoot, "Unknown.mp3", &testutil.MP3Tags{Genre: "Techno"})

	var buf bytes.Buffer
	logger := newLogger(&buf, cfg.LogLevel)
	ctrl := newController(cfg, nil, logger)
	bootstrap(ctrl, cfg, "", nil, logger)

	require.NoError(t, runHeadless(context.Background(), ctrl, logger, cfg.PollInterval()))

	snap := ctrl.State().Snapshot()
	assert.Equal(t, progress.Done, snap.Phase)
	assert.Equal(t, 1, snap.Matched)
	assert.Equal(t, 1, snap.Unmatched)

	crates := filepath.Join(cfg.DesktopPath, cfg.CratesRoot)
	assert.FileExists(t, filepath.Join(crates, "House", "Song A.mp3"))
	assert.FileExists(t, filepath.Join(crates, cfg.UnsortedDir, "Techno", "Unknown.mp3"))

	review, err := os.ReadFile(cfg.ReviewFile)
	require.NoError(t, err)
	assert.Equal(t, "Unknown\n", string(review))

	assert.Contains(t, buf.String(), "1 tracks matched successfully")
}

func TestRunHeadless_NotReady(t *testing.T) {
	cfg := testConfig(t)
	cfg.SourceRoot = filepath.Join(t.TempDir(), "unplugged")

	var buf bytes.Buffer
	logger := newLogger(&buf, cfg.LogLevel)
	ctrl := newController(cfg, nil, logger)
	bootstrap(ctrl, cfg, "", nil, logger)

	err := runHeadless(context.Background(), ctrl, logger, cfg.PollInterval())
	require.ErrorIs(t, err, progress.ErrNotReady)
	assert.Contains(t, buf.String(), "cannot start run")
}

func TestRunHeadless_Failed(t *testing.T) {
	cfg := testConfig(t)
	// The crates root cannot be created under a regular file.
	desktop := filepath.Join(t.TempDir(), "desktop-file")
	require.NoError(t, os.WriteFile(desktop, []byte("x"), 0o600))
	cfg.DesktopPath = desktop

	logger := newLogger(&bytes.Buffer{}, cfg.LogLevel)
	ctrl := newController(cfg, nil, logger)
	bootstrap(ctrl, cfg, "", nil, logger)

	err := runHeadless(context.Background(), ctrl, logger, cfg.PollInterval())
	require.ErrorIs(t, err, errRunFailed)
	assert.Equal(t, progress.Failed, ctrl.State().Phase())
}

func TestBootstrap_RememberedPlaylists(t *testing.T) {
	cfg := testConfig(t)
	remembered := cfg.PlaylistsPath
	cfg.PlaylistsPath = ""

	path := filepath.Join(t.TempDir(), "state.db")
	mgr, err := state.OpenPath(path)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	require.NoError(t, mgr.SavePlaylistsPath(remembered))

	logger := newLogger(&bytes.Buffer{}, cfg.LogLevel)
	ctrl := newController(cfg, mgr, logger)
	bootstrap(ctrl, cfg, "", mgr, logger)
	ctrl.Wait()

	snap := ctrl.State().Snapshot()
	assert.Equal(t, remembered, snap.Playlists)
	assert.True(t, snap.Ready.Index)
}

func TestBootstrap_FlagOverridesConfig(t *testing.T) {
	cfg := testConfig(t)
	other := t.TempDir()

	logger := newLogger(&bytes.Buffer{}, cfg.LogLevel)
	ctrl := newController(cfg, nil, logger)
	bootstrap(ctrl, cfg, other, nil, logger)
	ctrl.Wait()

	assert.Equal(t, other, ctrl.State().Snapshot().Playlists)
}

func TestSourceFinder_Override(t *testing.T) {
	cfg := testConfig(t)

	root, err := sourceFinder(cfg)()
	require.NoError(t, err)
	assert.Equal(t, cfg.SourceRoot, root)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	cfg.SourceRoot = file
	_, err = sourceFinder(cfg)()
	assert.Error(t, err)
}

func TestDesktopFinder_Override(t *testing.T) {
	cfg := testConfig(t)
	got, err := desktopFinder(cfg)()
	require.NoError(t, err)
	assert.Equal(t, cfg.DesktopPath, got)
}

func TestLogSnapshot(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug")

	now := time.Now()
	prev := progress.Snapshot{Status: "Copying files..."}
	cur := progress.Snapshot{
		Status:      "Copying files...",
		CurrentFile: "Processing: a.mp3",
		Progress:    0.5,
		LastError:   "Failed to identify playlist for: a",
		ErrorAt:     now,
	}
	logSnapshot(logger, prev, cur)

	out := buf.String()
	assert.Contains(t, out, "Processing: a.mp3")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Failed to identify playlist for: a")
	assert.NotContains(t, out, "Copying files...")

	// Nothing changed: nothing logged.
	buf.Reset()
	logSnapshot(logger, cur, cur)
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
