package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsdinok/rekordscratch/internal/errmsg"
	"github.com/itsdinok/rekordscratch/internal/manifest"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/state"
	"github.com/itsdinok/rekordscratch/internal/volume"
)

var (
	// ErrIndexBuilding is returned by BuildIndex while a build is running.
	ErrIndexBuilding = errors.New("track index build already running")
	// ErrNoPlaylists is returned by BuildIndex when no playlists directory is set.
	ErrNoPlaylists = errors.New("no playlists directory set")
)

// RunRecorder stores finished runs. state.Manager implements it.
type RunRecorder interface {
	RecordRun(r state.Run) error
}

// PathSaver remembers the playlists directory. state.Manager implements it.
type PathSaver interface {
	SavePlaylistsPath(path string) error
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	State        *progress.State
	Orchestrator *Orchestrator
	// FindSource returns the source root; an error means no drive.
	FindSource func() (string, error)
	// FindDesktop returns the desktop path.
	FindDesktop func() (string, error)
	// History and Paths are optional.
	History RunRecorder
	Paths   PathSaver
	Logger  *log.Logger
}

// Controller owns the background workers and the rules gating them: at most
// one index build and one copy run at a time, and a run only from the Ready
// phase.
type Controller struct {
	cfg    ControllerConfig
	logger *log.Logger

	mu    sync.Mutex
	index *manifest.Index

	building atomic.Bool
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewController creates a Controller.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Orchestrator == nil {
		cfg.Orchestrator = NewOrchestrator(Options{Logger: logger})
	}
	return &Controller{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// State returns the shared state.
func (c *Controller) State() *progress.State {
	return c.cfg.State
}

// Scan looks for the source drive and updates the drive flag.
func (c *Controller) Scan() (string, error) {
	st := c.cfg.State
	root, err := c.cfg.FindSource()
	if err == nil && root == "" {
		err = volume.ErrNoDrive
	}
	if err != nil {
		st.SetDrive("")
		if errors.Is(err, volume.ErrNoDrive) {
			st.SetError("No drive detected.")
		} else {
			st.SetError(errmsg.Format(errmsg.OpDriveDetect, err))
		}
		c.logger.Warn("no source drive", "err", err)
		return "", err
	}
	st.SetDrive(root)
	st.SetStatus("Drive detected.")
	c.logger.Info("source drive", "root", root)
	return root, nil
}

// DetectDesktop resolves the desktop path and updates the desktop flag.
func (c *Controller) DetectDesktop() (string, error) {
	st := c.cfg.State
	path, err := c.cfg.FindDesktop()
	if err != nil || path == "" {
		st.SetDesktop("")
		if err == nil {
			err = errors.New("no desktop directory")
		}
		st.SetError(errmsg.Format(errmsg.OpDesktopDetect, err))
		c.logger.Error("desktop", "err", err)
		return "", err
	}
	st.SetDesktop(path)
	return path, nil
}

// SetPlaylistsPath sets the manifest directory and starts building the
// title index from it. An empty path clears the playlists flag.
func (c *Controller) SetPlaylistsPath(path string) error {
	st := c.cfg.State
	if path == "" {
		st.SetPlaylists("")
		return nil
	}

	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		err = errors.New("not a directory")
	}
	if err != nil {
		st.SetError(errmsg.FormatWith(errmsg.OpPlaylistsSet, path, err))
		c.logger.Warn("playlists path", "path", path, "err", err)
		return err
	}

	st.SetPlaylists(path)
	if c.cfg.Paths != nil {
		if err := c.cfg.Paths.SavePlaylistsPath(path); err != nil {
			c.logger.Warn("remember playlists path", "err", err)
		}
	}
	// A running build picks up the new directory when it finishes.
	if err := c.BuildIndex(); err != nil && !errors.Is(err, ErrIndexBuilding) {
		return err
	}
	return nil
}

// BuildIndex starts building the title index in the background. It does
// nothing if the index for the current playlists directory is already
// built, and fails with ErrIndexBuilding while a build is running.
//
// The new index replaces the previous one only once complete, so a run
// in progress keeps classifying against the index it started with.
func (c *Controller) BuildIndex() error {
	snap := c.cfg.State.Snapshot()
	if snap.Playlists == "" {
		return ErrNoPlaylists
	}
	if snap.Ready.Index {
		return nil
	}
	if !c.building.CompareAndSwap(false, true) {
		return ErrIndexBuilding
	}

	dir := snap.Playlists
	c.wg.Go(func() {
		c.buildLoop(dir)
	})
	return nil
}

// buildLoop builds the index for dir and then, if the playlists directory
// changed meanwhile, for the new one. It owns the building flag on entry.
func (c *Controller) buildLoop(dir string) {
	for {
		c.buildIndex(dir)
		c.building.Store(false)

		next := c.cfg.State.Snapshot().Playlists
		if next == "" || next == dir || !c.building.CompareAndSwap(false, true) {
			return
		}
		dir = next
	}
}

func (c *Controller) buildIndex(dir string) {
	st := c.cfg.State
	st.SetStatus("Building track index")

	idx := manifest.NewIndex()
	n, err := manifest.Build(dir, idx)
	if err != nil {
		st.SetError(errmsg.Format(errmsg.OpIndexBuild, err))
		c.logger.Error("index build", "dir", dir, "err", err)
		return
	}

	// The directory may have changed while building. The index is swapped
	// under mu so that a run started on the new flag sees the new index.
	c.mu.Lock()
	current := st.SetIndexBuiltFor(dir)
	if current {
		c.index = idx
	}
	c.mu.Unlock()
	if !current {
		c.logger.Debug("discarding stale index", "dir", dir)
		return
	}

	st.SetStatus(fmt.Sprintf("Track index built: %d titles from %d playlists.", idx.Len(), n))
	c.logger.Info("index built", "dir", dir, "playlists", n, "titles", idx.Len())
}

// Index returns the last built title index, or nil.
func (c *Controller) Index() *manifest.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// StartRun starts a copy run in the background. It fails with
// progress.ErrNotReady unless every readiness flag is set, and with
// progress.ErrBusy while another run is active.
func (c *Controller) StartRun() error {
	st := c.cfg.State
	if err := st.BeginRun(); err != nil {
		if errors.Is(err, progress.ErrNotReady) {
			st.SetError("Launch flags incomplete!")
		} else {
			st.SetError(errmsg.Format(errmsg.OpRunStart, err))
		}
		return err
	}

	snap := st.Snapshot()
	idx := c.Index()
	st.SetStatus("Copying files...")
	st.SetError("")

	c.wg.Go(func() {
		c.run(idx, snap.SourceRoot, snap.DesktopPath)
	})
	return nil
}

func (c *Controller) run(idx *manifest.Index, source, desktop string) {
	st := c.cfg.State
	started := c.now()

	if idx == nil {
		idx = manifest.NewIndex()
	}
	stats, err := c.cfg.Orchestrator.Run(idx, source, desktop, st)
	st.EndRun(err)
	if err == nil {
		st.SetStatus(st.Snapshot().Status + " All files copied over!")
	}

	if c.cfg.History == nil {
		return
	}
	rec := state.Run{
		StartedAt:  started,
		FinishedAt: c.now(),
		SourceRoot: source,
	}
	if stats != nil {
		rec.CratesRoot = stats.CratesRoot
		rec.Total = stats.Total
		rec.Matched = stats.Matched
		rec.Unmatched = stats.Unmatched
		rec.Bytes = stats.Bytes
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if err := c.cfg.History.RecordRun(rec); err != nil {
		st.SetError(errmsg.Format(errmsg.OpHistoryRecord, err))
		c.logger.Warn("run history", "err", err)
	}
}

// Wait blocks until every background worker started so far has exited.
func (c *Controller) Wait() {
	c.wg.Wait()
}
