package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/itsdinok/rekordscratch/internal/classify"
	"github.com/itsdinok/rekordscratch/internal/config"
	"github.com/itsdinok/rekordscratch/internal/crates"
	"github.com/itsdinok/rekordscratch/internal/pipeline"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/state"
	"github.com/itsdinok/rekordscratch/internal/stderr"
	"github.com/itsdinok/rekordscratch/internal/ui"
	"github.com/itsdinok/rekordscratch/internal/volume"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, cmd)

	headless := cmd.Bool("headless")
	logger, closeLog, err := openLogger(cfg, headless)
	if err != nil {
		return err
	}
	defer closeLog()

	var stateMgr *state.Manager
	if m, err := state.Open(); err != nil {
		logger.Warn("state unavailable, run history disabled", "err", err)
	} else {
		stateMgr = m
		defer stateMgr.Close()
	}

	ctrl := newController(cfg, stateMgr, logger)
	bootstrap(ctrl, cfg, cmd.String("target"), stateMgr, logger)

	if headless {
		return runHeadless(ctx, ctrl, logger, cfg.PollInterval())
	}
	return runTUI(ctrl, logger, cfg.PollInterval())
}

// applyFlags lets command-line flags override configuration.
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if v := cmd.String("source"); v != "" {
		cfg.SourceRoot = v
	}
	if v := cmd.String("desktop"); v != "" {
		cfg.DesktopPath = v
	}
	if v := cmd.String("log-file"); v != "" {
		cfg.LogFile = v
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
}

// newLogger creates a logger writing to w.
func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// openLogger logs to stderr in headless mode and to the log file while the
// terminal UI owns the screen.
func openLogger(cfg *config.Config, headless bool) (*log.Logger, func(), error) {
	if headless {
		return newLogger(os.Stderr, cfg.LogLevel), func() {}, nil
	}
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, cfg.LogLevel), func() { f.Close() }, nil
}

func newController(cfg *config.Config, stateMgr *state.Manager, logger *log.Logger) *pipeline.Controller {
	orch := pipeline.NewOrchestrator(pipeline.Options{
		Classifier: classify.New(classify.WithUnknownGenre(cfg.UnknownGenre)),
		Copier:     crates.New(cfg.CratesRoot, cfg.UnsortedDir),
		ReviewPath: cfg.ReviewFile,
		Logger:     logger,
	})

	cc := pipeline.ControllerConfig{
		State:        progress.New(),
		Orchestrator: orch,
		FindSource:   sourceFinder(cfg),
		FindDesktop:  desktopFinder(cfg),
		Logger:       logger,
	}
	// A nil *state.Manager must not become a non-nil interface.
	if stateMgr != nil {
		cc.History = stateMgr
		cc.Paths = stateMgr
	}
	return pipeline.NewController(cc)
}

func sourceFinder(cfg *config.Config) func() (string, error) {
	if cfg.SourceRoot == "" {
		markers := cfg.Markers
		return func() (string, error) {
			return volume.FindSource(markers)
		}
	}
	root := cfg.SourceRoot
	return func() (string, error) {
		info, err := os.Stat(root)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s: not a directory", root)
		}
		return root, nil
	}
}

func desktopFinder(cfg *config.Config) func() (string, error) {
	if cfg.DesktopPath == "" {
		return volume.Desktop
	}
	path := cfg.DesktopPath
	return func() (string, error) {
		return path, nil
	}
}

// bootstrap resolves the readiness flags once at startup. The playlists
// folder comes from the flag, then the config, then the folder remembered
// from the last session, then ./Playlists.
func bootstrap(ctrl *pipeline.Controller, cfg *config.Config, flag string, stateMgr *state.Manager, logger *log.Logger) {
	ctrl.State().SetStatus("Scanning for drives...")
	_, _ = ctrl.Scan()
	_, _ = ctrl.DetectDesktop()

	configured := cfg.PlaylistsPath
	if configured == "" && stateMgr != nil {
		if p, err := stateMgr.GetPlaylistsPath(); err != nil {
			logger.Warn("remembered playlists path", "err", err)
		} else {
			configured = p
		}
	}
	if p := volume.PlaylistsPath(flag, configured); p != "" {
		_ = ctrl.SetPlaylistsPath(p)
	}
}

func runTUI(ctrl *pipeline.Controller, logger *log.Logger, interval time.Duration) error {
	restore, err := stderr.Capture(func(line string) {
		logger.Warn("stderr", "line", line)
	})
	if err != nil {
		logger.Warn("stderr capture unavailable", "err", err)
		restore = func() {}
	}

	p := tea.NewProgram(ui.New(ctrl, ui.Options{PollInterval: interval}), tea.WithAltScreen())
	_, err = p.Run()
	restore()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if ctrl.State().Phase() == progress.Running {
		fmt.Fprintln(os.Stderr, "Waiting for the copy run to finish...")
	}
	ctrl.Wait()
	return nil
}

// errRunFailed is returned by a headless run that stopped on a setup error.
var errRunFailed = errors.New("run failed")

// runHeadless waits for the index, performs one run and logs progress until
// it finishes.
func runHeadless(ctx context.Context, ctrl *pipeline.Controller, logger *log.Logger, interval time.Duration) error {
	ctrl.Wait()

	st := ctrl.State()
	if err := ctrl.StartRun(); err != nil {
		snap := st.Snapshot()
		logger.Error("cannot start run",
			"err", err,
			"drive", snap.Ready.Drive,
			"desktop", snap.Ready.Desktop,
			"playlists", snap.Ready.Playlists,
			"index", snap.Ready.Index,
			"lastError", snap.LastError)
		return fmt.Errorf("start run: %w", err)
	}

	done := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(done)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last progress.Snapshot
	for {
		select {
		case <-done:
			snap := st.Snapshot()
			logSnapshot(logger, last, snap)
			if snap.Phase == progress.Failed {
				return errRunFailed
			}
			return nil
		case <-ctx.Done():
			logger.Warn("interrupted, waiting for the current run to finish")
			<-done
			return ctx.Err()
		case <-ticker.C:
			snap := st.Snapshot()
			logSnapshot(logger, last, snap)
			last = snap
		}
	}
}

// logSnapshot logs what changed since the previous poll.
func logSnapshot(logger *log.Logger, prev, cur progress.Snapshot) {
	if cur.CurrentFile != "" && cur.CurrentFile != prev.CurrentFile {
		logger.Debug(cur.CurrentFile, "progress", fmt.Sprintf("%.1f%%", cur.Progress*100))
	}
	if cur.LastError != "" && (cur.LastError != prev.LastError || !cur.ErrorAt.Equal(prev.ErrorAt)) {
		logger.Warn(cur.LastError)
	}
	if cur.Status != prev.Status {
		logger.Info(cur.Status)
	}
}
