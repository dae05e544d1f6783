// Package progress holds the shared, mutable status of the application:
// readiness flags, the run phase, the progress of the active run and the
// latest status and error text.
//
// One State is created at startup and shared by the component owning the
// active phase (scan, index build, copy run) and an observer that polls
// Snapshot on a fixed interval. Every method holds the lock for a single
// field update; callers never hold it across I/O.
package progress

import (
	"errors"
	"sync"
	"time"
)

// Phase is the run lifecycle.
type Phase int

const (
	// Idle: at least one readiness flag is unset.
	Idle Phase = iota
	// Ready: every readiness flag is set and no run is active.
	Ready
	// Running: a copy run is in progress.
	Running
	// Done: the last run completed.
	Done
	// Failed: the last run stopped on a fatal setup error.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

var (
	// ErrNotReady is returned by BeginRun when a readiness flag is unset.
	ErrNotReady = errors.New("launch flags incomplete")
	// ErrBusy is returned by BeginRun while a run is active.
	ErrBusy = errors.New("a run is already in progress")
)

// Readiness holds the flags gating the start of a run.
type Readiness struct {
	Drive     bool
	Desktop   bool
	Playlists bool
	Index     bool
}

// All returns true when every flag is set.
func (r Readiness) All() bool {
	return r.Drive && r.Desktop && r.Playlists && r.Index
}

// Snapshot is a copy of the state at one instant.
type Snapshot struct {
	Phase       Phase
	Ready       Readiness
	Progress    float64 // 0.0 - 1.0
	CurrentFile string
	Status      string
	// LastError is empty when no error is shown.
	LastError   string
	ErrorAt     time.Time
	Matched     int
	Unmatched   int
	SourceRoot  string
	DesktopPath string
	Playlists   string
}

// HasError returns true if an error message is set.
func (s Snapshot) HasError() bool {
	return s.LastError != ""
}

// Sink receives progress from the pipeline.
type Sink interface {
	SetProgress(fraction float64)
	SetCurrentFile(desc string)
	SetStatus(msg string)
	SetError(msg string)
	SetCounts(matched, unmatched int)
}

// State is the shared state holder. The zero value is not usable; use New.
type State struct {
	mu  sync.Mutex
	s   Snapshot
	now func() time.Time
}

var _ Sink = (*State)(nil)

// New returns a State in phase Idle with the status "Starting...".
func New() *State {
	return &State{
		s:   Snapshot{Status: "Starting..."},
		now: time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (st *State) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Phase returns the current phase.
func (st *State) Phase() Phase {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Phase
}

// SetProgress sets the fractional progress, clamped to [0, 1].
func (st *State) SetProgress(fraction float64) {
	fraction = min(max(fraction, 0), 1)
	st.mu.Lock()
	st.s.Progress = fraction
	st.mu.Unlock()
}

// SetCurrentFile sets the description of the file being processed.
func (st *State) SetCurrentFile(desc string) {
	st.mu.Lock()
	st.s.CurrentFile = desc
	st.mu.Unlock()
}

// SetStatus sets the human status line.
func (st *State) SetStatus(msg string) {
	st.mu.Lock()
	st.s.Status = msg
	st.mu.Unlock()
}

// SetError sets the last-error line. An empty message clears it.
func (st *State) SetError(msg string) {
	st.mu.Lock()
	st.s.LastError = msg
	st.s.ErrorAt = st.now()
	st.mu.Unlock()
}

// ClearErrorOlderThan clears the last-error line if it was set more than
// age ago. Returns true if it was cleared.
func (st *State) ClearErrorOlderThan(age time.Duration) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.LastError == "" || st.now().Sub(st.s.ErrorAt) < age {
		return false
	}
	st.s.LastError = ""
	return true
}

// SetCounts publishes the matched and unmatched counters.
func (st *State) SetCounts(matched, unmatched int) {
	st.mu.Lock()
	st.s.Matched = matched
	st.s.Unmatched = unmatched
	st.mu.Unlock()
}

// SetDrive records the detected source root; an empty root clears the flag.
func (st *State) SetDrive(root string) {
	st.update(func(s *Snapshot) {
		s.SourceRoot = root
		s.Ready.Drive = root != ""
	})
}

// SetDesktop records the desktop path; an empty path clears the flag.
func (st *State) SetDesktop(path string) {
	st.update(func(s *Snapshot) {
		s.DesktopPath = path
		s.Ready.Desktop = path != ""
	})
}

// SetPlaylists records the manifest directory; an empty path clears the
// flag. Changing the directory invalidates a previously built index.
func (st *State) SetPlaylists(path string) {
	st.update(func(s *Snapshot) {
		if path != s.Playlists {
			s.Ready.Index = false
		}
		s.Playlists = path
		s.Ready.Playlists = path != ""
	})
}

// SetIndexBuilt sets or clears the index-built flag.
func (st *State) SetIndexBuilt(built bool) {
	st.update(func(s *Snapshot) {
		s.Ready.Index = built
	})
}

// SetIndexBuiltFor sets the index-built flag only if dir is still the
// playlists directory. It reports whether the flag was set.
func (st *State) SetIndexBuiltFor(dir string) bool {
	built := false
	st.update(func(s *Snapshot) {
		if s.Playlists == dir && dir != "" {
			s.Ready.Index = true
			built = true
		}
	})
	return built
}

// BeginRun moves the state from Ready to Running. It is the only way into
// Running, so a successful call also acts as the busy flag: a second call
// fails with ErrBusy until EndRun. A finished run (Done or Failed) counts
// as Ready when every flag is still set.
func (st *State) BeginRun() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case st.s.Phase == Running:
		return ErrBusy
	case !st.s.Ready.All():
		return ErrNotReady
	}

	st.s.Phase = Running
	st.s.Progress = 0
	st.s.CurrentFile = ""
	st.s.Matched = 0
	st.s.Unmatched = 0
	return nil
}

// EndRun leaves Running, entering Done, or Failed when err is non-nil.
// It is a no-op outside Running.
func (st *State) EndRun(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.Phase != Running {
		return
	}
	if err != nil {
		st.s.Phase = Failed
		return
	}
	st.s.Phase = Done
}

// update applies fn and recomputes the phase from the readiness flags.
// A run in progress is left alone; a finished run stays Done or Failed
// until a flag is cleared.
func (st *State) update(fn func(s *Snapshot)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
	if st.s.Phase == Running {
		return
	}
	switch {
	case !st.s.Ready.All():
		st.s.Phase = Idle
	case st.s.Phase == Idle:
		st.s.Phase = Ready
	}
}
