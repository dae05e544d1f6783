package ui

import (
	"time"

	gauge "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itsdinok/rekordscratch/internal/keymap"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/ui/styles"
)

// Controller is what the view drives. pipeline.Controller implements it.
type Controller interface {
	State() *progress.State
	Scan() (string, error)
	StartRun() error
	SetPlaylistsPath(path string) error
}

// Options configures a Model.
type Options struct {
	PollInterval time.Duration
	ErrorTTL     time.Duration
}

type tickMsg time.Time

// actionDoneMsg reports the end of a controller call. Failures are already
// on the state's error line.
type actionDoneMsg struct {
	action keymap.Action
	err    error
}

// Model is the bubbletea model for the main screen.
type Model struct {
	ctrl Controller

	mainKeys   *keymap.Resolver
	promptKeys *keymap.Resolver

	gauge     gauge.Model
	prompt    textinput.Model
	prompting bool

	snap     progress.Snapshot
	interval time.Duration
	errorTTL time.Duration
	width    int
	quitting bool
}

// New creates the main screen model.
func New(ctrl Controller, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ErrorTTL <= 0 {
		opts.ErrorTTL = ErrorTTL
	}

	g := gauge.New(
		gauge.WithGradient(string(styles.T().Primary), string(styles.T().Secondary)),
		gauge.WithoutPercentage(),
	)

	ti := textinput.New()
	ti.Placeholder = "path to playlist exports"
	ti.CharLimit = 1024
	ti.Prompt = "> "

	m := Model{
		ctrl:       ctrl,
		mainKeys:   keymap.ForContext(keymap.ContextMain),
		promptKeys: keymap.ForContext(keymap.ContextPrompt),
		gauge:      g,
		prompt:     ti,
		snap:       ctrl.State().Snapshot(),
		interval:   opts.PollInterval,
		errorTTL:   opts.ErrorTTL,
	}
	m.setWidth(DefaultWidth)
	return m
}

// Init starts polling.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) setWidth(w int) {
	m.width = max(w, MinWidth)
	inner := styles.PanelWidth(m.width)
	m.gauge.Width = inner - 7 // room for " 100.0%"
	m.prompt.Width = inner - 2
}

// Snapshot returns the state last polled.
func (m Model) Snapshot() progress.Snapshot {
	return m.snap
}

// Prompting reports whether the playlists prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}
