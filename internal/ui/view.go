package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsdinok/rekordscratch/internal/keymap"
	"github.com/itsdinok/rekordscratch/internal/progress"
	"github.com/itsdinok/rekordscratch/internal/ui/render"
	"github.com/itsdinok/rekordscratch/internal/ui/styles"
)

const appTitle = "RekordScratch"

// flagLabelWidth aligns the readiness values.
const flagLabelWidth = 12

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderFlags(),
		m.renderRun(),
	}
	if m.prompting {
		sections = append(sections, m.renderPrompt())
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	phase := styles.T().S().Muted.Render(m.snap.Phase.String())
	return render.Row(" "+styles.Banner(appTitle), phase+" ", m.width)
}

func (m Model) renderFlags() string {
	t := styles.T()
	inner := styles.PanelWidth(m.width)
	valueWidth := max(inner-flagLabelWidth-2, 1)

	line := func(set bool, label, value string) string {
		return t.Flag(set) + " " +
			t.S().Base.Render(render.Pad(label, flagLabelWidth)) +
			t.S().Muted.Render(render.TruncateLeft(value, valueWidth))
	}

	r := m.snap.Ready
	indexValue := ""
	if r.Playlists && !r.Index {
		indexValue = "not built"
	}
	lines := []string{
		t.S().Label.Render("Launch flags"),
		line(r.Drive, "Drive", orNone(m.snap.SourceRoot)),
		line(r.Desktop, "Desktop", orNone(m.snap.DesktopPath)),
		line(r.Playlists, "Playlists", orNone(m.snap.Playlists)),
		line(r.Index, "Track index", indexValue),
	}
	return styles.Panel(false).Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRun() string {
	t := styles.T()
	inner := styles.PanelWidth(m.width)

	bar := m.gauge.ViewAs(m.snap.Progress)
	pct := fmt.Sprintf("%5.1f%%", m.snap.Progress*100)

	current := m.snap.CurrentFile
	if current == "" {
		current = " "
	}

	counts := t.S().Success.Render(fmt.Sprintf("%d matched", m.snap.Matched)) +
		t.S().Muted.Render("  ") +
		t.S().Warning.Render(fmt.Sprintf("%d unmatched", m.snap.Unmatched))

	errLine := " "
	if m.snap.HasError() {
		errLine = t.S().Error.Render(render.Truncate(m.snap.LastError, inner))
	}

	lines := []string{
		t.S().Label.Render("Status"),
		t.S().Base.Render(render.Truncate(m.snap.Status, inner)),
		bar + " " + t.S().Muted.Render(pct),
		t.S().Muted.Render(render.Truncate(current, inner)),
		counts,
		errLine,
	}
	return styles.Panel(false).Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderPrompt() string {
	t := styles.T()
	lines := []string{
		t.S().Label.Render("Playlists path"),
		m.prompt.View(),
		t.S().Subtle.Render(keymap.Help(keymap.ContextPrompt)),
	}
	return styles.Panel(true).Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	help := keymap.Help(keymap.ContextMain)
	if m.snap.Phase == progress.Running {
		help = "copying...  " + help
	}
	return " " + styles.T().S().Subtle.Render(render.Truncate(help, m.width-2))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
