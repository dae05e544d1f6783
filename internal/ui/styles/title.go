package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Banner renders bold text with a left-to-right blend between the primary
// and secondary theme colors. Each grapheme cluster gets one color.
func Banner(text string) string {
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	from, err1 := colorful.Hex(string(T().Primary))
	to, err2 := colorful.Hex(string(T().Secondary))
	if err1 != nil || err2 != nil || len(clusters) == 1 {
		return lipgloss.NewStyle().Bold(true).Foreground(T().Primary).Render(text)
	}

	var b strings.Builder
	last := float64(len(clusters) - 1)
	for i, c := range clusters {
		col := from.BlendHcl(to, float64(i)/last).Clamped()
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(col.Hex())).
			Render(c))
	}
	return b.String()
}
