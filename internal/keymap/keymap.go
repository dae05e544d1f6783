package keymap

import "strings"

// Contexts a binding applies in.
const (
	ContextMain   = "main"
	ContextPrompt = "prompt"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// All contains every key binding.
var All = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", ContextMain},
	{ActionScan, []string{"s"}, "scan drives", ContextMain},
	{ActionRun, []string{"r"}, "run", ContextMain},
	{ActionPlaylists, []string{"p"}, "set playlists path", ContextMain},

	{ActionConfirm, []string{"enter"}, "confirm", ContextPrompt},
	{ActionCancel, []string{"esc", "ctrl+c"}, "cancel", ContextPrompt},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help renders the bindings of a context as a single line, using the
// first key of each binding: "q quit  s scan drives".
func Help(context string) string {
	bindings := ByContext(context)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Keys[0]+" "+b.Description)
	}
	return strings.Join(parts, "  ")
}
