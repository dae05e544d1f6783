// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Main screen
	ActionQuit      Action = "quit"
	ActionScan      Action = "scan"      // rescan drives
	ActionRun       Action = "run"       // start copying
	ActionPlaylists Action = "playlists" // set playlists path

	// Prompt
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)
