// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Detection
	OpDriveDetect   Op = "detect drive"
	OpDesktopDetect Op = "detect desktop"
	OpPlaylistsSet  Op = "set playlists path"

	// Index
	OpIndexBuild Op = "build track index"

	// Copy run
	OpRunStart      Op = "start run"
	OpCratesCreate  Op = "create crates folder"
	OpTagRead       Op = "read tags"
	OpTrackCopy     Op = "copy"
	OpReviewWrite   Op = "write review file"
	OpHistoryRecord Op = "record run history"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Unmatched is the message shown when a track fits no playlist.
func Unmatched(stem string) string {
	return "Failed to identify playlist for: " + stem
}
