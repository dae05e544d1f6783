// Package ui is the terminal observer: it polls the shared progress state
// on a fixed interval and renders it, and turns key presses into
// controller actions.
package ui

import "time"

const (
	// DefaultPollInterval is the state polling cadence (10 Hz).
	DefaultPollInterval = 100 * time.Millisecond

	// ErrorTTL is how long the error line stays visible.
	ErrorTTL = 50 * time.Second

	// MinWidth is the narrowest layout rendered; smaller terminals are
	// rendered at this width and clipped by the terminal.
	MinWidth = 40

	// DefaultWidth is used until the first window size message.
	DefaultWidth = 80
)
