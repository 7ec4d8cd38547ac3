package tui

import (
	"github.com/mmcdole/anikino/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TrailerLaunchedMsg signals that the player was handed a trailer
type TrailerLaunchedMsg struct {
	Media domain.Media
}

// ClearStatusMsg clears the footer status
type ClearStatusMsg struct{}
