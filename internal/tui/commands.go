package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/domain"
)

// TrailerLauncher opens a trailer URL outside the terminal
type TrailerLauncher interface {
	Launch(url string) error
}

// LaunchTrailerCmd hands the trailer of m to the launcher
func LaunchTrailerCmd(l TrailerLauncher, m domain.Media) tea.Cmd {
	return func() tea.Msg {
		if !m.HasTrailer() {
			return ErrMsg{Err: domain.ErrNoTrailer, Context: m.Title}
		}
		if err := l.Launch(m.TrailerURL()); err != nil {
			return ErrMsg{Err: err, Context: "Failed to open trailer"}
		}
		return TrailerLaunchedMsg{Media: m}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
