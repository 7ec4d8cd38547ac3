package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/selection"
	"github.com/mmcdole/anikino/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active overlay if any
	if handled, newModel, cmd := m.routeToOverlay(msg); handled {
		return newModel, cmd
	}

	// An open filter takes every key until it closes
	if c := m.focusedCarousel(); c != nil && c.IsFiltering() {
		cmd := m.scrollFocused(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.setFocus(m.Focus - 1)
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.setFocus(m.Focus + 1)
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if l := m.focusedList(); l != nil {
			if media, ok := l.Active(); ok {
				m.openDetail(media)
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Trailer):
		if l := m.focusedList(); l != nil {
			if media, ok := l.Active(); ok {
				cmd := m.openTrailer(media)
				return m, cmd
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		if c := m.focusedCarousel(); c != nil {
			return m, c.StartFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.GlobalSearch):
		m.Omnibar.SetSize(m.Width, m.Height)
		cmd := tea.Batch(m.Omnibar.Show(), m.Omnibar.Init())
		return m, cmd

	case key.Matches(msg, Keys.Season):
		cmd := m.cycleSeason()
		return m, cmd

	case key.Matches(msg, Keys.Refresh):
		cmd := m.retryFocused()
		return m, cmd

	case key.Matches(msg, Keys.RefreshAll):
		cmd := m.reloadAll()
		return m, cmd

	case key.Matches(msg, Keys.Dismiss):
		if l := m.focusedList(); l != nil && l.ErrorVisible() {
			l.DismissError()
			m.syncRow(m.Focus)
		}
		return m, nil
	}

	// Let the focused carousel handle scrolling
	cmd := m.scrollFocused(msg)
	return m, cmd
}

// scrollFocused passes msg to the focused carousel and moves the listing
// with it before the next key is read
func (m *Model) scrollFocused(msg tea.KeyMsg) tea.Cmd {
	c := m.focusedCarousel()
	if c == nil {
		return nil
	}
	before := c.Position()
	var cmd tea.Cmd
	*c, cmd = c.Update(msg)
	if c.Position() != before {
		m.Lists[m.Focus].SetActiveIndex(c.Position())
		m.syncRow(m.Focus)
	}
	return cmd
}

// routeToOverlay routes key input to the omnibar or the topmost surface.
// Returns (handled, model, cmd) where handled is true if an overlay consumed the input.
func (m Model) routeToOverlay(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		var action components.OmnibarAction
		m.Omnibar, cmd, action = m.Omnibar.Update(msg)

		switch action {
		case components.OmnibarSelect:
			m.selectSearchResult()
			return true, m, cmd
		case components.OmnibarLookup:
			m.Omnibar.SetLoading(true)
			return true, m, m.lookup.Issue(anilist.MediaQuery, lookupVariables(m.Omnibar.Query()))
		}

		if !m.Omnibar.IsVisible() {
			m.lookup.Cancel()
			return true, m, cmd
		}
		if m.Omnibar.QueryChanged() {
			m.lookup.Cancel()
			if strings.TrimSpace(m.Omnibar.Query()) == "" {
				m.Omnibar.SetResults(nil)
			} else {
				m.Omnibar.SetResults(m.Index.Find(m.Omnibar.Query()))
			}
		}
		return true, m, cmd
	}

	top, ok := m.Selection.Top()
	if !ok {
		return false, m, nil
	}

	switch top {
	case selection.SurfaceTrailer:
		switch m.Trailer.HandleKey(msg) {
		case components.TrailerOpen:
			cmd := m.launchTrailer(m.Trailer.Media())
			return true, m, cmd
		case components.TrailerClose:
			m.Selection.Close(selection.SurfaceTrailer)
		}
		return true, m, nil

	case selection.SurfaceDetail:
		switch m.Detail.HandleKey(msg) {
		case components.DetailTrailer:
			cmd := m.openTrailer(m.Detail.Media())
			return true, m, cmd
		case components.DetailClose:
			m.Selection.Close(selection.SurfaceDetail)
		}
		return true, m, nil
	}

	return false, m, nil
}

// lookupVariables looks up by id when the query is numeric, by title otherwise
func lookupVariables(query string) anilist.MediaVariables {
	query = strings.TrimSpace(query)
	if id, err := strconv.Atoi(query); err == nil && id > 0 {
		return anilist.MediaVariables{ID: id}
	}
	return anilist.MediaVariables{Search: query}
}
