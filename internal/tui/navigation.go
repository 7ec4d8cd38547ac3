package tui

import (
	"github.com/mmcdole/anikino/internal/config"
	"github.com/mmcdole/anikino/internal/listing"
	"github.com/mmcdole/anikino/internal/tui/components"
)

// rowBySite returns the row loaded by site, or -1
func (m Model) rowBySite(site string) int {
	for i, l := range m.Lists {
		if l.Site() == site {
			return i
		}
	}
	return -1
}

// focusedList returns the listing with focus
func (m Model) focusedList() *listing.List {
	if m.Focus < 0 || m.Focus >= len(m.Lists) {
		return nil
	}
	return m.Lists[m.Focus]
}

// focusedCarousel returns the carousel with focus
func (m *Model) focusedCarousel() *components.Carousel {
	if m.Focus < 0 || m.Focus >= len(m.Carousels) {
		return nil
	}
	return &m.Carousels[m.Focus]
}

// setFocus moves focus to row i, clamped to the rows
func (m *Model) setFocus(i int) {
	if len(m.Lists) == 0 {
		m.Focus = 0
		return
	}
	i = max(0, min(i, len(m.Lists)-1))
	if m.Focus < len(m.Carousels) {
		m.Carousels[m.Focus].SetFocused(false)
	}
	m.Focus = i
	m.Carousels[i].SetFocused(true)
}

// selectSearchResult focuses the listing that owns the chosen result and
// opens its detail panel
func (m *Model) selectSearchResult() {
	result := m.Omnibar.SelectedResult()
	m.Omnibar.Hide()
	m.lookup.Cancel()
	if result == nil {
		return
	}

	if result.Site != config.LookupSite {
		if i := m.rowBySite(result.Site); i >= 0 {
			m.setFocus(i)
			m.Lists[i].SetActiveIndex(result.Index)
			m.syncRow(i)
		}
	}
	m.openDetail(result.Media)
}
