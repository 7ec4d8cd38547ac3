package tui

import "github.com/charmbracelet/lipgloss"

// updateLayout sizes every component for the window
func (m *Model) updateLayout() {
	for i := range m.Carousels {
		m.Carousels[i].SetSize(m.Width)
	}
	m.Detail.SetSize(m.Width, m.Height)
	m.Trailer.SetSize(m.Width)
	m.Omnibar.SetSize(m.Width, m.Height)
}

// fitRows returns as many rows around focus as fit in height, preferring
// rows above so the page stays anchored at the top
func fitRows(rows []string, focus, height int) string {
	if len(rows) == 0 {
		return ""
	}
	focus = max(0, min(focus, len(rows)-1))

	heights := make([]int, len(rows))
	for i, r := range rows {
		heights[i] = lipgloss.Height(r)
	}

	start, end := focus, focus+1
	used := heights[focus]
	for start > 0 && used+heights[start-1] <= height {
		start--
		used += heights[start]
	}
	for end < len(rows) && used+heights[end] <= height {
		used += heights[end]
		end++
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows[start:end]...)
}
