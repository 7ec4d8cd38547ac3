package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anikino/internal/selection"
	"github.com/mmcdole/anikino/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight

	rows := make([]string, len(m.Lists))
	for i := range m.Lists {
		if i == 0 && m.spotlight {
			rows[i] = m.renderSpotlight()
			continue
		}
		rows[i] = m.Carousels[i].View()
	}

	content := lipgloss.NewStyle().
		Height(contentHeight).
		Render(fitRows(rows, m.Focus, contentHeight))

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderFooter(),
	)

	// Overlay open surfaces; the topmost one is drawn last
	if overlay := m.renderSurfaces(); overlay != "" {
		view = m.place(overlay)
	}

	// Overlay omnibar if visible
	if m.Omnibar.IsVisible() {
		view = m.place(m.Omnibar.View())
	}

	return view
}

// renderSurfaces stacks the open surfaces in opening order
func (m Model) renderSurfaces() string {
	mode := m.Selection.Mode()
	if mode == selection.ModeNone {
		return ""
	}
	if !mode.Has(selection.ModeDetailOpen | selection.ModeTrailerOpen) {
		if mode.Has(selection.ModeTrailerOpen) {
			return m.Trailer.View()
		}
		return m.Detail.View()
	}

	// Both open: shrink the panel so the trailer card fits beside it
	trailer := m.Trailer.View()
	detail := m.Detail
	detail.SetSize(m.Width, m.Height-lipgloss.Height(trailer))

	first, second := detail.View(), trailer
	if top, _ := m.Selection.Top(); top == selection.SurfaceDetail {
		first, second = second, first
	}
	return lipgloss.JoinVertical(lipgloss.Center, first, second)
}

// place centers an overlay on the screen
func (m Model) place(overlay string) string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		overlay)
}

// renderSpotlight renders the banner for the top trending item
func (m Model) renderSpotlight() string {
	l := m.Lists[0]
	focused := m.Focus == 0

	style := styles.InactiveBorder
	if focused {
		style = styles.AccentBorder(l.Accent())
	}
	frameW, _ := style.GetFrameSize()
	width := max(m.Width-frameW, 20)
	inner := width - 2

	label := styles.DimStyle.Render("★ " + headlineFor(l))

	var lines []string
	media, ok := l.Active()
	switch {
	case l.ErrorVisible():
		lines = []string{
			label,
			styles.ErrorBannerStyle.Render(styles.Truncate("Error: "+l.Err().Error(), inner)),
			styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry  ") +
				styles.HelpKeyStyle.Render("x") + styles.HelpDescStyle.Render(" dismiss"),
		}
	case !ok && l.IsLoading():
		lines = []string{label, styles.Skeleton(min(inner, 32)), styles.Skeleton(min(inner, 48)), styles.Skeleton(min(inner, 20))}
	case !ok:
		lines = []string{label, styles.DimStyle.Render("Nothing trending yet")}
	default:
		title := styles.AccentBadge(l.Accent(), l.AccentForeground()).Render(styles.Truncate(media.Title, inner-2))

		meta := []string{}
		if media.HasScore() {
			meta = append(meta, styles.ScoreStyle(*media.Score).Render(media.ScoreLabel()))
		}
		meta = append(meta, styles.SubtitleStyle.Render(media.MetaLabel()))
		if y := media.YearLabel(); y != "" {
			meta = append(meta, styles.SubtitleStyle.Render(y))
		}
		genres := media.Genres
		if len(genres) > 3 {
			genres = genres[:3]
		}
		if len(genres) > 0 {
			meta = append(meta, styles.DimStyle.Render(strings.Join(genres, ", ")))
		}

		description := ""
		if media.Description != "" {
			description = styles.SubtitleStyle.Render(styles.Truncate(strings.Join(strings.Fields(media.Description), " "), inner))
		}

		hints := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" details")
		if media.HasTrailer() {
			hints = styles.HelpKeyStyle.Render("t") + styles.HelpDescStyle.Render(" trailer  ") + hints
		}

		lines = []string{label, title, strings.Join(meta, styles.DimStyle.Render(" · ")), description, hints}
	}

	return style.
		Width(width).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + status when loading or status message active
	var left string
	loading := 0
	for _, l := range m.Lists {
		if l.IsLoading() {
			loading++
		}
	}
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case loading > 0:
		statusText := "Loading..."
		if len(m.Lists) > 1 {
			statusText = fmt.Sprintf("Loading %d/%d listings...", len(m.Lists)-loading, len(m.Lists))
		}
		left = m.spinner.View() + " " + styles.DimStyle.Render(statusText)
	}

	// Center section: hints for the focused listing
	var center string
	if l := m.focusedList(); l != nil && l.ErrorVisible() {
		center = styles.AccentStyle.Render("r") + styles.DimStyle.Render(" retry  ") +
			styles.AccentStyle.Render("x") + styles.DimStyle.Render(" dismiss")
	} else if l != nil {
		if media, ok := l.Active(); ok && media.HasTrailer() {
			center = styles.AccentStyle.Render("t") + styles.DimStyle.Render(" trailer")
		}
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          DETAILS & TRAILERS
  h/l        Scroll listing        Enter  Details
  j/k        Previous/next row     t      Trailer
  g          First item            o      Open trailer in player
  /          Jump in listing       Esc    Close panel

SEARCH & LOAD                   OTHER
  f          Search all listings   ?      This help
  s          Next season           q      Quit
  r          Retry listing
  R          Reload all
  x          Dismiss error

Press ? or Esc to return...
`

	return m.place(styles.ModalStyle.Render(help))
}
