package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/tui/styles"
)

// MaxTrailerGenres caps the genre badges shown in the trailer modal
const MaxTrailerGenres = 3

// TrailerAction is what a key press in the modal asks the owner to do
type TrailerAction int

const (
	TrailerNone TrailerAction = iota
	TrailerOpen
	TrailerClose
)

// TrailerModal is a small popup for handing a trailer to the player
type TrailerModal struct {
	media    domain.Media
	accent   string
	accentFg string
	width    int
}

// NewTrailerModal creates a new trailer modal
func NewTrailerModal() TrailerModal {
	return TrailerModal{accent: string(styles.AniBlue), accentFg: "#000000"}
}

// SetMedia sets the item whose trailer is shown
func (t *TrailerModal) SetMedia(m domain.Media, accent, accentFg string) {
	t.media = m
	t.accent = accent
	t.accentFg = accentFg
}

// Media returns the displayed item
func (t TrailerModal) Media() domain.Media {
	return t.media
}

// SetSize sets the screen width the modal centers in
func (t *TrailerModal) SetSize(width int) {
	t.width = width
}

// HandleKey processes a key press and returns what the owner should do
func (t TrailerModal) HandleKey(msg tea.KeyMsg) TrailerAction {
	switch {
	case key.Matches(msg, TrailerKeys.Open):
		return TrailerOpen
	case key.Matches(msg, TrailerKeys.Close):
		return TrailerClose
	}
	return TrailerNone
}

// View renders the trailer modal
func (t TrailerModal) View() string {
	modalWidth := max(min(t.width*2/3, 72), min(40, t.width))
	contentWidth := max(modalWidth-6, 10)
	m := t.media

	var lines []string
	lines = append(lines, styles.AccentBadge(t.accent, t.accentFg).Render(styles.Truncate(m.Title, contentWidth-2)))
	lines = append(lines, "")

	meta := []string{m.MetaLabel()}
	if y := m.YearLabel(); y != "" {
		meta = append(meta, y)
	}
	if m.HasScore() {
		meta = append(meta, m.ScoreLabel())
	}
	lines = append(lines, styles.SubtitleStyle.Render(strings.Join(meta, " · ")))

	if len(m.Genres) > 0 {
		genres := m.Genres
		if len(genres) > MaxTrailerGenres {
			genres = genres[:MaxTrailerGenres]
		}
		badges := make([]string, 0, len(genres))
		for _, g := range genres {
			badges = append(badges, styles.DimBadgeStyle.Render(g))
		}
		lines = append(lines, strings.Join(badges, " "))
	}

	lines = append(lines, "")
	if url := m.TrailerURL(); url != "" {
		lines = append(lines, styles.Accent(t.accent).Render(styles.Truncate(url, contentWidth)))
	} else {
		lines = append(lines, styles.DimStyle.Render("No trailer available"))
	}
	lines = append(lines, "")
	lines = append(lines,
		styles.HelpKeyStyle.Render("enter/o")+styles.HelpDescStyle.Render(" open in player   ")+
			styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" close"))

	return styles.ModalStyle.
		BorderForeground(lipgloss.Color(t.accent)).
		Width(modalWidth - 2).
		Render(strings.Join(lines, "\n"))
}
