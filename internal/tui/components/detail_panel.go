package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/tui/styles"
)

// Layout constants for the detail panel
const (
	DetailBorderHeight     = 2
	DetailPaddingHeight    = 2
	DetailScrollIndicators = 2
	DetailMaxBodyWidth     = 80
)

// DetailAction is what a key press in the panel asks the owner to do
type DetailAction int

const (
	DetailNone DetailAction = iota
	DetailTrailer
	DetailClose
)

// detailContent holds the three-zone layout content
type detailContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// DetailPanel shows the full record of one media item
type DetailPanel struct {
	media      domain.Media
	accent     string
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible body lines
}

// NewDetailPanel creates a new detail panel
func NewDetailPanel() DetailPanel {
	return DetailPanel{accent: string(styles.AniBlue)}
}

// SetMedia sets the item to display. Scroll resets when the item changes.
func (d *DetailPanel) SetMedia(m domain.Media, accent string) {
	if m.ID != d.media.ID {
		d.offset = 0
	}
	d.media = m
	d.accent = accent
}

// Media returns the displayed item
func (d DetailPanel) Media() domain.Media {
	return d.media
}

// SetSize sets the space available to the panel
func (d *DetailPanel) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.maxVisible = d.panelHeight() - DetailBorderHeight - DetailPaddingHeight - DetailScrollIndicators
	if d.maxVisible < 1 {
		d.maxVisible = 1
	}
}

// panelWidth returns the outer width of the panel
func (d DetailPanel) panelWidth() int {
	return max(min(d.width*2/3, 96), min(48, d.width))
}

// panelHeight returns the outer height of the panel
func (d DetailPanel) panelHeight() int {
	return max(d.height-4, 10)
}

// contentWidth returns the text width inside border and padding
func (d DetailPanel) contentWidth() int {
	return max(d.panelWidth()-6, 10)
}

// HandleKey processes a key press and returns what the owner should do
func (d *DetailPanel) HandleKey(msg tea.KeyMsg) DetailAction {
	switch {
	case key.Matches(msg, DetailKeys.Down):
		if d.offset < d.maxOffset() {
			d.offset++
		}
	case key.Matches(msg, DetailKeys.Up):
		if d.offset > 0 {
			d.offset--
		}
	case key.Matches(msg, DetailKeys.Trailer):
		return DetailTrailer
	case key.Matches(msg, DetailKeys.Close):
		return DetailClose
	}
	return DetailNone
}

// Offset returns the body scroll offset
func (d DetailPanel) Offset() int {
	return d.offset
}

// bodyLines returns how many lines the body window holds
func (d DetailPanel) bodyLines(c detailContent) int {
	return max(d.maxVisible-len(splitLines(c.header))-len(splitLines(c.footer)), 1)
}

func (d DetailPanel) maxOffset() int {
	c := d.render(d.contentWidth())
	return max(len(splitLines(c.body))-d.bodyLines(c), 0)
}

// View renders the component
func (d DetailPanel) View() string {
	width := d.contentWidth()
	content := d.render(width)

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	available := d.bodyLines(content)

	offset := min(d.offset, max(len(bodyLines)-available, 0))
	end := min(offset+available, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	// Scroll indicators for body only
	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	var parts []string
	parts = append(parts, headerLines...)
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for range available - len(visibleBody) {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	parts = append(parts, footerLines...)

	return styles.ModalStyle.
		BorderForeground(lipgloss.Color(d.accent)).
		Width(d.panelWidth() - 2).
		Render(strings.Join(parts, "\n"))
}

// render builds the three zones for the current item
func (d DetailPanel) render(width int) detailContent {
	return detailContent{
		header: d.renderHeader(width),
		body:   d.renderBody(width),
		footer: d.renderFooter(),
	}
}

func (d DetailPanel) renderHeader(width int) string {
	m := d.media
	var b strings.Builder

	b.WriteString(styles.Accent(d.accent).Bold(true).Render(styles.Truncate(m.Title, width)))
	b.WriteString("\n")

	// Score • type • year • format
	var metaParts []string
	if m.HasScore() {
		metaParts = append(metaParts, styles.ScoreStyle(*m.Score).Render("★ "+m.ScoreLabel()))
	}
	metaParts = append(metaParts, styles.SubtitleStyle.Render(m.MetaLabel()))
	if y := m.YearLabel(); y != "" {
		metaParts = append(metaParts, styles.SubtitleStyle.Render(y))
	}
	if m.Format != "" {
		metaParts = append(metaParts, styles.DimStyle.Render(m.Format))
	}
	b.WriteString(strings.Join(metaParts, styles.DimStyle.Render(" · ")))

	if len(m.Genres) > 0 {
		b.WriteString("\n")
		badges := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			badges = append(badges, styles.DimBadgeStyle.Render(g))
		}
		b.WriteString(wrapBadges(badges, width))
	}

	return b.String()
}

func (d DetailPanel) renderBody(width int) string {
	m := d.media
	var lines []string

	fact := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, styles.DimStyle.Render(label+": ")+styles.SubtitleStyle.Render(value))
	}
	fact("Status", m.Status)
	if m.Season != "" {
		fact("Season", strings.TrimSpace(m.Season+" "+m.YearLabel()))
	}
	fact("Duration", m.FormattedDuration())
	if m.Episodes > 0 {
		fact("Episodes", fmt.Sprintf("%d", m.Episodes))
	}
	fact("Source", m.Source)

	if m.Description != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.SubtitleStyle.Render(wordWrap(m.Description, min(width, DetailMaxBodyWidth))))
	}
	return strings.Join(lines, "\n")
}

func (d DetailPanel) renderFooter() string {
	var hints []string
	if d.media.HasTrailer() {
		hints = append(hints, styles.HelpKeyStyle.Render("t")+styles.HelpDescStyle.Render(" play trailer"))
	}
	hints = append(hints,
		styles.HelpKeyStyle.Render("j/k")+styles.HelpDescStyle.Render(" scroll"),
		styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" close"))
	return strings.Join(hints, "   ")
}

// wrapBadges joins badges onto as few lines as fit width
func wrapBadges(badges []string, width int) string {
	var lines []string
	var line string
	for _, badge := range badges {
		switch {
		case line == "":
			line = badge
		case lipgloss.Width(line)+1+lipgloss.Width(badge) > width:
			lines = append(lines, line)
			line = badge
		default:
			line += " " + badge
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps each paragraph of text to the specified display width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		var result strings.Builder
		lineLen := 0
		for _, word := range strings.Fields(p) {
			wordLen := runewidth.StringWidth(word)
			if lineLen+wordLen+1 > width && lineLen > 0 {
				result.WriteString("\n")
				lineLen = 0
			}
			if lineLen > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wordLen
		}
		wrapped = append(wrapped, result.String())
	}
	return strings.Join(wrapped, "\n")
}
