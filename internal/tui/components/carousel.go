package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// IndexChangedMsg reports a carousel scroll. Index is the unbounded scroll
// position; the listing wraps it into range.
type IndexChangedMsg struct {
	Site  string
	Index int
}

// Layout constants for cards
const (
	// Outer card width including its border
	CardWidth = 24
	CardGap   = 1

	// Border (1 each side) plus Padding(0,1)
	cardFrame = 4
)

// Carousel renders one listing as a looping row of cards
type Carousel struct {
	site     string
	headline string

	items        []domain.Media
	position     int // unbounded; wraps into items
	loading      bool
	placeholders int
	errText      string

	accent   string
	accentFg string

	width   int
	focused bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      int
	preFilter    int
}

// NewCarousel creates a carousel for the listing site
func NewCarousel(site, headline string) Carousel {
	ti := textinput.New()
	ti.Placeholder = "type to jump..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.CharLimit = 64

	return Carousel{
		site:        site,
		headline:    headline,
		accent:      string(styles.AniBlue),
		accentFg:    "#000000",
		filterInput: ti,
	}
}

// Site returns the listing site this carousel scrolls
func (c Carousel) Site() string {
	return c.site
}

// SetHeadline updates the headline shown above the cards
func (c *Carousel) SetHeadline(headline string) {
	c.headline = headline
}

// SetItems replaces the cards and aligns the scroll position with active.
// The position is kept while it already points at active so looping
// scrolls stay unbounded.
func (c *Carousel) SetItems(items []domain.Media, active int) {
	c.items = items
	if n := len(items); n > 0 && wrap(c.position, n) != active {
		c.position = active
	}
}

// SetLoading toggles skeleton cards
func (c *Carousel) SetLoading(loading bool, placeholders int) {
	c.loading = loading
	c.placeholders = placeholders
}

// SetError sets the banner text, empty to hide it
func (c *Carousel) SetError(text string) {
	c.errText = text
}

// SetAccent sets the accent color and the text color drawn on it
func (c *Carousel) SetAccent(accent, fg string) {
	c.accent = accent
	c.accentFg = fg
}

// SetSize updates the component width
func (c *Carousel) SetSize(width int) {
	c.width = width
	c.filterInput.Width = width - 20
}

// SetFocused sets the focus state
func (c *Carousel) SetFocused(focused bool) {
	c.focused = focused
	if !focused {
		c.clearFilter()
	}
}

// IsFocused returns the focus state
func (c Carousel) IsFocused() bool {
	return c.focused
}

// Position returns the unbounded scroll position
func (c Carousel) Position() int {
	return c.position
}

// StartFilter focuses the jump-to filter
func (c *Carousel) StartFilter() tea.Cmd {
	if len(c.items) == 0 {
		return nil
	}
	c.filterActive = true
	c.preFilter = c.position
	c.filterInput.SetValue("")
	c.filterQuery = ""
	c.matches = 0
	return c.filterInput.Focus()
}

// IsFiltering returns true while the filter input is open
func (c Carousel) IsFiltering() bool {
	return c.filterActive
}

func (c *Carousel) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.matches = 0
	c.filterInput.SetValue("")
	c.filterInput.Blur()
}

// applyFilter jumps to the best fuzzy match without reordering the cards
func (c *Carousel) applyFilter() tea.Cmd {
	c.filterQuery = c.filterInput.Value()
	c.matches = 0
	if c.filterQuery == "" {
		return nil
	}

	lowerTitles := make([]string, len(c.items))
	for i, m := range c.items {
		lowerTitles[i] = strings.ToLower(m.Title)
	}

	matches := fuzzy.Find(strings.ToLower(c.filterQuery), lowerTitles)
	c.matches = len(matches)
	if len(matches) == 0 {
		return nil
	}
	return c.moveTo(matches[0].Index)
}

// moveTo sets the scroll position and reports it to the owner
func (c *Carousel) moveTo(pos int) tea.Cmd {
	c.position = pos
	site := c.site
	return func() tea.Msg {
		return IndexChangedMsg{Site: site, Index: pos}
	}
}

// Init initializes the component
func (c Carousel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c Carousel) Update(msg tea.Msg) (Carousel, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	if c.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, CarouselKeys.Escape):
				// Back to where the filter started
				c.clearFilter()
				return c, c.moveTo(c.preFilter)
			case key.Matches(msg, CarouselKeys.Enter):
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		if c.filterInput.Value() != c.filterQuery {
			return c, tea.Batch(cmd, c.applyFilter())
		}
		return c, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, CarouselKeys.Prev):
		return c, c.moveTo(c.position - 1)
	case key.Matches(keyMsg, CarouselKeys.Next):
		return c, c.moveTo(c.position + 1)
	case key.Matches(keyMsg, CarouselKeys.First):
		return c, c.moveTo(0)
	}
	return c, nil
}

// View renders the component
func (c Carousel) View() string {
	style := styles.InactiveBorder
	headline := styles.SubtitleStyle.Render(c.headline)
	if c.focused {
		style = styles.AccentBorder(c.accent)
		headline = styles.Accent(c.accent).Bold(true).Render(c.headline)
	}

	frameW, _ := style.GetFrameSize()
	inner := c.width - frameW
	if inner < CardWidth {
		inner = CardWidth
	}

	if n := len(c.items); n > 0 {
		headline += styles.DimStyle.Render(fmt.Sprintf("  %d/%d", wrap(c.position, n)+1, n))
	}

	var row string
	switch {
	case c.errText != "":
		row = c.renderError(inner)
	case len(c.items) == 0 && c.loading:
		row = c.renderSkeletons(inner)
	case len(c.items) == 0:
		row = styles.DimStyle.Render("No items")
	default:
		row = c.renderCards(inner)
	}

	parts := []string{headline, row}
	if c.filterActive {
		parts = append(parts, c.renderFilterBar())
	}

	return style.
		Width(inner).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// visibleCards returns how many cards fit in width
func visibleCards(width int) int {
	n := (width + CardGap) / (CardWidth + CardGap)
	if n < 1 {
		n = 1
	}
	return n
}

// renderCards lays out the cards around the active one, looping past the ends
func (c Carousel) renderCards(width int) string {
	n := len(c.items)
	active := wrap(c.position, n)
	visible := visibleCards(width)

	var indices []int
	if n <= visible {
		for i := range n {
			indices = append(indices, i)
		}
	} else {
		start := active - visible/2
		for k := range visible {
			indices = append(indices, wrap(start+k, n))
		}
	}

	cards := make([]string, 0, len(indices)*2)
	for k, i := range indices {
		if k > 0 {
			cards = append(cards, strings.Repeat(" ", CardGap))
		}
		cards = append(cards, c.renderCard(c.items[i], i == active && c.focused))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (c Carousel) renderCard(m domain.Media, selected bool) string {
	w := CardWidth - cardFrame

	title := styles.TitleStyle.Render(styles.Truncate(m.Title, w))
	style := styles.CardStyle.Width(CardWidth - 2)
	if selected {
		title = styles.AccentBadge(c.accent, c.accentFg).Render(styles.Truncate(m.Title, w-2))
		style = style.BorderForeground(lipgloss.Color(c.accent))
	}

	var meta []string
	if m.HasScore() {
		meta = append(meta, styles.ScoreStyle(*m.Score).Render(m.ScoreLabel()))
	}
	meta = append(meta, styles.SubtitleStyle.Render(m.MetaLabel()))

	var foot []string
	if y := m.YearLabel(); y != "" {
		foot = append(foot, y)
	}
	if m.HasTrailer() {
		foot = append(foot, "▶ trailer")
	}

	return style.Render(strings.Join([]string{
		title,
		strings.Join(meta, styles.DimStyle.Render(" · ")),
		styles.DimStyle.Render(strings.Join(foot, " · ")),
	}, "\n"))
}

// renderSkeletons renders placeholder cards while the first page loads
func (c Carousel) renderSkeletons(width int) string {
	count := min(c.placeholders, visibleCards(width))
	if count < 1 {
		count = 1
	}

	w := CardWidth - cardFrame
	card := styles.CardStyle.
		Width(CardWidth - 2).
		Render(strings.Join([]string{styles.Skeleton(w), styles.Skeleton(w / 2), styles.Skeleton(w / 3)}, "\n"))

	cards := make([]string, 0, count*2)
	for k := range count {
		if k > 0 {
			cards = append(cards, strings.Repeat(" ", CardGap))
		}
		cards = append(cards, card)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (c Carousel) renderError(width int) string {
	banner := styles.ErrorBannerStyle.Render(styles.Truncate("Error: "+c.errText, width-2))
	hint := styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry  ") +
		styles.HelpKeyStyle.Render("x") + styles.HelpDescStyle.Render(" dismiss")
	return banner + "\n" + hint
}

// renderFilterBar renders the filter input with the match count
func (c Carousel) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.matches, len(c.items)))
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
