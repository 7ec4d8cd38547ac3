package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/anikino/internal/search"
	"github.com/mmcdole/anikino/internal/tui/styles"
)

// MaxOmnibarResults caps the rows rendered in the omnibar
const MaxOmnibarResults = 10

// OmnibarAction is what a key press in the omnibar asks the owner to do
type OmnibarAction int

const (
	OmnibarNone OmnibarAction = iota
	OmnibarSelect
	OmnibarLookup
)

// Omnibar is the search modal over every loaded listing
type Omnibar struct {
	input     textinput.Model
	results   []search.Result
	cursor    int
	visible   bool
	width     int
	height    int
	loading   bool
	lookupErr error
	prevQuery string // Track query changes for real-time filtering

	// Headline per site for result context
	headlines map[string]string
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search loaded titles..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "f "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input:     ti,
		headlines: make(map[string]string),
	}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() tea.Cmd {
	o.visible = true
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.loading = false
	o.lookupErr = nil
	o.prevQuery = ""
	return o.input.Focus()
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetHeadline names the listing a site's results come from
func (o *Omnibar) SetHeadline(site, headline string) {
	o.headlines[site] = headline
}

// SetResults sets the search results
func (o *Omnibar) SetResults(results []search.Result) {
	o.results = results
	o.cursor = 0
	o.loading = false
	o.lookupErr = nil
}

// SetLoading marks a remote lookup in flight
func (o *Omnibar) SetLoading(loading bool) {
	o.loading = loading
	if loading {
		o.lookupErr = nil
	}
}

// IsLoading returns true while a remote lookup is in flight
func (o Omnibar) IsLoading() bool {
	return o.loading
}

// SetLookupError shows why the remote lookup found nothing
func (o *Omnibar) SetLookupError(err error) {
	o.loading = false
	o.lookupErr = err
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = width - 10
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SelectedResult returns the selected search result
func (o Omnibar) SelectedResult() *search.Result {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return nil
	}
	return &o.results[o.cursor]
}

// ResultCount returns the number of results
func (o Omnibar) ResultCount() int {
	return len(o.results)
}

// Init initializes the component
func (o Omnibar) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages. Enter with no matches asks for a remote lookup.
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, OmnibarAction) {
	if !o.visible {
		return o, nil, OmnibarNone
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, OmnibarKeys.Escape):
			o.Hide()
			return o, nil, OmnibarNone

		case key.Matches(msg, OmnibarKeys.Enter):
			if len(o.results) > 0 {
				return o, nil, OmnibarSelect
			}
			if strings.TrimSpace(o.input.Value()) != "" && !o.loading {
				return o, nil, OmnibarLookup
			}
			return o, nil, OmnibarNone

		case key.Matches(msg, OmnibarKeys.Down):
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, OmnibarNone

		case key.Matches(msg, OmnibarKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, OmnibarNone
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, OmnibarNone
}

// View renders the component
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := o.width * 2 / 3
	if modalWidth < 40 {
		modalWidth = 40
	}
	if modalWidth > 80 {
		modalWidth = 80
	}

	var b strings.Builder

	b.WriteString(styles.ModalTitleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	switch {
	case o.loading:
		b.WriteString(styles.SpinnerStyle.Render("Looking up on AniList..."))
	case o.lookupErr != nil:
		b.WriteString(styles.ErrorStyle.Render(styles.Truncate(o.lookupErr.Error(), modalWidth-8)))
	default:
		o.renderResults(&b, modalWidth)
	}

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	return styles.ModalStyle.
		Width(modalWidth).
		Render(content)
}

func (o Omnibar) renderResults(b *strings.Builder, modalWidth int) {
	if len(o.results) == 0 {
		if o.input.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No matches. Press enter to look it up on AniList."))
		}
		return
	}

	displayCount := min(len(o.results), MaxOmnibarResults)

	// Keep the cursor inside the rendered window
	start := 0
	if o.cursor >= displayCount {
		start = o.cursor - displayCount + 1
	}

	for i := start; i < start+displayCount; i++ {
		result := o.results[i]
		selected := i == o.cursor

		var line strings.Builder

		badge := "TV"
		if result.Media.Format != "" {
			badge = result.Media.Format
		}
		line.WriteString(styles.DimBadgeStyle.Render(styles.Pad(badge, 5)))
		line.WriteString(" ")

		if headline := o.headlines[result.Site]; headline != "" {
			line.WriteString(styles.DimStyle.Render(headline + " > "))
		}

		title := result.Media.Title
		if y := result.Media.YearLabel(); y != "" {
			title = fmt.Sprintf("%s (%s)", title, y)
		}
		title = styles.Truncate(title, modalWidth-lipgloss.Width(line.String())-10)

		style := styles.NormalItemStyle
		if selected {
			style = styles.SelectedItemStyle
		}
		line.WriteString(style.Render(title))

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.results) > displayCount {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-displayCount)))
	}
}
