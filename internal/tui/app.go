package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/config"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/fetch"
	"github.com/mmcdole/anikino/internal/listing"
	"github.com/mmcdole/anikino/internal/search"
	"github.com/mmcdole/anikino/internal/selection"
	"github.com/mmcdole/anikino/internal/tui/components"
	"github.com/mmcdole/anikino/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	StatusTimeout = 3 * time.Second
	ErrorTimeout  = 5 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Rows in display order. The spotlight, when enabled, is row 0.
	Lists     []*listing.List
	Carousels []components.Carousel
	Focus     int
	spotlight bool

	// Overlays
	Selection *selection.Orchestrator
	Detail    components.DetailPanel
	Trailer   components.TrailerModal
	Omnibar   components.Omnibar

	// Search over loaded listings, with a remote fallback
	Index  *search.Index
	lookup *fetch.Controller[anilist.MediaData]

	Launcher TrailerLauncher
	fallback string
	logger   *slog.Logger

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	spinner     spinner.Model
}

// NewModel creates a new application model with one row per configured
// listing, preceded by the spotlight when enabled.
func NewModel(cfg *config.Config, q domain.Querier, launcher TrailerLauncher, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		State:     StateBrowsing,
		Selection: selection.New(),
		Detail:    components.NewDetailPanel(),
		Trailer:   components.NewTrailerModal(),
		Omnibar:   components.NewOmnibar(),
		Index:     search.NewIndex(logger),
		lookup:    fetch.New[anilist.MediaData](config.LookupSite, q, logger),
		Launcher:  launcher,
		fallback:  listing.DefaultAccent,
		logger:    logger,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
	}
	if accent, ok := listing.NormalizeAccent(cfg.UI.Accent); ok {
		m.fallback = accent
	}

	now := time.Now()
	if cfg.UI.Spotlight {
		season, year := anilist.CurrentSeason(now)
		vars := anilist.PageVariables{
			PerPage:    1,
			Sort:       []string{anilist.SortTrendingDesc},
			Season:     season,
			SeasonYear: year,
		}
		m.addRow(listing.New(config.SpotlightSite, "Spotlight", vars, q, m.fallback, logger))
		m.spotlight = true
	}
	for _, lc := range cfg.Listings {
		headline := lc.Headline
		if headline == "" {
			headline = lc.Site
		}
		m.addRow(listing.New(lc.Site, headline, lc.Variables(now, cfg.UI.PerPage), q, m.fallback, logger))
	}
	m.Omnibar.SetHeadline(config.LookupSite, "AniList")

	m.setFocus(0)
	return m
}

func (m *Model) addRow(l *listing.List) {
	m.Lists = append(m.Lists, l)
	m.Carousels = append(m.Carousels, components.NewCarousel(l.Site(), l.Headline))
	m.Omnibar.SetHeadline(l.Site(), l.Headline)
}

// Init loads every listing
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	for i, l := range m.Lists {
		cmds = append(cmds, l.Load())
		m.syncRow(i)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetch.ResultMsg[anilist.PageData]:
		i := m.rowBySite(msg.Site)
		if i < 0 || !m.Lists[i].HandleResult(msg) {
			return m, nil
		}
		m.syncRow(i)
		if m.Lists[i].Status() == fetch.StatusSuccess {
			m.rebuildIndex()
		}
		return m, nil

	case fetch.ResultMsg[anilist.MediaData]:
		m.handleLookupResult(msg)
		return m, nil

	case components.IndexChangedMsg:
		// Keys already moved the listing; a report the carousel has
		// scrolled past is stale
		if i := m.rowBySite(msg.Site); i >= 0 && m.Carousels[i].Position() == msg.Index {
			m.Lists[i].SetActiveIndex(msg.Index)
			m.syncRow(i)
		}
		return m, nil

	case TrailerLaunchedMsg:
		m.StatusMsg = "Opened trailer: " + msg.Media.Title
		m.StatusIsErr = false
		if subject, ok := m.Selection.Subject(selection.SurfaceTrailer); ok && subject.ID == msg.Media.ID {
			m.Selection.Close(selection.SurfaceTrailer)
		}
		return m, ClearStatusCmd(StatusTimeout)

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(ErrorTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other input messages
	var cmds []tea.Cmd
	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		m.Omnibar, cmd, _ = m.Omnibar.Update(msg)
		cmds = append(cmds, cmd)
	}
	if c := m.focusedCarousel(); c != nil && c.IsFiltering() {
		var cmd tea.Cmd
		*c, cmd = c.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleLookupResult shows the remote lookup outcome in the omnibar
func (m *Model) handleLookupResult(msg fetch.ResultMsg[anilist.MediaData]) {
	if !m.lookup.Resolve(msg) {
		return
	}

	state := m.lookup.State()
	switch {
	case state.Err != nil:
		m.Omnibar.SetLookupError(state.Err)
	case state.Data == nil || state.Data.Media == nil:
		m.Omnibar.SetLookupError(domain.ErrMediaNotFound)
	default:
		media := anilist.MapMedia(state.Data.Media)
		m.Omnibar.SetResults([]search.Result{{
			Entry: search.Entry{Media: media, Site: config.LookupSite},
		}})
	}
}

// syncRow copies listing state into its carousel
func (m *Model) syncRow(i int) {
	l := m.Lists[i]
	c := &m.Carousels[i]

	c.SetItems(l.Items(), l.ActiveIndex())
	c.SetLoading(l.IsLoading(), l.Placeholders())
	c.SetAccent(l.Accent(), l.AccentForeground())
	c.SetHeadline(headlineFor(l))

	errText := ""
	if l.ErrorVisible() {
		errText = l.Err().Error()
	}
	c.SetError(errText)
}

// headlineFor returns the listing headline with its season, if any
func headlineFor(l *listing.List) string {
	if l.Variables.Season == "" {
		return l.Headline
	}
	label := seasonLabel(l.Variables.Season)
	if l.Variables.SeasonYear > 0 {
		label = fmt.Sprintf("%s %d", label, l.Variables.SeasonYear)
	}
	return l.Headline + " · " + label
}

// seasonLabel turns WINTER into Winter
func seasonLabel(season string) string {
	if season == "" {
		return ""
	}
	return strings.ToUpper(season[:1]) + strings.ToLower(season[1:])
}

// rebuildIndex re-indexes every loaded listing in row order
func (m *Model) rebuildIndex() {
	m.Index.Reset()
	for _, l := range m.Lists {
		m.Index.Add(l.Site(), l.Items())
	}
	m.logger.Debug("search index rebuilt", "items", m.Index.Len())
}

// accentFor returns the item's own color, or the configured fallback
func (m Model) accentFor(media domain.Media) string {
	if accent, ok := listing.NormalizeAccent(media.Color); ok {
		return accent
	}
	return m.fallback
}

// openDetail shows the detail panel for media
func (m *Model) openDetail(media domain.Media) {
	m.Detail.SetMedia(media, m.accentFor(media))
	m.Selection.OpenDetail(media)
}

// openTrailer shows the trailer modal for media when it has a trailer
func (m *Model) openTrailer(media domain.Media) tea.Cmd {
	if !media.HasTrailer() {
		m.StatusMsg = fmt.Sprintf("%s: %v", media.Title, domain.ErrNoTrailer)
		m.StatusIsErr = false
		return ClearStatusCmd(StatusTimeout)
	}
	accent := m.accentFor(media)
	m.Trailer.SetMedia(media, accent, listing.ContrastingForeground(accent))
	m.Selection.OpenTrailer(media)
	return nil
}

// launchTrailer hands the trailer to the external player
func (m *Model) launchTrailer(media domain.Media) tea.Cmd {
	if m.Launcher == nil {
		m.StatusMsg = "No player configured"
		m.StatusIsErr = true
		return ClearStatusCmd(ErrorTimeout)
	}
	m.logger.Info("launching trailer", "id", media.ID, "url", media.TrailerURL())
	return LaunchTrailerCmd(m.Launcher, media)
}

// cycleSeason moves a seasonal listing to the following season. The
// focused listing is used when seasonal, otherwise the first seasonal row
// after the spotlight.
func (m *Model) cycleSeason() tea.Cmd {
	target := -1
	if l := m.focusedList(); l != nil && l.Variables.Season != "" {
		target = m.Focus
	} else {
		for i, l := range m.Lists {
			if (i == 0 && m.spotlight) || l.Variables.Season == "" {
				continue
			}
			target = i
			break
		}
	}
	if target < 0 {
		m.StatusMsg = "No seasonal listing"
		m.StatusIsErr = false
		return ClearStatusCmd(StatusTimeout)
	}

	l := m.Lists[target]
	vars := l.Variables
	vars.Season, vars.SeasonYear = anilist.NextSeason(vars.Season, vars.SeasonYear)
	cmd := l.Reload(vars)
	m.syncRow(target)
	m.rebuildIndex()
	return cmd
}

// reloadAll issues a fresh load for every listing
func (m *Model) reloadAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.Lists))
	for i, l := range m.Lists {
		cmds = append(cmds, l.Load())
		m.syncRow(i)
	}
	m.Index.Reset()
	return tea.Batch(cmds...)
}

// retryFocused re-issues the focused listing's last request
func (m *Model) retryFocused() tea.Cmd {
	l := m.focusedList()
	if l == nil {
		return nil
	}
	cmd := l.Retry()
	if cmd == nil {
		cmd = l.Load()
	}
	m.syncRow(m.Focus)
	m.rebuildIndex()
	return cmd
}
