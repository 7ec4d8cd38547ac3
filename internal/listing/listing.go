// Package listing holds the state of one titled, remotely loaded list of media.
package listing

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/fetch"
)

// DefaultAccent is used when neither the active item nor the caller supplies one
const DefaultAccent = "#3db4f2"

// Contrasting foregrounds for text drawn on the accent
const (
	foregroundDark  = "#000000"
	foregroundLight = "#ffffff"
)

// List tracks the items, active index and accent of one listing
type List struct {
	Headline  string
	Variables anilist.PageVariables

	fetch  *fetch.Controller[anilist.PageData]
	logger *slog.Logger

	items       []domain.Media
	activeIndex int
	pending     *int

	fallback  string
	dismissed bool
}

// New creates a listing for site. fallbackAccent must be a hex color; an
// invalid value is replaced with DefaultAccent.
func New(site, headline string, vars anilist.PageVariables, q domain.Querier, fallbackAccent string, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}
	fallbackAccent, ok := NormalizeAccent(fallbackAccent)
	if !ok {
		fallbackAccent = DefaultAccent
	}
	return &List{
		Headline:  headline,
		Variables: vars,
		fetch:     fetch.New[anilist.PageData](site, q, logger),
		logger:    logger,
		fallback:  fallbackAccent,
	}
}

// Site returns the fetch site results for this listing are tagged with
func (l *List) Site() string {
	return l.fetch.Site()
}

// Load issues the page query for the current variables.
// Items are cleared until the result arrives.
func (l *List) Load() tea.Cmd {
	l.reset()
	return l.fetch.Issue(anilist.PageQuery, l.Variables)
}

// Reload replaces the variables and loads
func (l *List) Reload(vars anilist.PageVariables) tea.Cmd {
	l.Variables = vars
	return l.Load()
}

// Retry re-issues the last request unchanged
func (l *List) Retry() tea.Cmd {
	l.reset()
	return l.fetch.Retry()
}

// Cancel aborts any in-flight request and drops an index buffered for it
func (l *List) Cancel() {
	l.fetch.Cancel()
	l.pending = nil
}

func (l *List) reset() {
	l.items = nil
	l.activeIndex = 0
	l.pending = nil
	l.dismissed = false
}

// HandleResult commits a page result for this listing and reports whether it
// was accepted. A successful load resets the active index to 0, then applies
// any index set while the listing was empty. The buffered index only lives
// until this load resolves: a failure or an empty page drops it.
func (l *List) HandleResult(msg fetch.ResultMsg[anilist.PageData]) bool {
	if !l.fetch.Resolve(msg) {
		return false
	}

	pending := l.pending
	l.pending = nil

	state := l.fetch.State()
	if state.Status != fetch.StatusSuccess {
		l.logger.Error("listing load failed", "site", l.Site(), "error", state.Err)
		return true
	}

	items, _ := anilist.MapPage(state.Data)
	l.items = items
	l.activeIndex = 0
	if pending != nil && len(items) > 0 {
		l.SetActiveIndex(*pending)
	}
	l.logger.Debug("listing loaded", "site", l.Site(), "items", len(items))
	return true
}

// SetActiveIndex wraps i into [0, Len()). With no items the index is kept
// and applied after the next successful load.
func (l *List) SetActiveIndex(i int) {
	n := len(l.items)
	if n == 0 {
		l.pending = &i
		return
	}
	l.activeIndex = ((i % n) + n) % n
}

// ActiveIndex returns the index of the active item, 0 when empty
func (l *List) ActiveIndex() int {
	return l.activeIndex
}

// Active returns the active item
func (l *List) Active() (domain.Media, bool) {
	if len(l.items) == 0 {
		return domain.Media{}, false
	}
	return l.items[l.activeIndex], true
}

// Items returns the loaded items in upstream order
func (l *List) Items() []domain.Media {
	return l.items
}

// Len returns the number of loaded items
func (l *List) Len() int {
	return len(l.items)
}

// Placeholders returns how many skeleton cards to show while loading
func (l *List) Placeholders() int {
	return l.Variables.PerPageOrDefault()
}

// Status returns the fetch status
func (l *List) Status() fetch.Status {
	return l.fetch.State().Status
}

// IsLoading returns true while a request is in flight
func (l *List) IsLoading() bool {
	return l.Status() == fetch.StatusLoading
}

// Err returns the last load error, nil unless the status is error
func (l *List) Err() error {
	return l.fetch.State().Err
}

// ErrorVisible returns true if the load failed and the error was not dismissed
func (l *List) ErrorVisible() bool {
	return l.Status() == fetch.StatusError && !l.dismissed
}

// DismissError hides the error banner until the next load
func (l *List) DismissError() {
	l.dismissed = true
}

// Accent returns the active item's color, or the fallback accent when the
// list is empty or the color is missing or malformed.
func (l *List) Accent() string {
	if m, ok := l.Active(); ok {
		if hex, ok := NormalizeAccent(m.Color); ok {
			return hex
		}
	}
	return l.fallback
}

// AccentForeground returns black or white, whichever reads better on Accent
func (l *List) AccentForeground() string {
	return ContrastingForeground(l.Accent())
}

// ContrastingForeground returns black for light colors and white for dark ones
func ContrastingForeground(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return foregroundLight
	}
	if lum, _, _ := c.Lab(); lum > 0.6 {
		return foregroundDark
	}
	return foregroundLight
}

// NormalizeAccent returns hex as a lowercase #rrggbb color, or false when it
// is empty or not a hex color
func NormalizeAccent(hex string) (string, bool) {
	if hex == "" {
		return "", false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}
