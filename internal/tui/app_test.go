package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/config"
	"github.com/mmcdole/anikino/internal/logging"
	"github.com/mmcdole/anikino/internal/selection"
)

type fakeMedia struct {
	ID      int
	Title   string
	Color   string
	Trailer string
	Score   int
	Year    int
}

func (f fakeMedia) raw() map[string]any {
	m := map[string]any{
		"id":         f.ID,
		"title":      map[string]any{"english": f.Title},
		"format":     "TV",
		"genres":     []string{"Adventure", "Drama", "Fantasy", "Mystery"},
		"seasonYear": f.Year,
		"episodes":   12,
		"status":     "FINISHED",
	}
	if f.Color != "" {
		m["coverImage"] = map[string]any{"color": f.Color}
	}
	if f.Trailer != "" {
		m["trailer"] = map[string]any{"id": f.Trailer, "site": "youtube"}
	}
	if f.Score > 0 {
		m["averageScore"] = f.Score
	}
	return m
}

// catalogQuerier serves canned pages keyed by sort, and single media by
// search or id
type catalogQuerier struct {
	mu      sync.Mutex
	pages   map[string][]fakeMedia
	fail    map[string]error
	media   map[string]fakeMedia
	pageReq []anilist.PageVariables
	lookups []anilist.MediaVariables
}

func newCatalog() *catalogQuerier {
	return &catalogQuerier{
		pages: map[string][]fakeMedia{
			anilist.SortTrendingDesc: {
				{ID: 154587, Title: "Frieren: Beyond Journey's End", Color: "#e4a15d", Trailer: "qgQ5nFO4d2w", Score: 91, Year: 2023},
				{ID: 171018, Title: "Dandadan", Color: "#f1785d", Score: 84, Year: 2024},
				{ID: 163132, Title: "Kaiju No. 8", Score: 77, Year: 2024},
			},
			anilist.SortPopularityDesc: {
				{ID: 16498, Title: "Attack on Titan", Color: "#e4a15d", Trailer: "LHtdKWJdif4", Score: 85, Year: 2013},
				{ID: 1535, Title: "Death Note", Color: "#e4a143", Score: 84, Year: 2006},
				{ID: 154587, Title: "Frieren: Beyond Journey's End", Color: "#e4a15d", Trailer: "qgQ5nFO4d2w", Score: 91, Year: 2023},
			},
			anilist.SortScoreDesc: {
				{ID: 5114, Title: "Fullmetal Alchemist: Brotherhood", Color: "#e4c993", Score: 90, Year: 2009},
				{ID: 9253, Title: "Steins;Gate", Color: "#e4a15d", Trailer: "27OZc-ku6is", Score: 88, Year: 2011},
			},
		},
		fail: map[string]error{},
		media: map[string]fakeMedia{
			"odd taxi": {ID: 128547, Title: "Odd Taxi", Color: "#e4e46b", Score: 85, Year: 2021},
			"5114":     {ID: 5114, Title: "Fullmetal Alchemist: Brotherhood", Score: 90, Year: 2009},
		},
	}
}

func (c *catalogQuerier) setFail(sort string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.fail, sort)
		return
	}
	c.fail[sort] = err
}

func (c *catalogQuerier) Query(ctx context.Context, query string, variables any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data map[string]any
	switch v := variables.(type) {
	case anilist.PageVariables:
		c.pageReq = append(c.pageReq, v)
		sort := ""
		if len(v.Sort) > 0 {
			sort = v.Sort[0]
		}
		if err := c.fail[sort]; err != nil {
			return err
		}
		media := []map[string]any{}
		for _, f := range c.pages[sort] {
			media = append(media, f.raw())
		}
		data = map[string]any{"Page": map[string]any{
			"pageInfo": map[string]any{"currentPage": 1, "perPage": len(media)},
			"media":    media,
		}}
	case anilist.MediaVariables:
		c.lookups = append(c.lookups, v)
		k := strings.ToLower(v.Search)
		if v.ID > 0 {
			k = fmt.Sprint(v.ID)
		}
		if f, ok := c.media[k]; ok {
			data = map[string]any{"Media": f.raw()}
		} else {
			data = map[string]any{"Media": nil}
		}
	default:
		return fmt.Errorf("unexpected variables %T", variables)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (c *catalogQuerier) lookupCalls() []anilist.MediaVariables {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]anilist.MediaVariables(nil), c.lookups...)
}

type recordLauncher struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (r *recordLauncher) Launch(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return r.err
}

func (r *recordLauncher) launched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}

// run executes cmd, giving up on timers that would outlive the test
func run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

// drain runs cmd and every command it produces, feeding results back into m
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := run(c)
		if !ok || msg == nil {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, ClearStatusMsg, tea.QuitMsg:
		default:
			next, cmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, cmd)
		}
	}
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, keys(string(r)))
	}
	return m
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func newTestModel(t *testing.T, q *catalogQuerier, spotlight bool) (Model, *recordLauncher) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.Spotlight = spotlight
	launcher := &recordLauncher{}
	m := NewModel(cfg, q, launcher, logging.Discard())
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = drain(t, m, m.Init())
	return m, launcher
}

func activeTitle(t *testing.T, m Model, row int) string {
	t.Helper()
	media, ok := m.Lists[row].Active()
	if !ok {
		t.Fatalf("row %d has no active item", row)
	}
	return media.Title
}

func TestInitLoadsEveryListing(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	want := map[string]int{"trending": 3, "popular": 3, "rated": 2}
	for _, l := range m.Lists {
		if l.IsLoading() {
			t.Errorf("%s still loading", l.Site())
		}
		if l.Len() != want[l.Site()] {
			t.Errorf("%s: Len() = %d, want %d", l.Site(), l.Len(), want[l.Site()])
		}
	}
	// Frieren appears in two listings but is indexed once
	if m.Index.Len() != 7 {
		t.Errorf("Index.Len() = %d, want 7", m.Index.Len())
	}
	if m.Focus != 0 || !m.Carousels[0].IsFocused() {
		t.Errorf("focus = %d, want first row focused", m.Focus)
	}
}

func TestSpotlightRowRequestsOneTrendingItem(t *testing.T) {
	q := newCatalog()
	m, _ := newTestModel(t, q, true)

	if m.Lists[0].Site() != config.SpotlightSite {
		t.Fatalf("row 0 = %q, want spotlight", m.Lists[0].Site())
	}
	vars := m.Lists[0].Variables
	if vars.PerPage != 1 || vars.Sort[0] != anilist.SortTrendingDesc {
		t.Errorf("spotlight variables = %+v", vars)
	}
	if !strings.Contains(m.View(), "Frieren") {
		t.Error("spotlight banner missing the trending title")
	}
}

func TestScrollWrapsActiveIndex(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("h"))
	if got := m.Lists[0].ActiveIndex(); got != 2 {
		t.Errorf("after h: ActiveIndex() = %d, want 2", got)
	}
	if got := m.Carousels[0].Position(); got != -1 {
		t.Errorf("after h: Position() = %d, want -1", got)
	}

	m = send(t, m, keys("l"), keys("l"))
	if got := m.Lists[0].ActiveIndex(); got != 1 {
		t.Errorf("after h l l: ActiveIndex() = %d, want 1", got)
	}
	if got := activeTitle(t, m, 0); got != "Dandadan" {
		t.Errorf("active = %q, want Dandadan", got)
	}

	// Rows scroll independently
	if got := m.Lists[1].ActiveIndex(); got != 0 {
		t.Errorf("popular ActiveIndex() = %d, want 0", got)
	}
}

func TestFocusMovesBetweenRows(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("j"), keys("j"), keys("j"))
	if m.Focus != 2 {
		t.Errorf("Focus = %d, want clamp at 2", m.Focus)
	}
	if m.Carousels[0].IsFocused() || !m.Carousels[2].IsFocused() {
		t.Error("carousel focus flags out of sync")
	}
	m = send(t, m, keys("k"))
	if m.Focus != 1 {
		t.Errorf("Focus = %d, want 1", m.Focus)
	}
}

func TestDetailAndTrailerStack(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, enterKey)
	if top, _ := m.Selection.Top(); top != selection.SurfaceDetail {
		t.Fatalf("Top() = %v, want detail", top)
	}
	if !strings.Contains(m.View(), "FINISHED") {
		t.Error("detail panel not rendered")
	}

	m = send(t, m, keys("t"))
	if !m.Selection.Mode().Has(selection.ModeDetailOpen | selection.ModeTrailerOpen) {
		t.Errorf("Mode() = %v, want detail and trailer", m.Selection.Mode())
	}
	if top, _ := m.Selection.Top(); top != selection.SurfaceTrailer {
		t.Errorf("Top() = %v, want trailer", top)
	}
	view := m.View()
	for _, want := range []string{"FINISHED", "j/k scroll", "open in player"} {
		if !strings.Contains(view, want) {
			t.Errorf("view with both surfaces open missing %q:\n%s", want, view)
		}
	}

	// Scrolling keys belong to the top surface
	m = send(t, m, keys("l"))
	if got := m.Lists[0].ActiveIndex(); got != 0 {
		t.Errorf("overlay leaked key to carousel: ActiveIndex() = %d", got)
	}

	m = send(t, m, escKey)
	if top, _ := m.Selection.Top(); top != selection.SurfaceDetail {
		t.Errorf("after esc: Top() = %v, want detail", top)
	}
	m = send(t, m, escKey)
	if m.Selection.Mode() != selection.ModeNone {
		t.Errorf("after second esc: Mode() = %v, want none", m.Selection.Mode())
	}
}

func TestKeysActOnHighlightedItemBeforeIndexMessage(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	// Scroll twice without delivering the carousel's IndexChangedMsg
	next, first := m.Update(keys("l"))
	m = next.(Model)
	if got := m.Lists[0].ActiveIndex(); got != 1 {
		t.Fatalf("ActiveIndex() = %d, want 1 right after the key", got)
	}
	next, _ = m.Update(keys("l"))
	m = next.(Model)

	// The first report arrives late and must not pull the row back
	next, _ = m.Update(first())
	m = next.(Model)
	if got, pos := m.Lists[0].ActiveIndex(), m.Carousels[0].Position(); got != 2 || pos != 2 {
		t.Fatalf("after stale report: ActiveIndex() = %d, Position() = %d, want 2", got, pos)
	}

	next, _ = m.Update(keys("h"))
	m = next.(Model)
	next, _ = m.Update(enterKey)
	m = next.(Model)
	subject, ok := m.Selection.Subject(selection.SurfaceDetail)
	if !ok {
		t.Fatal("detail not open")
	}
	if subject.Title != "Dandadan" {
		t.Errorf("detail subject = %q, want the highlighted Dandadan", subject.Title)
	}
}

func TestTrailerWithoutVideo(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("l"), keys("t"))
	if m.Selection.IsOpen(selection.SurfaceTrailer) {
		t.Error("trailer opened for media without a trailer")
	}
	if !strings.Contains(m.StatusMsg, "no trailer") {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}
}

func TestTrailerLaunch(t *testing.T) {
	m, launcher := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("t"))
	if !m.Selection.IsOpen(selection.SurfaceTrailer) {
		t.Fatal("trailer not open")
	}
	m = send(t, m, keys("o"))

	want := []string{"https://www.youtube.com/watch?v=qgQ5nFO4d2w"}
	if diff := cmp.Diff(want, launcher.launched()); diff != "" {
		t.Errorf("launched URLs mismatch (-want +got):\n%s", diff)
	}
	if m.Selection.IsOpen(selection.SurfaceTrailer) {
		t.Error("trailer still open after launch")
	}
	if !strings.HasPrefix(m.StatusMsg, "Opened trailer") || m.StatusIsErr {
		t.Errorf("StatusMsg = %q, err = %v", m.StatusMsg, m.StatusIsErr)
	}
}

func TestTrailerLaunchFailure(t *testing.T) {
	m, launcher := newTestModel(t, newCatalog(), false)
	launcher.err = errors.New("exec: \"mpv\": executable file not found in $PATH")

	m = send(t, m, keys("t"), keys("o"))
	if !m.StatusIsErr || !strings.Contains(m.StatusMsg, "Failed to open trailer") {
		t.Errorf("StatusMsg = %q, err = %v", m.StatusMsg, m.StatusIsErr)
	}
	if !m.Selection.IsOpen(selection.SurfaceTrailer) {
		t.Error("trailer closed after a failed launch")
	}
}

func TestListingErrorDismissAndRetry(t *testing.T) {
	q := newCatalog()
	q.setFail(anilist.SortPopularityDesc, &anilist.APIError{Messages: []string{"Too Many Requests"}})
	m, _ := newTestModel(t, q, false)

	popular := m.Lists[1]
	if !popular.ErrorVisible() {
		t.Fatal("popular listing error not visible")
	}
	if !strings.Contains(m.View(), "Too Many Requests") {
		t.Error("error banner not rendered")
	}
	// Other rows load regardless
	if m.Lists[0].Len() != 3 || m.Lists[2].Len() != 2 {
		t.Error("a failed listing blocked its siblings")
	}

	m = send(t, m, keys("j"), keys("x"))
	if popular.ErrorVisible() {
		t.Error("error still visible after dismiss")
	}

	q.setFail(anilist.SortPopularityDesc, nil)
	m = send(t, m, keys("r"))
	if popular.Err() != nil || popular.Len() != 3 {
		t.Errorf("after retry: err = %v, Len() = %d", popular.Err(), popular.Len())
	}
	if m.Index.Len() != 7 {
		t.Errorf("Index.Len() = %d, want 7 after retry", m.Index.Len())
	}
}

func TestOmnibarSelectFocusesOwningListing(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("f"))
	if !m.Omnibar.IsVisible() {
		t.Fatal("omnibar not visible")
	}
	m = typeText(t, m, "steins")
	if m.Omnibar.ResultCount() == 0 {
		t.Fatal("no results for steins")
	}
	m = send(t, m, enterKey)

	if m.Omnibar.IsVisible() {
		t.Error("omnibar still visible after select")
	}
	if m.Focus != 2 {
		t.Errorf("Focus = %d, want rated row", m.Focus)
	}
	if got := activeTitle(t, m, 2); got != "Steins;Gate" {
		t.Errorf("active = %q, want Steins;Gate", got)
	}
	current, ok := m.Selection.Current()
	if !ok || current.Title != "Steins;Gate" {
		t.Errorf("Current() = %q, %v", current.Title, ok)
	}
}

func TestOmnibarRemoteLookup(t *testing.T) {
	q := newCatalog()
	m, _ := newTestModel(t, q, false)

	m = send(t, m, keys("f"))
	m = typeText(t, m, "odd taxi")
	if m.Omnibar.ResultCount() != 0 {
		t.Fatalf("ResultCount() = %d, want no local matches", m.Omnibar.ResultCount())
	}

	m = send(t, m, enterKey)
	want := []anilist.MediaVariables{{Search: "odd taxi"}}
	if diff := cmp.Diff(want, q.lookupCalls()); diff != "" {
		t.Errorf("lookup variables mismatch (-want +got):\n%s", diff)
	}
	if m.Omnibar.ResultCount() != 1 {
		t.Fatalf("ResultCount() = %d, want the lookup result", m.Omnibar.ResultCount())
	}

	m = send(t, m, enterKey)
	current, ok := m.Selection.Current()
	if !ok || current.Title != "Odd Taxi" {
		t.Errorf("Current() = %q, %v", current.Title, ok)
	}
	if m.Focus != 0 {
		t.Errorf("Focus = %d, lookup results belong to no row", m.Focus)
	}
}

func TestOmnibarLookupNotFound(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("f"))
	m = typeText(t, m, "zzzz")
	m = send(t, m, enterKey)

	if m.Omnibar.IsLoading() {
		t.Error("omnibar still loading")
	}
	if !strings.Contains(m.Omnibar.View(), "media not found") {
		t.Errorf("omnibar view missing not-found message:\n%s", m.Omnibar.View())
	}
}

func TestLookupVariables(t *testing.T) {
	tests := map[string]anilist.MediaVariables{
		"5114":          {ID: 5114},
		" 5114 ":        {ID: 5114},
		"steins;gate":   {Search: "steins;gate"},
		"86":            {ID: 86},
		"-3":            {Search: "-3"},
		"Made in Abyss": {Search: "Made in Abyss"},
	}
	for in, want := range tests {
		if got := lookupVariables(in); got != want {
			t.Errorf("lookupVariables(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestSeasonCycle(t *testing.T) {
	q := newCatalog()
	m, _ := newTestModel(t, q, false)

	before := m.Lists[0].Variables
	m = send(t, m, keys("s"))
	after := m.Lists[0].Variables

	season, year := anilist.NextSeason(before.Season, before.SeasonYear)
	if after.Season != season || after.SeasonYear != year {
		t.Errorf("season = %s %d, want %s %d", after.Season, after.SeasonYear, season, year)
	}
	if m.Lists[0].Len() != 3 {
		t.Errorf("Len() = %d after reload", m.Lists[0].Len())
	}
	if !strings.Contains(m.View(), seasonLabel(season)) {
		t.Error("headline does not show the new season")
	}

	// A non-seasonal focused row falls back to the first seasonal one
	m = send(t, m, keys("j"), keys("s"))
	season, year = anilist.NextSeason(season, year)
	if got := m.Lists[0].Variables; got.Season != season || got.SeasonYear != year {
		t.Errorf("season = %s %d, want %s %d", got.Season, got.SeasonYear, season, year)
	}
	if m.Lists[1].Variables.Season != "" {
		t.Error("non-seasonal listing gained a season")
	}
}

func TestCarouselFilterJumpsAndRestores(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("j"), keys("/"))
	if !m.Carousels[1].IsFiltering() {
		t.Fatal("filter not active")
	}
	m = typeText(t, m, "death")
	if got := activeTitle(t, m, 1); got != "Death Note" {
		t.Errorf("active = %q, want Death Note", got)
	}

	// q types into the filter instead of quitting
	m = send(t, m, keys("q"))
	if !m.Carousels[1].IsFiltering() {
		t.Error("filter closed on a typed key")
	}

	m = send(t, m, escKey)
	if m.Carousels[1].IsFiltering() {
		t.Error("filter still active after esc")
	}
	if got := m.Lists[1].ActiveIndex(); got != 0 {
		t.Errorf("ActiveIndex() = %d, want restored to 0", got)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, newCatalog(), false)

	m = send(t, m, keys("?"))
	if m.State != StateHelp || !strings.Contains(m.View(), "Search all listings") {
		t.Fatal("help not shown")
	}
	m = send(t, m, keys("q"))
	if m.State != StateBrowsing {
		t.Error("q did not leave help")
	}
}

func TestProgramRendersListings(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewModel(cfg, newCatalog(), &recordLauncher{}, logging.Discard())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(140, 48))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Steins;Gate")) && bytes.Contains(b, []byte("Most Popular"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keys("q"))
	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(Model)
	if !ok {
		t.Fatal("final model has unexpected type")
	}
	if final.Index.Len() != 7 {
		t.Errorf("Index.Len() = %d, want 7", final.Index.Len())
	}
}
