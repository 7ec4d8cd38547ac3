package listing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/fetch"
)

const trendingPage = `{"Page":{"pageInfo":{"currentPage":1,"perPage":3},"media":[
	{"id":1,"title":{"english":"Dandadan"},"coverImage":{"color":"#f1785d"}},
	{"id":2,"title":{"english":"Kaiju No. 8"},"coverImage":{"color":"#e4a15d"}},
	{"id":3,"title":{"english":"Oshi no Ko"},"coverImage":{"color":null}}
]}}`

// jsonQuerier decodes a canned data member into out
type jsonQuerier struct {
	data  string
	err   error
	calls int
}

func (q *jsonQuerier) Query(ctx context.Context, query string, variables any, out any) error {
	q.calls++
	if q.err != nil {
		return q.err
	}
	return json.Unmarshal([]byte(q.data), out)
}

func load(t *testing.T, l *List, cmd tea.Cmd) {
	t.Helper()
	msg, ok := cmd().(fetch.ResultMsg[anilist.PageData])
	if !ok {
		t.Fatalf("cmd returned %T", msg)
	}
	if !l.HandleResult(msg) {
		t.Fatal("HandleResult() = false, want true")
	}
}

func newTrending(q *jsonQuerier) *List {
	vars := anilist.PageVariables{Sort: []string{anilist.SortTrendingDesc}, Season: anilist.SeasonSummer, SeasonYear: 2025, PerPage: 3}
	return New("trending", "Trending", vars, q, "#ff6b6b", nil)
}

func TestTrendingScenario(t *testing.T) {
	l := newTrending(&jsonQuerier{data: trendingPage})
	load(t, l, l.Load())

	if l.Len() != 3 || l.ActiveIndex() != 0 {
		t.Fatalf("Len() = %d, ActiveIndex() = %d, want 3, 0", l.Len(), l.ActiveIndex())
	}
	if got := l.Accent(); got != "#f1785d" {
		t.Errorf("Accent() = %q, want #f1785d", got)
	}

	l.SetActiveIndex(7)
	if l.ActiveIndex() != 1 {
		t.Errorf("ActiveIndex() = %d, want 1", l.ActiveIndex())
	}
	if got := l.Accent(); got != "#e4a15d" {
		t.Errorf("Accent() = %q, want #e4a15d", got)
	}

	l.SetActiveIndex(2)
	if got := l.Accent(); got != "#ff6b6b" {
		t.Errorf("Accent() with null color = %q, want fallback #ff6b6b", got)
	}
}

func TestSetActiveIndexWraps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		index int
		want  int
	}{
		"zero":           {index: 0, want: 0},
		"in range":       {index: 2, want: 2},
		"length":         {index: 3, want: 0},
		"past length":    {index: 7, want: 1},
		"minus one":      {index: -1, want: 2},
		"large negative": {index: -10, want: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			l := newTrending(&jsonQuerier{data: trendingPage})
			load(t, l, l.Load())

			l.SetActiveIndex(tt.index)
			if l.ActiveIndex() != tt.want {
				t.Errorf("SetActiveIndex(%d) -> %d, want %d", tt.index, l.ActiveIndex(), tt.want)
			}
			if _, ok := l.Active(); !ok {
				t.Error("Active() = false with loaded items")
			}
		})
	}
}

func TestIndexSetBeforeLoadIsApplied(t *testing.T) {
	l := newTrending(&jsonQuerier{data: trendingPage})

	cmd := l.Load()
	l.SetActiveIndex(5)
	if l.ActiveIndex() != 0 {
		t.Fatalf("ActiveIndex() while empty = %d, want 0", l.ActiveIndex())
	}
	if _, ok := l.Active(); ok {
		t.Error("Active() = true while empty")
	}

	load(t, l, cmd)
	if l.ActiveIndex() != 2 {
		t.Errorf("ActiveIndex() after load = %d, want 2", l.ActiveIndex())
	}
}

func TestEmptyListUsesFallbackAccent(t *testing.T) {
	l := newTrending(&jsonQuerier{data: `{"Page":{"media":[]}}`})
	if got := l.Accent(); got != "#ff6b6b" {
		t.Errorf("Accent() before load = %q, want #ff6b6b", got)
	}
	load(t, l, l.Load())
	if got := l.Accent(); got != "#ff6b6b" {
		t.Errorf("Accent() with no items = %q, want #ff6b6b", got)
	}
	if l.Status() != fetch.StatusSuccess || l.Len() != 0 {
		t.Errorf("Status() = %v, Len() = %d", l.Status(), l.Len())
	}
}

func TestInvalidFallbackUsesDefault(t *testing.T) {
	l := New("popular", "Most Popular", anilist.PageVariables{}, &jsonQuerier{}, "not-a-color", nil)
	if got := l.Accent(); got != DefaultAccent {
		t.Errorf("Accent() = %q, want %q", got, DefaultAccent)
	}
}

func TestMalformedItemColorUsesFallback(t *testing.T) {
	l := newTrending(&jsonQuerier{data: `{"Page":{"media":[{"id":1,"coverImage":{"color":"orange"}}]}}`})
	load(t, l, l.Load())
	if got := l.Accent(); got != "#ff6b6b" {
		t.Errorf("Accent() = %q, want fallback", got)
	}
}

func TestLoadErrorIsDismissibleAndRetryable(t *testing.T) {
	q := &jsonQuerier{err: &anilist.APIError{Messages: []string{"a", "b"}}}
	l := newTrending(q)
	load(t, l, l.Load())

	if !l.ErrorVisible() {
		t.Fatal("ErrorVisible() = false after failed load")
	}
	if got := l.Err().Error(); got != "a; b" {
		t.Errorf("Err() = %q, want %q", got, "a; b")
	}

	l.DismissError()
	if l.ErrorVisible() {
		t.Error("ErrorVisible() = true after DismissError")
	}

	q.err = nil
	q.data = trendingPage
	cmd := l.Retry()
	if !l.IsLoading() {
		t.Errorf("Status() after Retry = %v, want loading", l.Status())
	}
	load(t, l, cmd)
	if l.Len() != 3 || l.Err() != nil {
		t.Errorf("after retry Len() = %d, Err() = %v", l.Len(), l.Err())
	}
	if q.calls != 2 {
		t.Errorf("calls = %d, want 2", q.calls)
	}
}

func TestStaleResultIsIgnored(t *testing.T) {
	l := newTrending(&jsonQuerier{data: trendingPage})

	stale := l.Load()
	fresh := l.Reload(anilist.PageVariables{Sort: []string{anilist.SortScoreDesc}})

	if l.HandleResult(stale().(fetch.ResultMsg[anilist.PageData])) {
		t.Error("HandleResult(stale) = true")
	}
	if !l.IsLoading() {
		t.Error("stale result ended loading")
	}
	load(t, l, fresh)
	if diff := cmp.Diff([]string{anilist.SortScoreDesc}, l.Variables.Sort); diff != "" {
		t.Errorf("Variables.Sort mismatch (-want +got):\n%s", diff)
	}
}

func TestBufferedIndexLastsOneLoad(t *testing.T) {
	const emptyPage = `{"Page":{"pageInfo":{"currentPage":1,"perPage":3},"media":[]}}`

	tests := map[string]struct {
		querier *jsonQuerier
		settle  func(t *testing.T, l *List, cmd tea.Cmd)
	}{
		"failed load": {
			querier: &jsonQuerier{err: errors.New("network error: 503 Service Unavailable")},
			settle:  func(t *testing.T, l *List, cmd tea.Cmd) { load(t, l, cmd) },
		},
		"empty page": {
			querier: &jsonQuerier{data: emptyPage},
			settle:  func(t *testing.T, l *List, cmd tea.Cmd) { load(t, l, cmd) },
		},
		"cancel": {
			querier: &jsonQuerier{data: trendingPage},
			settle:  func(t *testing.T, l *List, cmd tea.Cmd) { l.Cancel() },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := newTrending(tt.querier)
			cmd := l.Load()
			l.SetActiveIndex(2)
			tt.settle(t, l, cmd)

			if l.pending != nil {
				t.Fatalf("pending = %d after the load settled", *l.pending)
			}

			tt.querier.data, tt.querier.err = trendingPage, nil
			load(t, l, l.Retry())
			if l.ActiveIndex() != 0 {
				t.Errorf("ActiveIndex() after retry = %d, want 0", l.ActiveIndex())
			}
		})
	}
}

func TestPlaceholdersMatchPageSize(t *testing.T) {
	l := newTrending(&jsonQuerier{})
	if l.Placeholders() != 3 {
		t.Errorf("Placeholders() = %d, want 3", l.Placeholders())
	}
	l.Variables.PerPage = 0
	if l.Placeholders() != 15 {
		t.Errorf("Placeholders() = %d, want 15", l.Placeholders())
	}
}

func TestContrastingForeground(t *testing.T) {
	if got := ContrastingForeground("#ffffff"); got != foregroundDark {
		t.Errorf("ContrastingForeground(white) = %q", got)
	}
	if got := ContrastingForeground("#1a1a2e"); got != foregroundLight {
		t.Errorf("ContrastingForeground(navy) = %q", got)
	}
	for _, bad := range []string{"", "orange", "#ggg"} {
		if _, ok := NormalizeAccent(bad); ok {
			t.Errorf("NormalizeAccent(%q) accepted", bad)
		}
	}
	if got, ok := NormalizeAccent("#ABC"); !ok || got != "#aabbcc" {
		t.Errorf("NormalizeAccent(#ABC) = %q, %v", got, ok)
	}
}
