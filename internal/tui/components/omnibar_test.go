package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/search"
)

func typeInto(o Omnibar, s string) Omnibar {
	for _, r := range s {
		o, _, _ = o.Update(runeKey(string(r)))
	}
	return o
}

func results(titles ...string) []search.Result {
	out := make([]search.Result, len(titles))
	for i, title := range titles {
		out[i] = search.Result{Entry: search.Entry{
			Media: domain.Media{ID: title, Title: title, Format: "TV", Year: 2020 + i},
			Site:  "popular",
			Index: i,
		}}
	}
	return out
}

func TestOmnibarHiddenIgnoresInput(t *testing.T) {
	o := NewOmnibar()
	o, _, action := o.Update(runeKey("a"))
	if action != OmnibarNone || o.Query() != "" {
		t.Error("hidden omnibar accepted input")
	}
	if o.View() != "" {
		t.Error("hidden omnibar rendered")
	}
}

func TestOmnibarSelectAndNavigate(t *testing.T) {
	o := NewOmnibar()
	o.SetSize(120, 40)
	o.SetHeadline("popular", "Most Popular")
	o.Show()

	o = typeInto(o, "ti")
	if !o.QueryChanged() {
		t.Error("QueryChanged() = false after typing")
	}
	if o.QueryChanged() {
		t.Error("QueryChanged() = true without new input")
	}
	o.SetResults(results("Attack on Titan", "Odd Taxi"))

	o, _, _ = o.Update(tea.KeyMsg{Type: tea.KeyDown})
	o, _, _ = o.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := o.SelectedResult(); got == nil || got.Media.Title != "Odd Taxi" {
		t.Fatalf("SelectedResult() = %+v, want Odd Taxi", got)
	}

	view := o.View()
	for _, want := range []string{"Most Popular > ", "Odd Taxi (2021)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	_, _, action := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != OmnibarSelect {
		t.Errorf("enter: action = %v, want OmnibarSelect", action)
	}
}

func TestOmnibarEnterWithoutMatchesAsksForLookup(t *testing.T) {
	o := NewOmnibar()
	o.SetSize(120, 40)
	o.Show()

	// Nothing typed yet
	if _, _, action := o.Update(tea.KeyMsg{Type: tea.KeyEnter}); action != OmnibarNone {
		t.Errorf("empty query: action = %v", action)
	}

	o = typeInto(o, "sonny boy")
	if !strings.Contains(o.View(), "look it up on AniList") {
		t.Error("no-match hint missing")
	}
	if _, _, action := o.Update(tea.KeyMsg{Type: tea.KeyEnter}); action != OmnibarLookup {
		t.Errorf("action = %v, want OmnibarLookup", action)
	}

	o.SetLoading(true)
	if _, _, action := o.Update(tea.KeyMsg{Type: tea.KeyEnter}); action != OmnibarNone {
		t.Errorf("lookup in flight: action = %v, want OmnibarNone", action)
	}
	if !strings.Contains(o.View(), "Looking up") {
		t.Error("loading text missing")
	}

	o.SetLookupError(domain.ErrMediaNotFound)
	if o.IsLoading() || !strings.Contains(o.View(), "media not found") {
		t.Error("lookup error not shown")
	}
}

func TestOmnibarEscHides(t *testing.T) {
	o := NewOmnibar()
	o.Show()
	o = typeInto(o, "frieren")
	o, _, _ = o.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if o.IsVisible() {
		t.Error("omnibar visible after esc")
	}

	o.Show()
	if o.Query() != "" || o.ResultCount() != 0 {
		t.Error("Show() kept the previous query")
	}
}
