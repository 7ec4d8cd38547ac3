// Package search ranks the media of every loaded listing against a query.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/anikino/internal/domain"
)

// Entry is one indexed media item and where it lives in the UI
type Entry struct {
	Media domain.Media
	Site  string // Listing the item was loaded by
	Index int    // Position of the item within that listing
}

// Result is a ranked match
type Result struct {
	Entry
	Score int // Lower is better
}

// Index holds the items of all loaded listings, deduplicated by id.
// The first listing to contribute an id owns it.
type Index struct {
	entries     []Entry
	lowerTitles []string
	seen        map[string]bool
	logger      *slog.Logger
}

// NewIndex creates an empty index
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		seen:   make(map[string]bool),
		logger: logger,
	}
}

// Add indexes items loaded by site. Items already indexed under the same id are skipped.
func (x *Index) Add(site string, items []domain.Media) {
	for i, m := range items {
		if m.ID != "" {
			if x.seen[m.ID] {
				continue
			}
			x.seen[m.ID] = true
		}
		x.entries = append(x.entries, Entry{Media: m, Site: site, Index: i})
		x.lowerTitles = append(x.lowerTitles, strings.ToLower(m.Title))
	}
}

// Reset empties the index
func (x *Index) Reset() {
	x.entries = nil
	x.lowerTitles = nil
	x.seen = make(map[string]bool)
}

// Len returns the number of indexed items
func (x *Index) Len() int {
	return len(x.entries)
}

// Find returns the entries whose titles fuzzily contain query, best match first
func (x *Index) Find(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(x.entries) == 0 {
		return nil
	}

	matches := fuzzy.RankFindFold(query, x.lowerTitles)

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		title := x.lowerTitles[match.OriginalIndex]
		results = append(results, Result{
			Entry: x.entries[match.OriginalIndex],
			Score: matchScore(title, query, match.Distance),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return len(results[i].Media.Title) < len(results[j].Media.Title)
	})

	x.logger.Debug("search", "query", query, "indexed", len(x.entries), "results", len(results))
	return results
}

// matchScore ranks exact, prefix and substring matches ahead of scattered ones.
// Lower score = better match
func matchScore(title, query string, distance int) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	default:
		return 100 + distance
	}
}
