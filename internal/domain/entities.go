package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

// MediaType distinguishes content types
type MediaType string

const (
	MediaTypeTV    MediaType = "tv"
	MediaTypeMovie MediaType = "movie"
)

// Media is the canonical view entity for one catalog entry.
// Values are built fresh by the normalizer on every response and are not
// mutated afterwards.
type Media struct {
	ID        string    // Source API identifier, unique within a result set
	Title     string    // Display title
	PosterURL string    // Cover image URL, empty when unknown
	BannerURL string    // Wide banner image URL, empty when unknown
	Color     string    // Hex color associated with the cover ("#e4a15d"), empty when unknown
	Score     *int      // Average score on a 0-100 scale, nil when unknown
	Year      int       // Season year, 0 when unknown
	Type      MediaType // tv or movie
	Format    string    // Raw upstream format ("TV", "MOVIE", "OVA", ...)
	Genres    []string

	// Episodes defaults to 0 when upstream omits it. EpisodesKnown tells
	// "0 episodes" apart from "not reported".
	Episodes      int
	EpisodesKnown bool

	YouTubeID string // Trailer video id, empty when there is no playable trailer

	// Display facts passed through unvalidated
	Description string
	Status      string
	Season      string
	Duration    int // Minutes per episode
	Source      string
}

// HasScore returns true if the upstream score is known
func (m Media) HasScore() bool {
	return m.Score != nil
}

// HasTrailer returns true if the media carries a playable trailer
func (m Media) HasTrailer() bool {
	return m.YouTubeID != ""
}

// TrailerURL returns the watch URL for the trailer, or "" when there is none
func (m Media) TrailerURL() string {
	if !m.HasTrailer() {
		return ""
	}
	q := url.Values{}
	q.Set("v", m.YouTubeID)
	return "https://www.youtube.com/watch?" + q.Encode()
}

// MetaLabel returns the short type label shown on cards ("12 eps", "TV", "Movie")
func (m Media) MetaLabel() string {
	if m.Type == MediaTypeMovie {
		return "Movie"
	}
	if m.Episodes > 0 {
		return fmt.Sprintf("%d eps", m.Episodes)
	}
	return "TV"
}

// ScoreLabel returns the score as a percentage, or "" when unknown
func (m Media) ScoreLabel() string {
	if m.Score == nil {
		return ""
	}
	return strconv.Itoa(*m.Score) + "%"
}

// YearLabel returns the year as a string, or "" when unknown
func (m Media) YearLabel() string {
	if m.Year <= 0 {
		return ""
	}
	return strconv.Itoa(m.Year)
}

// FormattedDuration returns the per-episode duration in a human-readable format
func (m Media) FormattedDuration() string {
	if m.Duration <= 0 {
		return ""
	}
	h := m.Duration / 60
	mins := m.Duration % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
