package anilist

import (
	"strconv"
	"strings"

	"github.com/mmcdole/anikino/internal/domain"
)

// MapMediaList converts raw media records to domain media, preserving order.
// Nil records are skipped.
func MapMediaList(raw []*RawMedia) []domain.Media {
	items := make([]domain.Media, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		items = append(items, MapMedia(r))
	}
	return items
}

// MapPage converts page data to domain media and page info.
// Missing Page or pageInfo yields an empty result, never an error.
func MapPage(data *PageData) ([]domain.Media, PageInfo) {
	if data == nil || data.Page == nil {
		return []domain.Media{}, PageInfo{}
	}
	var info PageInfo
	if data.Page.PageInfo != nil {
		info = *data.Page.PageInfo
	}
	return MapMediaList(data.Page.Media), info
}

// MapMedia converts a single raw record to a domain media value.
// It never fails: every missing field resolves to its documented default.
func MapMedia(r *RawMedia) domain.Media {
	if r == nil {
		return domain.Media{Type: domain.MediaTypeTV, Genres: []string{}}
	}

	m := domain.Media{
		Title:       mapTitle(r.Title),
		PosterURL:   mapPoster(r.CoverImage),
		BannerURL:   str(r.BannerImage),
		Year:        intOr(r.SeasonYear, 0),
		Format:      str(r.Format),
		Type:        mapType(r.Format),
		Genres:      append([]string{}, r.Genres...),
		YouTubeID:   mapTrailer(r.Trailer),
		Description: str(r.Description),
		Status:      str(r.Status),
		Season:      str(r.Season),
		Duration:    intOr(r.Duration, 0),
		Source:      str(r.Source),
	}

	if r.ID != 0 {
		m.ID = strconv.Itoa(r.ID)
	}

	if r.CoverImage != nil {
		m.Color = str(r.CoverImage.Color)
	}

	// Copy so the view entity never aliases the decoded response
	if r.AverageScore != nil {
		score := *r.AverageScore
		m.Score = &score
	}

	if r.Episodes != nil {
		m.Episodes = *r.Episodes
		m.EpisodesKnown = true
	}

	return m
}

// mapTitle prefers the english title and falls back to romaji
func mapTitle(t *RawTitle) string {
	if t == nil {
		return ""
	}
	if en := str(t.English); en != "" {
		return en
	}
	return str(t.Romaji)
}

// mapPoster prefers the extra large cover and falls back to large
func mapPoster(c *RawCoverImage) string {
	if c == nil {
		return ""
	}
	if xl := str(c.ExtraLarge); xl != "" {
		return xl
	}
	return str(c.Large)
}

// mapType derives tv/movie from the raw format
func mapType(format *string) domain.MediaType {
	if strings.ToLower(str(format)) == "movie" {
		return domain.MediaTypeMovie
	}
	return domain.MediaTypeTV
}

// mapTrailer returns the trailer id when it can be played as a YouTube video
func mapTrailer(t *RawTrailer) string {
	if t == nil {
		return ""
	}
	site := strings.ToLower(str(t.Site))
	if site != "" && site != "youtube" {
		return ""
	}
	return str(t.ID)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOr(i *int, fallback int) int {
	if i == nil {
		return fallback
	}
	return *i
}
