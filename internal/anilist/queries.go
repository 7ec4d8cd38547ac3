package anilist

import (
	"fmt"
	"slices"
	"time"

	"github.com/mmcdole/anikino/internal/domain"
)

// mediaFields is the selection set shared by both documents
const mediaFields = `
    id
    title { english romaji }
    seasonYear
    format
    genres
    trailer {
        id
        site
        thumbnail
    }
    bannerImage
    coverImage {
        medium
        large
        color
        extraLarge
    }
    episodes
    meanScore
    source
    averageScore
    description
    status
    season
    duration
`

// MediaQuery fetches a single media item by id and/or search string
const MediaQuery = `
    query ($id: Int, $search: String) {
        Media (id: $id, search: $search, type: ANIME) {` + mediaFields + `
        }
    }
`

// PageQuery fetches one page of media filtered and sorted by PageVariables
const PageQuery = `
    query (
        $page: Int = 1
        $perPage: Int = 15
        $id: Int
        $type: MediaType = ANIME
        $isAdult: Boolean = false
        $search: String
        $format: [MediaFormat]
        $status: MediaStatus
        $countryOfOrigin: CountryCode
        $source: MediaSource
        $season: MediaSeason
        $seasonYear: Int
        $year: String
        $onList: Boolean
        $yearLesser: FuzzyDateInt
        $yearGreater: FuzzyDateInt
        $episodeLesser: Int
        $episodeGreater: Int
        $durationLesser: Int
        $durationGreater: Int
        $chapterLesser: Int
        $chapterGreater: Int
        $volumeLesser: Int
        $volumeGreater: Int
        $licensedBy: [Int]
        $isLicensed: Boolean
        $genres: [String]
        $excludedGenres: [String]
        $tags: [String]
        $excludedTags: [String]
        $minimumTagRank: Int
        $sort: [MediaSort] = [POPULARITY_DESC]
        $genre: String
    ) {
        Page(page: $page, perPage: $perPage) {
            pageInfo {
                hasNextPage
                currentPage
                perPage
            }
            media(
                id: $id
                type: $type
                season: $season
                format_in: $format
                status: $status
                countryOfOrigin: $countryOfOrigin
                source: $source
                search: $search
                onList: $onList
                seasonYear: $seasonYear
                startDate_like: $year
                startDate_lesser: $yearLesser
                startDate_greater: $yearGreater
                episodes_lesser: $episodeLesser
                episodes_greater: $episodeGreater
                duration_lesser: $durationLesser
                duration_greater: $durationGreater
                chapters_lesser: $chapterLesser
                chapters_greater: $chapterGreater
                volumes_lesser: $volumeLesser
                volumes_greater: $volumeGreater
                licensedById_in: $licensedBy
                isLicensed: $isLicensed
                genre_in: $genres
                genre_not_in: $excludedGenres
                tag_in: $tags
                tag_not_in: $excludedTags
                minimumTagRank: $minimumTagRank
                sort: $sort
                isAdult: $isAdult
                genre: $genre
            ) {` + mediaFields + `
            }
        }
    }
`

// Sort values accepted by PageVariables.Sort
const (
	SortTrendingDesc   = "TRENDING_DESC"
	SortPopularityDesc = "POPULARITY_DESC"
	SortScoreDesc      = "SCORE_DESC"
	SortFavouritesDesc = "FAVOURITES_DESC"
	SortStartDateDesc  = "START_DATE_DESC"
	SortTitleRomaji    = "TITLE_ROMAJI"
	SortEpisodesDesc   = "EPISODES_DESC"
)

// Season values accepted by PageVariables.Season
const (
	SeasonWinter = "WINTER"
	SeasonSpring = "SPRING"
	SeasonSummer = "SUMMER"
	SeasonFall   = "FALL"
)

// MaxPerPage is the largest page size the API serves
const MaxPerPage = 50

var validSorts = []string{
	"ID", "ID_DESC", "TITLE_ROMAJI", "TITLE_ROMAJI_DESC", "TITLE_ENGLISH", "TITLE_ENGLISH_DESC",
	"TYPE", "TYPE_DESC", "FORMAT", "FORMAT_DESC", "START_DATE", "START_DATE_DESC",
	"END_DATE", "END_DATE_DESC", "SCORE", "SCORE_DESC", "POPULARITY", "POPULARITY_DESC",
	"TRENDING", "TRENDING_DESC", "EPISODES", "EPISODES_DESC", "DURATION", "DURATION_DESC",
	"STATUS", "STATUS_DESC", "FAVOURITES", "FAVOURITES_DESC", "UPDATED_AT", "UPDATED_AT_DESC",
}

var validSeasons = []string{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

var validFormats = []string{"TV", "TV_SHORT", "MOVIE", "SPECIAL", "OVA", "ONA", "MUSIC"}

// Seasons returns the seasons in calendar order
func Seasons() []string {
	return slices.Clone(validSeasons)
}

// MediaVariables are the variables accepted by MediaQuery
type MediaVariables struct {
	ID     int    `json:"id,omitempty"`
	Search string `json:"search,omitempty"`
}

// PageVariables are the variables accepted by PageQuery.
// Zero values are omitted so the document defaults apply.
type PageVariables struct {
	Page            int      `json:"page,omitempty" mapstructure:"page"`
	PerPage         int      `json:"perPage,omitempty" mapstructure:"per_page"`
	ID              int      `json:"id,omitempty" mapstructure:"id"`
	Type            string   `json:"type,omitempty" mapstructure:"type"`
	IsAdult         *bool    `json:"isAdult,omitempty" mapstructure:"is_adult"`
	Search          string   `json:"search,omitempty" mapstructure:"search"`
	Format          []string `json:"format,omitempty" mapstructure:"format"`
	Status          string   `json:"status,omitempty" mapstructure:"status"`
	CountryOfOrigin string   `json:"countryOfOrigin,omitempty" mapstructure:"country_of_origin"`
	Source          string   `json:"source,omitempty" mapstructure:"source"`
	Season          string   `json:"season,omitempty" mapstructure:"season"`
	SeasonYear      int      `json:"seasonYear,omitempty" mapstructure:"season_year"`
	Year            string   `json:"year,omitempty" mapstructure:"year"`
	OnList          *bool    `json:"onList,omitempty" mapstructure:"on_list"`
	YearLesser      int      `json:"yearLesser,omitempty" mapstructure:"year_lesser"`
	YearGreater     int      `json:"yearGreater,omitempty" mapstructure:"year_greater"`
	EpisodeLesser   int      `json:"episodeLesser,omitempty" mapstructure:"episode_lesser"`
	EpisodeGreater  int      `json:"episodeGreater,omitempty" mapstructure:"episode_greater"`
	DurationLesser  int      `json:"durationLesser,omitempty" mapstructure:"duration_lesser"`
	DurationGreater int      `json:"durationGreater,omitempty" mapstructure:"duration_greater"`
	ChapterLesser   int      `json:"chapterLesser,omitempty" mapstructure:"chapter_lesser"`
	ChapterGreater  int      `json:"chapterGreater,omitempty" mapstructure:"chapter_greater"`
	VolumeLesser    int      `json:"volumeLesser,omitempty" mapstructure:"volume_lesser"`
	VolumeGreater   int      `json:"volumeGreater,omitempty" mapstructure:"volume_greater"`
	LicensedBy      []int    `json:"licensedBy,omitempty" mapstructure:"licensed_by"`
	IsLicensed      *bool    `json:"isLicensed,omitempty" mapstructure:"is_licensed"`
	Genres          []string `json:"genres,omitempty" mapstructure:"genres"`
	ExcludedGenres  []string `json:"excludedGenres,omitempty" mapstructure:"excluded_genres"`
	Tags            []string `json:"tags,omitempty" mapstructure:"tags"`
	ExcludedTags    []string `json:"excludedTags,omitempty" mapstructure:"excluded_tags"`
	MinimumTagRank  int      `json:"minimumTagRank,omitempty" mapstructure:"minimum_tag_rank"`
	Sort            []string `json:"sort,omitempty" mapstructure:"sort"`
	Genre           string   `json:"genre,omitempty" mapstructure:"genre"`
}

// Validate rejects enum values and paging the API would refuse
func (v PageVariables) Validate() error {
	if v.Page < 0 {
		return fmt.Errorf("%w: page %d", domain.ErrInvalidVariables, v.Page)
	}
	if v.PerPage < 0 || v.PerPage > MaxPerPage {
		return fmt.Errorf("%w: perPage %d outside 0..%d", domain.ErrInvalidVariables, v.PerPage, MaxPerPage)
	}
	for _, s := range v.Sort {
		if !slices.Contains(validSorts, s) {
			return fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidVariables, s)
		}
	}
	if v.Season != "" && !slices.Contains(validSeasons, v.Season) {
		return fmt.Errorf("%w: unknown season %q", domain.ErrInvalidVariables, v.Season)
	}
	for _, f := range v.Format {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidVariables, f)
		}
	}
	return nil
}

// PerPageOrDefault returns the page size the API will use for these variables
func (v PageVariables) PerPageOrDefault() int {
	if v.PerPage > 0 {
		return v.PerPage
	}
	return 15
}

// CurrentSeason returns the AniList season and season year containing t.
// December belongs to the following year's winter season.
func CurrentSeason(t time.Time) (string, int) {
	year := t.Year()
	switch t.Month() {
	case time.December:
		return SeasonWinter, year + 1
	case time.January, time.February:
		return SeasonWinter, year
	case time.March, time.April, time.May:
		return SeasonSpring, year
	case time.June, time.July, time.August:
		return SeasonSummer, year
	default:
		return SeasonFall, year
	}
}

// NextSeason returns the season following season, wrapping the year after fall
func NextSeason(season string, year int) (string, int) {
	i := slices.Index(validSeasons, season)
	if i < 0 {
		return SeasonWinter, year
	}
	if i == len(validSeasons)-1 {
		return validSeasons[0], year + 1
	}
	return validSeasons[i+1], year
}
