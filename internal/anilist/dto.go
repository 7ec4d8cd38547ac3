package anilist

import "encoding/json"

// request is the GraphQL POST body
type request struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

// response is the GraphQL envelope; data is decoded separately into the caller's type
type response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []gqlError      `json:"errors,omitempty"`
}

// gqlError is one entry of the top-level errors list
type gqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// MediaData is the data member of a MediaQuery response
type MediaData struct {
	Media *RawMedia `json:"Media"`
}

// PageData is the data member of a PageQuery response
type PageData struct {
	Page *RawPage `json:"Page"`
}

// RawPage is one page of media
type RawPage struct {
	PageInfo *PageInfo  `json:"pageInfo"`
	Media    []*RawMedia `json:"media"`
}

// PageInfo describes the returned page
type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
	CurrentPage int  `json:"currentPage"`
	PerPage     int  `json:"perPage"`
}

// RawMedia is a media record as returned by the API.
// Every nested object may be null.
type RawMedia struct {
	ID           int            `json:"id"`
	Title        *RawTitle      `json:"title"`
	SeasonYear   *int           `json:"seasonYear"`
	Format       *string        `json:"format"`
	Genres       []string       `json:"genres"`
	Trailer      *RawTrailer    `json:"trailer"`
	BannerImage  *string        `json:"bannerImage"`
	CoverImage   *RawCoverImage `json:"coverImage"`
	Episodes     *int           `json:"episodes"`
	MeanScore    *int           `json:"meanScore"`
	Source       *string        `json:"source"`
	AverageScore *int           `json:"averageScore"`
	Description  *string        `json:"description"`
	Status       *string        `json:"status"`
	Season       *string        `json:"season"`
	Duration     *int           `json:"duration"`
}

// RawTitle holds the localized titles
type RawTitle struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
}

// RawTrailer identifies a hosted trailer video
type RawTrailer struct {
	ID        *string `json:"id"`
	Site      *string `json:"site"`
	Thumbnail *string `json:"thumbnail"`
}

// RawCoverImage holds the cover image variants and the dominant color
type RawCoverImage struct {
	Medium     *string `json:"medium"`
	Large      *string `json:"large"`
	Color      *string `json:"color"`
	ExtraLarge *string `json:"extraLarge"`
}
