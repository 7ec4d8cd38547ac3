package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrMediaNotFound indicates the catalog returned no media for a lookup
	ErrMediaNotFound = errors.New("media not found")

	// ErrNoTrailer indicates the media has no playable trailer
	ErrNoTrailer = errors.New("media has no trailer")

	// ErrInvalidVariables indicates query variables were rejected before issuing a request
	ErrInvalidVariables = errors.New("invalid query variables")
)
