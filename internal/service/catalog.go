package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/domain"
)

// CatalogService answers one-shot catalog queries outside the TUI
type CatalogService struct {
	querier domain.Querier
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(q domain.Querier, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		querier: q,
		logger:  logger,
	}
}

// Lookup fetches a single media item by id or search string.
// It returns domain.ErrMediaNotFound when the API has no match.
func (s *CatalogService) Lookup(ctx context.Context, vars anilist.MediaVariables) (domain.Media, error) {
	if vars.ID == 0 && vars.Search == "" {
		return domain.Media{}, fmt.Errorf("%w: id or search required", domain.ErrInvalidVariables)
	}

	var data anilist.MediaData
	if err := s.querier.Query(ctx, anilist.MediaQuery, vars, &data); err != nil {
		return domain.Media{}, fmt.Errorf("failed to look up media: %w", err)
	}
	if data.Media == nil {
		return domain.Media{}, domain.ErrMediaNotFound
	}

	s.logger.Debug("looked up media", "id", data.Media.ID)
	return anilist.MapMedia(data.Media), nil
}

// Page fetches one page of media for vars
func (s *CatalogService) Page(ctx context.Context, vars anilist.PageVariables) ([]domain.Media, anilist.PageInfo, error) {
	if err := vars.Validate(); err != nil {
		return nil, anilist.PageInfo{}, err
	}

	var data anilist.PageData
	if err := s.querier.Query(ctx, anilist.PageQuery, vars, &data); err != nil {
		return nil, anilist.PageInfo{}, fmt.Errorf("failed to fetch page: %w", err)
	}

	items, info := anilist.MapPage(&data)
	s.logger.Debug("fetched page", "items", len(items), "page", info.CurrentPage)
	return items, info, nil
}
