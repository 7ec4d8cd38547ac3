package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the public AniList GraphQL endpoint
	DefaultEndpoint = "https://graphql.anilist.co"

	defaultTimeout = 30 * time.Second
	maxLoggedBody  = 512
)

// Client implements domain.Querier for the AniList GraphQL API
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new AniList API client.
// A zero timeout uses the default of 30 seconds.
func NewClient(endpoint, version string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if version == "" {
		version = "dev"
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: "anikino/" + version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Query posts a GraphQL document and decodes the data member into out.
// Errors are *TransportError, *APIError, or ctx.Err() when the request was cancelled.
func (c *Client) Query(ctx context.Context, query string, variables any, out any) error {
	payload, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("anilist request", "url", c.endpoint, "bytes", len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A superseded request is not a transport failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("anilist request failed", "error", err)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("anilist request error", "status", resp.StatusCode, "body", truncateBody(body))
		return &TransportError{StatusCode: resp.StatusCode}
	}

	var envelope response
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return &TransportError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(envelope.Errors) > 0 {
		apiErr := newAPIError(envelope.Errors)
		c.logger.Warn("anilist returned errors", "count", len(envelope.Errors), "message", apiErr.Error())
		return apiErr
	}

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &TransportError{Err: fmt.Errorf("failed to decode data: %w", err)}
	}

	return nil
}

func truncateBody(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
