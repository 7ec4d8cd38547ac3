package domain

import "context"

// Querier executes one GraphQL document against the catalog API.
// Implementations decode the response's data member into out.
type Querier interface {
	// Query posts the document with its variables and decodes data into out.
	// A cancelled ctx must be reported as ctx.Err() so callers can tell
	// superseded requests apart from failures.
	Query(ctx context.Context, query string, variables any, out any) error
}
