// Package engine defines the search engine contract shared by the
// Elasticsearch and in-memory implementations.
package engine

import (
	"context"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// Engine indexes and searches one entity's documents. The projection
// handler is the sole writer; every other component only reads.
type Engine[D domain.Document] interface {
	// Upsert inserts or fully replaces a document by its ID.
	Upsert(ctx context.Context, doc D) error

	// BulkUpsert inserts or replaces multiple documents in one round trip.
	BulkUpsert(ctx context.Context, docs []D) error

	// Delete removes a document by ID. Deleting an absent document is not
	// an error.
	Delete(ctx context.Context, id string) error

	// Get fetches a document by ID. Returns (nil, nil) when absent.
	Get(ctx context.Context, id string) (*D, error)

	// Search executes a normalized request and returns a page of hits with
	// facet buckets.
	Search(ctx context.Context, req query.Request) (*domain.Result[D], error)

	// Similar returns documents resembling the given one. An absent anchor
	// yields an empty slice, not an error.
	Similar(ctx context.Context, id string, limit int) ([]D, error)

	// Suggest returns autocomplete completions for the given prefix.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}
