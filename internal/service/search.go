// Package service implements the business logic of the search read model:
// cached searches per entity, direct lookups, suggestions, and the admin
// index operations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/cache"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/catalog"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
	apperrors "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/errors"
)

// Lifecycle is the subset of index lifecycle operations the service drives
// during rebuilds. Implemented by index.Manager; nil when running on the
// in-memory engine.
type Lifecycle interface {
	Recreate(ctx context.Context, entity string) bool
	Refresh(ctx context.Context, entity string) bool
	Optimize(ctx context.Context, entity string) bool
}

// SearchService serves all search read-model operations.
type SearchService struct {
	products  engine.Engine[domain.ProductDocument]
	orders    engine.Engine[domain.OrderDocument]
	customers engine.Engine[domain.CustomerDocument]
	cache     *cache.ResultCache
	catalog   *catalog.Client
	lifecycle Lifecycle
	logger    *slog.Logger
}

// NewSearchService creates the search service. catalog and lifecycle may be
// nil; the admin rebuild operations then report unavailable.
func NewSearchService(
	products engine.Engine[domain.ProductDocument],
	orders engine.Engine[domain.OrderDocument],
	customers engine.Engine[domain.CustomerDocument],
	resultCache *cache.ResultCache,
	catalogClient *catalog.Client,
	lifecycle Lifecycle,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		products:  products,
		orders:    orders,
		customers: customers,
		cache:     resultCache,
		catalog:   catalogClient,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// SearchProducts runs a product search through the cache.
func (s *SearchService) SearchProducts(ctx context.Context, q *domain.ProductSearchQuery) (*domain.Result[domain.ProductDocument], error) {
	req := query.ProductRequest(q)
	return cache.Search(ctx, s.cache, domain.EntityProducts, req, func(ctx context.Context) (*domain.Result[domain.ProductDocument], error) {
		return s.products.Search(ctx, req)
	})
}

// SearchOrders runs an order search through the cache.
func (s *SearchService) SearchOrders(ctx context.Context, q *domain.OrderSearchQuery) (*domain.Result[domain.OrderDocument], error) {
	req := query.OrderRequest(q)
	return cache.Search(ctx, s.cache, domain.EntityOrders, req, func(ctx context.Context) (*domain.Result[domain.OrderDocument], error) {
		return s.orders.Search(ctx, req)
	})
}

// SearchCustomers runs a customer search through the cache.
func (s *SearchService) SearchCustomers(ctx context.Context, q *domain.CustomerSearchQuery) (*domain.Result[domain.CustomerDocument], error) {
	req := query.CustomerRequest(q)
	return cache.Search(ctx, s.cache, domain.EntityCustomers, req, func(ctx context.Context) (*domain.Result[domain.CustomerDocument], error) {
		return s.customers.Search(ctx, req)
	})
}

// GetProduct fetches a product by ID. Direct lookups include non-published
// products; only searches hide them.
func (s *SearchService) GetProduct(ctx context.Context, id string) (*domain.ProductDocument, error) {
	doc, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if doc == nil {
		return nil, apperrors.NotFound("product", id)
	}
	return doc, nil
}

// SimilarProducts returns products resembling the given one. An unknown
// anchor yields an empty list.
func (s *SearchService) SimilarProducts(ctx context.Context, id string, limit int) ([]domain.ProductDocument, error) {
	docs, err := s.products.Similar(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	return docs, nil
}

// Suggest returns product name completions for an autocomplete prefix.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	suggestions, err := s.products.Suggest(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return suggestions, nil
}

// BulkIndexProducts indexes a batch of product documents directly,
// bypassing the event pipeline. Used by the admin bulk endpoint.
func (s *SearchService) BulkIndexProducts(ctx context.Context, docs []domain.ProductDocument) error {
	for i := range docs {
		if docs[i].ID == "" {
			return apperrors.InvalidInput("bulk index: every product needs an id")
		}
		docs[i].RecomputeStockFlags()
	}

	if err := s.products.BulkUpsert(ctx, docs); err != nil {
		return fmt.Errorf("bulk index products: %w", err)
	}

	s.logger.InfoContext(ctx, "products bulk indexed", slog.Int("count", len(docs)))
	return nil
}

// Reindex rebuilds the product index from the product service: recreate the
// index, walk every catalog page into bulk upserts, refresh, force-merge,
// and drop the now-stale cached results. Returns the number of products
// indexed.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, apperrors.InvalidInput("reindex requires a product service connection")
	}

	if s.lifecycle != nil && !s.lifecycle.Recreate(ctx, domain.EntityProducts) {
		return 0, fmt.Errorf("reindex: recreate product index failed")
	}

	total, err := s.catalog.All(ctx, func(ctx context.Context, batch []catalog.Product) error {
		docs := make([]domain.ProductDocument, 0, len(batch))
		for _, p := range batch {
			docs = append(docs, p.Document())
		}
		return s.products.BulkUpsert(ctx, docs)
	})
	if err != nil {
		return total, fmt.Errorf("reindex: %w", err)
	}

	if s.lifecycle != nil {
		s.lifecycle.Refresh(ctx, domain.EntityProducts)
		s.lifecycle.Optimize(ctx, domain.EntityProducts)
	}
	s.invalidateCache(ctx, domain.EntityProducts)

	s.logger.InfoContext(ctx, "reindex completed", slog.Int("count", total))
	return total, nil
}

// RecreateIndex drops and recreates one entity's index and invalidates its
// cached results. The index comes back empty; it refills from the event
// stream or a reindex.
func (s *SearchService) RecreateIndex(ctx context.Context, entity string) error {
	if !domain.IsValidEntity(entity) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown entity %q", entity))
	}
	if s.lifecycle == nil {
		return apperrors.InvalidInput("index lifecycle is not available on this deployment")
	}

	if !s.lifecycle.Recreate(ctx, entity) {
		return fmt.Errorf("recreate index %s failed", entity)
	}
	s.invalidateCache(ctx, entity)

	s.logger.InfoContext(ctx, "index recreated", slog.String("entity", entity))
	return nil
}

func (s *SearchService) invalidateCache(ctx context.Context, entity string) {
	if err := s.cache.Invalidate(ctx, entity); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("entity", entity),
			slog.String("error", err.Error()),
		)
	}
}
