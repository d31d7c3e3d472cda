package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// TTLs by request shape. Broad listings change slowly and are requested
// often; free-text queries have a long tail of distinct keys and go stale
// faster, so they get short lifetimes.
const (
	TTLBrowse       = 30 * time.Minute
	TTLSingleFilter = 10 * time.Minute
	TTLText         = 2 * time.Minute
	TTLComplex      = time.Minute
)

// TTLFor returns the cache lifetime for a request.
func TTLFor(req query.Request) time.Duration {
	switch req.Shape() {
	case query.ShapeBrowse:
		return TTLBrowse
	case query.ShapeSingleFilter:
		return TTLSingleFilter
	case query.ShapeText:
		return TTLText
	default:
		return TTLComplex
	}
}

// Key derives the cache key for a request. The canonical form is
// order-independent, so equivalent requests share a key; hashing keeps keys
// short and free of user input.
func Key(entity string, req query.Request) string {
	sum := sha256.Sum256([]byte(req.Canonical()))
	return fmt.Sprintf("search:%s:%s", entity, hex.EncodeToString(sum[:]))
}

// EntityPrefix is the key prefix covering every cached result of an entity.
func EntityPrefix(entity string) string {
	return "search:" + entity + ":"
}

// ResultCache wraps a Store with the search-result key and TTL policy.
type ResultCache struct {
	store  Store
	logger *slog.Logger
}

// NewResultCache creates a result cache over the given store.
func NewResultCache(store Store, logger *slog.Logger) *ResultCache {
	return &ResultCache{store: store, logger: logger}
}

// Invalidate drops all cached results for an entity.
func (c *ResultCache) Invalidate(ctx context.Context, entity string) error {
	if err := c.store.DeleteByPrefix(ctx, EntityPrefix(entity)); err != nil {
		return fmt.Errorf("invalidate %s cache: %w", entity, err)
	}
	return nil
}

// Search runs fetch through the cache. Store errors are logged and counted
// but never surfaced: a broken cache degrades to direct execution.
func Search[D domain.Document](ctx context.Context, c *ResultCache, entity string, req query.Request, fetch func(context.Context) (*domain.Result[D], error)) (*domain.Result[D], error) {
	key := Key(entity, req)

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		cacheErrors.WithLabelValues(entity, "get").Inc()
		c.logger.WarnContext(ctx, "cache get failed",
			slog.String("entity", entity),
			slog.String("error", err.Error()),
		)
	}
	if found {
		var result domain.Result[D]
		if err := json.Unmarshal(data, &result); err == nil {
			cacheHits.WithLabelValues(entity).Inc()
			return &result, nil
		}
		// A corrupt entry falls through to a fresh fetch that overwrites it.
		cacheErrors.WithLabelValues(entity, "decode").Inc()
	}
	cacheMisses.WithLabelValues(entity).Inc()

	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := c.store.Set(ctx, key, data, TTLFor(req)); err != nil {
			cacheErrors.WithLabelValues(entity, "set").Inc()
			c.logger.WarnContext(ctx, "cache set failed",
				slog.String("entity", entity),
				slog.String("error", err.Error()),
			)
		}
	}
	return result, nil
}
