// Package reference resolves the reference data the projected documents
// denormalize: category and brand names for products, customer names for
// orders, review aggregates for rating updates. Lookups read the service's
// reference tables, which are fed by their own projections.
package reference

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/database"
	apperrors "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/errors"
)

// Repository implements the lookups over PostgreSQL.
type Repository struct {
	pool database.DBTX
}

// NewRepository creates a PostgreSQL-backed reference repository.
func NewRepository(pool database.DBTX) *Repository {
	return &Repository{pool: pool}
}

// CategoryName returns the display name for a category ID.
func (r *Repository) CategoryName(ctx context.Context, id string) (name string, err error) {
	query := `SELECT name FROM categories WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "CategoryName", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("category", id)
		}
		return "", fmt.Errorf("select category name: %w", err)
	}
	return name, nil
}

// BrandName returns the display name for a brand ID.
func (r *Repository) BrandName(ctx context.Context, id string) (name string, err error) {
	query := `SELECT name FROM brands WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "BrandName", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("brand", id)
		}
		return "", fmt.Errorf("select brand name: %w", err)
	}
	return name, nil
}

// CustomerName returns the full name for a customer ID.
func (r *Repository) CustomerName(ctx context.Context, id string) (name string, err error) {
	query := `SELECT first_name || ' ' || last_name FROM customers WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, "CustomerName", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("customer", id)
		}
		return "", fmt.Errorf("select customer name: %w", err)
	}
	return name, nil
}

// ProductRating returns the average rating and review count for a product.
// A product with no reviews yields (0, 0) rather than an error.
func (r *Repository) ProductRating(ctx context.Context, productID string) (avg float64, count int, err error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE product_id = $1`
	ctx, end := database.TraceQuery(ctx, "ProductRating", query)
	defer func() { end(err) }()

	if err = r.pool.QueryRow(ctx, query, productID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("select product rating: %w", err)
	}
	return avg, count, nil
}
