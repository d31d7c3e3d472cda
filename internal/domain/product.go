package domain

import (
	"time"
)

// Product status values mirrored from the write side.
const (
	ProductStatusPublished = "published"
	ProductStatusDraft     = "draft"
	ProductStatusInactive  = "inactive"
)

// LowStockThreshold is the quantity below which a product is flagged as
// low-stock in the read model.
const LowStockThreshold = 5

// ProductDocument is the denormalized product read model stored in the
// search index. Category and brand names are embedded so that filtering and
// display never require a join at query time.
type ProductDocument struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	SKU          string            `json:"sku"`
	Description  string            `json:"description,omitempty"`
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	BrandID      string            `json:"brand_id"`
	BrandName    string            `json:"brand_name"`
	Price        int64             `json:"price"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ImageURL     string            `json:"image_url"`
	Tags         []string          `json:"tags"`
	Attributes   map[string]string `json:"attributes"`

	// Computed fields maintained by the projection, never at query time.
	StockQuantity int     `json:"stock_quantity"`
	InStock       bool    `json:"in_stock"`
	LowStock      bool    `json:"low_stock"`
	Featured      bool    `json:"featured"`
	AvgRating     float64 `json:"avg_rating"`
	ReviewCount   int     `json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocID returns the aggregate identity of the product.
func (p ProductDocument) DocID() string { return p.ID }

// RecomputeStockFlags re-derives in_stock and low_stock from the quantity.
func (p *ProductDocument) RecomputeStockFlags() {
	p.InStock = p.StockQuantity > 0
	p.LowStock = p.StockQuantity > 0 && p.StockQuantity < LowStockThreshold
}

// Product sort modes.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// ValidProductSorts returns the sort modes accepted for product searches.
func ValidProductSorts() []string {
	return []string{SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortNewest}
}

// ProductSearchQuery holds all parameters for a product search request.
// Pointer fields are filters that are only applied when set.
type ProductSearchQuery struct {
	Query      string   `json:"query"`
	CategoryID *string  `json:"category_id,omitempty"`
	BrandID    *string  `json:"brand_id,omitempty"`
	Status     *string  `json:"status,omitempty"`
	MinPrice   *int64   `json:"min_price,omitempty"`
	MaxPrice   *int64   `json:"max_price,omitempty"`
	InStock    *bool    `json:"in_stock,omitempty"`
	Featured   *bool    `json:"featured,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	MinRating  *float64 `json:"min_rating,omitempty"`
	SortBy     string   `json:"sort_by"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
}
