// Package catalog reads product pages from the product service's REST API.
// It is the source of truth for full index rebuilds, reached through a
// circuit breaker so a struggling product service cannot pin reindex
// goroutines.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httpclient"
)

// DefaultPageSize is the page size used when walking the catalog.
const DefaultPageSize = 100

// Product is one product as returned by the product service.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	SKU         string            `json:"sku"`
	Description string            `json:"description"`
	CategoryID  string            `json:"category_id"`
	Category    string            `json:"category_name"`
	BrandID     string            `json:"brand_id"`
	Brand       string            `json:"brand_name"`
	BasePrice   int64             `json:"base_price"`
	Currency    string            `json:"currency"`
	Status      string            `json:"status"`
	ImageURL    string            `json:"image_url"`
	Tags        []string          `json:"tags"`
	Attributes  map[string]string `json:"attributes"`
	Stock       int               `json:"stock"`
	Featured    bool              `json:"featured"`
	AvgRating   float64           `json:"avg_rating"`
	ReviewCount int               `json:"review_count"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type productPage struct {
	Data []Product `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

// Client fetches product pages from the product service.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client against the given base URL.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Page fetches one page of products. It returns the products and whether
// more pages remain.
func (c *Client) Page(ctx context.Context, page, perPage int) ([]Product, bool, error) {
	u := fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}.Encode())

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, false, fmt.Errorf("fetch product page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, false, httpclient.ParseResponseError(resp, "product")
	}

	var body productPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode product page %d: %w", page, err)
	}

	return body.Data, body.Meta.Page < body.Meta.TotalPages, nil
}

// All walks every catalog page and hands each batch to apply. Used by the
// admin reindex operation.
func (c *Client) All(ctx context.Context, apply func(ctx context.Context, batch []Product) error) (int, error) {
	total := 0
	for page := 1; ; page++ {
		products, more, err := c.Page(ctx, page, DefaultPageSize)
		if err != nil {
			return total, err
		}
		if len(products) > 0 {
			if err := apply(ctx, products); err != nil {
				return total, err
			}
			total += len(products)
		}
		if !more {
			return total, nil
		}
	}
}

// Document converts a catalog product into its read-model document.
func (p Product) Document() domain.ProductDocument {
	doc := domain.ProductDocument{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CategoryName:  p.Category,
		BrandID:       p.BrandID,
		BrandName:     p.Brand,
		Price:         p.BasePrice,
		Currency:      p.Currency,
		Status:        p.Status,
		ImageURL:      p.ImageURL,
		Tags:          p.Tags,
		Attributes:    p.Attributes,
		StockQuantity: p.Stock,
		Featured:      p.Featured,
		AvgRating:     p.AvgRating,
		ReviewCount:   p.ReviewCount,
	}
	if doc.CategoryName == "" {
		doc.CategoryName = p.CategoryID
	}
	if doc.BrandName == "" {
		doc.BrandName = p.BrandID
	}
	if t, err := parseTime(p.CreatedAt); err == nil {
		doc.CreatedAt = t
	}
	if t, err := parseTime(p.UpdatedAt); err == nil {
		doc.UpdatedAt = t
	}
	doc.RecomputeStockFlags()
	return doc
}
