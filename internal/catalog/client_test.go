package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(cfg), httpclient.DefaultCircuitBreakerConfig("product"), testLogger())
	return NewClient(cb, srv.URL, testLogger())
}

func catalogServer(t *testing.T, perPage, total int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/products", r.URL.Path)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		totalPages := (total + perPage - 1) / perPage
		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}

		products := make([]Product, 0, end-start)
		for i := start; i < end; i++ {
			products = append(products, Product{
				ID:        fmt.Sprintf("p%d", i),
				Name:      fmt.Sprintf("Product %d", i),
				BasePrice: int64(100 * (i + 1)),
				Status:    "published",
				Stock:     i,
				CreatedAt: "2025-05-01T10:00:00.123Z",
				UpdatedAt: "2025-05-01T10:00:00Z",
			})
		}

		resp := map[string]any{
			"data": products,
			"meta": map[string]int{"page": page, "total_pages": totalPages},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestPage(t *testing.T) {
	client := newTestClient(t, catalogServer(t, 2, 3))

	products, more, err := client.Page(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.True(t, more)

	products, more, err = client.Page(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.False(t, more)
}

func TestPageServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, _, err := client.Page(context.Background(), 1, 10)
	assert.Error(t, err)
}

func TestAllWalksEveryPage(t *testing.T) {
	client := newTestClient(t, catalogServer(t, 100, 250))

	var batches int
	seen := make(map[string]bool)
	total, err := client.All(context.Background(), func(_ context.Context, batch []Product) error {
		batches++
		for _, p := range batch {
			seen[p.ID] = true
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 250, total)
	assert.Equal(t, 3, batches)
	assert.Len(t, seen, 250)
}

func TestAllStopsOnApplyError(t *testing.T) {
	client := newTestClient(t, catalogServer(t, 100, 250))

	wantErr := fmt.Errorf("bulk upsert failed")
	total, err := client.All(context.Background(), func(context.Context, []Product) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, total)
}

func TestAllEmptyCatalog(t *testing.T) {
	client := newTestClient(t, catalogServer(t, 100, 0))

	total, err := client.All(context.Background(), func(context.Context, []Product) error {
		t.Fatal("apply must not run for an empty catalog")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProductDocument(t *testing.T) {
	p := Product{
		ID:        "p1",
		Name:      "Trail Running Shoes",
		BasePrice: 5990,
		Status:    "published",
		Stock:     3,
		CreatedAt: "2025-05-01T10:00:00.123Z",
		UpdatedAt: "2025-05-02T10:00:00Z",
	}

	doc := p.Document()
	assert.Equal(t, int64(5990), doc.Price)
	assert.True(t, doc.InStock)
	assert.True(t, doc.LowStock)
	assert.Equal(t, 2025, doc.CreatedAt.Year())
	assert.Equal(t, 123000000, doc.CreatedAt.Nanosecond())

	t.Run("category and brand names fall back to ids", func(t *testing.T) {
		p := Product{ID: "p2", Name: "X", CategoryID: "cat-1", BrandID: "brand-1"}
		doc := p.Document()
		assert.Equal(t, "cat-1", doc.CategoryName)
		assert.Equal(t, "brand-1", doc.BrandName)
	})
}
