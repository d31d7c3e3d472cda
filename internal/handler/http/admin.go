package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httputil"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/validator"
)

// AdminHandler handles the index administration endpoints.
type AdminHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc *service.SearchService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// BulkProductRequest is one product in a bulk index request body.
type BulkProductRequest struct {
	ID            string            `json:"id" validate:"required"`
	Name          string            `json:"name" validate:"required,min=1"`
	Slug          string            `json:"slug"`
	SKU           string            `json:"sku"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"category_id"`
	CategoryName  string            `json:"category_name"`
	BrandID       string            `json:"brand_id"`
	BrandName     string            `json:"brand_name"`
	Price         int64             `json:"price" validate:"gte=0"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	ImageURL      string            `json:"image_url"`
	Tags          []string          `json:"tags"`
	Attributes    map[string]string `json:"attributes"`
	StockQuantity int               `json:"stock_quantity" validate:"gte=0"`
	Featured      bool              `json:"featured"`
	AvgRating     float64           `json:"avg_rating" validate:"gte=0,lte=5"`
	ReviewCount   int               `json:"review_count" validate:"gte=0"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BulkIndexRequest is the JSON request body for bulk indexing products.
type BulkIndexRequest struct {
	Products []BulkProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

// BulkIndex handles POST /api/v1/search/admin/bulk
func (h *AdminHandler) BulkIndex(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	var req BulkIndexRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	docs := make([]domain.ProductDocument, 0, len(req.Products))
	for _, p := range req.Products {
		docs = append(docs, domain.ProductDocument{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			SKU:           p.SKU,
			Description:   p.Description,
			CategoryID:    p.CategoryID,
			CategoryName:  p.CategoryName,
			BrandID:       p.BrandID,
			BrandName:     p.BrandName,
			Price:         p.Price,
			Currency:      p.Currency,
			Status:        p.Status,
			ImageURL:      p.ImageURL,
			Tags:          p.Tags,
			Attributes:    p.Attributes,
			StockQuantity: p.StockQuantity,
			Featured:      p.Featured,
			AvgRating:     p.AvgRating,
			ReviewCount:   p.ReviewCount,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}

	if err := h.service.BulkIndexProducts(r.Context(), docs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"indexed": len(docs), "status": "ok"}})
}

// Reindex handles POST /api/v1/search/admin/reindex. The rebuild runs in the
// background; the request returns immediately with 202.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx := context.Background()
		count, err := h.service.Reindex(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "background reindex failed",
				slog.Int("indexed", count),
				slog.String("error", err.Error()),
			)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "reindex started"}})
}

// RecreateIndex handles POST /api/v1/search/admin/indices/{entity}/recreate
func (h *AdminHandler) RecreateIndex(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	if err := h.service.RecreateIndex(r.Context(), entity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"entity": entity, "status": "recreated"}})
}
