package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httputil"
)

// ProductHandler handles the product search endpoints.
type ProductHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewProductHandler creates a new product search handler.
func NewProductHandler(svc *service.SearchService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search/products
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}
	sortBy, ok := parseSort(w, r, domain.ValidProductSorts())
	if !ok {
		return
	}

	q := &domain.ProductSearchQuery{
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		CategoryID: strParam(r, "category_id"),
		BrandID:    strParam(r, "brand_id"),
		Status:     strParam(r, "status"),
		SortBy:     sortBy,
		Page:       page,
		PerPage:    perPage,
	}

	if q.MinPrice, ok = parseInt64Param(w, r, "min_price"); !ok {
		return
	}
	if q.MaxPrice, ok = parseInt64Param(w, r, "max_price"); !ok {
		return
	}
	if q.InStock, ok = parseBoolParam(w, r, "in_stock"); !ok {
		return
	}
	if q.Featured, ok = parseBoolParam(w, r, "featured"); !ok {
		return
	}
	if q.MinRating, ok = parseFloatParam(w, r, "min_rating", 0, 5); !ok {
		return
	}
	if v := r.URL.Query().Get("tags"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}

	result, err := h.service.SearchProducts(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/search/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	doc, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: doc})
}

// Similar handles GET /api/v1/search/products/{id}/similar
func (h *ProductHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			writeParamError(w, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	docs, err := h.service.SimilarProducts(r.Context(), id.String(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: docs})
}

// Suggest handles GET /api/v1/search/suggest
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("q"))
	if prefix == "" {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"suggestions": []string{}}})
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 20 {
			writeParamError(w, "limit must be between 1 and 20")
			return
		}
		limit = n
	}

	suggestions, err := h.service.Suggest(r.Context(), prefix, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"suggestions": suggestions}})
}
