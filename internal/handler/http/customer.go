package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httputil"
)

// CustomerHandler handles the customer search endpoint.
type CustomerHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewCustomerHandler creates a new customer search handler.
func NewCustomerHandler(svc *service.SearchService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search/customers
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}
	sortBy, ok := parseSort(w, r, domain.ValidCustomerSorts())
	if !ok {
		return
	}

	q := &domain.CustomerSearchQuery{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Country: strParam(r, "country"),
		SortBy:  sortBy,
		Page:    page,
		PerPage: perPage,
	}

	if q.IsActive, ok = parseBoolParam(w, r, "is_active"); !ok {
		return
	}
	if q.MinOrders, ok = parseIntParam(w, r, "min_orders"); !ok {
		return
	}
	if q.MinSpent, ok = parseInt64Param(w, r, "min_spent"); !ok {
		return
	}
	if q.RegisteredFrom, ok = parseTimeParam(w, r, "registered_from"); !ok {
		return
	}
	if q.RegisteredTo, ok = parseTimeParam(w, r, "registered_to"); !ok {
		return
	}

	result, err := h.service.SearchCustomers(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
