package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/service"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/httputil"
)

// OrderHandler handles the order search endpoint.
type OrderHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order search handler.
func NewOrderHandler(svc *service.SearchService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search/orders
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}
	sortBy, ok := parseSort(w, r, domain.ValidOrderSorts())
	if !ok {
		return
	}

	q := &domain.OrderSearchQuery{
		Query:         strings.TrimSpace(r.URL.Query().Get("q")),
		CustomerID:    strParam(r, "customer_id"),
		Status:        strParam(r, "status"),
		PaymentStatus: strParam(r, "payment_status"),
		PaymentMethod: strParam(r, "payment_method"),
		SortBy:        sortBy,
		Page:          page,
		PerPage:       perPage,
	}

	if q.MinTotal, ok = parseInt64Param(w, r, "min_total"); !ok {
		return
	}
	if q.MaxTotal, ok = parseInt64Param(w, r, "max_total"); !ok {
		return
	}
	if q.From, ok = parseTimeParam(w, r, "from"); !ok {
		return
	}
	if q.To, ok = parseTimeParam(w, r, "to"); !ok {
		return
	}

	result, err := h.service.SearchOrders(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
