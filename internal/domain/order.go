package domain

import (
	"time"
)

// Order status values mirrored from the write side.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// OrderDocument is the denormalized order read model. The customer name and
// item summaries are embedded at projection time.
type OrderDocument struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int64     `json:"total_amount"`
	Currency      string    `json:"currency"`
	ItemCount     int       `json:"item_count"`
	ItemNames     []string  `json:"item_names"`
	ShippingCity  string    `json:"shipping_city"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DocID returns the aggregate identity of the order.
func (o OrderDocument) DocID() string { return o.ID }

// Order sort modes.
const (
	SortTotalAsc  = "total_asc"
	SortTotalDesc = "total_desc"
	SortOldest    = "oldest"
)

// ValidOrderSorts returns the sort modes accepted for order searches.
func ValidOrderSorts() []string {
	return []string{SortRelevance, SortNewest, SortOldest, SortTotalAsc, SortTotalDesc}
}

// OrderSearchQuery holds all parameters for an order search request.
type OrderSearchQuery struct {
	Query         string     `json:"query"`
	CustomerID    *string    `json:"customer_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	PaymentStatus *string    `json:"payment_status,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	MinTotal      *int64     `json:"min_total,omitempty"`
	MaxTotal      *int64     `json:"max_total,omitempty"`
	From          *time.Time `json:"from,omitempty"`
	To            *time.Time `json:"to,omitempty"`
	SortBy        string     `json:"sort_by"`
	Page          int        `json:"page"`
	PerPage       int        `json:"per_page"`
}
