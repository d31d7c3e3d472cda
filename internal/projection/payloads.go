package projection

import "time"

// ProductEventData is the payload of product.created and product.updated.
type ProductEventData struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	SKU          string            `json:"sku"`
	Description  string            `json:"description"`
	CategoryID   *string           `json:"category_id,omitempty"`
	CategoryName string            `json:"category_name,omitempty"`
	BrandID      *string           `json:"brand_id,omitempty"`
	BrandName    string            `json:"brand_name,omitempty"`
	BasePrice    int64             `json:"base_price"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ImageURL     string            `json:"image_url"`
	Tags         []string          `json:"tags"`
	Attributes   map[string]string `json:"attributes"`
	Stock        int               `json:"stock"`
	Featured     bool              `json:"featured"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ProductDeletedData is the payload of product.deleted.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// StockChangedData is the payload of product.stock_changed.
type StockChangedData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ReviewCreatedData is the payload of review.created. The aggregates are
// authoritative when present; otherwise they are re-read from the reference
// tables.
type ReviewCreatedData struct {
	ProductID   string   `json:"product_id"`
	Rating      int      `json:"rating"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
}

// OrderItemData is one line item inside an order event.
type OrderItemData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// OrderEventData is the payload of order.created and order.updated.
type OrderEventData struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   int64           `json:"total_amount"`
	Currency      string          `json:"currency"`
	Items         []OrderItemData `json:"items"`
	ShippingCity  string          `json:"shipping_city"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderStatusChangedData is the payload of order.status_changed.
type OrderStatusChangedData struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// CustomerEventData is the payload of customer.registered and
// customer.updated.
type CustomerEventData struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CustomerDeactivatedData is the payload of customer.deactivated.
type CustomerDeactivatedData struct {
	ID string `json:"id"`
}
