package domain

import (
	"time"
)

// CustomerDocument is the denormalized customer read model. Order count and
// lifetime value are maintained by the projection as orders are placed.
type CustomerDocument struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone,omitempty"`
	City          string    `json:"city,omitempty"`
	Country       string    `json:"country,omitempty"`
	IsActive      bool      `json:"is_active"`
	OrderCount    int       `json:"order_count"`
	LifetimeValue int64     `json:"lifetime_value"`
	RegisteredAt  time.Time `json:"registered_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DocID returns the aggregate identity of the customer.
func (c CustomerDocument) DocID() string { return c.ID }

// Customer sort modes.
const (
	SortSpentDesc = "spent_desc"
	SortName      = "name"
)

// ValidCustomerSorts returns the sort modes accepted for customer searches.
func ValidCustomerSorts() []string {
	return []string{SortRelevance, SortNewest, SortOldest, SortSpentDesc, SortName}
}

// CustomerSearchQuery holds all parameters for a customer search request.
type CustomerSearchQuery struct {
	Query          string     `json:"query"`
	IsActive       *bool      `json:"is_active,omitempty"`
	Country        *string    `json:"country,omitempty"`
	MinOrders      *int       `json:"min_orders,omitempty"`
	MinSpent       *int64     `json:"min_spent,omitempty"`
	RegisteredFrom *time.Time `json:"registered_from,omitempty"`
	RegisteredTo   *time.Time `json:"registered_to,omitempty"`
	SortBy         string     `json:"sort_by"`
	Page           int        `json:"page"`
	PerPage        int        `json:"per_page"`
}
