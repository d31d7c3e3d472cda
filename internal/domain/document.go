package domain

// Entity names for the searchable read models. They double as the index
// name suffix (the deployment prefix is prepended by configuration).
const (
	EntityProducts  = "products"
	EntityOrders    = "orders"
	EntityCustomers = "customers"
)

// Entities returns all searchable entity names.
func Entities() []string {
	return []string{EntityProducts, EntityOrders, EntityCustomers}
}

// IsValidEntity checks whether the given string names a searchable entity.
func IsValidEntity(entity string) bool {
	for _, e := range Entities() {
		if e == entity {
			return true
		}
	}
	return false
}

// Document is implemented by all index document types. Exactly one document
// exists per aggregate ID per index; DocID returns that aggregate identity.
type Document interface {
	DocID() string
}
