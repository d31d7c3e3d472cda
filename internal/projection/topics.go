// Package projection maintains the read model: it consumes domain events
// from Kafka and applies them to the search indices as full-replace upserts.
// Handlers are idempotent; redelivered or duplicated events converge on the
// same document state.
package projection

// Topics of the domain events the read model is projected from. Producers
// partition by aggregate ID, so events for one aggregate arrive in order.
const (
	TopicProductCreated      = "ecommerce.product.created"
	TopicProductUpdated      = "ecommerce.product.updated"
	TopicProductDeleted      = "ecommerce.product.deleted"
	TopicProductStockChanged = "ecommerce.product.stock_changed"
	TopicReviewCreated       = "ecommerce.review.created"

	TopicOrderCreated       = "ecommerce.order.created"
	TopicOrderUpdated       = "ecommerce.order.updated"
	TopicOrderStatusChanged = "ecommerce.order.status_changed"

	TopicCustomerRegistered  = "ecommerce.customer.registered"
	TopicCustomerUpdated     = "ecommerce.customer.updated"
	TopicCustomerDeactivated = "ecommerce.customer.deactivated"
)

// ProductTopics lists the topics the product projector subscribes to.
func ProductTopics() []string {
	return []string{
		TopicProductCreated,
		TopicProductUpdated,
		TopicProductDeleted,
		TopicProductStockChanged,
		TopicReviewCreated,
	}
}

// OrderTopics lists the topics the order projector subscribes to.
func OrderTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderUpdated,
		TopicOrderStatusChanged,
	}
}

// CustomerTopics lists the topics the customer projector subscribes to.
func CustomerTopics() []string {
	return []string{
		TopicCustomerRegistered,
		TopicCustomerUpdated,
		TopicCustomerDeactivated,
		TopicOrderCreated,
	}
}
