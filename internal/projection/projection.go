package projection

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReferenceData resolves the names and aggregates the documents denormalize
// when the event payload does not carry them. Implemented by
// internal/reference; a nil lookup degrades to the IDs in the payload.
type ReferenceData interface {
	CategoryName(ctx context.Context, id string) (string, error)
	BrandName(ctx context.Context, id string) (string, error)
	CustomerName(ctx context.Context, id string) (string, error)
	ProductRating(ctx context.Context, productID string) (float64, int, error)
}

var (
	eventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_projection_events_applied_total",
			Help: "Total number of domain events applied to the search read model",
		},
		[]string{"entity", "event_type"},
	)

	eventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_projection_events_skipped_total",
			Help: "Total number of domain events skipped (unknown type or stale)",
		},
		[]string{"entity", "event_type"},
	)
)
