package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine"
	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
)

// OrderProjector applies order domain events to the order index. Orders are
// never removed from the index: cancelled and refunded orders stay
// searchable in their terminal state.
type OrderProjector struct {
	engine engine.Engine[domain.OrderDocument]
	refs   ReferenceData
	logger *slog.Logger
}

// NewOrderProjector creates the order projector. refs may be nil.
func NewOrderProjector(eng engine.Engine[domain.OrderDocument], refs ReferenceData, logger *slog.Logger) *OrderProjector {
	return &OrderProjector{
		engine: eng,
		refs:   refs,
		logger: logger,
	}
}

// Handle dispatches an event to its handler.
func (p *OrderProjector) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicOrderCreated, TopicOrderUpdated:
		return p.handleUpsert(ctx, event)
	case TopicOrderStatusChanged:
		return p.handleStatusChanged(ctx, event)
	default:
		eventsSkipped.WithLabelValues(domain.EntityOrders, event.EventType).Inc()
		p.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (p *OrderProjector) handleUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var data OrderEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	itemCount := 0
	itemNames := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		itemCount += item.Quantity
		itemNames = append(itemNames, item.ProductName)
	}

	doc := domain.OrderDocument{
		ID:            data.ID,
		OrderNumber:   data.OrderNumber,
		CustomerID:    data.CustomerID,
		CustomerName:  data.CustomerName,
		Status:        data.Status,
		PaymentMethod: data.PaymentMethod,
		PaymentStatus: data.PaymentStatus,
		TotalAmount:   data.TotalAmount,
		Currency:      data.Currency,
		ItemCount:     itemCount,
		ItemNames:     itemNames,
		ShippingCity:  data.ShippingCity,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	if doc.CustomerName == "" && doc.CustomerID != "" {
		doc.CustomerName = doc.CustomerID
		if p.refs != nil {
			name, err := p.refs.CustomerName(ctx, doc.CustomerID)
			if err != nil {
				p.logger.WarnContext(ctx, "customer lookup failed",
					slog.String("customer_id", doc.CustomerID),
					slog.String("error", err.Error()),
				)
			} else {
				doc.CustomerName = name
			}
		}
	}

	if err := p.engine.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("project %s: %w", event.EventType, err)
	}

	eventsApplied.WithLabelValues(domain.EntityOrders, event.EventType).Inc()
	p.logger.InfoContext(ctx, "order projected",
		slog.String("order_id", doc.ID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

// handleStatusChanged patches the status fields on the current document. A
// missing document means the create event has not been applied yet; the
// error drives redelivery.
func (p *OrderProjector) handleStatusChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data OrderStatusChangedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal order.status_changed data: %w", err)
	}

	doc, err := p.engine.Get(ctx, data.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", data.OrderID, err)
	}
	if doc == nil {
		return fmt.Errorf("order %s not indexed yet", data.OrderID)
	}

	doc.Status = data.Status
	if data.PaymentStatus != "" {
		doc.PaymentStatus = data.PaymentStatus
	}
	if !data.ChangedAt.IsZero() {
		doc.UpdatedAt = data.ChangedAt
	}

	if err := p.engine.Upsert(ctx, *doc); err != nil {
		return fmt.Errorf("project order.status_changed: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityOrders, event.EventType).Inc()
	p.logger.InfoContext(ctx, "order status projected",
		slog.String("order_id", data.OrderID),
		slog.String("status", data.Status),
	)
	return nil
}
