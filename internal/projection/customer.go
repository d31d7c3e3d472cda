package projection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine"
	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
)

// CustomerProjector applies customer domain events to the customer index.
// It also consumes order.created to keep each customer's order count and
// lifetime value current. Deactivated customers are removed from the index
// entirely; the customer read model exists for back-office search and must
// not surface closed accounts.
type CustomerProjector struct {
	engine engine.Engine[domain.CustomerDocument]
	logger *slog.Logger
}

// NewCustomerProjector creates the customer projector.
func NewCustomerProjector(eng engine.Engine[domain.CustomerDocument], logger *slog.Logger) *CustomerProjector {
	return &CustomerProjector{
		engine: eng,
		logger: logger,
	}
}

// Handle dispatches an event to its handler.
func (p *CustomerProjector) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicCustomerRegistered, TopicCustomerUpdated:
		return p.handleUpsert(ctx, event)
	case TopicCustomerDeactivated:
		return p.handleDeactivated(ctx, event)
	case TopicOrderCreated:
		return p.handleOrderCreated(ctx, event)
	default:
		eventsSkipped.WithLabelValues(domain.EntityCustomers, event.EventType).Inc()
		p.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (p *CustomerProjector) handleUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var data CustomerEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	doc := domain.CustomerDocument{
		ID:           data.ID,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		FullName:     strings.TrimSpace(data.FirstName + " " + data.LastName),
		Phone:        data.Phone,
		City:         data.City,
		Country:      data.Country,
		IsActive:     data.IsActive,
		RegisteredAt: data.RegisteredAt,
		UpdatedAt:    data.UpdatedAt,
	}

	// The order aggregates are owned by this projection, not by the
	// customer events; carry them over on update.
	if event.EventType == TopicCustomerUpdated {
		current, err := p.engine.Get(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load current customer %s: %w", doc.ID, err)
		}
		if current != nil {
			doc.OrderCount = current.OrderCount
			doc.LifetimeValue = current.LifetimeValue
		}
	}

	if err := p.engine.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("project %s: %w", event.EventType, err)
	}

	eventsApplied.WithLabelValues(domain.EntityCustomers, event.EventType).Inc()
	p.logger.InfoContext(ctx, "customer projected",
		slog.String("customer_id", doc.ID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

func (p *CustomerProjector) handleDeactivated(ctx context.Context, event *pkgkafka.Event) error {
	var data CustomerDeactivatedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal customer.deactivated data: %w", err)
	}

	if err := p.engine.Delete(ctx, data.ID); err != nil {
		return fmt.Errorf("project customer.deactivated: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityCustomers, event.EventType).Inc()
	p.logger.InfoContext(ctx, "customer removed from index",
		slog.String("customer_id", data.ID),
	)
	return nil
}

// handleOrderCreated bumps the customer's order aggregates. A customer not
// indexed yet is skipped rather than retried: the registration event may
// legitimately never arrive (guest checkout).
func (p *CustomerProjector) handleOrderCreated(ctx context.Context, event *pkgkafka.Event) error {
	var data OrderEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal order.created data: %w", err)
	}
	if data.CustomerID == "" {
		return nil
	}

	doc, err := p.engine.Get(ctx, data.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", data.CustomerID, err)
	}
	if doc == nil {
		eventsSkipped.WithLabelValues(domain.EntityCustomers, event.EventType).Inc()
		p.logger.InfoContext(ctx, "order for unindexed customer, skipping aggregates",
			slog.String("customer_id", data.CustomerID),
			slog.String("order_id", data.ID),
		)
		return nil
	}

	doc.OrderCount++
	doc.LifetimeValue += data.TotalAmount
	if data.CreatedAt.After(doc.UpdatedAt) {
		doc.UpdatedAt = data.CreatedAt
	}

	if err := p.engine.Upsert(ctx, *doc); err != nil {
		return fmt.Errorf("project order.created aggregates: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityCustomers, event.EventType).Inc()
	return nil
}
