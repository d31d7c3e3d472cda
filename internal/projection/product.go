package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine"
	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/slug"
)

// ProductProjector applies product domain events to the product index.
type ProductProjector struct {
	engine engine.Engine[domain.ProductDocument]
	refs   ReferenceData
	logger *slog.Logger
}

// NewProductProjector creates the product projector. refs may be nil, in
// which case category and brand names fall back to their IDs.
func NewProductProjector(eng engine.Engine[domain.ProductDocument], refs ReferenceData, logger *slog.Logger) *ProductProjector {
	return &ProductProjector{
		engine: eng,
		refs:   refs,
		logger: logger,
	}
}

// Handle dispatches an event to its handler. Unknown event types are logged
// and acknowledged so the consumer keeps moving.
func (p *ProductProjector) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return p.handleUpsert(ctx, event)
	case TopicProductDeleted:
		return p.handleDeleted(ctx, event)
	case TopicProductStockChanged:
		return p.handleStockChanged(ctx, event)
	case TopicReviewCreated:
		return p.handleReviewCreated(ctx, event)
	default:
		eventsSkipped.WithLabelValues(domain.EntityProducts, event.EventType).Inc()
		p.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleUpsert projects product.created and product.updated. Both replace
// the whole document, so a redelivered or reordered create/update pair
// converges on the payload state.
func (p *ProductProjector) handleUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	doc := domain.ProductDocument{
		ID:            data.ID,
		Name:          data.Name,
		Slug:          data.Slug,
		SKU:           data.SKU,
		Description:   data.Description,
		CategoryName:  data.CategoryName,
		BrandName:     data.BrandName,
		Price:         data.BasePrice,
		Currency:      data.Currency,
		Status:        data.Status,
		ImageURL:      data.ImageURL,
		Tags:          data.Tags,
		Attributes:    data.Attributes,
		StockQuantity: data.Stock,
		Featured:      data.Featured,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
	if data.CategoryID != nil {
		doc.CategoryID = *data.CategoryID
	}
	if data.BrandID != nil {
		doc.BrandID = *data.BrandID
	}
	// Older product events carry no slug.
	if doc.Slug == "" {
		doc.Slug = slug.Generate(doc.Name)
	}

	p.resolveNames(ctx, &doc)

	// Ratings live on the document, not in the event. An update must not
	// reset them, so carry them over from the current document.
	if event.EventType == TopicProductUpdated {
		current, err := p.engine.Get(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load current product %s: %w", doc.ID, err)
		}
		if current != nil {
			doc.AvgRating = current.AvgRating
			doc.ReviewCount = current.ReviewCount
		}
	}

	doc.RecomputeStockFlags()

	if err := p.engine.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("project %s: %w", event.EventType, err)
	}

	eventsApplied.WithLabelValues(domain.EntityProducts, event.EventType).Inc()
	p.logger.InfoContext(ctx, "product projected",
		slog.String("product_id", doc.ID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

// resolveNames fills missing category and brand names from the reference
// tables. A failed lookup leaves the ID as the display value; projection
// never fails on reference data.
func (p *ProductProjector) resolveNames(ctx context.Context, doc *domain.ProductDocument) {
	if doc.CategoryName == "" && doc.CategoryID != "" {
		doc.CategoryName = doc.CategoryID
		if p.refs != nil {
			name, err := p.refs.CategoryName(ctx, doc.CategoryID)
			if err != nil {
				p.logger.WarnContext(ctx, "category lookup failed",
					slog.String("category_id", doc.CategoryID),
					slog.String("error", err.Error()),
				)
			} else {
				doc.CategoryName = name
			}
		}
	}
	if doc.BrandName == "" && doc.BrandID != "" {
		doc.BrandName = doc.BrandID
		if p.refs != nil {
			name, err := p.refs.BrandName(ctx, doc.BrandID)
			if err != nil {
				p.logger.WarnContext(ctx, "brand lookup failed",
					slog.String("brand_id", doc.BrandID),
					slog.String("error", err.Error()),
				)
			} else {
				doc.BrandName = name
			}
		}
	}
}

func (p *ProductProjector) handleDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if err := p.engine.Delete(ctx, data.ID); err != nil {
		return fmt.Errorf("project product.deleted: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityProducts, event.EventType).Inc()
	p.logger.InfoContext(ctx, "product removed from index",
		slog.String("product_id", data.ID),
	)
	return nil
}

// handleStockChanged re-derives the stock flags on the current document. A
// missing document means the create event has not been applied yet; the
// error drives redelivery until it has.
func (p *ProductProjector) handleStockChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data StockChangedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.stock_changed data: %w", err)
	}

	doc, err := p.engine.Get(ctx, data.ProductID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", data.ProductID, err)
	}
	if doc == nil {
		return fmt.Errorf("product %s not indexed yet", data.ProductID)
	}

	doc.StockQuantity = data.Quantity
	doc.RecomputeStockFlags()

	if err := p.engine.Upsert(ctx, *doc); err != nil {
		return fmt.Errorf("project product.stock_changed: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityProducts, event.EventType).Inc()
	return nil
}

// handleReviewCreated updates the rating aggregates. Payload aggregates win;
// otherwise the reference tables are consulted; failing both, the new
// average is derived incrementally from the indexed document.
func (p *ProductProjector) handleReviewCreated(ctx context.Context, event *pkgkafka.Event) error {
	var data ReviewCreatedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal review.created data: %w", err)
	}

	doc, err := p.engine.Get(ctx, data.ProductID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", data.ProductID, err)
	}
	if doc == nil {
		return fmt.Errorf("product %s not indexed yet", data.ProductID)
	}

	switch {
	case data.AvgRating != nil && data.ReviewCount != nil:
		doc.AvgRating = *data.AvgRating
		doc.ReviewCount = *data.ReviewCount
	default:
		avg, count, err := p.lookupRating(ctx, data.ProductID)
		if err == nil {
			doc.AvgRating = avg
			doc.ReviewCount = count
			break
		}
		p.logger.WarnContext(ctx, "rating lookup failed, deriving incrementally",
			slog.String("product_id", data.ProductID),
			slog.String("error", err.Error()),
		)
		total := doc.AvgRating*float64(doc.ReviewCount) + float64(data.Rating)
		doc.ReviewCount++
		doc.AvgRating = total / float64(doc.ReviewCount)
	}

	if err := p.engine.Upsert(ctx, *doc); err != nil {
		return fmt.Errorf("project review.created: %w", err)
	}

	eventsApplied.WithLabelValues(domain.EntityProducts, event.EventType).Inc()
	return nil
}

func (p *ProductProjector) lookupRating(ctx context.Context, productID string) (float64, int, error) {
	if p.refs == nil {
		return 0, 0, fmt.Errorf("no reference data configured")
	}
	return p.refs.ProductRating(ctx, productID)
}
