package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/engine/memory"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

func customerEventData(id string) CustomerEventData {
	return CustomerEventData{
		ID:           id,
		Email:        "ayse.yilmaz@example.com",
		FirstName:    "Ayse",
		LastName:     "Yilmaz",
		City:         "Istanbul",
		Country:      "TR",
		IsActive:     true,
		RegisteredAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCustomerRegisteredProjectsDocument(t *testing.T) {
	ctx := context.Background()
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerRegistered, "c1", "customer", customerEventData("c1"))))

	doc, err := eng.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Ayse Yilmaz", doc.FullName)
	assert.True(t, doc.IsActive)
	assert.Equal(t, 0, doc.OrderCount)
}

func TestCustomerUpdatedPreservesOrderAggregates(t *testing.T) {
	ctx := context.Background()
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerRegistered, "c1", "customer", customerEventData("c1"))))
	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicOrderCreated, "o1", "order", OrderEventData{
		ID: "o1", CustomerID: "c1", TotalAmount: 9900,
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})))

	updated := customerEventData("c1")
	updated.City = "Izmir"
	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerUpdated, "c1", "customer", updated)))

	doc, err := eng.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Izmir", doc.City)
	assert.Equal(t, 1, doc.OrderCount)
	assert.Equal(t, int64(9900), doc.LifetimeValue)
}

func TestOrderCreatedBumpsAggregates(t *testing.T) {
	ctx := context.Background()
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerRegistered, "c1", "customer", customerEventData("c1"))))

	for _, amount := range []int64{5000, 7500} {
		require.NoError(t, p.Handle(ctx, mustEvent(t, TopicOrderCreated, "o", "order", OrderEventData{
			ID: "o", CustomerID: "c1", TotalAmount: amount,
			CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		})))
	}

	doc, err := eng.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.OrderCount)
	assert.Equal(t, int64(12500), doc.LifetimeValue)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), doc.UpdatedAt)
}

func TestOrderForUnindexedCustomerIsSkipped(t *testing.T) {
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	// Guest checkout: no registration event will ever arrive, so the
	// projector must acknowledge rather than force redelivery.
	err := p.Handle(context.Background(), mustEvent(t, TopicOrderCreated, "o1", "order", OrderEventData{
		ID: "o1", CustomerID: "ghost", TotalAmount: 100,
	}))
	assert.NoError(t, err)
}

func TestOrderWithoutCustomerIsIgnored(t *testing.T) {
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	err := p.Handle(context.Background(), mustEvent(t, TopicOrderCreated, "o1", "order", OrderEventData{
		ID: "o1", TotalAmount: 100,
	}))
	assert.NoError(t, err)
}

func TestCustomerDeactivatedRemovesDocument(t *testing.T) {
	ctx := context.Background()
	eng := memory.New[domain.CustomerDocument](query.Customers())
	p := NewCustomerProjector(eng, testLogger())

	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerRegistered, "c1", "customer", customerEventData("c1"))))
	require.NoError(t, p.Handle(ctx, mustEvent(t, TopicCustomerDeactivated, "c1", "customer", CustomerDeactivatedData{ID: "c1"})))

	doc, err := eng.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}
