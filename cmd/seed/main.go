// Command seed publishes fixture domain events to Kafka so a development
// deployment of the search service has data to index. It exercises the full
// projection pipeline: product, order, and customer events flow through the
// same topics the real services publish to.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/projection"
	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/logger"
	"github.com/Yemresalcan/E-commerceAPI-sub000/pkg/slug"
)

const source = "seed"

var productNames = []string{
	"Trail Running Shoes", "Wireless Noise Cancelling Headphones",
	"Stainless Steel Water Bottle", "Mechanical Keyboard",
	"Merino Wool Base Layer", "Carbon Road Bike", "Espresso Grinder",
	"Down Sleeping Bag", "4K Action Camera", "Yoga Mat",
	"Leather Messenger Bag", "Smart Thermostat", "Cast Iron Skillet",
	"Bluetooth Speaker", "Climbing Harness", "Electric Kettle",
	"Gaming Mouse", "Insulated Rain Jacket", "Portable Power Station",
	"Ceramic Pour Over Set",
}

var categories = []struct{ id, name string }{
	{"11111111-1111-1111-1111-111111111111", "Outdoor"},
	{"22222222-2222-2222-2222-222222222222", "Electronics"},
	{"33333333-3333-3333-3333-333333333333", "Kitchen"},
	{"44444444-4444-4444-4444-444444444444", "Apparel"},
}

var brands = []struct{ id, name string }{
	{"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", "Northwind"},
	{"bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", "Voltcraft"},
	{"cccccccc-cccc-cccc-cccc-cccccccccccc", "Alpina"},
}

var customers = []struct{ first, last, city, country string }{
	{"Ayse", "Yilmaz", "Istanbul", "TR"},
	{"Mehmet", "Demir", "Ankara", "TR"},
	{"Elena", "Petrova", "Sofia", "BG"},
	{"Jonas", "Weber", "Berlin", "DE"},
	{"Marie", "Dubois", "Lyon", "FR"},
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log := logger.New("search-seed", getEnv("LOG_LEVEL", "info"))

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(brokers), log)
	defer func() { _ = producer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := producer.Ping(ctx); err != nil {
		log.Error("kafka unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(42))

	customerIDs, err := seedCustomers(ctx, producer, log)
	if err != nil {
		log.Error("seed customers failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	productIDs, err := seedProducts(ctx, producer, rng, log)
	if err != nil {
		log.Error("seed products failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedOrders(ctx, producer, rng, customerIDs, productIDs, log); err != nil {
		log.Error("seed orders failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seed completed",
		slog.Int("customers", len(customerIDs)),
		slog.Int("products", len(productIDs)),
	)
}

func publish(ctx context.Context, producer *pkgkafka.Producer, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, source, data)
	if err != nil {
		return fmt.Errorf("build event: %w", err)
	}
	return producer.Publish(ctx, topic, event)
}

func seedCustomers(ctx context.Context, producer *pkgkafka.Producer, log *slog.Logger) ([]string, error) {
	ids := make([]string, 0, len(customers))
	now := time.Now().UTC()

	for i, c := range customers {
		id := uuid.New().String()
		data := projection.CustomerEventData{
			ID:           id,
			Email:        fmt.Sprintf("%s.%s@example.com", strings.ToLower(c.first), strings.ToLower(c.last)),
			FirstName:    c.first,
			LastName:     c.last,
			City:         c.city,
			Country:      c.country,
			IsActive:     true,
			RegisteredAt: now.AddDate(0, -i, 0),
			UpdatedAt:    now,
		}
		if err := publish(ctx, producer, projection.TopicCustomerRegistered, id, "customer", data); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	log.Info("customer events published", slog.Int("count", len(ids)))
	return ids, nil
}

func seedProducts(ctx context.Context, producer *pkgkafka.Producer, rng *rand.Rand, log *slog.Logger) ([]string, error) {
	ids := make([]string, 0, len(productNames))
	now := time.Now().UTC()

	for i, name := range productNames {
		id := uuid.New().String()
		cat := categories[i%len(categories)]
		brand := brands[i%len(brands)]
		catID, brandID := cat.id, brand.id

		data := projection.ProductEventData{
			ID:           id,
			Name:         name,
			Slug:         slug.Generate(name),
			SKU:          fmt.Sprintf("SKU-%05d", 1000+i),
			Description:  fmt.Sprintf("The %s, built to last.", strings.ToLower(name)),
			CategoryID:   &catID,
			CategoryName: cat.name,
			BrandID:      &brandID,
			BrandName:    brand.name,
			BasePrice:    int64(rng.Intn(90000) + 500),
			Currency:     "USD",
			Status:       "published",
			Tags:         []string{strings.ToLower(cat.name), strings.ToLower(brand.name)},
			Stock:        rng.Intn(50),
			Featured:     i%5 == 0,
			CreatedAt:    now.AddDate(0, 0, -i),
			UpdatedAt:    now,
		}
		if err := publish(ctx, producer, projection.TopicProductCreated, id, "product", data); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	log.Info("product events published", slog.Int("count", len(ids)))
	return ids, nil
}

func seedOrders(ctx context.Context, producer *pkgkafka.Producer, rng *rand.Rand, customerIDs, productIDs []string, log *slog.Logger) error {
	now := time.Now().UTC()
	statuses := []string{"pending", "confirmed", "shipped", "delivered"}

	for i := 0; i < 30; i++ {
		id := uuid.New().String()
		customerID := customerIDs[rng.Intn(len(customerIDs))]

		itemCount := rng.Intn(3) + 1
		items := make([]projection.OrderItemData, 0, itemCount)
		var total int64
		for j := 0; j < itemCount; j++ {
			pi := rng.Intn(len(productIDs))
			price := int64(rng.Intn(40000) + 500)
			items = append(items, projection.OrderItemData{
				ProductID:   productIDs[pi],
				ProductName: productNames[pi%len(productNames)],
				Quantity:    1,
				UnitPrice:   price,
			})
			total += price
		}

		data := projection.OrderEventData{
			ID:            id,
			OrderNumber:   fmt.Sprintf("ORD-%06d", 100000+i),
			CustomerID:    customerID,
			Status:        statuses[rng.Intn(len(statuses))],
			PaymentMethod: "credit_card",
			PaymentStatus: "paid",
			TotalAmount:   total,
			Currency:      "USD",
			Items:         items,
			ShippingCity:  customers[rng.Intn(len(customers))].city,
			CreatedAt:     now.AddDate(0, 0, -rng.Intn(60)),
			UpdatedAt:     now,
		}
		if err := publish(ctx, producer, projection.TopicOrderCreated, id, "order", data); err != nil {
			return err
		}
	}

	log.Info("order events published", slog.Int("count", 30))
	return nil
}
