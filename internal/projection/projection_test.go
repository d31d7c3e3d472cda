package projection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	pkgkafka "github.com/Yemresalcan/E-commerceAPI-sub000/pkg/kafka"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustEvent(t *testing.T, eventType, aggregateID, aggregateType string, data any) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, "test", data)
	require.NoError(t, err)
	return event
}

// stubRefs is a canned ReferenceData implementation. Zero value fails every
// lookup, matching a projector running without reference tables.
type stubRefs struct {
	categories map[string]string
	brands     map[string]string
	customers  map[string]string
	ratings    map[string]struct {
		avg   float64
		count int
	}
}

func (s *stubRefs) CategoryName(_ context.Context, id string) (string, error) {
	if name, ok := s.categories[id]; ok {
		return name, nil
	}
	return "", errors.New("category not found")
}

func (s *stubRefs) BrandName(_ context.Context, id string) (string, error) {
	if name, ok := s.brands[id]; ok {
		return name, nil
	}
	return "", errors.New("brand not found")
}

func (s *stubRefs) CustomerName(_ context.Context, id string) (string, error) {
	if name, ok := s.customers[id]; ok {
		return name, nil
	}
	return "", errors.New("customer not found")
}

func (s *stubRefs) ProductRating(_ context.Context, id string) (float64, int, error) {
	if r, ok := s.ratings[id]; ok {
		return r.avg, r.count, nil
	}
	return 0, 0, errors.New("rating unavailable")
}
