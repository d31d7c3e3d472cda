// Package index manages the lifecycle of the search indices: creation,
// deletion, health, refresh, warmup, and segment optimization. All
// operations are best-effort and report success as a boolean; expected
// failure modes (index missing, already exists) never panic or throw.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/schema"
)

// settleDelay is the pause between delete and create during Recreate,
// letting the deletion propagate through the cluster before the index is
// recreated under the same name. Skipping it risks the create racing the
// delete.
const settleDelay = 500 * time.Millisecond

// Manager performs lifecycle operations against a shared Elasticsearch
// client. The client handle is passed in explicitly at construction; the
// manager holds no other state.
type Manager struct {
	client *elasticsearch.Client
	prefix string
	logger *slog.Logger
	settle time.Duration
}

// NewManager creates a lifecycle manager for indices under the given
// deployment prefix.
func NewManager(client *elasticsearch.Client, prefix string, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		prefix: prefix,
		logger: logger,
		settle: settleDelay,
	}
}

// IndexName returns the physical index name for an entity.
func (m *Manager) IndexName(entity string) string {
	return schema.IndexName(m.prefix, entity)
}

// Ping checks whether the cluster is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	res, err := m.client.Ping(m.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// Exists reports whether the entity's index exists.
func (m *Manager) Exists(ctx context.Context, entity string) (bool, error) {
	name := m.IndexName(entity)
	res, err := m.client.Indices.Exists(
		[]string{name},
		m.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	return res.StatusCode == 200, nil
}

// EnsureCreated is idempotent: it returns true if the entity's index
// already exists or was successfully created.
func (m *Manager) EnsureCreated(ctx context.Context, entity string) bool {
	exists, err := m.Exists(ctx, entity)
	if err != nil {
		m.logger.ErrorContext(ctx, "index existence check failed",
			slog.String("index", m.IndexName(entity)),
			slog.String("error", err.Error()),
		)
		return false
	}
	if exists {
		return true
	}
	return m.Create(ctx, entity)
}

// Create creates the entity's index with its registered mapping. Returns
// false for unknown entities and on failure.
func (m *Manager) Create(ctx context.Context, entity string) bool {
	s, ok := schema.For(entity)
	if !ok {
		m.logger.ErrorContext(ctx, "no schema registered for entity", slog.String("entity", entity))
		return false
	}

	name := m.IndexName(entity)
	res, err := m.client.Indices.Create(
		name,
		m.client.Indices.Create.WithBody(strings.NewReader(s.Mapping)),
		m.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		m.logger.ErrorContext(ctx, "create index failed",
			slog.String("index", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		// Racing creators are fine: already-exists counts as success.
		if strings.Contains(decodeESError(res.Body), "resource_already_exists_exception") {
			return true
		}
		m.logger.ErrorContext(ctx, "create index failed",
			slog.String("index", name),
			slog.String("status", res.Status()),
		)
		return false
	}

	m.logger.InfoContext(ctx, "index created", slog.String("index", name))
	return true
}

// Delete removes the entity's index. A missing index (404) counts as
// success.
func (m *Manager) Delete(ctx context.Context, entity string) bool {
	name := m.IndexName(entity)
	res, err := m.client.Indices.Delete(
		[]string{name},
		m.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		m.logger.ErrorContext(ctx, "delete index failed",
			slog.String("index", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		m.logger.ErrorContext(ctx, "delete index failed",
			slog.String("index", name),
			slog.String("status", res.Status()),
		)
		return false
	}

	m.logger.InfoContext(ctx, "index deleted", slog.String("index", name))
	return true
}

// Recreate deletes and recreates the entity's index. The settle delay
// between the two steps is a correctness requirement: it lets the deletion
// propagate before the create is issued.
func (m *Manager) Recreate(ctx context.Context, entity string) bool {
	if !m.Delete(ctx, entity) {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(m.settle):
	}

	return m.Create(ctx, entity)
}

// Health reports per-index existence and an aggregate status that is
// healthy only if every managed index reports healthy.
func (m *Manager) Health(ctx context.Context, entities []string) (map[string]bool, bool) {
	statuses := make(map[string]bool, len(entities))
	all := true
	for _, e := range entities {
		exists, err := m.Exists(ctx, e)
		healthy := err == nil && exists
		statuses[m.IndexName(e)] = healthy
		if !healthy {
			all = false
		}
	}
	return statuses, all
}

// Refresh forces recently-written documents to become visible to search
// immediately. Intended for tests and rebuilds; regular traffic relies on
// the index's own refresh interval.
func (m *Manager) Refresh(ctx context.Context, entity string) bool {
	name := m.IndexName(entity)
	res, err := m.client.Indices.Refresh(
		m.client.Indices.Refresh.WithIndex(name),
		m.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		m.logger.ErrorContext(ctx, "refresh index failed",
			slog.String("index", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		m.logger.ErrorContext(ctx, "refresh index failed",
			slog.String("index", name),
			slog.String("status", res.Status()),
		)
		return false
	}
	return true
}

// Warmup issues the entity's representative queries (match-all plus common
// filter combinations) to pre-populate node caches. Failures are logged and
// ignored; warmup is purely advisory.
func (m *Manager) Warmup(ctx context.Context, entity string, d query.Descriptor) {
	name := m.IndexName(entity)
	for _, body := range query.WarmupBodies(d) {
		data, err := json.Marshal(body)
		if err != nil {
			continue
		}
		res, err := m.client.Search(
			m.client.Search.WithIndex(name),
			m.client.Search.WithBody(bytes.NewReader(data)),
			m.client.Search.WithContext(ctx),
		)
		if err != nil {
			m.logger.WarnContext(ctx, "warmup query failed",
				slog.String("index", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		_ = res.Body.Close()
	}
	m.logger.InfoContext(ctx, "index warmup completed", slog.String("index", name))
}

// Optimize force-merges the entity's index down to a single segment. Only
// sensible after a bulk rebuild on an otherwise quiet index.
func (m *Manager) Optimize(ctx context.Context, entity string) bool {
	name := m.IndexName(entity)
	res, err := m.client.Indices.Forcemerge(
		m.client.Indices.Forcemerge.WithIndex(name),
		m.client.Indices.Forcemerge.WithMaxNumSegments(1),
		m.client.Indices.Forcemerge.WithContext(ctx),
	)
	if err != nil {
		m.logger.ErrorContext(ctx, "forcemerge failed",
			slog.String("index", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		m.logger.ErrorContext(ctx, "forcemerge failed",
			slog.String("index", name),
			slog.String("status", res.Status()),
		)
		return false
	}
	return true
}

// decodeESError extracts the error type+reason from an ES error body.
func decodeESError(body io.Reader) string {
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", errResp.Error.Type, errResp.Error.Reason)
}
