// Package elasticsearch implements the search engine against an
// Elasticsearch cluster. One Engine serves one entity's index; all engines
// share the process-wide client handle passed in at construction.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// Engine is the Elasticsearch-backed implementation of engine.Engine for
// one entity.
type Engine[D domain.Document] struct {
	client *elasticsearch.Client
	index  string
	desc   query.Descriptor
	logger *slog.Logger
}

// New creates an engine for the given index using the shared client.
func New[D domain.Document](client *elasticsearch.Client, index string, desc query.Descriptor, logger *slog.Logger) *Engine[D] {
	return &Engine[D]{
		client: client,
		index:  index,
		desc:   desc,
		logger: logger,
	}
}

type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

func decodeError(op, status string, body io.Reader) error {
	var errResp esErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s: %s", op, errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("%s: unexpected status %s", op, status)
}

// Upsert inserts or fully replaces a document by its ID. Full replace (not
// partial update) keeps redelivered events convergent.
func (e *Engine[D]) Upsert(ctx context.Context, doc D) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index %s: marshal document: %w", e.index, err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(doc.DocID()),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(fmt.Sprintf("index %s", e.index), res.Status(), res.Body)
	}

	e.logger.DebugContext(ctx, "document upserted",
		slog.String("index", e.index),
		slog.String("id", doc.DocID()),
	)
	return nil
}

// Delete removes a document by ID. A 404 is ignored.
func (e *Engine[D]) Delete(ctx context.Context, id string) error {
	res, err := e.client.Delete(
		e.index,
		id,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return decodeError(fmt.Sprintf("delete from %s", e.index), res.Status(), res.Body)
	}

	e.logger.DebugContext(ctx, "document deleted",
		slog.String("index", e.index),
		slog.String("id", id),
	)
	return nil
}

// Get fetches a document by ID, returning (nil, nil) when absent. Direct
// lookups intentionally bypass the search-side status filters.
func (e *Engine[D]) Get(ctx context.Context, id string) (*D, error) {
	res, err := e.client.Get(
		e.index,
		id,
		e.client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("get from %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		return nil, decodeError(fmt.Sprintf("get from %s", e.index), res.Status(), res.Body)
	}

	var getResp struct {
		Source D `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&getResp); err != nil {
		return nil, fmt.Errorf("get from %s: decode response: %w", e.index, err)
	}
	return &getResp.Source, nil
}

type esSearchResponse[D any] struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source D `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// Search executes the built query and projects the raw response into the
// result shape: hits, total, facet buckets, pagination metadata. Store
// failures propagate to the caller; a silent empty result would be
// indistinguishable from "no matches".
func (e *Engine[D]) Search(ctx context.Context, req query.Request) (*domain.Result[D], error) {
	body := query.Build(e.desc, req)

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("search %s: marshal query: %w", e.index, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		err := decodeError(fmt.Sprintf("search %s", e.index), res.Status(), res.Body)
		e.logger.ErrorContext(ctx, "search failed",
			slog.String("index", e.index),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	var esResp esSearchResponse[D]
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("search %s: decode response: %w", e.index, err)
	}

	items := make([]D, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		items = append(items, hit.Source)
	}

	facets, err := extractFacets(e.desc.Facets, esResp.Aggregations)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}

	return domain.NewResult(items, esResp.Hits.Total.Value, req.Page, req.PerPage, facets, int64(esResp.Took)), nil
}

// Similar returns documents resembling the anchor via more_like_this. An
// absent anchor is an expected, benign case and yields an empty slice.
func (e *Engine[D]) Similar(ctx context.Context, id string, limit int) ([]D, error) {
	if limit <= 0 {
		limit = 10
	}

	anchor, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return []D{}, nil
	}

	body := query.BuildSimilar(e.desc, e.index, id, limit)
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("similar %s: marshal query: %w", e.index, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("similar %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(fmt.Sprintf("similar %s", e.index), res.Status(), res.Body)
	}

	var esResp esSearchResponse[D]
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("similar %s: decode response: %w", e.index, err)
	}

	items := make([]D, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		if hit.Source.DocID() == id {
			continue
		}
		items = append(items, hit.Source)
	}
	return items, nil
}

// BulkUpsert indexes multiple documents via the bulk NDJSON API. Per-item
// failures are logged with the item identity and reason so the batch can be
// replayed; the batch as a whole reports failure if any item failed.
func (e *Engine[D]) BulkUpsert(ctx context.Context, docs []D) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range docs {
		action := map[string]any{
			"index": map[string]any{
				"_index": e.index,
				"_id":    docs[i].DocID(),
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("bulk %s: encode action: %w", e.index, err)
		}
		if err := json.NewEncoder(&buf).Encode(docs[i]); err != nil {
			return fmt.Errorf("bulk %s: encode document: %w", e.index, err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.index),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return decodeError(fmt.Sprintf("bulk %s", e.index), res.Status(), res.Body)
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("bulk %s: decode response: %w", e.index, err)
	}

	if bulkResp.Errors {
		var failed []string
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type == "" {
				continue
			}
			e.logger.ErrorContext(ctx, "bulk item failed",
				slog.String("index", e.index),
				slog.String("id", item.Index.ID),
				slog.String("type", item.Index.Error.Type),
				slog.String("reason", item.Index.Error.Reason),
			)
			failed = append(failed, item.Index.ID)
		}
		return fmt.Errorf("bulk %s: %d item(s) failed: %s", e.index, len(failed), strings.Join(failed, ", "))
	}

	e.logger.InfoContext(ctx, "bulk upsert completed",
		slog.String("index", e.index),
		slog.Int("count", len(docs)),
	)
	return nil
}
