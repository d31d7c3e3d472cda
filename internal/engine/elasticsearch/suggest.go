package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// Suggest returns autocomplete completions for the given prefix from the
// descriptor's edge-n-gram sub-field. Completions are deduplicated while
// preserving relevance order.
func (e *Engine[D]) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	body := query.BuildSuggest(e.desc, prefix, limit*2)
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: marshal query: %w", e.index, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", e.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, decodeError(fmt.Sprintf("suggest %s", e.index), res.Status(), res.Body)
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("suggest %s: decode response: %w", e.index, err)
	}

	seen := make(map[string]struct{}, len(esResp.Hits.Hits))
	suggestions := make([]string, 0, limit)
	for _, hit := range esResp.Hits.Hits {
		v, ok := hit.Source[e.desc.SuggestSource].(string)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		suggestions = append(suggestions, v)
		if len(suggestions) == limit {
			break
		}
	}
	return suggestions, nil
}
