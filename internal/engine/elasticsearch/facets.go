package elasticsearch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// esBucket covers both terms buckets (string/bool/number keys) and range
// buckets (string keys with from/to).
type esBucket struct {
	Key         json.RawMessage `json:"key"`
	KeyAsString string          `json:"key_as_string"`
	DocCount    int64           `json:"doc_count"`
}

type esAggregation struct {
	Buckets []esBucket `json:"buckets"`
}

// extractFacets maps the named aggregations of a search response onto the
// facet structure declared by the descriptor. Buckets are keyed by their
// string label.
func extractFacets(facets []query.Facet, aggs map[string]json.RawMessage) (domain.Facets, error) {
	if len(facets) == 0 || len(aggs) == 0 {
		return nil, nil
	}

	out := make(domain.Facets, len(facets))
	for _, f := range facets {
		raw, ok := aggs[f.Name]
		if !ok {
			continue
		}
		var agg esAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("decode aggregation %q: %w", f.Name, err)
		}
		buckets := make(domain.FacetBuckets, len(agg.Buckets))
		for _, b := range agg.Buckets {
			buckets[bucketLabel(b)] = b.DocCount
		}
		out[f.Name] = buckets
	}
	return out, nil
}

// bucketLabel resolves the display label of a bucket. Boolean and numeric
// terms come back with key_as_string set; plain string keys are unquoted
// from the raw JSON.
func bucketLabel(b esBucket) string {
	if b.KeyAsString != "" {
		return b.KeyAsString
	}

	var s string
	if err := json.Unmarshal(b.Key, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(b.Key, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var v bool
	if err := json.Unmarshal(b.Key, &v); err == nil {
		return strconv.FormatBool(v)
	}
	return string(b.Key)
}
