package query

// Build translates a normalized request into the Elasticsearch query DSL.
//
// The free-text match (when present) is the only scoring clause; every
// typed constraint goes into the bool filter context so that filter
// cardinality never perturbs relevance ranking.
func Build(d Descriptor, r Request) map[string]any {
	boolQuery := map[string]any{
		"must": []any{textClause(d, r.Text)},
	}
	if filters := filterClauses(r.Filters); len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": boolQuery,
		},
		"from":             (r.Page - 1) * r.PerPage,
		"size":             r.PerPage,
		"track_total_hits": true,
		"sort":             sortClause(d, r.SortBy),
	}

	if len(d.SourceExcludes) > 0 {
		body["_source"] = map[string]any{"excludes": d.SourceExcludes}
	}
	if aggs := aggClauses(d.Facets); len(aggs) > 0 {
		body["aggs"] = aggs
	}

	return body
}

// BuildSuggest builds the autocomplete query: a match on the edge-n-gram
// sub-field, returning only the suggest source field.
func BuildSuggest(d Descriptor, prefix string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				d.SuggestField: prefix,
			},
		},
		"size":    limit,
		"_source": []string{d.SuggestSource},
		"sort":    []any{map[string]any{"_score": "desc"}},
	}
}

// BuildSimilar builds a more_like_this query anchored on the given document
// ID over the descriptor's text fields.
func BuildSimilar(d Descriptor, index, id string, limit int) map[string]any {
	fields := make([]string, 0, len(d.TextFields))
	for _, tf := range d.TextFields {
		fields = append(fields, tf.Field)
	}
	return map[string]any{
		"query": map[string]any{
			"more_like_this": map[string]any{
				"fields": fields,
				"like": []any{
					map[string]any{"_index": index, "_id": id},
				},
				"min_term_freq": 1,
				"min_doc_freq":  1,
			},
		},
		"size": limit,
	}
}

// WarmupBodies returns the representative query bodies issued by index
// warmup: a match-all plus each of the descriptor's common filter sets.
func WarmupBodies(d Descriptor) []map[string]any {
	bodies := make([]map[string]any, 0, len(d.WarmupFilters))
	for _, filters := range d.WarmupFilters {
		bodies = append(bodies, Build(d, Request{
			Filters: filters,
			SortBy:  d.DefaultSort,
			Page:    1,
			PerPage: DefaultPerPage,
		}))
	}
	return bodies
}

func textClause(d Descriptor, text string) map[string]any {
	if text == "" {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{
		"multi_match": map[string]any{
			"query":         text,
			"fields":        d.weightedFields(),
			"type":          "best_fields",
			"fuzziness":     "AUTO",
			"prefix_length": 1,
		},
	}
}

func filterClauses(filters []Filter) []any {
	out := make([]any, 0, len(filters))
	for _, f := range filters {
		switch {
		case f.Term != nil:
			out = append(out, map[string]any{
				"term": map[string]any{f.Field: f.Term},
			})
		case len(f.Terms) > 0:
			out = append(out, map[string]any{
				"terms": map[string]any{f.Field: f.Terms},
			})
		default:
			bounds := map[string]any{}
			if f.Min != nil {
				bounds["gte"] = f.Min
			}
			if f.Max != nil {
				bounds["lte"] = f.Max
			}
			if len(bounds) == 0 {
				continue
			}
			out = append(out, map[string]any{
				"range": map[string]any{f.Field: bounds},
			})
		}
	}
	return out
}

func sortClause(d Descriptor, mode string) []any {
	chain := d.SortChain(mode)
	out := make([]any, 0, len(chain))
	for _, k := range chain {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		out = append(out, map[string]any{k.Field: dir})
	}
	return out
}

func aggClauses(facets []Facet) map[string]any {
	aggs := make(map[string]any, len(facets))
	for _, f := range facets {
		switch f.Kind {
		case FacetRanges:
			ranges := make([]any, 0, len(f.Buckets))
			for _, b := range f.Buckets {
				rb := map[string]any{"key": b.Label}
				if b.From != nil {
					rb["from"] = *b.From
				}
				if b.To != nil {
					rb["to"] = *b.To
				}
				ranges = append(ranges, rb)
			}
			aggs[f.Name] = map[string]any{
				"range": map[string]any{
					"field":  f.Field,
					"ranges": ranges,
					"keyed":  false,
				},
			}
		default:
			size := f.Size
			if size == 0 {
				size = 20
			}
			aggs[f.Name] = map[string]any{
				"terms": map[string]any{
					"field": f.Field,
					"size":  size,
				},
			}
		}
	}
	return aggs
}
