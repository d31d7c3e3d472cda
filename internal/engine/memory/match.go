package memory

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// matchFilters reports whether the document satisfies every filter.
func matchFilters(fields map[string]any, filters []query.Filter) bool {
	for _, f := range filters {
		v := lookupField(fields, f.Field)
		switch {
		case f.Term != nil:
			if !equalValues(v, f.Term) {
				return false
			}
		case len(f.Terms) > 0:
			found := false
			for _, t := range f.Terms {
				if equalValues(v, t) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if !inRange(v, f.Min, f.Max) {
				return false
			}
		}
	}
	return true
}

// textScore matches the cleaned text terms against the descriptor's text
// fields. All terms must match somewhere; the score sums the weights of the
// fields each term matched in. Empty text is match-all with score zero.
func textScore(desc query.Descriptor, fields map[string]any, text string) (float64, bool) {
	if text == "" {
		return 0, true
	}

	var score float64
	for _, term := range strings.Fields(text) {
		termScore := 0.0
		for _, tf := range desc.TextFields {
			s, _ := lookupField(fields, tf.Field).(string)
			if s == "" {
				continue
			}
			if strings.Contains(strings.ToLower(s), term) {
				w := tf.Weight
				if w < 1 {
					w = 1
				}
				termScore += float64(w)
			}
		}
		if termScore == 0 {
			return 0, false
		}
		score += termScore
	}
	return score, true
}

// textTokens collects the lowercased words of all text fields, used for
// similarity ranking.
func textTokens(desc query.Descriptor, fields map[string]any) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tf := range desc.TextFields {
		s, _ := lookupField(fields, tf.Field).(string)
		for _, w := range strings.Fields(strings.ToLower(s)) {
			if len(w) < 3 {
				continue
			}
			tokens[w] = struct{}{}
		}
	}
	return tokens
}

// computeFacets counts buckets over the full filtered set, before
// pagination, mirroring how aggregations run server side.
func (e *Engine[D]) computeFacets(matched []scored[D]) domain.Facets {
	if len(e.desc.Facets) == 0 {
		return nil
	}

	out := make(domain.Facets, len(e.desc.Facets))
	for _, f := range e.desc.Facets {
		buckets := make(domain.FacetBuckets)
		for _, s := range matched {
			v := lookupField(s.fields, f.Field)
			if v == nil {
				continue
			}
			switch f.Kind {
			case query.FacetTerms:
				buckets[termLabel(v)]++
			case query.FacetRanges:
				n, ok := asNumber(v)
				if !ok {
					continue
				}
				for _, rb := range f.Buckets {
					// Range aggregations include "from" and exclude "to".
					if rb.From != nil && n < *rb.From {
						continue
					}
					if rb.To != nil && n >= *rb.To {
						continue
					}
					buckets[rb.Label]++
				}
			}
		}
		out[f.Name] = buckets
	}
	return out
}

func termLabel(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// sortDocs orders the matched set by the request's sort chain. The chain
// always ends in the "id" tie-break, so the order is total.
func (e *Engine[D]) sortDocs(matched []scored[D], mode string) {
	chain := e.desc.SortChain(mode)
	sort.SliceStable(matched, func(i, j int) bool {
		for _, key := range chain {
			var cmp int
			if key.Field == query.ScoreField {
				cmp = compareFloats(matched[i].score, matched[j].score)
			} else {
				cmp = compareValues(
					lookupField(matched[i].fields, key.Field),
					lookupField(matched[j].fields, key.Field),
				)
			}
			if cmp == 0 {
				continue
			}
			if key.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// equalValues compares a document field with a filter value across the
// JSON/Go type seam: numbers compare numerically, everything else by
// normalized string form. Array fields match when any element matches,
// which is how term queries behave against multi-valued fields.
func equalValues(docVal, filterVal any) bool {
	if docVal == nil {
		return false
	}
	if arr, ok := docVal.([]any); ok {
		for _, el := range arr {
			if equalValues(el, filterVal) {
				return true
			}
		}
		return false
	}
	if a, ok := asNumber(docVal); ok {
		if b, ok := asNumber(filterVal); ok {
			return a == b
		}
		return false
	}
	return valueString(docVal) == valueString(filterVal)
}

// inRange checks an inclusive range. Timestamps arrive as RFC 3339 strings
// on both sides and must be compared as instants, not lexically, because
// fractional seconds break string ordering.
func inRange(docVal, min, max any) bool {
	if docVal == nil {
		return false
	}

	if n, ok := asNumber(docVal); ok {
		if min != nil {
			if m, ok := asNumber(min); !ok || n < m {
				return false
			}
		}
		if max != nil {
			if m, ok := asNumber(max); !ok || n > m {
				return false
			}
		}
		return true
	}

	if t, ok := asTime(docVal); ok {
		if min != nil {
			if m, ok := asTime(min); !ok || t.Before(m) {
				return false
			}
		}
		if max != nil {
			if m, ok := asTime(max); !ok || t.After(m) {
				return false
			}
		}
		return true
	}

	s := valueString(docVal)
	if min != nil && s < valueString(min) {
		return false
	}
	if max != nil && s > valueString(max) {
		return false
	}
	return true
}

// compareValues orders two field values: numbers numerically, timestamps
// chronologically, the rest by string form. Nil sorts last.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	if na, ok := asNumber(a); ok {
		if nb, ok := asNumber(b); ok {
			return compareFloats(na, nb)
		}
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(valueString(a), valueString(b))
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
