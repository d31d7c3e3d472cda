package query

import (
	"fmt"
	"sort"
	"strings"
)

// Pagination bounds enforced by the builder. The HTTP boundary rejects
// out-of-range values before they get here; the builder clamps as a second
// line of defense so the backing store never sees an unbounded window.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Filter is a single non-scoring constraint on a document field. Exactly one
// of Term, Terms, or the Min/Max pair is set.
type Filter struct {
	Field string
	Term  any
	Terms []any
	Min   any
	Max   any

	// implicit marks a default visibility constraint the caller did not
	// ask for. It still filters but does not count toward the request's
	// shape, so a plain product browse keeps the browse cache duration.
	implicit bool
}

// Term builds an exact-match filter.
func Term(field string, value any) Filter {
	return Filter{Field: field, Term: value}
}

// Terms builds a set-membership filter.
func Terms(field string, values []any) Filter {
	return Filter{Field: field, Terms: values}
}

// Range builds an inclusive range filter. Either bound may be nil.
func Range(field string, min, max any) Filter {
	return Filter{Field: field, Min: min, Max: max}
}

// implicitTerm builds an exact-match filter excluded from shape
// classification.
func implicitTerm(field string, value any) Filter {
	f := Term(field, value)
	f.implicit = true
	return f
}

// IsRange reports whether the filter is a range constraint.
func (f Filter) IsRange() bool { return f.Term == nil && len(f.Terms) == 0 }

// canonical returns a deterministic string form of the filter, used for
// cache keys.
func (f Filter) canonical() string {
	switch {
	case f.Term != nil:
		return fmt.Sprintf("term:%s=%v", f.Field, f.Term)
	case len(f.Terms) > 0:
		vals := make([]string, 0, len(f.Terms))
		for _, v := range f.Terms {
			vals = append(vals, fmt.Sprintf("%v", v))
		}
		sort.Strings(vals)
		return fmt.Sprintf("terms:%s=%s", f.Field, strings.Join(vals, ","))
	default:
		return fmt.Sprintf("range:%s=%v..%v", f.Field, f.Min, f.Max)
	}
}

// Request is the normalized, entity-independent form of a search request.
// It is produced from the typed domain queries by the per-entity adapters
// and consumed by Build and by the cache key derivation.
type Request struct {
	Text    string
	Filters []Filter
	SortBy  string
	Page    int
	PerPage int
}

// Canonical serializes the request into an order-independent string so that
// equivalent requests map to the same cache key regardless of how they were
// constructed.
func (r Request) Canonical() string {
	parts := make([]string, 0, len(r.Filters)+4)
	for _, f := range r.Filters {
		parts = append(parts, f.canonical())
	}
	sort.Strings(parts)
	head := fmt.Sprintf("q=%s|sort=%s|page=%d|per=%d", r.Text, r.SortBy, r.Page, r.PerPage)
	return head + "|" + strings.Join(parts, "|")
}

// Shape classifies the request for the cache duration policy.
type Shape int

const (
	// ShapeBrowse is an unfiltered match-all listing.
	ShapeBrowse Shape = iota
	// ShapeSingleFilter has exactly one filter and no free text.
	ShapeSingleFilter
	// ShapeText carries free text, possibly with one filter.
	ShapeText
	// ShapeComplex combines several filters.
	ShapeComplex
)

// Shape returns the request's shape classification. Implicit default
// filters are ignored: they are present on every request for the entity and
// say nothing about how cacheable the particular query is.
func (r Request) Shape() Shape {
	explicit := 0
	for _, f := range r.Filters {
		if !f.implicit {
			explicit++
		}
	}
	switch {
	case r.Text == "" && explicit == 0:
		return ShapeBrowse
	case r.Text == "" && explicit == 1:
		return ShapeSingleFilter
	case r.Text != "" && explicit <= 1:
		return ShapeText
	default:
		return ShapeComplex
	}
}

// stopWords is the small list removed from free-text queries before
// matching. Deliberately short: aggressive stop-wording hurts recall on
// product names such as "The North Face".
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "for": {}, "in": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

// CleanText trims, lowercases, and strips stop words from a free-text
// query. A query consisting only of stop words collapses to empty, which
// the builder treats as match-all.
func CleanText(raw string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	kept := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, skip := stopWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// normalize clamps pagination into bounds and applies the default sort.
func (r *Request) normalize(defaultSort string) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	if r.SortBy == "" {
		r.SortBy = defaultSort
	}
}

// orderedRange returns min/max with inverted numeric bounds swapped.
// Inverted bounds are treated as the range the caller meant rather than
// rejected; the strict boundary checks only cover malformed values.
func orderedRange[T int64 | float64](min, max *T) (*T, *T) {
	if min != nil && max != nil && *min > *max {
		return max, min
	}
	return min, max
}
