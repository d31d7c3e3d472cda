package query

import (
	"time"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
)

// ScoreField is the pseudo-field representing relevance score in sort
// chains. The Elasticsearch engine maps it to _score; the in-memory engine
// computes its own score.
const ScoreField = "_score"

func floatPtr(v float64) *float64 { return &v }

// Products returns the search descriptor for the product index.
//
// Text weights: name highest, then SKU, then category name, then free
// description. Relevance ties break on featured then rating so that curated
// items surface first among equally relevant matches.
func Products() Descriptor {
	return Descriptor{
		Entity: domain.EntityProducts,
		TextFields: []TextField{
			{Field: "name", Weight: 4},
			{Field: "name.autocomplete", Weight: 2},
			{Field: "sku", Weight: 3},
			{Field: "category_name", Weight: 2},
			{Field: "brand_name", Weight: 2},
			{Field: "description", Weight: 1},
		},
		SuggestField:   "name.autocomplete",
		SuggestSource:  "name",
		SourceExcludes: []string{"description"},
		Sorts: map[string][]SortKey{
			domain.SortRelevance: {
				{Field: ScoreField, Desc: true},
				{Field: "featured", Desc: true},
				{Field: "avg_rating", Desc: true},
			},
			domain.SortPriceAsc:  {{Field: "price"}},
			domain.SortPriceDesc: {{Field: "price", Desc: true}},
			domain.SortRating: {
				{Field: "avg_rating", Desc: true},
				{Field: "review_count", Desc: true},
			},
			domain.SortNewest: {{Field: "created_at", Desc: true}},
		},
		DefaultSort: domain.SortRelevance,
		Facets: []Facet{
			{Name: "categories", Field: "category_name.keyword", Kind: FacetTerms},
			{Name: "brands", Field: "brand_name.keyword", Kind: FacetTerms},
			{Name: "availability", Field: "in_stock", Kind: FacetTerms},
			{Name: "price_ranges", Field: "price", Kind: FacetRanges, Buckets: []RangeBucket{
				{Label: "0-2500", To: floatPtr(2500)},
				{Label: "2500-10000", From: floatPtr(2500), To: floatPtr(10000)},
				{Label: "10000-50000", From: floatPtr(10000), To: floatPtr(50000)},
				{Label: "50000+", From: floatPtr(50000)},
			}},
			{Name: "ratings", Field: "avg_rating", Kind: FacetRanges, Buckets: []RangeBucket{
				{Label: "4+", From: floatPtr(4)},
				{Label: "3+", From: floatPtr(3)},
				{Label: "2+", From: floatPtr(2)},
				{Label: "1+", From: floatPtr(1)},
			}},
		},
		WarmupFilters: [][]Filter{
			nil,
			{Term("status", domain.ProductStatusPublished)},
			{Term("status", domain.ProductStatusPublished), Term("in_stock", true)},
			{Term("status", domain.ProductStatusPublished), Term("featured", true)},
		},
	}
}

// ProductRequest normalizes a typed product query into the generic request
// shape. Inactive products are excluded from searches unless the caller
// filters on status explicitly; direct ID lookups bypass this entirely.
func ProductRequest(q *domain.ProductSearchQuery) Request {
	r := Request{
		Text:    CleanText(q.Query),
		SortBy:  q.SortBy,
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.CategoryID != nil {
		r.Filters = append(r.Filters, Term("category_id", *q.CategoryID))
	}
	if q.BrandID != nil {
		r.Filters = append(r.Filters, Term("brand_id", *q.BrandID))
	}
	if q.Status != nil {
		r.Filters = append(r.Filters, Term("status", *q.Status))
	} else {
		r.Filters = append(r.Filters, implicitTerm("status", domain.ProductStatusPublished))
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		min, max := orderedRange(q.MinPrice, q.MaxPrice)
		r.Filters = append(r.Filters, Range("price", numOrNil(min), numOrNil(max)))
	}
	if q.InStock != nil {
		r.Filters = append(r.Filters, Term("in_stock", *q.InStock))
	}
	if q.Featured != nil {
		r.Filters = append(r.Filters, Term("featured", *q.Featured))
	}
	if len(q.Tags) > 0 {
		vals := make([]any, 0, len(q.Tags))
		for _, t := range q.Tags {
			vals = append(vals, t)
		}
		r.Filters = append(r.Filters, Terms("tags", vals))
	}
	if q.MinRating != nil {
		r.Filters = append(r.Filters, Range("avg_rating", *q.MinRating, nil))
	}
	r.normalize(domain.SortRelevance)
	return r
}

// Orders returns the search descriptor for the order index.
func Orders() Descriptor {
	return Descriptor{
		Entity: domain.EntityOrders,
		TextFields: []TextField{
			{Field: "order_number", Weight: 4},
			{Field: "customer_name", Weight: 3},
			{Field: "item_names", Weight: 2},
			{Field: "shipping_city", Weight: 1},
		},
		SuggestField:  "order_number",
		SuggestSource: "order_number",
		Sorts: map[string][]SortKey{
			domain.SortRelevance: {
				{Field: ScoreField, Desc: true},
				{Field: "created_at", Desc: true},
			},
			domain.SortNewest:    {{Field: "created_at", Desc: true}},
			domain.SortOldest:    {{Field: "created_at"}},
			domain.SortTotalAsc:  {{Field: "total_amount"}},
			domain.SortTotalDesc: {{Field: "total_amount", Desc: true}},
		},
		DefaultSort: domain.SortNewest,
		Facets: []Facet{
			{Name: "statuses", Field: "status", Kind: FacetTerms},
			{Name: "payment_methods", Field: "payment_method", Kind: FacetTerms},
			{Name: "payment_statuses", Field: "payment_status", Kind: FacetTerms},
			{Name: "amount_ranges", Field: "total_amount", Kind: FacetRanges, Buckets: []RangeBucket{
				{Label: "0-5000", To: floatPtr(5000)},
				{Label: "5000-20000", From: floatPtr(5000), To: floatPtr(20000)},
				{Label: "20000+", From: floatPtr(20000)},
			}},
		},
		WarmupFilters: [][]Filter{
			nil,
			{Term("status", domain.OrderStatusPending)},
			{Term("status", domain.OrderStatusShipped)},
		},
	}
}

// OrderRequest normalizes a typed order query into the generic request shape.
func OrderRequest(q *domain.OrderSearchQuery) Request {
	r := Request{
		Text:    CleanText(q.Query),
		SortBy:  q.SortBy,
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.CustomerID != nil {
		r.Filters = append(r.Filters, Term("customer_id", *q.CustomerID))
	}
	if q.Status != nil {
		r.Filters = append(r.Filters, Term("status", *q.Status))
	}
	if q.PaymentStatus != nil {
		r.Filters = append(r.Filters, Term("payment_status", *q.PaymentStatus))
	}
	if q.PaymentMethod != nil {
		r.Filters = append(r.Filters, Term("payment_method", *q.PaymentMethod))
	}
	if q.MinTotal != nil || q.MaxTotal != nil {
		min, max := orderedRange(q.MinTotal, q.MaxTotal)
		r.Filters = append(r.Filters, Range("total_amount", numOrNil(min), numOrNil(max)))
	}
	if q.From != nil || q.To != nil {
		from, to := orderedTimeRange(q.From, q.To)
		r.Filters = append(r.Filters, Range("created_at", timeOrNil(from), timeOrNil(to)))
	}
	r.normalize(domain.SortNewest)
	return r
}

// Customers returns the search descriptor for the customer index.
func Customers() Descriptor {
	return Descriptor{
		Entity: domain.EntityCustomers,
		TextFields: []TextField{
			{Field: "full_name", Weight: 3},
			{Field: "full_name.autocomplete", Weight: 2},
			{Field: "email", Weight: 3},
			{Field: "city", Weight: 1},
		},
		SuggestField:  "full_name.autocomplete",
		SuggestSource: "full_name",
		Sorts: map[string][]SortKey{
			domain.SortRelevance: {
				{Field: ScoreField, Desc: true},
				{Field: "lifetime_value", Desc: true},
			},
			domain.SortNewest:    {{Field: "registered_at", Desc: true}},
			domain.SortOldest:    {{Field: "registered_at"}},
			domain.SortSpentDesc: {{Field: "lifetime_value", Desc: true}},
			domain.SortName:      {{Field: "full_name.keyword"}},
		},
		DefaultSort: domain.SortNewest,
		Facets: []Facet{
			{Name: "countries", Field: "country", Kind: FacetTerms},
			{Name: "activity", Field: "is_active", Kind: FacetTerms},
			{Name: "value_ranges", Field: "lifetime_value", Kind: FacetRanges, Buckets: []RangeBucket{
				{Label: "0-10000", To: floatPtr(10000)},
				{Label: "10000-100000", From: floatPtr(10000), To: floatPtr(100000)},
				{Label: "100000+", From: floatPtr(100000)},
			}},
		},
		WarmupFilters: [][]Filter{
			nil,
			{Term("is_active", true)},
		},
	}
}

// CustomerRequest normalizes a typed customer query into the generic
// request shape.
func CustomerRequest(q *domain.CustomerSearchQuery) Request {
	r := Request{
		Text:    CleanText(q.Query),
		SortBy:  q.SortBy,
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.IsActive != nil {
		r.Filters = append(r.Filters, Term("is_active", *q.IsActive))
	}
	if q.Country != nil {
		r.Filters = append(r.Filters, Term("country", *q.Country))
	}
	if q.MinOrders != nil {
		r.Filters = append(r.Filters, Range("order_count", *q.MinOrders, nil))
	}
	if q.MinSpent != nil {
		r.Filters = append(r.Filters, Range("lifetime_value", *q.MinSpent, nil))
	}
	if q.RegisteredFrom != nil || q.RegisteredTo != nil {
		from, to := orderedTimeRange(q.RegisteredFrom, q.RegisteredTo)
		r.Filters = append(r.Filters, Range("registered_at", timeOrNil(from), timeOrNil(to)))
	}
	r.normalize(domain.SortNewest)
	return r
}

// numOrNil unwraps an optional numeric bound into the any-typed form the
// generic Filter carries.
func numOrNil[T int64 | float64](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeOrNil(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(time.RFC3339)
}

// orderedTimeRange swaps inverted date bounds, mirroring the numeric range
// leniency.
func orderedTimeRange(from, to *time.Time) (*time.Time, *time.Time) {
	if from != nil && to != nil && from.After(*to) {
		return to, from
	}
	return from, to
}
