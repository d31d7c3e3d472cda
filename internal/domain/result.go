package domain

// FacetBuckets maps a bucket label to the number of documents in the bucket.
type FacetBuckets map[string]int64

// Facets maps a facet name (e.g. "categories", "price_ranges") to its
// buckets. Counts always reflect the full filtered set, not the current page.
type Facets map[string]FacetBuckets

// Result is a single page of search hits plus facet buckets and pagination
// metadata. Total reflects the full filtered set.
type Result[D Document] struct {
	Items      []D    `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
	Facets     Facets `json:"facets,omitempty"`
	TookMs     int64  `json:"took_ms"`
}

// NewResult assembles a Result, computing TotalPages from total and perPage.
func NewResult[D Document](items []D, total, page, perPage int, facets Facets, tookMs int64) *Result[D] {
	if items == nil {
		items = []D{}
	}
	totalPages := 0
	if perPage > 0 {
		totalPages = total / perPage
		if total%perPage > 0 {
			totalPages++
		}
	}
	return &Result[D]{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Facets:     facets,
		TookMs:     tookMs,
	}
}
