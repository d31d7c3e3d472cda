package query

import "fmt"

// TextField is a free-text match target with its relevance weight.
type TextField struct {
	Field  string
	Weight int
}

// SortKey is one field+direction pair in a sort chain.
type SortKey struct {
	Field string
	Desc  bool
}

// FacetKind distinguishes terms facets from pre-bucketed range facets.
type FacetKind int

const (
	FacetTerms FacetKind = iota
	FacetRanges
)

// RangeBucket is one labeled bucket of a range facet. Nil bounds are open.
type RangeBucket struct {
	Label string
	From  *float64
	To    *float64
}

// Facet declares one aggregation extracted alongside search results.
type Facet struct {
	Name    string
	Field   string
	Kind    FacetKind
	Size    int // terms facets: max buckets; 0 means 20
	Buckets []RangeBucket
}

// Descriptor declares, per entity, everything the generalized builder needs:
// which fields participate in weighted text matching, how named sort modes
// map to field+direction chains, and which facets to aggregate. Filter and
// sort logic is written once against this and configured per entity.
type Descriptor struct {
	Entity         string
	TextFields     []TextField
	SuggestField   string   // edge-n-gram sub-field used for autocomplete
	SuggestSource  string   // source field returned for suggestions
	SourceExcludes []string // heavy fields dropped from list-search payloads
	Sorts          map[string][]SortKey
	DefaultSort    string
	Facets         []Facet
	// WarmupFilters are representative filter sets issued by index warmup.
	WarmupFilters [][]Filter
}

// SortChain resolves a named sort mode to its key chain, falling back to
// the default mode for unknown names. The final "id" tie-break guarantees a
// total order and therefore stable pagination.
func (d Descriptor) SortChain(mode string) []SortKey {
	chain, ok := d.Sorts[mode]
	if !ok {
		chain = d.Sorts[d.DefaultSort]
	}
	out := make([]SortKey, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, SortKey{Field: "id"})
}

// weightedFields renders the text fields in the "name^3" form used by
// multi_match.
func (d Descriptor) weightedFields() []string {
	fields := make([]string, 0, len(d.TextFields))
	for _, tf := range d.TextFields {
		f := tf.Field
		if tf.Weight > 1 {
			f = fmt.Sprintf("%s^%d", tf.Field, tf.Weight)
		}
		fields = append(fields, f)
	}
	return fields
}
