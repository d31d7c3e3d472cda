// Package memory is an in-memory implementation of the search engine. It
// evaluates the same normalized requests as the Elasticsearch engine
// against the JSON form of the documents, so filter, facet, sort, and
// pagination semantics can be tested without a cluster. It also backs
// development runs when no Elasticsearch is configured.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/query"
)

// Engine is an in-memory engine for one entity. Thread-safe.
type Engine[D domain.Document] struct {
	mu   sync.RWMutex
	desc query.Descriptor
	docs map[string]D
}

// New creates an empty in-memory engine driven by the given descriptor.
func New[D domain.Document](desc query.Descriptor) *Engine[D] {
	return &Engine[D]{
		desc: desc,
		docs: make(map[string]D),
	}
}

// Upsert inserts or fully replaces a document.
func (e *Engine[D]) Upsert(_ context.Context, doc D) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs[doc.DocID()] = doc
	return nil
}

// BulkUpsert inserts or replaces multiple documents.
func (e *Engine[D]) BulkUpsert(_ context.Context, docs []D) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range docs {
		e.docs[docs[i].DocID()] = docs[i]
	}
	return nil
}

// Delete removes a document by ID. Absent documents are ignored.
func (e *Engine[D]) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.docs, id)
	return nil
}

// Get fetches a document by ID, returning (nil, nil) when absent.
func (e *Engine[D]) Get(_ context.Context, id string) (*D, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	doc, ok := e.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// scored pairs a document with its relevance score and JSON field view.
type scored[D domain.Document] struct {
	doc    D
	fields map[string]any
	score  float64
}

// Search evaluates the request over all documents: filter, facet over the
// full filtered set, sort, then paginate.
func (e *Engine[D]) Search(_ context.Context, req query.Request) (*domain.Result[D], error) {
	start := time.Now()

	e.mu.RLock()
	all := make([]D, 0, len(e.docs))
	for _, d := range e.docs {
		all = append(all, d)
	}
	e.mu.RUnlock()

	matched := make([]scored[D], 0, len(all))
	for _, d := range all {
		fields, err := docFields(d)
		if err != nil {
			return nil, err
		}
		if !matchFilters(fields, req.Filters) {
			continue
		}
		score, ok := textScore(e.desc, fields, req.Text)
		if !ok {
			continue
		}
		matched = append(matched, scored[D]{doc: d, fields: fields, score: score})
	}

	facets := e.computeFacets(matched)
	e.sortDocs(matched, req.SortBy)

	total := len(matched)
	offset := (req.Page - 1) * req.PerPage
	if offset > total {
		offset = total
	}
	end := offset + req.PerPage
	if end > total {
		end = total
	}

	items := make([]D, 0, end-offset)
	for _, s := range matched[offset:end] {
		items = append(items, s.doc)
	}

	return domain.NewResult(items, total, req.Page, req.PerPage, facets, time.Since(start).Milliseconds()), nil
}

// Similar ranks other documents by token overlap with the anchor across the
// descriptor's text fields. An absent anchor yields an empty slice.
func (e *Engine[D]) Similar(_ context.Context, id string, limit int) ([]D, error) {
	if limit <= 0 {
		limit = 10
	}

	e.mu.RLock()
	anchor, ok := e.docs[id]
	all := make([]D, 0, len(e.docs))
	for _, d := range e.docs {
		all = append(all, d)
	}
	e.mu.RUnlock()

	if !ok {
		return []D{}, nil
	}

	anchorFields, err := docFields(anchor)
	if err != nil {
		return nil, err
	}
	anchorTokens := textTokens(e.desc, anchorFields)

	type ranked struct {
		doc     D
		overlap int
	}
	var candidates []ranked
	for _, d := range all {
		if d.DocID() == id {
			continue
		}
		fields, err := docFields(d)
		if err != nil {
			return nil, err
		}
		overlap := 0
		for tok := range textTokens(e.desc, fields) {
			if _, shared := anchorTokens[tok]; shared {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, ranked{doc: d, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].doc.DocID() < candidates[j].doc.DocID()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]D, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.doc)
	}
	return out, nil
}

// Suggest returns values of the suggest source field whose words start with
// the prefix, deduplicated.
func (e *Engine[D]) Suggest(_ context.Context, prefix string, limit int) ([]string, error) {
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	prefix = strings.ToLower(prefix)

	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	var suggestions []string
	for _, d := range e.docs {
		fields, err := docFields(d)
		if err != nil {
			return nil, err
		}
		v, _ := lookupField(fields, e.desc.SuggestSource).(string)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		if !hasWordWithPrefix(v, prefix) {
			continue
		}
		seen[v] = struct{}{}
		suggestions = append(suggestions, v)
	}

	sort.Strings(suggestions)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

func hasWordWithPrefix(s, prefix string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

// docFields returns the JSON field view of a document, matching the field
// names the query layer addresses.
func docFields(doc any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("memory engine: marshal document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("memory engine: unmarshal document: %w", err)
	}
	return fields, nil
}

// lookupField resolves a possibly dotted field reference ("name.keyword",
// "name.autocomplete") to its base document field.
func lookupField(fields map[string]any, ref string) any {
	base := ref
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		base = ref[:i]
	}
	return fields[base]
}
