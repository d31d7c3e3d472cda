// Package schema is the declarative registry of index mappings for the
// searchable read models. It has no runtime state: given an entity it
// returns a complete schema description sufficient to create the index.
package schema

import (
	"fmt"

	"github.com/Yemresalcan/E-commerceAPI-sub000/internal/domain"
)

// Schema describes one index: its entity name and the full JSON body
// (settings + mappings) used at creation time.
type Schema struct {
	Entity  string
	Mapping string
}

// For returns the schema for the given entity.
func For(entity string) (Schema, bool) {
	switch entity {
	case domain.EntityProducts:
		return Schema{Entity: entity, Mapping: productMapping}, true
	case domain.EntityOrders:
		return Schema{Entity: entity, Mapping: orderMapping}, true
	case domain.EntityCustomers:
		return Schema{Entity: entity, Mapping: customerMapping}, true
	default:
		return Schema{}, false
	}
}

// All returns the schemas for every searchable entity.
func All() []Schema {
	schemas := make([]Schema, 0, len(domain.Entities()))
	for _, e := range domain.Entities() {
		s, _ := For(e)
		schemas = append(schemas, s)
	}
	return schemas
}

// IndexName returns the physical index name for an entity under the given
// deployment prefix, e.g. "ecommerce_products".
func IndexName(prefix, entity string) string {
	return fmt.Sprintf("%s_%s", prefix, entity)
}

// analysisSettings is shared by all three indices: an English stemming
// analyzer for relevance-ranked text and an edge-n-gram analyzer (2-20
// chars, bounded to avoid index bloat) for autocomplete sub-fields. The
// search analyzer for autocomplete fields is plain lowercase so the typed
// prefix is not n-grammed again at query time.
const analysisSettings = `{
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "english_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "english_stop", "english_stemmer"]
        },
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      },
      "filter": {
        "english_stop": {
          "type": "stop",
          "stopwords": "_english_"
        },
        "english_stemmer": {
          "type": "stemmer",
          "language": "english"
        }
      }
    }
  }`

// Every text field used for both search and exact filtering carries a
// keyword sub-field; fields used for autocomplete carry the edge-n-gram
// sub-field. Display-only fields are not indexed.
var productMapping = `{
  "settings": ` + analysisSettings + `,
  "mappings": {
    "properties": {
      "id":            { "type": "keyword" },
      "name":          { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "slug":          { "type": "keyword" },
      "sku":           { "type": "text", "analyzer": "autocomplete_search", "fields": { "keyword": { "type": "keyword" } } },
      "description":   { "type": "text", "analyzer": "english_analyzer" },
      "category_id":   { "type": "keyword" },
      "category_name": { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "brand_id":      { "type": "keyword" },
      "brand_name":    { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "price":         { "type": "long" },
      "currency":      { "type": "keyword" },
      "status":        { "type": "keyword" },
      "image_url":     { "type": "keyword", "index": false },
      "tags":          { "type": "keyword" },
      "attributes":    { "type": "object", "enabled": false },
      "stock_quantity":{ "type": "integer" },
      "in_stock":      { "type": "boolean" },
      "low_stock":     { "type": "boolean" },
      "featured":      { "type": "boolean" },
      "avg_rating":    { "type": "double" },
      "review_count":  { "type": "integer" },
      "created_at":    { "type": "date" },
      "updated_at":    { "type": "date" }
    }
  }
}`

var orderMapping = `{
  "settings": ` + analysisSettings + `,
  "mappings": {
    "properties": {
      "id":             { "type": "keyword" },
      "order_number":   { "type": "text", "analyzer": "autocomplete_search", "fields": { "keyword": { "type": "keyword" } } },
      "customer_id":    { "type": "keyword" },
      "customer_name":  { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "status":         { "type": "keyword" },
      "payment_method": { "type": "keyword" },
      "payment_status": { "type": "keyword" },
      "total_amount":   { "type": "long" },
      "currency":       { "type": "keyword" },
      "item_count":     { "type": "integer" },
      "item_names":     { "type": "text", "analyzer": "english_analyzer" },
      "shipping_city":  { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "created_at":     { "type": "date" },
      "updated_at":     { "type": "date" }
    }
  }
}`

var customerMapping = `{
  "settings": ` + analysisSettings + `,
  "mappings": {
    "properties": {
      "id":             { "type": "keyword" },
      "email":          { "type": "text", "analyzer": "autocomplete_search", "fields": { "keyword": { "type": "keyword" } } },
      "first_name":     { "type": "text", "analyzer": "english_analyzer" },
      "last_name":      { "type": "text", "analyzer": "english_analyzer" },
      "full_name":      { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "phone":          { "type": "keyword", "index": false },
      "city":           { "type": "text", "analyzer": "english_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "country":        { "type": "keyword" },
      "is_active":      { "type": "boolean" },
      "order_count":    { "type": "integer" },
      "lifetime_value": { "type": "long" },
      "registered_at":  { "type": "date" },
      "updated_at":     { "type": "date" }
    }
  }
}`
