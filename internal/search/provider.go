// Package search finds agents by name through an external search provider
// and reorders what it returns.
package search

import "context"

// Searchable fields, in the order queries test them.
const (
	FieldPreferredName = "preferred_name"
	FieldDefinition    = "definition"
	FieldSynonyms      = "synonyms"
	FieldTradenames    = "tradenames"
)

var AllFields = []string{FieldPreferredName, FieldDefinition, FieldSynonyms, FieldTradenames}

// Document is an agent as it's stored in the search index.
type Document struct {
	CUI                string
	PreferredName      string
	Synonyms           []string
	Tradenames         []string
	Definition         string
	EntType            string
	Slug               string
	InteractsWithCount int
}

// Hit is a single search result.
type Hit struct {
	CUI                string
	PreferredName      string
	Synonyms           []string
	Tradenames         []string
	InteractsWithCount int
}

type Options struct {
	// Fields restricts the search to these fields. Empty means all of them.
	Fields   []string
	Page     int
	PageSize int
}

type Results struct {
	Hits       []Hit
	TotalHits  int
	TotalPages int
	Page       int
	PageSize   int
}

// Provider is a full-text search service over agents.
type Provider interface {
	// EnsureIndexed stores docs unless the index already holds data.
	EnsureIndexed(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, opts Options) (*Results, error)
}
