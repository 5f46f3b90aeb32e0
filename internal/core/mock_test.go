package core

import (
	"context"

	"github.com/agenthands/supp/internal/search"
)

type searchCall struct {
	Query string
	Opts  search.Options
}

type MockProvider struct {
	Indexed []search.Document
	Calls   []searchCall
	Results *search.Results
	Err     error
}

func (m *MockProvider) EnsureIndexed(ctx context.Context, docs []search.Document) error {
	m.Indexed = docs
	return m.Err
}

func (m *MockProvider) Search(ctx context.Context, query string, opts search.Options) (*search.Results, error) {
	m.Calls = append(m.Calls, searchCall{Query: query, Opts: opts})
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Results == nil {
		return &search.Results{Page: opts.Page, PageSize: opts.PageSize}, nil
	}
	return m.Results, nil
}
