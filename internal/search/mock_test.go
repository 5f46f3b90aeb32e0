package search

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	Query  string
	Params map[string]any
}

type MockDriver struct {
	Executed     []executedQuery
	ResultQueue  []neo4j.EagerResult
	IndicesBuilt int
	Err          error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if len(m.ResultQueue) > 0 {
		res := m.ResultQueue[0]
		m.ResultQueue = m.ResultQueue[1:]
		return res, nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt++
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func countResult(n int64) neo4j.EagerResult {
	return neo4j.EagerResult{
		Records: []*neo4j.Record{{Keys: []string{"total"}, Values: []any{n}}},
	}
}
