package search

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/driver"
	"github.com/agenthands/supp/internal/logger"
)

const defaultBatchSize = 500

// MemgraphProvider keeps agents as :Agent nodes in Memgraph. Every snapshot
// gets its own index, named after the snapshot version, so data from a
// previous version is never served.
type MemgraphProvider struct {
	Driver    driver.GraphDriver
	Index     string
	BatchSize int
	log       logger.Logger
}

func NewMemgraphProvider(d driver.GraphDriver, index string, log logger.Logger) *MemgraphProvider {
	return &MemgraphProvider{
		Driver:    d,
		Index:     index,
		BatchSize: defaultBatchSize,
		log:       log,
	}
}

func (p *MemgraphProvider) EnsureIndexed(ctx context.Context, docs []Document) error {
	if err := p.Driver.BuildIndices(ctx); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	res, err := p.Driver.ExecuteQuery(ctx, driver.CountAgentsQuery, map[string]any{"index": p.Index})
	if err != nil {
		return fmt.Errorf("failed to count indexed agents: %w", err)
	}
	if n := firstInt(res, "total"); n > 0 {
		p.log.Debug("Search index already populated", "index", p.Index, "agents", n)
		return nil
	}

	for batch := range slices.Chunk(docs, max(p.BatchSize, 1)) {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			rows[i] = map[string]any{
				"cui":                  d.CUI,
				"preferred_name":       d.PreferredName,
				"synonyms":             nonNil(d.Synonyms),
				"tradenames":           nonNil(d.Tradenames),
				"definition":           d.Definition,
				"ent_type":             d.EntType,
				"slug":                 d.Slug,
				"interacts_with_count": d.InteractsWithCount,
			}
		}
		params := map[string]any{"index": p.Index, "agents": rows}
		if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveAgentsQuery, params); err != nil {
			return fmt.Errorf("failed to save agents: %w", err)
		}
	}

	p.log.Info("Populated search index", "index", p.Index, "agents", len(docs))
	return nil
}

func (p *MemgraphProvider) Search(ctx context.Context, query string, opts Options) (*Results, error) {
	if opts.Page < 0 || opts.PageSize <= 0 || opts.Page > math.MaxInt32/opts.PageSize {
		return nil, fmt.Errorf("%w: page %d, page size %d", model.ErrValidation, opts.Page, opts.PageSize)
	}
	where, err := whereClause(opts.Fields)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"index": p.Index,
		"query": strings.ToLower(strings.TrimSpace(query)),
		"skip":  opts.Page * opts.PageSize,
		"limit": opts.PageSize,
	}

	countRes, err := p.Driver.ExecuteQuery(ctx, fmt.Sprintf(driver.CountMatchingAgentsQuery, where), params)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	total := firstInt(countRes, "total")

	res, err := p.Driver.ExecuteQuery(ctx, fmt.Sprintf(driver.SearchAgentsQuery, where), params)
	if err != nil {
		return nil, fmt.Errorf("failed to search agents: %w", err)
	}

	hits := make([]Hit, 0, len(res.Records))
	for _, rec := range res.Records {
		hits = append(hits, Hit{
			CUI:                getString(rec, "cui"),
			PreferredName:      getString(rec, "preferred_name"),
			Synonyms:           getStrings(rec, "synonyms"),
			Tradenames:         getStrings(rec, "tradenames"),
			InteractsWithCount: getInt(rec, "interacts_with_count"),
		})
	}

	return &Results{
		Hits:       hits,
		TotalHits:  total,
		TotalPages: (total + opts.PageSize - 1) / opts.PageSize,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	}, nil
}

func whereClause(fields []string) (string, error) {
	if len(fields) == 0 {
		fields = AllFields
	}
	conds := make([]string, 0, len(fields))
	for _, f := range fields {
		cond, ok := driver.FieldConditions[f]
		if !ok {
			return "", fmt.Errorf("%w: unknown search field %q", model.ErrValidation, f)
		}
		conds = append(conds, cond)
	}
	return strings.Join(conds, " OR "), nil
}

func firstInt(res neo4j.EagerResult, key string) int {
	if len(res.Records) == 0 {
		return 0
	}
	return getInt(res.Records[0], key)
}

func getString(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func getStrings(rec *neo4j.Record, key string) []string {
	v, _ := rec.Get(key)
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func getInt(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
