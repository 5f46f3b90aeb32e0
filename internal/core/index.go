package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/supp/internal/core/evidence"
	"github.com/agenthands/supp/internal/core/graph"
	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/core/registry"
	"github.com/agenthands/supp/internal/logger"
	"github.com/agenthands/supp/internal/search"
	"github.com/agenthands/supp/internal/snapshot"
)

var suggestFields = []string{search.FieldPreferredName, search.FieldSynonyms, search.FieldTradenames}

type Options struct {
	InteractionsPerPage int
	SearchPageSize      int
	SuggestPageSize     int
}

func DefaultOptions() Options {
	return Options{
		InteractionsPerPage: 50,
		SearchPageSize:      10,
		SuggestPageSize:     5,
	}
}

// Index answers every read the API serves. It's built once at startup and
// never modified, so it's safe for concurrent use.
type Index struct {
	Version  string
	Registry *registry.Registry
	Graph    *graph.Graph

	provider search.Provider
	opts     Options
	log      logger.Logger
}

// NewIndex builds an Index from snap. provider may be nil, in which case
// Search and Suggest return model.ErrSearchUnavailable.
func NewIndex(snap *snapshot.Snapshot, provider search.Provider, log logger.Logger, opts Options) *Index {
	reg := registry.New(snap.Agents)
	return &Index{
		Version:  snap.Version,
		Registry: reg,
		Graph: graph.New(graph.Params{
			Registry:            reg,
			InteractionIDsByCUI: snap.InteractionIDsByCUI,
			Sentences:           snap.Sentences,
			InteractionIDs:      snap.InteractionIDs,
			Grouper:             evidence.NewGrouper(snap.Papers, log),
			Logger:              log,
		}),
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

func (idx *Index) Meta() model.IndexMeta {
	return model.IndexMeta{
		Version:          idx.Version,
		InteractionCount: idx.Graph.InteractionCount(),
		AgentCount:       idx.Registry.Len(),
	}
}

func (idx *Index) Agent(cui string) (model.Agent, error) {
	agent, ok := idx.Registry.Get(cui)
	if !ok {
		return model.Agent{}, fmt.Errorf("%w: agent %s", model.ErrNotFound, cui)
	}
	return agent, nil
}

func (idx *Index) AgentWithInteractionCount(cui string) (model.AgentWithInteractionCount, error) {
	agent, err := idx.Agent(cui)
	if err != nil {
		return model.AgentWithInteractionCount{}, err
	}
	return model.AgentWithInteractionCount{
		Agent:              agent,
		InteractsWithCount: idx.Graph.PartnerCount(agent.CUI),
	}, nil
}

// Interactions returns a page of the agents cui interacts with. When filter
// is set only partners whose preferred name or a synonym contains it are
// included.
func (idx *Index) Interactions(cui string, page int, filter string) (model.InteractionsPage, error) {
	if page < 0 {
		return model.InteractionsPage{}, fmt.Errorf("%w: page %d", model.ErrValidation, page)
	}
	agent, err := idx.Agent(cui)
	if err != nil {
		return model.InteractionsPage{}, err
	}
	all, err := idx.Graph.Interactions(agent)
	if err != nil {
		return model.InteractionsPage{}, err
	}

	if f := strings.ToLower(strings.TrimSpace(filter)); f != "" {
		kept := all[:0]
		for _, ia := range all {
			if nameContains(ia.Agent, f) {
				kept = append(kept, ia)
			}
		}
		all = kept
	}

	per := idx.opts.InteractionsPerPage
	start := len(all)
	if per > 0 && page <= len(all)/per {
		start = page * per
	}
	end := min(start+max(per, 0), len(all))
	return model.InteractionsPage{
		Page:                page,
		InteractionsPerPage: per,
		Total:               len(all),
		Interactions:        all[start:end],
	}, nil
}

// Interaction resolves an interaction id to both agents and its evidence.
func (idx *Index) Interaction(rawID string) (model.InteractionDefinition, error) {
	id, err := model.ParseInteractionID(rawID)
	if err != nil {
		return model.InteractionDefinition{}, err
	}
	if !idx.Graph.Has(id) {
		return model.InteractionDefinition{}, fmt.Errorf("%w: interaction %s", model.ErrNotFound, id)
	}

	var agents [2]model.AgentWithInteractionCount
	for i, cui := range id.CUIs {
		agents[i], err = idx.AgentWithInteractionCount(cui)
		if err != nil {
			return model.InteractionDefinition{}, err
		}
	}

	ev, err := idx.Graph.Evidence(id)
	if err != nil {
		return model.InteractionDefinition{}, err
	}
	return model.InteractionDefinition{
		InteractionID: id.String(),
		Slug:          idx.Graph.Slug(id),
		Agents:        agents,
		Evidence:      ev,
	}, nil
}

// Search finds agents matching q in any searchable field.
func (idx *Index) Search(ctx context.Context, q string, page int) (model.SearchResults, error) {
	if idx.provider == nil {
		return model.SearchResults{}, model.ErrSearchUnavailable
	}
	res, err := idx.provider.Search(ctx, q, search.Options{Page: page, PageSize: idx.opts.SearchPageSize})
	if err != nil {
		return model.SearchResults{}, err
	}
	return model.SearchResults{
		Results:      idx.resolveHits(q, res.Hits),
		Query:        model.Query{Q: q, P: res.Page},
		TotalResults: res.TotalHits,
		TotalPages:   res.TotalPages,
		NumPerPage:   res.PageSize,
	}, nil
}

// Suggest finds agents whose names match q, for autocompletion.
func (idx *Index) Suggest(ctx context.Context, q string) (model.SuggestResults, error) {
	if idx.provider == nil {
		return model.SuggestResults{}, model.ErrSearchUnavailable
	}
	res, err := idx.provider.Search(ctx, q, search.Options{
		Fields:   suggestFields,
		PageSize: idx.opts.SuggestPageSize,
	})
	if err != nil {
		return model.SuggestResults{}, err
	}
	results := idx.resolveHits(q, res.Hits)
	return model.SuggestResults{
		Results: results,
		Query:   model.Query{Q: q},
		Total:   len(results),
	}, nil
}

// EnsureSearchIndex hands every agent to the search provider. It's called
// once at startup.
func (idx *Index) EnsureSearchIndex(ctx context.Context) error {
	if idx.provider == nil {
		return nil
	}
	agents := idx.Registry.All()
	docs := make([]search.Document, len(agents))
	for i, a := range agents {
		docs[i] = search.Document{
			CUI:                a.CUI,
			PreferredName:      a.PreferredName,
			Synonyms:           a.Synonyms,
			Tradenames:         a.Tradenames,
			Definition:         a.Definition,
			EntType:            string(a.EntType),
			Slug:               a.Slug,
			InteractsWithCount: idx.Graph.PartnerCount(a.CUI),
		}
	}
	return idx.provider.EnsureIndexed(ctx, docs)
}

func (idx *Index) AllAgents() []model.Agent {
	return idx.Registry.All()
}

func (idx *Index) AllInteractions() []model.InteractionIDWithSlug {
	return idx.Graph.AllInteractions()
}

func (idx *Index) resolveHits(q string, hits []search.Hit) []model.AgentWithInteractionCount {
	out := make([]model.AgentWithInteractionCount, 0, len(hits))
	for _, h := range search.Rerank(q, hits) {
		agent, err := idx.AgentWithInteractionCount(h.CUI)
		if err != nil {
			idx.log.Warn("Search result without a known CUI", "cui", h.CUI, "name", h.PreferredName)
			continue
		}
		out = append(out, agent)
	}
	return out
}

func nameContains(agent model.Agent, lowered string) bool {
	for _, n := range agent.Names() {
		if strings.Contains(strings.ToLower(n), lowered) {
			return true
		}
	}
	return false
}
