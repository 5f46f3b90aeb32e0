// Package graph derives, for every agent, the agents it interacts with.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agenthands/supp/internal/core/evidence"
	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/core/registry"
	"github.com/agenthands/supp/internal/logger"
)

type Params struct {
	Registry            *registry.Registry
	InteractionIDsByCUI map[string][]model.InteractionID
	Sentences           map[model.InteractionID][]model.SupportingSentence
	// InteractionIDs lists the keys of Sentences in snapshot order.
	InteractionIDs []model.InteractionID
	Grouper        *evidence.Grouper
	Logger         logger.Logger
}

type partner struct {
	id    model.InteractionID
	agent model.Agent
}

// Graph is immutable once built and safe for concurrent use.
type Graph struct {
	registry       *registry.Registry
	sentences      map[model.InteractionID][]model.SupportingSentence
	interactionIDs []model.InteractionID
	grouper        *evidence.Grouper
	partners       map[string][]partner
}

// New resolves the partners of every agent up front. Interaction ids that
// don't name exactly one other agent, or that name an agent the registry
// doesn't know, are logged and left out.
func New(p Params) *Graph {
	g := &Graph{
		registry:       p.Registry,
		sentences:      p.Sentences,
		interactionIDs: p.InteractionIDs,
		grouper:        p.Grouper,
		partners:       make(map[string][]partner, len(p.InteractionIDsByCUI)),
	}

	for cui, ids := range p.InteractionIDsByCUI {
		resolved := make([]partner, 0, len(ids))
		for _, id := range ids {
			others := id.Partners(cui)
			if len(others) != 1 {
				p.Logger.Warn("Malformed interaction id", "interaction_id", id.String(), "cui", cui)
				continue
			}
			agent, ok := p.Registry.Get(others[0])
			if !ok {
				p.Logger.Warn("Interaction id that references a missing CUI",
					"err", fmt.Errorf("%w: agent %s", model.ErrMissingReference, others[0]),
					"interaction_id", id.String())
				continue
			}
			resolved = append(resolved, partner{id: id, agent: agent})
		}
		g.partners[cui] = resolved
	}
	return g
}

// Interactions returns the agents that agent interacts with, those with
// evidence from the most papers first. Ties keep snapshot order.
func (g *Graph) Interactions(agent model.Agent) ([]model.InteractingAgent, error) {
	partners := g.partners[agent.CUI]
	out := make([]model.InteractingAgent, 0, len(partners))
	for _, p := range partners {
		ev, err := g.Evidence(p.id)
		if err != nil {
			return nil, fmt.Errorf("interaction %s: %w", p.id, err)
		}
		out = append(out, model.InteractingAgent{
			InteractionID: p.id.String(),
			Slug:          g.Slug(p.id),
			Agent:         p.agent,
			Evidence:      ev,
		})
	}
	slices.SortStableFunc(out, func(a, b model.InteractingAgent) int {
		return len(b.Evidence) - len(a.Evidence)
	})
	return out, nil
}

// PartnerCount is the number of agents the agent with cui interacts with.
func (g *Graph) PartnerCount(cui string) int {
	return len(g.partners[strings.ToUpper(cui)])
}

// Evidence returns the ranked evidence for id. Unknown ids have none.
func (g *Graph) Evidence(id model.InteractionID) ([]model.Evidence, error) {
	return g.grouper.Group(g.sentences[id])
}

// Has reports whether the snapshot holds sentences for id.
func (g *Graph) Has(id model.InteractionID) bool {
	_, ok := g.sentences[id]
	return ok
}

// Slug joins the slugs of both agents in id. An unknown agent contributes
// an empty slug.
func (g *Graph) Slug(id model.InteractionID) string {
	parts := make([]string, len(id.CUIs))
	for i, cui := range id.CUIs {
		if a, ok := g.registry.Get(cui); ok {
			parts[i] = a.Slug
		}
	}
	return strings.Join(parts, "-")
}

// AllInteractions lists every interaction with its slug, in snapshot order.
func (g *Graph) AllInteractions() []model.InteractionIDWithSlug {
	out := make([]model.InteractionIDWithSlug, len(g.interactionIDs))
	for i, id := range g.interactionIDs {
		out[i] = model.InteractionIDWithSlug{InteractionID: id.String(), Slug: g.Slug(id)}
	}
	return out
}

func (g *Graph) InteractionCount() int {
	return len(g.interactionIDs)
}
