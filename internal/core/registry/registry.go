// Package registry looks up agents by CUI and by name.
package registry

import (
	"strings"

	"github.com/agenthands/supp/internal/core/model"
)

// Registry is an immutable index of agents. It's safe for concurrent use.
type Registry struct {
	agents     []model.Agent
	byCUI      map[string]int
	cuisByName map[string][]string
}

// New indexes agents, which are expected to carry upper-cased, unique CUIs.
// The order of agents is kept for All.
func New(agents []model.Agent) *Registry {
	r := &Registry{
		agents:     agents,
		byCUI:      make(map[string]int, len(agents)),
		cuisByName: make(map[string][]string),
	}
	for i, a := range agents {
		r.byCUI[a.CUI] = i

		seen := make(map[string]struct{})
		for _, name := range a.Names() {
			normalized := normalizeName(name)
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			r.cuisByName[normalized] = append(r.cuisByName[normalized], a.CUI)
		}
	}
	return r
}

// Get returns the agent with the given CUI, ignoring case.
func (r *Registry) Get(cui string) (model.Agent, bool) {
	i, ok := r.byCUI[strings.ToUpper(cui)]
	if !ok {
		return model.Agent{}, false
	}
	return r.agents[i], true
}

// CUIsByName returns the CUIs of every agent whose preferred name or one of
// whose synonyms equals name, ignoring case and surrounding whitespace.
func (r *Registry) CUIsByName(name string) []string {
	return r.cuisByName[normalizeName(name)]
}

// All returns every agent in snapshot order. The slice must not be modified.
func (r *Registry) All() []model.Agent {
	return r.agents
}

func (r *Registry) Len() int {
	return len(r.agents)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
