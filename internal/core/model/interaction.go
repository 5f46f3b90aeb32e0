package model

import (
	"fmt"
	"strings"
)

const interactionIDSeparator = "-"

// InteractionID identifies a pair of interacting agents. Its string form is
// the two CUIs joined by "-", in the order the snapshot encodes them.
type InteractionID struct {
	CUIs [2]string
}

// ParseInteractionID upper-cases s and splits it into its two CUIs.
func ParseInteractionID(s string) (InteractionID, error) {
	parts := strings.Split(strings.ToUpper(s), interactionIDSeparator)
	if len(parts) != 2 {
		return InteractionID{}, fmt.Errorf("%w: %q", ErrMalformedInteractionID, s)
	}
	return InteractionID{CUIs: [2]string{parts[0], parts[1]}}, nil
}

func (id InteractionID) String() string {
	return id.CUIs[0] + interactionIDSeparator + id.CUIs[1]
}

// Partners returns the CUIs of id other than cui.
func (id InteractionID) Partners(cui string) []string {
	var out []string
	for _, c := range id.CUIs {
		if c != cui {
			out = append(out, c)
		}
	}
	return out
}

type InteractionIDWithSlug struct {
	InteractionID string `json:"interaction_id"`
	Slug          string `json:"slug"`
}

// InteractingAgent is an agent the subject agent interacts with, plus the
// evidence supporting the interaction.
type InteractingAgent struct {
	InteractionID string     `json:"interaction_id"`
	Slug          string     `json:"slug"`
	Agent         Agent      `json:"agent"`
	Evidence      []Evidence `json:"evidence"`
}

type InteractionsPage struct {
	Page                int                `json:"page"`
	InteractionsPerPage int                `json:"interactions_per_page"`
	Total               int                `json:"total"`
	Interactions        []InteractingAgent `json:"interactions"`
}

type InteractionDefinition struct {
	InteractionID string                       `json:"interaction_id"`
	Slug          string                       `json:"slug"`
	Agents        [2]AgentWithInteractionCount `json:"agents"`
	Evidence      []Evidence                   `json:"evidence"`
}
