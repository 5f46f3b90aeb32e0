package model

import (
	"net/url"
	"regexp"
	"strings"
)

type EntType string

const (
	EntTypeSupplement EntType = "supplement"
	EntTypeDrug       EntType = "drug"
	EntTypeOther      EntType = "other"
)

// Agent is a supplement or drug, identified by its CUI (Concept Unique
// Identifier), a stable id derived from a medical ontology.
type Agent struct {
	CUI           string   `json:"cui"`
	PreferredName string   `json:"preferred_name"`
	Synonyms      []string `json:"synonyms"`
	Tradenames    []string `json:"tradenames"`
	Definition    string   `json:"definition"`
	EntType       EntType  `json:"ent_type"`
	Slug          string   `json:"slug"`
}

// Names returns the preferred name followed by every synonym.
func (a Agent) Names() []string {
	names := make([]string, 0, len(a.Synonyms)+1)
	names = append(names, a.PreferredName)
	return append(names, a.Synonyms...)
}

type AgentWithInteractionCount struct {
	Agent
	InteractsWithCount int `json:"interacts_with_count"`
}

var slugSeparators = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug derives a URL safe slug from text. Runs of anything that isn't a
// letter or a number collapse into a single "-".
func Slug(text string) string {
	return url.QueryEscape(slugSeparators.ReplaceAllString(strings.ToLower(text), "-"))
}
