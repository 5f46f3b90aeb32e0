// Package evidence groups the sentences supporting an interaction by the
// paper they come from and orders the papers by how strong the evidence is.
package evidence

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/core/spans"
	"github.com/agenthands/supp/internal/logger"
)

type Grouper struct {
	papers map[string]model.Paper
	log    logger.Logger
}

func NewGrouper(papers map[string]model.Paper, log logger.Logger) *Grouper {
	return &Grouper{papers: papers, log: log}
}

// Group formats sentences and returns one Evidence per paper, ranked.
// Sentences from papers without metadata are dropped with a warning.
func (g *Grouper) Group(sentences []model.SupportingSentence) ([]model.Evidence, error) {
	var (
		order   []string
		byPaper = make(map[string][]model.SupportingSentence)
	)
	for _, s := range sentences {
		if _, ok := byPaper[s.PaperID]; !ok {
			order = append(order, s.PaperID)
		}
		byPaper[s.PaperID] = append(byPaper[s.PaperID], s)
	}

	evidence := make([]model.Evidence, 0, len(order))
	for _, pid := range order {
		paper, ok := g.papers[pid]
		if !ok {
			g.log.Warn("Paper id without metadata", "err", fmt.Errorf("%w: paper %s", model.ErrMissingReference, pid))
			continue
		}

		formatted := make([]model.FormattedSentence, 0, len(byPaper[pid]))
		for _, s := range byPaper[pid] {
			f, err := spans.FormatSentence(s)
			if err != nil {
				return nil, fmt.Errorf("sentence %d of paper %s: %w", s.UID, pid, err)
			}
			formatted = append(formatted, f)
		}
		slices.SortStableFunc(formatted, func(a, b model.FormattedSentence) int {
			return strings.Compare(strings.TrimSpace(a.Text()), strings.TrimSpace(b.Text()))
		})

		evidence = append(evidence, model.Evidence{Paper: paper, Sentences: formatted})
	}

	Rank(evidence)
	return evidence, nil
}

// Rank orders evidence by paper, strongest first. Ties keep their order.
func Rank(evidence []model.Evidence) {
	slices.SortStableFunc(evidence, func(a, b model.Evidence) int {
		return ComparePapers(a.Paper, b.Paper)
	})
}

// ComparePapers orders papers that aren't retracted first, then clinical
// studies, human studies and animal studies, then the most recent, and
// finally by title ignoring case.
func ComparePapers(a, b model.Paper) int {
	if c := compareFlags(a.Retraction, b.Retraction); c != 0 {
		return c
	}
	if c := compareFlags(!a.ClinicalStudy, !b.ClinicalStudy); c != 0 {
		return c
	}
	if c := compareFlags(!a.HumanStudy, !b.HumanStudy); c != 0 {
		return c
	}
	if c := compareFlags(!a.AnimalStudy, !b.AnimalStudy); c != 0 {
		return c
	}
	if c := compareYears(a.Year, b.Year); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

// compareFlags puts unset flags first.
func compareFlags(a, b model.Flag) int {
	switch {
	case a == b:
		return 0
	case !bool(a):
		return -1
	default:
		return 1
	}
}

// compareYears puts recent years first and papers without a year last.
func compareYears(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return *b - *a
}
