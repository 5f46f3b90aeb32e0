package evidence

import (
	"testing"

	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func year(y int) *int { return &y }

func sentence(uid int, pid, text string) model.SupportingSentence {
	return model.SupportingSentence{
		UID:      uid,
		PaperID:  pid,
		Sentence: text,
		Arg1:     model.MentionArg{CUI: "C1", Span: []int{0, 1}},
		Arg2:     model.MentionArg{CUI: "C2", Span: []int{2, 3}},
	}
}

func titles(evidence []model.Evidence) []string {
	var out []string
	for _, e := range evidence {
		out = append(out, e.Paper.Title)
	}
	return out
}

func TestComparePapers_FieldOrder(t *testing.T) {
	papers := []model.Evidence{
		{Paper: model.Paper{Title: "retracted clinical", Retraction: true, ClinicalStudy: true, Year: year(2020)}},
		{Paper: model.Paper{Title: "no year"}},
		{Paper: model.Paper{Title: "animal", AnimalStudy: true, Year: year(1990)}},
		{Paper: model.Paper{Title: "human", HumanStudy: true, Year: year(1990)}},
		{Paper: model.Paper{Title: "clinical", ClinicalStudy: true, Year: year(1980)}},
		{Paper: model.Paper{Title: "plain 2001", Year: year(2001)}},
		{Paper: model.Paper{Title: "plain 2019", Year: year(2019)}},
	}

	Rank(papers)
	assert.Equal(t, []string{
		"clinical",
		"human",
		"animal",
		"plain 2019",
		"plain 2001",
		"no year",
		"retracted clinical",
	}, titles(papers))
}

func TestComparePapers_YearThenTitle(t *testing.T) {
	older := model.Paper{Title: "A", Year: year(2000)}
	newer := model.Paper{Title: "B", Year: year(2010)}
	assert.Greater(t, ComparePapers(older, newer), 0)
	assert.Less(t, ComparePapers(newer, older), 0)

	lower := model.Paper{Title: "beta", Year: year(2010)}
	upper := model.Paper{Title: "Alpha", Year: year(2010)}
	assert.Greater(t, ComparePapers(lower, upper), 0)
	assert.Equal(t, 0, ComparePapers(upper, model.Paper{Title: "ALPHA", Year: year(2010)}))
}

func TestGroup(t *testing.T) {
	papers := map[string]model.Paper{
		"p1": {PID: "p1", Title: "Old", Year: year(1999)},
		"p2": {PID: "p2", Title: "New", Year: year(2015)},
	}
	rec := &logger.Recorder{}
	g := NewGrouper(papers, rec)

	evidence, err := g.Group([]model.SupportingSentence{
		sentence(1, "p1", "a b zeta"),
		sentence(2, "p2", "a b second"),
		sentence(3, "p1", "a b alpha"),
		sentence(4, "missing", "a b gone"),
		sentence(5, "p1", "a b Zeta"),
	})
	require.NoError(t, err)
	require.Len(t, evidence, 2)

	assert.Equal(t, "New", evidence[0].Paper.Title)
	assert.Equal(t, "Old", evidence[1].Paper.Title)

	var uids []int
	for _, s := range evidence[1].Sentences {
		uids = append(uids, s.UID)
	}
	// Sorted on text, case-sensitive: "a b Zeta" < "a b alpha" < "a b zeta".
	assert.Equal(t, []int{5, 3, 1}, uids)

	warns := rec.Entries("warn")
	require.Len(t, warns, 1)
	assert.ErrorIs(t, warns[0].KeyVals[1].(error), model.ErrMissingReference)
}

func TestGroup_InvalidSentence(t *testing.T) {
	g := NewGrouper(map[string]model.Paper{"p1": {PID: "p1"}}, logger.Nop())

	bad := sentence(1, "p1", "a b c")
	bad.Arg2 = model.MentionArg{}
	_, err := g.Group([]model.SupportingSentence{bad})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestGroup_Empty(t *testing.T) {
	g := NewGrouper(nil, logger.Nop())
	evidence, err := g.Group(nil)
	require.NoError(t, err)
	assert.Empty(t, evidence)
}

func TestCompareFlags(t *testing.T) {
	assert.Equal(t, 0, compareFlags(true, true))
	assert.Equal(t, 0, compareFlags(false, false))
	assert.Equal(t, -1, compareFlags(false, true))
	assert.Equal(t, 1, compareFlags(true, false))
}
