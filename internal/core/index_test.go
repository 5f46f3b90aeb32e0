package core

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/logger"
	"github.com/agenthands/supp/internal/search"
	"github.com/agenthands/supp/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, provider search.Provider, opts Options) (*Index, *logger.Recorder) {
	t.Helper()
	rec := &logger.Recorder{}
	snap, err := snapshot.Load(context.Background(), "../snapshot/testdata", "20191011.tar.gz", rec)
	require.NoError(t, err)
	return NewIndex(snap, provider, rec, opts), rec
}

func partnerCUIs(page model.InteractionsPage) []string {
	out := make([]string, len(page.Interactions))
	for i, ia := range page.Interactions {
		out[i] = ia.Agent.CUI
	}
	return out
}

func TestIndex_Meta(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())
	assert.Equal(t, model.IndexMeta{Version: "20191011", InteractionCount: 4, AgentCount: 5}, idx.Meta())
}

func TestIndex_Agent(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	a, err := idx.Agent("c0001")
	require.NoError(t, err)
	assert.Equal(t, "Fish Oil", a.PreferredName)
	assert.Equal(t, []string{"Lovaza"}, a.Tradenames)

	_, err = idx.Agent("C9999")
	assert.ErrorIs(t, err, model.ErrNotFound)

	withCount, err := idx.AgentWithInteractionCount("C0001")
	require.NoError(t, err)
	assert.Equal(t, 2, withCount.InteractsWithCount)

	withCount, err = idx.AgentWithInteractionCount("C0004")
	require.NoError(t, err)
	assert.Equal(t, 0, withCount.InteractsWithCount)
}

func TestIndex_Interactions(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	page, err := idx.Interactions("C0001", 0, "")
	require.NoError(t, err)
	assert.Equal(t, 50, page.InteractionsPerPage)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"C0002", "C0003"}, partnerCUIs(page))
	assert.Equal(t, "C0001-C0002", page.Interactions[0].InteractionID)
	assert.Equal(t, "fish-oil-warfarin", page.Interactions[0].Slug)

	page, err = idx.Interactions("C0002", 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"C0001", "C0005"}, partnerCUIs(page))
	// The sentence citing a paper without metadata is dropped.
	require.Len(t, page.Interactions[1].Evidence, 1)
	assert.Equal(t, "p2", page.Interactions[1].Evidence[0].Paper.PID)

	page, err = idx.Interactions("C0004", 0, "")
	require.NoError(t, err)
	assert.Empty(t, page.Interactions)
}

func TestIndex_InteractionsFilter(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	page, err := idx.Interactions("C0001", 0, "  COUMA ")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []string{"C0002"}, partnerCUIs(page))

	page, err = idx.Interactions("C0001", 0, "ginkgo")
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Interactions)
}

func TestIndex_InteractionsPaging(t *testing.T) {
	idx, _ := newTestIndex(t, nil, Options{InteractionsPerPage: 1})

	for i, want := range [][]string{{"C0002"}, {"C0003"}, {}} {
		page, err := idx.Interactions("C0001", i, "")
		require.NoError(t, err)
		assert.Equal(t, i, page.Page)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, want, partnerCUIs(page))
	}

	page, err := idx.Interactions("C0001", 184467440737095517, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Empty(t, page.Interactions)

	_, err = idx.Interactions("C0001", -1, "")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = idx.Interactions("C9999", 0, "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestIndex_Interaction(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	def, err := idx.Interaction("c0001-c0002")
	require.NoError(t, err)
	assert.Equal(t, "C0001-C0002", def.InteractionID)
	assert.Equal(t, "fish-oil-warfarin", def.Slug)
	assert.Equal(t, "Fish Oil", def.Agents[0].PreferredName)
	assert.Equal(t, 2, def.Agents[0].InteractsWithCount)
	assert.Equal(t, "Warfarin", def.Agents[1].PreferredName)

	// The clinical study ranks ahead of the newer one.
	require.Len(t, def.Evidence, 2)
	assert.Equal(t, "p1", def.Evidence[0].Paper.PID)
	assert.Equal(t, "p2", def.Evidence[1].Paper.PID)

	sentences := def.Evidence[0].Sentences
	require.Len(t, sentences, 2)
	assert.Equal(t, 1, sentences[0].UID)
	assert.Equal(t, "Fish oil may potentiate the effect of warfarin.", sentences[0].Text())
	assert.Equal(t, "Patients onwarfarin (n=12) took fish oil daily.", sentences[1].Text())

	def, err = idx.Interaction("C0003-C0001")
	require.NoError(t, err)
	assert.Equal(t, "aspirin-fish-oil", def.Slug)
	assert.Equal(t, "C0003", def.Agents[0].CUI)
}

func TestIndex_InteractionErrors(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	_, err := idx.Interaction("C0001")
	assert.ErrorIs(t, err, model.ErrMalformedInteractionID)

	// Reversed ids are distinct interactions.
	_, err = idx.Interaction("C0002-C0001")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = idx.Interaction("C0001-C0099")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestIndex_AllInteractions(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	all := idx.AllInteractions()
	require.Len(t, all, 4)
	assert.Contains(t, all, model.InteractionIDWithSlug{InteractionID: "C0002-C0005", Slug: "warfarin-vitamin-k"})
	assert.Contains(t, all, model.InteractionIDWithSlug{InteractionID: "C0001-C0099", Slug: "fish-oil-"})
	assert.Len(t, idx.AllAgents(), 5)
}

func TestIndex_SearchUnavailable(t *testing.T) {
	idx, _ := newTestIndex(t, nil, DefaultOptions())

	_, err := idx.Search(context.Background(), "warfarin", 0)
	assert.ErrorIs(t, err, model.ErrSearchUnavailable)
	_, err = idx.Suggest(context.Background(), "warf")
	assert.ErrorIs(t, err, model.ErrSearchUnavailable)
	assert.NoError(t, idx.EnsureSearchIndex(context.Background()))
}

func TestIndex_Search(t *testing.T) {
	provider := &MockProvider{Results: &search.Results{
		Hits: []search.Hit{
			{CUI: "C0003", PreferredName: "Aspirin", InteractsWithCount: 1},
			{CUI: "C0099", PreferredName: "Ghost"},
			{CUI: "C0002", PreferredName: "Warfarin", InteractsWithCount: 2},
		},
		TotalHits:  3,
		TotalPages: 1,
		Page:       0,
		PageSize:   10,
	}}
	idx, rec := newTestIndex(t, provider, DefaultOptions())
	before := len(rec.Entries("warn"))

	res, err := idx.Search(context.Background(), "warfarin", 0)
	require.NoError(t, err)

	require.Len(t, provider.Calls, 1)
	assert.Equal(t, search.Options{Page: 0, PageSize: 10}, provider.Calls[0].Opts)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "C0002", res.Results[0].CUI)
	assert.Equal(t, 2, res.Results[0].InteractsWithCount)
	assert.Equal(t, "C0003", res.Results[1].CUI)
	assert.Equal(t, model.Query{Q: "warfarin", P: 0}, res.Query)
	assert.Equal(t, 3, res.TotalResults)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 10, res.NumPerPage)

	assert.Len(t, rec.Entries("warn"), before+1)
}

func TestIndex_Suggest(t *testing.T) {
	provider := &MockProvider{Results: &search.Results{
		Hits: []search.Hit{{CUI: "C0001", PreferredName: "Fish Oil", Tradenames: []string{"Lovaza"}}},
	}}
	idx, _ := newTestIndex(t, provider, DefaultOptions())

	res, err := idx.Suggest(context.Background(), "lova")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "Fish Oil", res.Results[0].PreferredName)
	assert.Equal(t, model.Query{Q: "lova"}, res.Query)

	require.Len(t, provider.Calls, 1)
	assert.Equal(t, search.Options{
		Fields:   []string{search.FieldPreferredName, search.FieldSynonyms, search.FieldTradenames},
		PageSize: 5,
	}, provider.Calls[0].Opts)
}

func TestIndex_SearchError(t *testing.T) {
	provider := &MockProvider{Err: errors.New("connection refused")}
	idx, _ := newTestIndex(t, provider, DefaultOptions())

	_, err := idx.Search(context.Background(), "warfarin", 0)
	assert.EqualError(t, err, "connection refused")
	assert.Error(t, idx.EnsureSearchIndex(context.Background()))
}

func TestIndex_EnsureSearchIndex(t *testing.T) {
	provider := &MockProvider{}
	idx, _ := newTestIndex(t, provider, DefaultOptions())

	require.NoError(t, idx.EnsureSearchIndex(context.Background()))
	require.Len(t, provider.Indexed, 5)

	byCUI := map[string]search.Document{}
	for _, d := range provider.Indexed {
		byCUI[d.CUI] = d
	}
	assert.Equal(t, 2, byCUI["C0001"].InteractsWithCount)
	assert.Equal(t, []string{"Lovaza"}, byCUI["C0001"].Tradenames)
	assert.Equal(t, "fish-oil", byCUI["C0001"].Slug)
	assert.Equal(t, "supplement", byCUI["C0005"].EntType)
	assert.Equal(t, 1, byCUI["C0005"].InteractsWithCount)
}
