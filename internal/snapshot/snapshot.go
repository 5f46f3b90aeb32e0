// Package snapshot loads the static data files the index is built from.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/supp/internal/core/common"
	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/logger"
)

const (
	AgentsFile         = "cui_metadata.json"
	SentencesFile      = "sentence_dict.json"
	InteractionIDsFile = "interaction_id_dict.json"
	PapersFile         = "paper_metadata.json"
)

// Snapshot is the decoded content of a data directory. Nothing in it is
// modified after Load returns.
type Snapshot struct {
	Version             string
	Agents              []model.Agent
	Sentences           map[model.InteractionID][]model.SupportingSentence
	InteractionIDs      []model.InteractionID
	InteractionIDsByCUI map[string][]model.InteractionID
	Papers              map[string]model.Paper
}

// Load reads the four snapshot files in dataDir concurrently. archive is the
// name of the data archive the directory was unpacked from; the part before
// its first "." is the snapshot version.
func Load(ctx context.Context, dataDir, archive string, log logger.Logger) (*Snapshot, error) {
	snap := &Snapshot{Version: Version(archive, dataDir)}

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		data, err := readFile(ectx, dataDir, AgentsFile)
		if err != nil {
			return err
		}
		snap.Agents, err = ParseAgents(data)
		return wrap(AgentsFile, err)
	})
	eg.Go(func() error {
		data, err := readFile(ectx, dataDir, SentencesFile)
		if err != nil {
			return err
		}
		snap.Sentences, snap.InteractionIDs, err = ParseSentences(data, log)
		return wrap(SentencesFile, err)
	})
	eg.Go(func() error {
		data, err := readFile(ectx, dataDir, InteractionIDsFile)
		if err != nil {
			return err
		}
		snap.InteractionIDsByCUI, err = ParseInteractionIDs(data, log)
		return wrap(InteractionIDsFile, err)
	})
	eg.Go(func() error {
		data, err := readFile(ectx, dataDir, PapersFile)
		if err != nil {
			return err
		}
		snap.Papers, err = ParsePapers(data)
		return wrap(PapersFile, err)
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Info("Loaded snapshot",
		"version", snap.Version,
		"agents", len(snap.Agents),
		"interactions", len(snap.InteractionIDs),
		"papers", len(snap.Papers))
	return snap, nil
}

// Version derives the snapshot version from the archive name, falling back
// to the name of the data directory.
func Version(archive, dataDir string) string {
	if archive == "" {
		return filepath.Base(dataDir)
	}
	return strings.SplitN(filepath.Base(archive), ".", 2)[0]
}

// ParseAgents decodes the agent metadata collection.
func ParseAgents(data []byte) ([]model.Agent, error) {
	entries, err := common.ParseKeyed[model.Agent](data, strings.ToUpper)
	if err != nil {
		return nil, err
	}
	agents := make([]model.Agent, len(entries))
	for i, e := range entries {
		a := e.Value
		a.CUI = e.Key
		a.Slug = model.Slug(a.PreferredName)
		if a.Synonyms == nil {
			a.Synonyms = []string{}
		}
		if a.Tradenames == nil {
			a.Tradenames = []string{}
		}
		agents[i] = a
	}
	return agents, nil
}

// ParseSentences decodes the sentences keyed by interaction id. Keys that
// aren't valid interaction ids are logged and skipped.
func ParseSentences(data []byte, log logger.Logger) (map[model.InteractionID][]model.SupportingSentence, []model.InteractionID, error) {
	entries, err := common.ParseKeyed[[]model.SupportingSentence](data, strings.ToUpper)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[model.InteractionID][]model.SupportingSentence, len(entries))
	order := make([]model.InteractionID, 0, len(entries))
	for _, e := range entries {
		id, err := model.ParseInteractionID(e.Key)
		if err != nil {
			log.Warn("Skipping sentences", "err", err)
			continue
		}
		byID[id] = e.Value
		order = append(order, id)
	}
	return byID, order, nil
}

// ParseInteractionIDs decodes the interaction ids keyed by agent CUI.
func ParseInteractionIDs(data []byte, log logger.Logger) (map[string][]model.InteractionID, error) {
	entries, err := common.ParseKeyed[[]string](data, strings.ToUpper)
	if err != nil {
		return nil, err
	}
	byCUI := make(map[string][]model.InteractionID, len(entries))
	for _, e := range entries {
		ids := make([]model.InteractionID, 0, len(e.Value))
		for _, raw := range e.Value {
			id, err := model.ParseInteractionID(raw)
			if err != nil {
				log.Warn("Skipping interaction id", "err", err, "cui", e.Key)
				continue
			}
			ids = append(ids, id)
		}
		byCUI[e.Key] = ids
	}
	return byCUI, nil
}

// ParsePapers decodes the paper metadata collection.
func ParsePapers(data []byte) (map[string]model.Paper, error) {
	entries, err := common.ParseKeyed[model.Paper](data, nil)
	if err != nil {
		return nil, err
	}
	papers := make(map[string]model.Paper, len(entries))
	for _, e := range entries {
		p := e.Value
		p.PID = e.Key
		if p.FieldsOfStudy == nil {
			p.FieldsOfStudy = []string{}
		}
		papers[e.Key] = p
	}
	return papers, nil
}

func readFile(ctx context.Context, dir, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", name, err)
}
