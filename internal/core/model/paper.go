package model

import (
	"encoding/json"
	"strings"
)

// Flag is a categorical paper attribute. The snapshot generator emits these
// as booleans or as strings, so both decode.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			*f = true
		default:
			*f = false
		}
	case float64:
		*f = t != 0
	default:
		*f = false
	}
	return nil
}

type Author struct {
	First  *string `json:"first"`
	Middle *string `json:"middle"`
	Last   *string `json:"last"`
	Suffix *string `json:"suffix"`
}

// Paper is Semantic Scholar metadata about a paper.
type Paper struct {
	PID           string   `json:"pid"`
	Title         string   `json:"title"`
	Authors       []Author `json:"authors"`
	Year          *int     `json:"year"`
	Venue         *string  `json:"venue"`
	DOI           *string  `json:"doi"`
	PMID          *int     `json:"pmid"`
	FieldsOfStudy []string `json:"fields_of_study"`
	AnimalStudy   Flag     `json:"animal_study"`
	HumanStudy    Flag     `json:"human_study"`
	Retraction    Flag     `json:"retraction"`
	ClinicalStudy Flag     `json:"clinical_study"`
}

// Evidence is a paper and its sentences that mention an interaction.
type Evidence struct {
	Paper     Paper               `json:"paper"`
	Sentences []FormattedSentence `json:"sentences"`
}
