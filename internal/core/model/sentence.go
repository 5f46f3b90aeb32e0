package model

import (
	"encoding/json"
	"fmt"
)

// MentionArg is a mention of an agent in a sentence. Span is a half-open
// range of code point offsets into the sentence text.
type MentionArg struct {
	CUI  string `json:"cui"`
	Span []int  `json:"span"`
}

// UnmarshalJSON reads the snapshot encoding, which names the CUI "id".
func (m *MentionArg) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   string `json:"id"`
		Span []int  `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.CUI = raw.ID
	m.Span = raw.Span
	return nil
}

// Validate checks that the mention names an agent and carries a two element,
// non-negative span.
func (m MentionArg) Validate() error {
	if m.CUI == "" {
		return fmt.Errorf("%w: mention without id", ErrValidation)
	}
	if len(m.Span) != 2 || m.Span[0] < 0 || m.Span[1] < 0 {
		return fmt.Errorf("%w: mention of %s has span %v", ErrValidation, m.CUI, m.Span)
	}
	return nil
}

func (m MentionArg) Start() int { return m.Span[0] }
func (m MentionArg) End() int   { return m.Span[1] }

// SupportingSentence is a sentence from a paper in which two interacting
// agents are both mentioned.
type SupportingSentence struct {
	UID        int        `json:"uid"`
	Confidence *float64   `json:"confidence"`
	PaperID    string     `json:"paper_id"`
	SentenceID int        `json:"sentence_id"`
	Sentence   string     `json:"sentence"`
	Arg1       MentionArg `json:"arg1"`
	Arg2       MentionArg `json:"arg2"`
}

// Span is a portion of a sentence. When CUI is set the text mentions that agent.
type Span struct {
	Text string  `json:"text"`
	CUI  *string `json:"cui,omitempty"`
}

// FormattedSentence is what gets served for a SupportingSentence: the raw
// text and mentions are replaced by spans.
type FormattedSentence struct {
	UID        int      `json:"uid"`
	Confidence *float64 `json:"confidence,omitempty"`
	PaperID    string   `json:"paper_id"`
	SentenceID int      `json:"sentence_id"`
	Spans      []Span   `json:"spans"`
}

// Text concatenates the text of every span.
func (s FormattedSentence) Text() string {
	var n int
	for _, sp := range s.Spans {
		n += len(sp.Text)
	}
	buf := make([]byte, 0, n)
	for _, sp := range s.Spans {
		buf = append(buf, sp.Text...)
	}
	return string(buf)
}
