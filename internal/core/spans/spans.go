// Package spans turns a supporting sentence into the list of spans that's
// served to clients: the two agent mentions are tagged with their CUI, long
// sentences are shortened and punctuation bordering a mention is folded into
// the mention.
package spans

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agenthands/supp/internal/core/model"
)

const (
	// MaxWords is the most words a formatted sentence may contain. Some
	// publishers only allow displaying up to 149 words of a paper.
	MaxWords = 149

	Ellipsis = "…"
)

var (
	wordRun          = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	nonWordRun       = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	repeatedEllipsis = regexp.MustCompile(Ellipsis + `[^\p{L}\p{N}_]+` + Ellipsis)
)

// FormatSentence formats s into the shape served to clients.
func FormatSentence(s model.SupportingSentence) (model.FormattedSentence, error) {
	spans, err := Format(s.Sentence, s.Arg1, s.Arg2)
	if err != nil {
		return model.FormattedSentence{}, err
	}
	return model.FormattedSentence{
		UID:        s.UID,
		Confidence: s.Confidence,
		PaperID:    s.PaperID,
		SentenceID: s.SentenceID,
		Spans:      spans,
	}, nil
}

// Format splits sentence into spans around the two mentions. The result is
// prefix, first mention, text between, second mention and tail, minus any of
// the untagged spans that were merged into a mention.
//
// The prefix ends one character before the first mention, so that character
// is the only one missing when the spans are joined back together.
func Format(sentence string, arg1, arg2 model.MentionArg) ([]model.Span, error) {
	if err := arg1.Validate(); err != nil {
		return nil, err
	}
	if err := arg2.Validate(); err != nil {
		return nil, err
	}

	first, second := arg1, arg2
	if second.Start() < first.Start() {
		first, second = second, first
	}

	text := []rune(sentence)
	prefixEnd := 0
	if first.Start() > 0 {
		prefixEnd = first.Start() - 1
	}
	spans := []model.Span{
		{Text: slice(text, 0, prefixEnd)},
		{Text: slice(text, first.Start(), first.End()), CUI: tag(first.CUI)},
		{Text: slice(text, first.End(), second.Start())},
		{Text: slice(text, second.Start(), second.End()), CUI: tag(second.CUI)},
		{Text: slice(text, second.End(), len(text))},
	}

	if count := WordCount(sentence); count > MaxWords {
		truncate(spans, count-MaxWords)
	}

	return collapse(spans), nil
}

// WordCount counts the runs of word characters in text.
func WordCount(text string) int {
	return len(wordRun.FindAllStringIndex(text, -1))
}

// truncate replaces excess words in the untagged spans with an ellipsis. Spans
// are visited round-robin and lose at most one word per visit, which spreads
// the cuts out. It gives up once a full pass finds nothing left to remove.
func truncate(spans []model.Span, excess int) {
	for excess > 0 {
		removed := false
		for i := range spans {
			if excess == 0 {
				break
			}
			// Never remove the mentions themselves.
			if spans[i].CUI != nil {
				continue
			}
			if text, ok := elideWord(spans[i].Text); ok {
				spans[i].Text = text
				excess--
				removed = true
			}
		}
		if !removed {
			return
		}
	}
}

// elideWord replaces one word of text with an ellipsis, preferring words in
// the middle since they're furthest from the mentions.
func elideWord(text string) (string, bool) {
	tokens := tokenize(text)
	mid := len(tokens) / 2
	for k := range tokens {
		idx := (mid + k) % len(tokens)
		if !isWord(tokens[idx]) {
			continue
		}
		tokens[idx] = Ellipsis
		return repeatedEllipsis.ReplaceAllString(strings.Join(tokens, ""), Ellipsis), true
	}
	return text, false
}

// tokenize splits text into alternating word and separator tokens. The first
// and last tokens are always words, possibly empty ones.
func tokenize(text string) []string {
	var tokens []string
	prev := 0
	for _, loc := range nonWordRun.FindAllStringIndex(text, -1) {
		tokens = append(tokens, text[prev:loc[0]], text[loc[0]:loc[1]])
		prev = loc[1]
	}
	return append(tokens, text[prev:])
}

// collapse folds spans made up of nothing but punctuation into the adjacent
// mention. Left alone they wrap badly when rendered.
func collapse(spans []model.Span) []model.Span {
	prefix, first, between, second, tail := spans[0], spans[1], spans[2], spans[3], spans[4]

	out := make([]model.Span, 0, len(spans))
	if onlyPunctuation(prefix.Text) {
		first.Text = prefix.Text + first.Text
	} else {
		out = append(out, prefix)
	}

	betweenKept := true
	if onlyPunctuation(between.Text) {
		first.Text += between.Text
		betweenKept = false
	}
	out = append(out, first)
	if betweenKept {
		out = append(out, between)
	}

	if onlyPunctuation(tail.Text) {
		second.Text += tail.Text
		return append(out, second)
	}
	return append(out, second, tail)
}

func slice(text []rune, start, end int) string {
	start = min(max(start, 0), len(text))
	end = min(max(end, 0), len(text))
	if start >= end {
		return ""
	}
	return string(text[start:end])
}

func tag(cui string) *string {
	return &cui
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func isWord(token string) bool {
	return token != "" && !strings.ContainsFunc(token, func(r rune) bool { return !isWordRune(r) })
}

func onlyPunctuation(text string) bool {
	return text != "" && !strings.ContainsFunc(text, isWordRune)
}
