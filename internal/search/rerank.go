package search

import "strings"

// Rerank moves hits whose name matches query exactly to the front, followed
// by hits for agents with known interactions, then everything else. Each
// group keeps the provider's order.
func Rerank(query string, hits []Hit) []Hit {
	q := strings.TrimSpace(query)

	var exact, interacting, rest []Hit
	for _, h := range hits {
		switch {
		case matchesExactly(q, h):
			exact = append(exact, h)
		case h.InteractsWithCount > 0:
			interacting = append(interacting, h)
		default:
			rest = append(rest, h)
		}
	}

	out := make([]Hit, 0, len(hits))
	out = append(out, exact...)
	out = append(out, interacting...)
	return append(out, rest...)
}

func matchesExactly(query string, h Hit) bool {
	if strings.EqualFold(query, h.PreferredName) {
		return true
	}
	for _, names := range [][]string{h.Synonyms, h.Tradenames} {
		for _, n := range names {
			if strings.EqualFold(query, n) {
				return true
			}
		}
	}
	return false
}
