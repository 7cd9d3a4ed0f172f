package intent

import (
	"strings"

	"catalog-assistant/internal/lexicon"
)

// ExtractEntityName strips stop words from text and returns the remaining
// phrase, or "" when nothing is left.
func ExtractEntityName(text string) string {
	tokens := strings.Fields(text)
	kept := tokens[:0:0]
	for _, tok := range tokens {
		if !lexicon.IsStopWord(tok) {
			kept = append(kept, tok)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
