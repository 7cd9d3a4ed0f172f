package sentiment

import (
	"strings"

	"catalog-assistant/internal/lexicon"
	"catalog-assistant/internal/models"
)

const (
	negativeScore = 0.9
	positiveScore = 0.7

	empathyThreshold = 0.8

	EmpathyPrefix = "I understand your concern. Let me help you with that.\n\n"
)

// Classify labels text Negative when it contains any negative-lexicon term.
func Classify(text string) models.SentimentResult {
	if lexicon.ContainsAny(strings.ToLower(text), lexicon.NegativeWords) {
		return models.SentimentResult{Label: models.SentimentNegative, Score: negativeScore}
	}
	return models.SentimentResult{Label: models.SentimentPositive, Score: positiveScore}
}

func NeedsEmpathy(result models.SentimentResult) bool {
	return result.Label == models.SentimentNegative && result.Score > empathyThreshold
}

// Soften prepends the empathy prefix when the sentiment calls for it.
func Soften(reply string, result models.SentimentResult) string {
	if NeedsEmpathy(result) {
		return EmpathyPrefix + reply
	}
	return reply
}
