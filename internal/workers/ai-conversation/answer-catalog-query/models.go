// internal/workers/ai-conversation/answer-catalog-query/models.go
package answercatalogquery

import "catalog-assistant/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Reply     string                 `json:"reply"`
	Intent    string                 `json:"intent"`
	Table     string                 `json:"table,omitempty"`
	Phrase    string                 `json:"phrase,omitempty"`
	Sentiment models.SentimentResult `json:"sentiment"`
}
