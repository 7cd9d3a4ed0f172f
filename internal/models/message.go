// internal/models/message.go
package models

import "time"

type Message struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	IsFromUser bool      `json:"isFromUser"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
)

type SentimentResult struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}
