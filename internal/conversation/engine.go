// Package conversation runs the per-message pipeline and keeps the ordered
// message log of one chat session.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "catalog-assistant/internal/common/errors"
	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/metrics"
	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/intent"
	"catalog-assistant/internal/models"
	"catalog-assistant/internal/response"
	"catalog-assistant/internal/sentiment"
)

// Gateway is the retrieval surface the engine needs.
type Gateway interface {
	FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error)
	FindProductByName(ctx context.Context, phrase string) ([]models.Product, error)
}

// Answer is the outcome of one round.
type Answer struct {
	Reply     string                 `json:"reply"`
	Intent    models.IntentCategory  `json:"intent"`
	Table     string                 `json:"table,omitempty"`
	Phrase    string                 `json:"phrase,omitempty"`
	Sentiment models.SentimentResult `json:"sentiment"`
}

type Engine struct {
	classifier *intent.Classifier
	gateway    Gateway
	formatter  *response.Formatter
	obs        *observability.Observability
	logger     logger.Logger
}

func NewEngine(gateway Gateway, formatter *response.Formatter, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		classifier: intent.NewClassifier(),
		gateway:    gateway,
		formatter:  formatter,
		obs:        obs,
		logger:     log.With(map[string]interface{}{"component": "conversation-engine"}),
	}
}

// Answer classifies text, retrieves what it asks for and renders the reply.
// Retrieval failures become reply text; an error is returned only for empty
// input or an unexpected fault, including a recovered panic.
func (e *Engine) Answer(ctx context.Context, text string) (answer *Answer, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewEmptyMessageError()
	}

	start := time.Now()
	ctx, span := e.obs.Tracer().Start(ctx, "conversation.answer")
	defer span.End()

	metrics.ChatRoundsActive.Inc()
	defer metrics.ChatRoundsActive.Dec()

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError(fmt.Sprintf("panic: %v", r))
			answer = nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.logger.WithError(err).Error("round failed", map[string]interface{}{
				"errorCode": apperrors.CodeOf(err),
			})
		}
	}()

	mood := sentiment.Classify(text)
	analysis := e.classifier.Classify(text)
	answer = &Answer{Intent: analysis.Category(), Table: analysis.Table, Sentiment: mood}

	answer.Reply = e.resolve(ctx, text, analysis, answer)
	answer.Reply = sentiment.Soften(answer.Reply, mood)

	label := analysis.MetricLabel()
	elapsed := time.Since(start)
	metrics.ChatMessagesTotal.WithLabelValues(label).Inc()
	metrics.ChatRoundDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	e.obs.RecordRound(ctx, label, elapsed)

	span.SetAttributes(
		attribute.String("chat.intent", string(answer.Intent)),
		attribute.String("chat.table", answer.Table),
		attribute.String("chat.sentiment", string(mood.Label)),
	)
	e.logger.Info("round answered", map[string]interface{}{
		"intent":    answer.Intent,
		"table":     answer.Table,
		"phrase":    answer.Phrase,
		"sentiment": mood.Label,
		"duration":  elapsed.Milliseconds(),
	})
	return answer, nil
}

func (e *Engine) resolve(ctx context.Context, text string, analysis intent.Analysis, answer *Answer) string {
	switch analysis.Category() {
	case models.IntentCount:
		records, err := e.gateway.FetchTable(ctx, analysis.Table, "")
		if err != nil {
			return e.formatter.RetrievalFailure(analysis.Table)
		}
		return e.formatter.TableCount(analysis.Table, len(records))

	case models.IntentList:
		records, err := e.gateway.FetchTable(ctx, analysis.Table, "")
		if err != nil {
			return e.formatter.RetrievalFailure(analysis.Table)
		}
		return e.formatter.TableListing(analysis.Table, records)

	case models.IntentUnrecognized:
		return e.formatter.Help()
	}

	phrase := intent.ExtractEntityName(text)
	answer.Phrase = phrase
	if phrase == "" {
		return response.ClarificationPrompt
	}

	products, err := e.gateway.FindProductByName(ctx, phrase)
	if err != nil || len(products) == 0 {
		return e.formatter.NoProductMatch(phrase)
	}
	if len(products) > 1 {
		return e.formatter.MultipleProducts(phrase, products)
	}

	if analysis.Price {
		return e.formatter.ProductPrice(products[0])
	}
	return e.formatter.ProductStock(products[0])
}
