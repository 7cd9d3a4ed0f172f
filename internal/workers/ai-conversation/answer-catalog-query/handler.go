package answercatalogquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "catalog-assistant/internal/common/errors"
	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/metrics"
	"catalog-assistant/internal/common/validation"
	"catalog-assistant/internal/conversation"
)

const (
	TaskType = "answer-catalog-query"
)

var (
	ErrEmptyQuery   = errors.New("EMPTY_QUERY")
	ErrInvalidInput = errors.New("INVALID_INPUT")
	ErrAnswerFailed = errors.New("ANSWER_FAILED")
)

// Answerer runs one stateless chat round.
type Answerer interface {
	Answer(ctx context.Context, text string) (*conversation.Answer, error)
}

type Handler struct {
	config    *Config
	engine    Answerer
	validator *validation.Validator
	logger    logger.Logger
}

func NewHandler(config *Config, engine Answerer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		engine:    engine,
		validator: validation.MustValidator(validation.AnswerQuerySchema),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.decodeInput(job.Variables)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute answers the question in a single stateless round.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Question) == "" {
		return nil, apperrors.NewEmptyQueryError(ErrEmptyQuery)
	}

	answer, err := h.engine.Answer(ctx, input.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerFailed, err)
	}

	h.logger.Info("question answered", map[string]interface{}{
		"intent": answer.Intent,
		"table":  answer.Table,
	})

	return &Output{
		Reply:     answer.Reply,
		Intent:    string(answer.Intent),
		Table:     answer.Table,
		Phrase:    answer.Phrase,
		Sentiment: answer.Sentiment,
	}, nil
}

func (h *Handler) decodeInput(variables string) (*Input, error) {
	result, err := h.validator.ValidateJSON([]byte(variables))
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error(), ErrInvalidInput)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Summary(), ErrInvalidInput)
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error(), ErrInvalidInput)
	}
	return &input, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// failJob throws a BPMN error for input problems so the process can route
// them, and fails the job without retries otherwise.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	errorCode := errorCodeOf(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
		"category":  apperrors.GetErrorCategory(apperrors.CodeOf(err)),
	})

	if errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidInput) {
		_, sendErr := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(errorCode).
			ErrorMessage(err.Error()).
			Send(context.Background())
		if sendErr != nil {
			h.logger.Error("failed to throw error", map[string]interface{}{
				"jobKey": job.Key,
				"error":  sendErr.Error(),
			})
		}
		return
	}

	_, sendErr := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(0).
		ErrorMessage(errorCode + ": " + err.Error()).
		Send(context.Background())
	if sendErr != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
	}
}

func errorCodeOf(err error) string {
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return "EMPTY_QUERY"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrAnswerFailed):
		return "ANSWER_FAILED"
	default:
		return "UNKNOWN_ERROR"
	}
}
