package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/validation"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/models"
)

type SubmitMessageRequest struct {
	Text string `json:"text"`
}

type SessionResponse struct {
	SessionID  string           `json:"sessionId"`
	Processing bool             `json:"processing"`
	Messages   []models.Message `json:"messages"`
}

type SubmitMessageResponse struct {
	Reply    models.Message   `json:"reply"`
	Messages []models.Message `json:"messages"`
}

type Handler struct {
	sessions  *Sessions
	validator *validation.Validator
	logger    logger.Logger
}

func NewHandler(sessions *Sessions, log logger.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		validator: validation.MustValidator(validation.ChatMessageSchema),
		logger:    log.With(map[string]interface{}{"component": "chat-api"}),
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	conv := h.sessions.Create()
	h.logger.Info("session created", map[string]interface{}{"sessionId": conv.ID()})

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: conv.ID(),
		Messages:  conv.Messages(),
	})
}

func (h *Handler) GetMessages(c *gin.Context) {
	conv, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID:  conv.ID(),
		Processing: conv.IsProcessing(),
		Messages:   conv.Messages(),
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.logger.Info("session deleted", map[string]interface{}{"sessionId": id})
	c.Status(http.StatusNoContent)
}

func (h *Handler) SubmitMessage(c *gin.Context) {
	conv, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	result, err := h.validator.ValidateJSON(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Summary(), "details": result.Errors})
		return
	}

	var req SubmitMessageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := conv.Submit(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
			return
		}
		h.logger.WithError(err).Error("submit failed", map[string]interface{}{"sessionId": conv.ID()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Debug("message answered", map[string]interface{}{
		"sessionId": conv.ID(),
		"length":    len(strings.TrimSpace(req.Text)),
	})
	c.JSON(http.StatusOK, SubmitMessageResponse{
		Reply:    *reply,
		Messages: conv.Messages(),
	})
}
