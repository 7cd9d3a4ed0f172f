package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/models"
	"catalog-assistant/internal/response"
)

var ErrEmptyMessage = errors.New("EMPTY_MESSAGE")

const Greeting = "Hello! I'm your assistant. I can help you with information about products, suppliers, orders, and more. How can I help you today?"

// Conversation is one chat session. Rounds are serialized: a Submit waits for
// the round in flight before appending anything, so the log always alternates
// user message and reply in submission order.
type Conversation struct {
	id     string
	engine *Engine
	logger logger.Logger

	round      sync.Mutex
	processing atomic.Bool

	mu       sync.RWMutex
	messages []models.Message
}

// New starts a session whose log holds the assistant greeting.
func New(engine *Engine, log logger.Logger) *Conversation {
	c := &Conversation{
		id:     uuid.NewString(),
		engine: engine,
	}
	c.logger = log.With(map[string]interface{}{"conversationId": c.id})
	c.append(Greeting, false)
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

// Submit appends text and the assistant reply to the log and returns the
// reply. Blank text is rejected with ErrEmptyMessage and changes nothing. A
// ctx cancelled while waiting for an earlier round returns ctx.Err() and
// changes nothing either.
func (c *Conversation) Submit(ctx context.Context, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	c.round.Lock()
	defer c.round.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.append(text, true)
	c.processing.Store(true)
	defer c.processing.Store(false)

	reply := c.answer(ctx, text)
	msg := c.append(reply, false)
	return &msg, nil
}

func (c *Conversation) answer(ctx context.Context, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("round panicked", map[string]interface{}{"panic": r})
			reply = response.ApologyReply
		}
	}()

	answer, err := c.engine.Answer(ctx, text)
	if err != nil {
		c.logger.WithError(err).Warn("replying with apology", nil)
		return response.ApologyReply
	}
	return answer.Reply
}

// Messages returns a copy of the log in insertion order.
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// IsProcessing reports whether a round is in flight.
func (c *Conversation) IsProcessing() bool {
	return c.processing.Load()
}

func (c *Conversation) append(text string, fromUser bool) models.Message {
	msg := models.Message{
		ID:         uuid.NewString(),
		Text:       text,
		IsFromUser: fromUser,
		CreatedAt:  time.Now().UTC(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg
}
