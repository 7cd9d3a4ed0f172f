package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/models"
	"catalog-assistant/internal/response"
)

type stubGateway struct{}

func (stubGateway) FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error) {
	return make([]models.GenericRecord, 3), nil
}

func (stubGateway) FindProductByName(ctx context.Context, phrase string) ([]models.Product, error) {
	return nil, nil
}

func newTestConversation(t *testing.T) *conversation.Conversation {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	log := logger.NewTestLogger(t)
	engine := conversation.NewEngine(stubGateway{}, response.NewFormatter(response.DefaultPriceFormat(), 5), observability.NewNoop(), log)
	return conversation.New(engine, log)
}

func TestRunREPL(t *testing.T) {
	conv := newTestConversation(t)
	in := strings.NewReader("how many colors are there\n\n   \nquit\nhello\n")
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), conv, in, &out))

	assert.Contains(t, out.String(), "assistant> "+conversation.Greeting)
	assert.Contains(t, out.String(), "assistant> There are 3 records in colors.")
	assert.Contains(t, out.String(), "Goodbye!")
	assert.Len(t, conv.Messages(), 3)
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	conv := newTestConversation(t)
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), conv, strings.NewReader("count the sizes"), &out))
	assert.Contains(t, out.String(), "There are 3 records in sizes.")
}

func TestRunREPL_ColoredPrompts(t *testing.T) {
	conv := newTestConversation(t)
	color.NoColor = false
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), conv, strings.NewReader("exit\n"), &out))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Goodbye!")
}
