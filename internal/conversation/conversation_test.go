package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	apperrors "catalog-assistant/internal/common/errors"
	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/models"
	"catalog-assistant/internal/response"
)

type fakeGateway struct {
	mu          sync.Mutex
	tables      map[string][]models.GenericRecord
	products    []models.Product
	tableErr    error
	productErr  error
	panicOnFind bool
	calls       []string
}

func (g *fakeGateway) FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "table:"+table)
	if g.tableErr != nil {
		return nil, g.tableErr
	}
	return g.tables[table], nil
}

func (g *fakeGateway) FindProductByName(ctx context.Context, phrase string) ([]models.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "product:"+phrase)
	if g.panicOnFind {
		panic("nil variant list")
	}
	return g.products, g.productErr
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func newTestEngine(t *testing.T, gw Gateway) *Engine {
	prices := response.PriceFormat{Locale: language.English, Currency: currency.USD}
	return NewEngine(gw, response.NewFormatter(prices, 5), observability.NewNoop(), logger.NewTestLogger(t))
}

func osloJacket(variants ...models.Variant) models.Product {
	return models.Product{
		ID:         "p1",
		Name:       "Oslo Jacket",
		Brand:      &models.Brand{Name: "Nordic"},
		Collection: &models.Collection{Name: "Winter"},
		Variants:   variants,
	}
}

func suppliers(n int) []models.GenericRecord {
	records := make([]models.GenericRecord, n)
	for i := range records {
		records[i] = models.GenericRecord{"id": fmt.Sprintf("s%d", i+1), "name": fmt.Sprintf("Supplier %d", i+1)}
	}
	return records
}

func TestConversation_StartsWithGreeting(t *testing.T) {
	c := New(newTestEngine(t, &fakeGateway{}), logger.NewNoOpLogger())

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, msgs[0].IsFromUser)
	assert.NotEmpty(t, c.ID())
	assert.False(t, c.IsProcessing())
}

func TestConversation_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		gateway  *fakeGateway
		expected string
		check    func(t *testing.T, reply string)
	}{
		{
			name:  "price range",
			input: "how much does the Oslo jacket cost",
			gateway: &fakeGateway{products: []models.Product{
				osloJacket(models.Variant{SalesPrice: 499}, models.Variant{SalesPrice: 599}),
			}},
			expected: "Nordic Oslo Jacket (Winter) costs between 499.00 and 599.00 depending on the size and color variant.",
		},
		{
			name:     "table count",
			input:    "how many suppliers do we have",
			gateway:  &fakeGateway{tables: map[string][]models.GenericRecord{"suppliers": suppliers(12)}},
			expected: "There are 12 records in suppliers.",
		},
		{
			name:  "stock breakdown",
			input: "is the Oslo jacket in stock",
			gateway: &fakeGateway{products: []models.Product{osloJacket(
				models.Variant{Size: "S", Color: "Black", Stock: 0},
				models.Variant{Size: "M", Color: "Black", Stock: 5},
				models.Variant{Size: "L", Color: "Navy", Stock: 3},
			)}},
			expected: "Nordic Oslo Jacket (Winter) is available in 2 variants with a total of 8 units in stock.\n\n" +
				"Available variants:\nM/Black: 5 units\nL/Navy: 3 units",
		},
		{
			name:    "help for greeting",
			input:   "hello",
			gateway: &fakeGateway{},
			check: func(t *testing.T, reply string) {
				assert.True(t, strings.HasPrefix(reply, "I can help you with:"))
				for _, table := range []string{"addresses", "product_types", "purchase_order_items", "sequence_counters", "variants"} {
					assert.Contains(t, reply, table)
				}
			},
		},
		{
			name:     "table listing",
			input:    "show me the suppliers",
			gateway:  &fakeGateway{tables: map[string][]models.GenericRecord{"suppliers": suppliers(7)}},
			expected: "Here are 5 records from suppliers:\n\n1. Supplier 1\n2. Supplier 2\n3. Supplier 3\n4. Supplier 4\n5. Supplier 5\n\n...and 2 more records.",
		},
		{
			name:     "table failure",
			input:    "count the brands",
			gateway:  &fakeGateway{tableErr: errors.New("RETRIEVAL_FAILED")},
			expected: "Sorry, I couldn't fetch data from brands.",
		},
		{
			name:     "nothing left after stop words",
			input:    "what is the price ?",
			gateway:  &fakeGateway{},
			expected: "Which product would you like to know about?",
		},
		{
			name:     "no product",
			input:    "price of bergen boots",
			gateway:  &fakeGateway{products: []models.Product{}},
			expected: `I couldn't find any products matching "of bergen boots". Please try using the exact product name or brand.`,
		},
		{
			name:     "product retrieval failure",
			input:    "price of bergen boots",
			gateway:  &fakeGateway{productErr: errors.New("RETRIEVAL_FAILED")},
			expected: `I couldn't find any products matching "of bergen boots". Please try using the exact product name or brand.`,
		},
		{
			name:    "ambiguous product",
			input:   "price of oslo",
			gateway: &fakeGateway{products: []models.Product{osloJacket(), {Name: "Oslo Vest"}}},
			check: func(t *testing.T, reply string) {
				assert.True(t, strings.HasPrefix(reply, "I found 2 products matching \"of oslo\":"))
				assert.True(t, strings.HasSuffix(reply, "Could you be more specific?"))
			},
		},
		{
			name:  "negative sentiment softens reply",
			input: "the Oslo jacket price is wrong",
			gateway: &fakeGateway{products: []models.Product{
				osloJacket(models.Variant{SalesPrice: 499}),
			}},
			expected: "I understand your concern. Let me help you with that.\n\nNordic Oslo Jacket (Winter) costs 499.00.",
		},
		{
			name:     "unexpected fault",
			input:    "price of oslo jacket",
			gateway:  &fakeGateway{panicOnFind: true},
			expected: "I'm sorry, I encountered an error while processing your request.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(newTestEngine(t, tt.gateway), logger.NewTestLogger(t))

			reply, err := c.Submit(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, reply)
			assert.False(t, reply.IsFromUser)

			if tt.check != nil {
				tt.check(t, reply.Text)
			} else {
				assert.Equal(t, tt.expected, reply.Text)
			}

			msgs := c.Messages()
			require.Len(t, msgs, 3)
			assert.Equal(t, tt.input, msgs[1].Text)
			assert.True(t, msgs[1].IsFromUser)
			assert.Equal(t, reply.Text, msgs[2].Text)
			assert.False(t, c.IsProcessing())
		})
	}
}

func TestConversation_RejectsBlankInput(t *testing.T) {
	gw := &fakeGateway{}
	c := New(newTestEngine(t, gw), logger.NewNoOpLogger())

	for _, input := range []string{"", "   ", "\n\t"} {
		reply, err := c.Submit(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, reply)
	}

	assert.Len(t, c.Messages(), 1)
	assert.Zero(t, gw.callCount())
}

func TestConversation_SerializesRounds(t *testing.T) {
	gw := &fakeGateway{tables: map[string][]models.GenericRecord{"suppliers": suppliers(3)}}
	c := New(newTestEngine(t, gw), logger.NewNoOpLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Submit(context.Background(), fmt.Sprintf("how many suppliers #%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	msgs := c.Messages()
	require.Len(t, msgs, 21)
	for i := 1; i < len(msgs); i += 2 {
		assert.True(t, msgs[i].IsFromUser)
		assert.False(t, msgs[i+1].IsFromUser)
		assert.Equal(t, "There are 3 records in suppliers.", msgs[i+1].Text)
	}
}

func TestConversation_CancelledWhileQueued(t *testing.T) {
	gw := &fakeGateway{tables: map[string][]models.GenericRecord{"suppliers": suppliers(3)}}
	c := New(newTestEngine(t, gw), logger.NewNoOpLogger())

	// Hold the round as an in-flight submit would.
	c.round.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, "how many suppliers")
		done <- err
	}()
	cancel()
	c.round.Unlock()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Len(t, c.Messages(), 1)
	assert.Zero(t, gw.callCount())
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	c := New(newTestEngine(t, &fakeGateway{}), logger.NewNoOpLogger())

	msgs := c.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, Greeting, c.Messages()[0].Text)
}

func TestEngine_Answer(t *testing.T) {
	gw := &fakeGateway{tables: map[string][]models.GenericRecord{"suppliers": suppliers(2)}}
	e := newTestEngine(t, gw)

	answer, err := e.Answer(context.Background(), "how many suppliers do we have")
	require.NoError(t, err)
	assert.Equal(t, models.IntentCount, answer.Intent)
	assert.Equal(t, "suppliers", answer.Table)
	assert.Equal(t, models.SentimentPositive, answer.Sentiment.Label)

	_, err = e.Answer(context.Background(), "  ")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmptyMessage))
}

func TestEngine_Answer_RecoversPanic(t *testing.T) {
	e := newTestEngine(t, &fakeGateway{panicOnFind: true})

	answer, err := e.Answer(context.Background(), "price of oslo jacket")
	assert.Nil(t, answer)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
}
