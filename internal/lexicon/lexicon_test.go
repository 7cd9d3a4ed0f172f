package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("how much does it cost", PriceKeywords))
	assert.True(t, ContainsAny("is it in stock", StockKeywords))
	assert.False(t, ContainsAny("hello", CountKeywords))
	assert.False(t, ContainsAny("anything", nil))
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("The"))
	assert.True(t, IsStopWord("?"))
	assert.True(t, IsStopWord("PRICING"))
	assert.False(t, IsStopWord("jacket"))
}

func TestTableNames(t *testing.T) {
	assert.Len(t, TableNames, 14)
	assert.Equal(t, "addresses", TableNames[0])
	assert.Equal(t, "variants", TableNames[len(TableNames)-1])
	assert.True(t, IsKnownTable("purchase_orders"))
	assert.False(t, IsKnownTable("users"))
}
