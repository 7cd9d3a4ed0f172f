package intent

import (
	"strings"

	"catalog-assistant/internal/lexicon"
	"catalog-assistant/internal/models"
)

// Analysis is the independent keyword membership of one message plus the first
// catalog table it mentions.
type Analysis struct {
	Price bool
	Stock bool
	List  bool
	Count bool
	Table string
}

type Classifier struct {
	tables []string
}

func NewClassifier() *Classifier {
	return &Classifier{tables: lexicon.TableNames}
}

func (c *Classifier) Classify(text string) Analysis {
	lower := strings.ToLower(text)
	return Analysis{
		Price: lexicon.ContainsAny(lower, lexicon.PriceKeywords),
		Stock: lexicon.ContainsAny(lower, lexicon.StockKeywords),
		List:  lexicon.ContainsAny(lower, lexicon.ListKeywords),
		Count: lexicon.ContainsAny(lower, lexicon.CountKeywords),
		Table: c.matchTable(lower),
	}
}

// matchTable returns the first table, in catalog order, whose plural or
// singular (last character dropped) form occurs in text.
func (c *Classifier) matchTable(lower string) string {
	for _, table := range c.tables {
		if strings.Contains(lower, table) || strings.Contains(lower, table[:len(table)-1]) {
			return table
		}
	}
	return ""
}

// Category resolves the overlapping keyword matches into the single reply path.
func (a Analysis) Category() models.IntentCategory {
	switch {
	case a.Table != "" && a.Count:
		return models.IntentCount
	case a.Table != "" && a.List:
		return models.IntentList
	case !a.Price && !a.Stock:
		return models.IntentUnrecognized
	case a.Price:
		return models.IntentPrice
	default:
		return models.IntentStock
	}
}

// TableLookup reports whether the reply is answered from a generic table.
func (a Analysis) TableLookup() bool {
	c := a.Category()
	return c == models.IntentCount || c == models.IntentList
}

// MetricLabel collapses table answers into the table_lookup category.
func (a Analysis) MetricLabel() string {
	if a.TableLookup() {
		return string(models.IntentTableLookup)
	}
	return string(a.Category())
}
