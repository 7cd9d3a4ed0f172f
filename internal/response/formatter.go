// Package response renders retrieval results as chat replies.
package response

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"catalog-assistant/internal/lexicon"
	"catalog-assistant/internal/models"
)

const (
	DefaultListLimit = 5

	ClarificationPrompt = "Which product would you like to know about?"
	ApologyReply        = "I'm sorry, I encountered an error while processing your request."
)

type Formatter struct {
	prices    PriceFormat
	listLimit int
}

func NewFormatter(prices PriceFormat, listLimit int) *Formatter {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Formatter{prices: prices, listLimit: listLimit}
}

func (f *Formatter) RetrievalFailure(table string) string {
	return fmt.Sprintf("Sorry, I couldn't fetch data from %s.", table)
}

func (f *Formatter) TableCount(table string, n int) string {
	return fmt.Sprintf("There are %d records in %s.", n, table)
}

// TableListing shows the first records in store order, titled by name or id
// with code, description and status appended when present.
func (f *Formatter) TableListing(table string, records []models.GenericRecord) string {
	shown := records
	if len(shown) > f.listLimit {
		shown = shown[:f.listLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are %d records from %s:\n\n", len(shown), table)
	for i, record := range shown {
		fmt.Fprintf(&b, "%d. %s", i+1, f.recordTitle(record))

		var details []string
		for _, field := range []struct{ key, label string }{
			{"code", "Code"},
			{"description", "Description"},
			{"status", "Status"},
		} {
			if v, ok := record[field.key]; ok && present(v) {
				details = append(details, field.label+": "+f.FormatValue(v))
			}
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
		}
		b.WriteString("\n")
	}

	if len(records) > len(shown) {
		fmt.Fprintf(&b, "\n...and %d more records.", len(records)-len(shown))
	}
	return b.String()
}

func (f *Formatter) recordTitle(record models.GenericRecord) string {
	if v, ok := record["name"]; ok && present(v) {
		return f.FormatValue(v)
	}
	if v, ok := record["id"]; ok && present(v) {
		return "ID: " + f.FormatValue(v)
	}
	return ""
}

func (f *Formatter) NoProductMatch(phrase string) string {
	return fmt.Sprintf("I couldn't find any products matching \"%s\". Please try using the exact product name or brand.", phrase)
}

// MultipleProducts lists the first matches and asks the user to narrow down.
func (f *Formatter) MultipleProducts(phrase string, products []models.Product) string {
	shown := products
	if len(shown) > f.listLimit {
		shown = shown[:f.listLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d products matching \"%s\":\n\n", len(products), phrase)
	for i, p := range shown {
		fmt.Fprintf(&b, "%d. %s %s (%s)\n", i+1, brandName(p), p.Name, collectionName(p))
	}
	if len(products) > len(shown) {
		fmt.Fprintf(&b, "\n...and %d more products.", len(products)-len(shown))
	}
	b.WriteString("\n\nCould you be more specific?")
	return b.String()
}

// ProductPrice reports a single price or the min/max range over variants.
func (f *Formatter) ProductPrice(p models.Product) string {
	name := FullName(p)
	if len(p.Variants) == 0 {
		return name + " has no variants with a price yet."
	}

	minPrice, maxPrice := p.Variants[0].SalesPrice, p.Variants[0].SalesPrice
	for _, v := range p.Variants[1:] {
		minPrice = math.Min(minPrice, v.SalesPrice)
		maxPrice = math.Max(maxPrice, v.SalesPrice)
	}

	if minPrice == maxPrice {
		return fmt.Sprintf("%s costs %s.", name, f.prices.Format(minPrice))
	}
	return fmt.Sprintf("%s costs between %s and %s depending on the size and color variant.",
		name, f.prices.Format(minPrice), f.prices.Format(maxPrice))
}

// ProductStock sums stock over all variants and lists only those in stock.
func (f *Formatter) ProductStock(p models.Product) string {
	name := FullName(p)

	total := 0
	var lines []string
	for _, v := range p.Variants {
		total += v.Stock
		if v.Stock > 0 {
			lines = append(lines, fmt.Sprintf("%s/%s: %d units", v.Size, v.Color, v.Stock))
		}
	}

	if total == 0 {
		return name + " is currently out of stock."
	}
	return fmt.Sprintf("%s is available in %d variants with a total of %d units in stock.\n\nAvailable variants:\n%s",
		name, len(lines), total, strings.Join(lines, "\n"))
}

// Help is the capability message listing supported phrasings and tables.
func (f *Formatter) Help() string {
	return `I can help you with:

1. Product information:
   - Prices: "How much does [product] cost?"
   - Stock: "Is [product] in stock?"

2. Data queries:
   - Lists: "Show me the suppliers"
   - Counts: "How many products do we have?"
   - Details: "Tell me about [table name]"

Available tables: ` + strings.Join(lexicon.TableNames, ", ")
}

// FullName is "<brand> <name> (<collection>)" with absent references empty.
func FullName(p models.Product) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", brandName(p), p.Name, collectionName(p)))
}

func brandName(p models.Product) string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

func collectionName(p models.Product) string {
	if p.Collection == nil {
		return ""
	}
	return p.Collection.Name
}

// FormatValue renders one generic column value for display.
func (f *Formatter) FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case float64:
		if val != math.Trunc(val) {
			return f.prices.Format(val)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return f.FormatValue(float64(val))
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02")
	case fmt.Stringer:
		return val.String()
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// present mirrors the truthiness the listing uses to decide whether a field
// is worth showing.
func present(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	}
	return true
}
