// Package lexicon holds the fixed keyword tables the chat engine classifies
// messages against. All entries are lower-case.
package lexicon

import "strings"

var NegativeWords = []string{"not", "no", "bad", "wrong", "error", "issue", "problem", "fail", "broken"}

var (
	PriceKeywords = []string{"price", "cost", "how much", "what is the price", "what does it cost", "costs", "pricing"}
	StockKeywords = []string{"stock", "available", "in store", "have", "got", "inventory", "can i buy"}
	ListKeywords  = []string{"list", "show", "display", "what", "tell me about", "find"}
	CountKeywords = []string{"how many", "count", "total"}
)

// StopWords are removed from a message before it is used as a product search phrase.
var StopWords = []string{
	"price", "cost", "stock", "available", "how", "much", "does", "is", "in", "store",
	"the", "a", "an", "any", "what", "have", "you", "got", "do", "can", "i", "buy", "?",
	"tell", "me", "about", "check", "pricing", "inventory", "costs",
}

// TableNames is the ordered catalog of tables the assistant recognises. Order is
// the tie-break when several names match the same message.
var TableNames = []string{
	"addresses",
	"brands",
	"categories",
	"collections",
	"colors",
	"product_types",
	"products",
	"purchase_order_items",
	"purchase_orders",
	"sequence_counters",
	"settings",
	"sizes",
	"suppliers",
	"variants",
}

var (
	stopWordSet = toSet(StopWords)
	tableSet    = toSet(TableNames)
)

// ContainsAny reports whether any term occurs as a substring of text.
func ContainsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// IsStopWord matches case-insensitively.
func IsStopWord(token string) bool {
	_, ok := stopWordSet[strings.ToLower(token)]
	return ok
}

func IsKnownTable(name string) bool {
	_, ok := tableSet[name]
	return ok
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
