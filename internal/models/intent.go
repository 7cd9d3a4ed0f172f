// internal/models/intent.go
package models

type IntentCategory string

const (
	IntentPrice        IntentCategory = "price"
	IntentStock        IntentCategory = "stock"
	IntentList         IntentCategory = "list"
	IntentCount        IntentCategory = "count"
	IntentTableLookup  IntentCategory = "table_lookup"
	IntentUnrecognized IntentCategory = "unrecognized"
)
