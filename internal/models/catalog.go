// internal/models/catalog.go
package models

// Brand and Collection are joined onto a product by reference; a nil pointer
// means the product has none.
type Brand struct {
	Name string `json:"name"`
}

type Collection struct {
	Name string `json:"name"`
}

type Variant struct {
	ID         string  `json:"id"`
	Size       string  `json:"size"`
	Color      string  `json:"color"`
	SalesPrice float64 `json:"sales_price"`
	Stock      int     `json:"stock"`
}

type Product struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Brand      *Brand      `json:"brand,omitempty"`
	Collection *Collection `json:"collection,omitempty"`
	Variants   []Variant   `json:"variants"`
}

// GenericRecord is one row of an arbitrary catalog table keyed by column name.
type GenericRecord map[string]interface{}
