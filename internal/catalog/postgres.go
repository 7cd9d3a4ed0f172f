package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"catalog-assistant/internal/models"
)

const (
	productsByNameQuery = `SELECT p.id, p.name, b.name, c.name
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand
		LEFT JOIN collections c ON c.id = p.collection
		WHERE p.name ILIKE $1`

	variantsByProductQuery = `SELECT v.product_id, v.id, v.size, v.color, v.sales_price, v.stock
		FROM variants v
		WHERE v.product_id = ANY($1)`
)

// PostgresStore reads catalog tables straight from the relational store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FetchTable returns every row of table, optionally narrowed to rows whose name
// or description contains searchTerm. table must already be a known catalog name.
func (s *PostgresStore) FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(table)
	var args []interface{}
	if searchTerm != "" {
		query += " WHERE name ILIKE $1 OR description ILIKE $1"
		args = append(args, containsPattern(searchTerm))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []models.GenericRecord{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(models.GenericRecord, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FindProductByName loads matching products with brand, collection and
// variants joined. No match yields an empty slice.
func (s *PostgresStore) FindProductByName(ctx context.Context, phrase string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, productsByNameQuery, containsPattern(phrase))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	index := make(map[string]int)
	for rows.Next() {
		var p models.Product
		var brand, collection sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &brand, &collection); err != nil {
			return nil, err
		}
		if brand.Valid {
			p.Brand = &models.Brand{Name: brand.String}
		}
		if collection.Valid {
			p.Collection = &models.Collection{Name: collection.String}
		}
		p.Variants = []models.Variant{}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	if err := s.attachVariants(ctx, products, index, ids); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *PostgresStore) attachVariants(ctx context.Context, products []models.Product, index map[string]int, ids []string) error {
	rows, err := s.db.QueryContext(ctx, variantsByProductQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var v models.Variant
		var size, color sql.NullString
		var price sql.NullFloat64
		var stock sql.NullInt64
		if err := rows.Scan(&productID, &v.ID, &size, &color, &price, &stock); err != nil {
			return err
		}
		v.Size, v.Color = size.String, color.String
		v.SalesPrice, v.Stock = price.Float64, int(stock.Int64)
		if v.SalesPrice < 0 || v.Stock < 0 {
			return fmt.Errorf("variant %s has negative price or stock", v.ID)
		}

		i, ok := index[productID]
		if !ok {
			continue
		}
		products[i].Variants = append(products[i].Variants, v)
	}
	return rows.Err()
}

// containsPattern turns a literal term into an ILIKE substring pattern.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
